//go:build linux

package register

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// MMapAccessor maps a window of /dev/mem at base (already OR'd with any
// cache-bypass bit the platform requires) and reads/writes through it.
type MMapAccessor struct {
	mem  []byte
	base uint32
}

// NewMMapAccessor opens /dev/mem and maps span bytes starting at base.
// base must already include any bypass-cache bit; the caller composes
// that the same way the original firmware OR's in its bypass mask.
func NewMMapAccessor(base uint32, span uint32) (*MMapAccessor, error) {
	f, err := os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("register: open /dev/mem: %w", err)
	}
	defer f.Close()

	pageSize := uint32(os.Getpagesize())
	pageBase := base &^ (pageSize - 1)
	pageOffset := base - pageBase
	mapLen := pageOffset + span

	mem, err := unix.Mmap(int(f.Fd()), int64(pageBase), int(mapLen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("register: mmap: %w", err)
	}

	return &MMapAccessor{mem: mem[pageOffset : pageOffset+span], base: base}, nil
}

func (a *MMapAccessor) Read32(offset uint32) (uint32, error) {
	if int(offset)+4 > len(a.mem) {
		return 0, fmt.Errorf("register: mmap read out of mapped window")
	}
	word := (*uint32)(unsafe.Pointer(&a.mem[offset]))
	return atomic.LoadUint32(word), nil
}

func (a *MMapAccessor) Write32(offset uint32, value uint32) error {
	if int(offset)+4 > len(a.mem) {
		return fmt.Errorf("register: mmap write out of mapped window")
	}
	word := (*uint32)(unsafe.Pointer(&a.mem[offset]))
	atomic.StoreUint32(word, value)
	return nil
}

// Close unmaps the register window.
func (a *MMapAccessor) Close() error {
	return unix.Munmap(a.mem)
}
