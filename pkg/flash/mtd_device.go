//go:build linux

package flash

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// memEraseInfo mirrors Linux's struct erase_info_user from mtd-abi.h.
type memEraseInfo struct {
	Start  uint32
	Length uint32
}

const memEraseIoctl = 0x40084d02 // MEMERASE, computed the same way mtd-abi.h does

// MTDDevice talks to a Linux MTD character device (/dev/mtdN) backing a
// kernel-managed SPI-NOR chip.
type MTDDevice struct {
	file *os.File
	size int64
}

// OpenMTDDevice opens an MTD character device node for read/write.
func OpenMTDDevice(path string, size int64) (*MTDDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("flash: open mtd device: %w", err)
	}
	return &MTDDevice{file: f, size: size}, nil
}

func (d *MTDDevice) Size() int64 {
	return d.size
}

func (d *MTDDevice) ReadAt(dst []byte, addr int64) error {
	if d.file == nil {
		return ErrClosed
	}
	if addr < 0 || addr+int64(len(dst)) > d.size {
		return ErrOutOfRange
	}
	n, err := unix.Pread(int(d.file.Fd()), dst, addr)
	if err != nil {
		return fmt.Errorf("flash: mtd pread: %w", err)
	}
	if n != len(dst) {
		return fmt.Errorf("flash: mtd pread short read: got %d want %d", n, len(dst))
	}
	return nil
}

func (d *MTDDevice) EraseSector(base int64) error {
	if d.file == nil {
		return ErrClosed
	}
	if base < 0 || base%SectorBytes != 0 || base+SectorBytes > d.size {
		return ErrOutOfRange
	}
	info := memEraseInfo{Start: uint32(base), Length: SectorBytes}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.file.Fd(), memEraseIoctl, uintptr(unsafe.Pointer(&info)))
	if errno != 0 {
		return fmt.Errorf("flash: mtd erase ioctl: %w", errno)
	}
	return nil
}

func (d *MTDDevice) ProgramBlock(addr int64, src []byte) error {
	if d.file == nil {
		return ErrClosed
	}
	if addr < 0 || addr+int64(len(src)) > d.size {
		return ErrOutOfRange
	}
	n, err := unix.Pwrite(int(d.file.Fd()), src, addr)
	if err != nil {
		return fmt.Errorf("flash: mtd pwrite: %w", err)
	}
	if n != len(src) {
		return fmt.Errorf("flash: mtd pwrite short write: got %d want %d", n, len(src))
	}
	return nil
}

func (d *MTDDevice) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}
