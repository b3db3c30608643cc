//go:build linux

package transport

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Register offsets and status bits for the Avalon-style UART core the
// original firmware polled directly.
const (
	uartRegRxData  = 0x00
	uartRegTxData  = 0x04
	uartRegStatus  = 0x08
	uartRegControl = 0x0C
	uartRegDivisor = 0x10

	uartStatusRRDY = 0x80 // receive data ready
	uartStatusTRDY = 0x40 // transmit holding register empty
)

// MMIOTransport polls an Avalon-style UART peripheral directly through a
// memory-mapped register window, the closest Go equivalent to the
// original firmware's volatile-pointer register access.
type MMIOTransport struct {
	mem []byte
}

// OpenMMIO maps the UART's register window at base (already OR'd with
// any cache-bypass bit) and programs the baud-rate divisor.
func OpenMMIO(base uint32, clockHz, baud uint32) (*MMIOTransport, error) {
	f, err := os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("transport: open /dev/mem: %w", err)
	}
	defer f.Close()

	const span = 0x20
	pageSize := uint32(os.Getpagesize())
	pageBase := base &^ (pageSize - 1)
	pageOffset := base - pageBase
	mapLen := pageOffset + span

	mem, err := unix.Mmap(int(f.Fd()), int64(pageBase), int(mapLen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("transport: mmap uart window: %w", err)
	}

	t := &MMIOTransport{mem: mem[pageOffset : pageOffset+span]}
	divisor := clockHz/baud - 1
	t.write32(uartRegDivisor, divisor)
	t.DrainRx()
	return t, nil
}

func (t *MMIOTransport) read32(offset uint32) uint32 {
	word := (*uint32)(unsafe.Pointer(&t.mem[offset]))
	return atomic.LoadUint32(word)
}

func (t *MMIOTransport) write32(offset uint32, value uint32) {
	word := (*uint32)(unsafe.Pointer(&t.mem[offset]))
	atomic.StoreUint32(word, value)
}

func (t *MMIOTransport) ReadByte() (byte, error) {
	for t.read32(uartRegStatus)&uartStatusRRDY == 0 {
	}
	return byte(t.read32(uartRegRxData)), nil
}

func (t *MMIOTransport) WriteByte(b byte) error {
	for t.read32(uartRegStatus)&uartStatusTRDY == 0 {
	}
	t.write32(uartRegTxData, uint32(b))
	return nil
}

func (t *MMIOTransport) WriteString(s string) error {
	return WriteStringDefault(t, s)
}

func (t *MMIOTransport) ReadFull(buf []byte) error {
	return ReadFullDefault(t, buf)
}

// DrainRx discards whatever is sitting in the receive holding register,
// the same stale-byte clear the original boot sequence performs before
// entering the command loop.
func (t *MMIOTransport) DrainRx() {
	for t.read32(uartRegStatus)&uartStatusRRDY != 0 {
		t.read32(uartRegRxData)
	}
}

func (t *MMIOTransport) Close() error {
	return unix.Munmap(t.mem)
}
