package flash

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"
)

// JEDEC command bytes for a standard SPI NOR flash, the same set the
// EPCS-compatible device speaks.
const (
	spiCmdReadID        = 0x9F
	spiCmdRead          = 0x03
	spiCmdWriteEnable   = 0x06
	spiCmdPageProgram   = 0x02
	spiCmdEraseSector   = 0xD8
	spiCmdReadStatus    = 0x05
	spiStatusBusyBit    = 0x01
	busyPollInterval    = 100 * time.Microsecond
	sectorEraseTimeout  = 2 * time.Second
	pageProgramTimeout  = 50 * time.Millisecond
)

// SPIDevice drives an EPCS-compatible NOR flash directly over a SPI bus
// and a chip-select GPIO line, for bring-up rigs where the flash has no
// kernel MTD binding yet.
type SPIDevice struct {
	conn conn.Conn
	cs   gpio.PinIO
	size int64
}

// NewSPIDevice wraps an already-opened SPI connection and chip-select pin.
func NewSPIDevice(c conn.Conn, cs gpio.PinIO, size int64) *SPIDevice {
	return &SPIDevice{conn: c, cs: cs, size: size}
}

func (d *SPIDevice) Size() int64 {
	return d.size
}

func (d *SPIDevice) tx(w, r []byte) error {
	if err := d.cs.Out(gpio.Low); err != nil {
		return fmt.Errorf("flash: spi cs assert: %w", err)
	}
	defer d.cs.Out(gpio.High)
	return d.conn.Tx(w, r)
}

// ReadID returns the 3-byte JEDEC manufacturer/device ID.
func (d *SPIDevice) ReadID() ([3]byte, error) {
	var id [3]byte
	w := make([]byte, 4)
	r := make([]byte, 4)
	w[0] = spiCmdReadID
	if err := d.tx(w, r); err != nil {
		return id, err
	}
	copy(id[:], r[1:4])
	return id, nil
}

func (d *SPIDevice) ReadAt(dst []byte, addr int64) error {
	if addr < 0 || addr+int64(len(dst)) > d.size {
		return ErrOutOfRange
	}
	w := make([]byte, 4+len(dst))
	w[0] = spiCmdRead
	w[1] = byte(addr >> 16)
	w[2] = byte(addr >> 8)
	w[3] = byte(addr)
	r := make([]byte, len(w))
	if err := d.tx(w, r); err != nil {
		return fmt.Errorf("flash: spi read: %w", err)
	}
	copy(dst, r[4:])
	return nil
}

func (d *SPIDevice) writeEnable() error {
	return d.tx([]byte{spiCmdWriteEnable}, make([]byte, 1))
}

func (d *SPIDevice) statusRegister() (byte, error) {
	w := []byte{spiCmdReadStatus, 0}
	r := make([]byte, 2)
	if err := d.tx(w, r); err != nil {
		return 0, err
	}
	return r[1], nil
}

func (d *SPIDevice) busyWait(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(busyPollInterval)
	defer ticker.Stop()
	for range ticker.C {
		status, err := d.statusRegister()
		if err != nil {
			return err
		}
		if status&spiStatusBusyBit == 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("flash: spi device busy past %s", timeout)
		}
	}
	return nil
}

func (d *SPIDevice) EraseSector(base int64) error {
	if base < 0 || base%SectorBytes != 0 || base+SectorBytes > d.size {
		return ErrOutOfRange
	}
	if err := d.writeEnable(); err != nil {
		return fmt.Errorf("flash: spi write enable: %w", err)
	}
	cmd := []byte{spiCmdEraseSector, byte(base >> 16), byte(base >> 8), byte(base)}
	if err := d.tx(cmd, make([]byte, len(cmd))); err != nil {
		return fmt.Errorf("flash: spi erase sector: %w", err)
	}
	return d.busyWait(sectorEraseTimeout)
}

func (d *SPIDevice) pageProgram(addr int64, data []byte) error {
	if err := d.writeEnable(); err != nil {
		return fmt.Errorf("flash: spi write enable: %w", err)
	}
	w := make([]byte, 4+len(data))
	w[0] = spiCmdPageProgram
	w[1] = byte(addr >> 16)
	w[2] = byte(addr >> 8)
	w[3] = byte(addr)
	copy(w[4:], data)
	if err := d.tx(w, make([]byte, len(w))); err != nil {
		return fmt.Errorf("flash: spi page program: %w", err)
	}
	return d.busyWait(pageProgramTimeout)
}

func (d *SPIDevice) ProgramBlock(addr int64, src []byte) error {
	if addr < 0 || addr+int64(len(src)) > d.size {
		return ErrOutOfRange
	}
	for off := 0; off < len(src); {
		pageOffset := (addr + int64(off)) % PageBytes
		chunk := PageBytes - int(pageOffset)
		if chunk > len(src)-off {
			chunk = len(src) - off
		}
		if err := d.pageProgram(addr+int64(off), src[off:off+chunk]); err != nil {
			return err
		}
		off += chunk
	}
	return nil
}

// spiSettings documents the bus mode this device expects the SPI port
// to already be configured with: mode 0, MSB first.
var spiSettings = spi.Mode0

func (d *SPIDevice) Close() error {
	return nil
}
