// Package flash implements a sector-oriented read-modify-write layer
// over a NOR flash device whose only native primitives are
// erase-whole-sector and program-a-freshly-erased-page.
package flash

import "errors"

// SectorBytes is the erase granularity of the flash device: a single
// EPCS-compatible sector is 64 KiB.
const SectorBytes = 65536

// PageBytes is the program granularity used by backends that must chunk
// a sector-sized program operation into page writes.
const PageBytes = 256

// EraseValue is the bit pattern left behind by a sector erase.
const EraseValue = 0xFF

var (
	// ErrOutOfRange is returned when an address or range falls outside
	// the device's addressable flash.
	ErrOutOfRange = errors.New("flash: address out of range")
	// ErrNotErased is returned by ProgramBlock when the target range is
	// not currently all EraseValue: a real NOR cell cannot have a 0 bit
	// set back to 1 by a program operation.
	ErrNotErased = errors.New("flash: target range is not erased")
	// ErrClosed is returned by any operation on a device that has
	// already been closed.
	ErrClosed = errors.New("flash: device closed")
)

// Device is the flash chip's native primitive surface: whole-device
// reads, whole-sector erase, and program of a block that is known to
// already be erased. Every call is synchronous and blocking; none of
// these retry on failure.
type Device interface {
	// ReadAt fills dst from the device starting at addr.
	ReadAt(dst []byte, addr int64) error
	// EraseSector erases the SectorBytes-aligned sector starting at base.
	EraseSector(base int64) error
	// ProgramBlock writes src into the device at addr. The destination
	// range must already read back as EraseValue.
	ProgramBlock(addr int64, src []byte) error
	// Size returns the total addressable size of the device in bytes.
	Size() int64
	// Close releases any resources held by the device.
	Close() error
}
