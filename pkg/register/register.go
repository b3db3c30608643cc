// Package register implements the bounds-checked, 4-byte-aligned
// register access the command protocol's R and W verbs expose.
package register

import (
	"errors"
	"fmt"
)

var (
	// ErrUnaligned is returned for an address that is not a multiple of 4.
	ErrUnaligned = errors.New("register: address not 4-byte aligned")
	// ErrOutOfRange is returned for an address at or beyond the register span.
	ErrOutOfRange = errors.New("register: address out of range")
)

// Accessor performs the raw 32-bit load/store. Implementations decide
// how that load/store reaches the hardware (a mapped memory window, a
// simulated backing array, and so on).
type Accessor interface {
	Read32(offset uint32) (uint32, error)
	Write32(offset uint32, value uint32) error
}

// Registers bounds-checks and aligns accesses before handing them to an Accessor.
type Registers struct {
	acc  Accessor
	span uint32
}

// New wraps acc, rejecting any offset at or beyond span.
func New(acc Accessor, span uint32) *Registers {
	return &Registers{acc: acc, span: span}
}

func (r *Registers) check(addr uint32) error {
	if addr%4 != 0 {
		return ErrUnaligned
	}
	if addr >= r.span {
		return ErrOutOfRange
	}
	return nil
}

// Read returns the 32-bit value at addr.
func (r *Registers) Read(addr uint32) (uint32, error) {
	if err := r.check(addr); err != nil {
		return 0, err
	}
	v, err := r.acc.Read32(addr)
	if err != nil {
		return 0, fmt.Errorf("register: read 0x%08X: %w", addr, err)
	}
	return v, nil
}

// Write stores value at addr.
func (r *Registers) Write(addr uint32, value uint32) error {
	if err := r.check(addr); err != nil {
		return err
	}
	if err := r.acc.Write32(addr, value); err != nil {
		return fmt.Errorf("register: write 0x%08X: %w", addr, err)
	}
	return nil
}
