package flash

import (
	"fmt"
	"os"
)

// FileDevice is a flat-file stand-in for an EPCS flash chip. It is used
// for development and drives every engine test: ordinary files have no
// program/erase asymmetry on their own, so FileDevice enforces the NOR
// write constraint (you cannot program a byte that isn't already
// EraseValue) in software.
type FileDevice struct {
	file *os.File
	size int64
}

// NewFileDevice opens or creates a flat file of the given size,
// pre-erasing it (filling with EraseValue) if it did not already exist
// at that size.
func NewFileDevice(path string, size int64) (*FileDevice, error) {
	_, statErr := os.Stat(path)
	existed := statErr == nil

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("flash: open file device: %w", err)
	}

	d := &FileDevice{file: f, size: size}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("flash: stat file device: %w", err)
	}

	if !existed || info.Size() != size {
		if err := d.eraseAll(); err != nil {
			f.Close()
			return nil, err
		}
	}

	return d, nil
}

func (d *FileDevice) eraseAll() error {
	blank := make([]byte, SectorBytes)
	for i := range blank {
		blank[i] = EraseValue
	}
	for off := int64(0); off < d.size; off += SectorBytes {
		n := int64(len(blank))
		if off+n > d.size {
			n = d.size - off
		}
		if _, err := d.file.WriteAt(blank[:n], off); err != nil {
			return fmt.Errorf("flash: erase file device: %w", err)
		}
	}
	return d.file.Truncate(d.size)
}

func (d *FileDevice) Size() int64 {
	return d.size
}

func (d *FileDevice) ReadAt(dst []byte, addr int64) error {
	if d.file == nil {
		return ErrClosed
	}
	if addr < 0 || addr+int64(len(dst)) > d.size {
		return ErrOutOfRange
	}
	_, err := d.file.ReadAt(dst, addr)
	if err != nil {
		return fmt.Errorf("flash: read: %w", err)
	}
	return nil
}

func (d *FileDevice) EraseSector(base int64) error {
	if d.file == nil {
		return ErrClosed
	}
	if base < 0 || base%SectorBytes != 0 || base+SectorBytes > d.size {
		return ErrOutOfRange
	}
	blank := make([]byte, SectorBytes)
	for i := range blank {
		blank[i] = EraseValue
	}
	if _, err := d.file.WriteAt(blank, base); err != nil {
		return fmt.Errorf("flash: erase sector: %w", err)
	}
	return nil
}

func (d *FileDevice) ProgramBlock(addr int64, src []byte) error {
	if d.file == nil {
		return ErrClosed
	}
	if addr < 0 || addr+int64(len(src)) > d.size {
		return ErrOutOfRange
	}

	existing := make([]byte, len(src))
	if _, err := d.file.ReadAt(existing, addr); err != nil {
		return fmt.Errorf("flash: program read-back: %w", err)
	}
	for _, b := range existing {
		if b != EraseValue {
			return ErrNotErased
		}
	}

	if _, err := d.file.WriteAt(src, addr); err != nil {
		return fmt.Errorf("flash: program: %w", err)
	}
	return nil
}

func (d *FileDevice) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}
