package flash

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestFileDeviceErasedOnCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flash.img")
	dev, err := NewFileDevice(path, SectorBytes)
	if err != nil {
		t.Fatalf("NewFileDevice: %v", err)
	}
	defer dev.Close()

	buf := make([]byte, SectorBytes)
	if err := dev.ReadAt(buf, 0); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	for i, b := range buf {
		if b != EraseValue {
			t.Fatalf("byte %d = 0x%02X, want 0x%02X", i, b, EraseValue)
		}
	}
}

func TestFileDeviceProgramRejectsUnerased(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flash.img")
	dev, err := NewFileDevice(path, SectorBytes)
	if err != nil {
		t.Fatalf("NewFileDevice: %v", err)
	}
	defer dev.Close()

	data := []byte{1, 2, 3, 4}
	if err := dev.ProgramBlock(0, data); err != nil {
		t.Fatalf("first ProgramBlock: %v", err)
	}
	if err := dev.ProgramBlock(0, data); err != ErrNotErased {
		t.Errorf("second ProgramBlock error = %v, want ErrNotErased", err)
	}
}

func TestFileDeviceEraseSectorRequiresAlignment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flash.img")
	dev, err := NewFileDevice(path, 2*SectorBytes)
	if err != nil {
		t.Fatalf("NewFileDevice: %v", err)
	}
	defer dev.Close()

	if err := dev.EraseSector(1); err != ErrOutOfRange {
		t.Errorf("EraseSector(1) error = %v, want ErrOutOfRange", err)
	}
	if err := dev.EraseSector(0); err != nil {
		t.Errorf("EraseSector(0): %v", err)
	}
}

func TestFileDeviceOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flash.img")
	dev, err := NewFileDevice(path, SectorBytes)
	if err != nil {
		t.Fatalf("NewFileDevice: %v", err)
	}
	defer dev.Close()

	if err := dev.ReadAt(make([]byte, 1), SectorBytes); err != ErrOutOfRange {
		t.Errorf("ReadAt out of range error = %v, want ErrOutOfRange", err)
	}
	if err := dev.ProgramBlock(SectorBytes-1, []byte{1, 2}); err != ErrOutOfRange {
		t.Errorf("ProgramBlock out of range error = %v, want ErrOutOfRange", err)
	}
}

func TestFileDeviceReopenPreservesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flash.img")
	dev, err := NewFileDevice(path, SectorBytes)
	if err != nil {
		t.Fatalf("NewFileDevice: %v", err)
	}
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if err := dev.ProgramBlock(0, data); err != nil {
		t.Fatalf("ProgramBlock: %v", err)
	}
	dev.Close()

	dev2, err := NewFileDevice(path, SectorBytes)
	if err != nil {
		t.Fatalf("reopen NewFileDevice: %v", err)
	}
	defer dev2.Close()

	got := make([]byte, 4)
	if err := dev2.ReadAt(got, 0); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("reopened content = %v, want %v", got, data)
	}
}
