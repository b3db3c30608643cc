package regsyms

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTable(t *testing.T) {
	tmpDir := t.TempDir()
	symFile := filepath.Join(tmpDir, "test.sym")

	content := `; register symbols
; generated by nothing in particular
FPGA_VERSION = $0000
MODE_CTRL = $0004
DAC1 = $0010

; trailing comment
ADC4 = $001C
`

	if err := os.WriteFile(symFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test symbol file: %v", err)
	}

	tbl := New()
	if err := tbl.Load(symFile); err != nil {
		t.Fatalf("failed to load symbol file: %v", err)
	}

	if tbl.Count() != 4 {
		t.Errorf("Count() = %d, want 4", tbl.Count())
	}

	tests := []struct {
		name    string
		want    uint32
		wantErr bool
	}{
		{"FPGA_VERSION", 0x0000, false},
		{"MODE_CTRL", 0x0004, false},
		{"DAC1", 0x0010, false},
		{"ADC4", 0x001C, false},
		{"NONEXISTENT", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tbl.Lookup(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Lookup(%s) expected error, got nil", tt.name)
				}
				return
			}
			if err != nil {
				t.Errorf("Lookup(%s) unexpected error: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("Lookup(%s) = 0x%X, want 0x%X", tt.name, got, tt.want)
			}
		})
	}
}

func TestTableEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	symFile := filepath.Join(tmpDir, "empty.sym")

	if err := os.WriteFile(symFile, []byte("; only comments\n"), 0644); err != nil {
		t.Fatalf("failed to create test symbol file: %v", err)
	}

	tbl := New()
	if err := tbl.Load(symFile); err == nil {
		t.Error("expected error for empty symbol file, got nil")
	}
}

func TestTableNotFound(t *testing.T) {
	tbl := New()
	if err := tbl.Load("/nonexistent/path/file.sym"); err == nil {
		t.Error("expected error for nonexistent file, got nil")
	}
}
