package protocol

import "testing"

func TestCalculateChecksum(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected uint32
	}{
		{"empty", []byte{}, 0},
		{"single byte", []byte{0x42}, 0x42},
		{"several bytes", []byte{1, 2, 3, 4}, 10},
		{"all 0xFF", []byte{0xFF, 0xFF, 0xFF, 0xFF}, 0x3FC},
		{"sum exceeds one byte", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, 0x7F8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateChecksum(tt.data)
			if got != tt.expected {
				t.Errorf("calculateChecksum(%v) = 0x%X, want 0x%X", tt.data, got, tt.expected)
			}
		})
	}
}

func TestVerifyChecksum(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected uint32
		want     bool
	}{
		{"matches", []byte{1, 2, 3}, 6, true},
		{"mismatch", []byte{1, 2, 3}, 7, false},
		{"empty matches zero", []byte{}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := verifyChecksum(tt.data, tt.expected)
			if got != tt.want {
				t.Errorf("verifyChecksum(%v, 0x%X) = %v, want %v", tt.data, tt.expected, got, tt.want)
			}
		})
	}
}
