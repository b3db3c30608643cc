package protocol

import "testing"

func TestParseHex32(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    uint32
		wantErr bool
	}{
		{"bare digits", "1A2B", 0x1A2B, false},
		{"uppercase prefix", "0X1000", 0x1000, false},
		{"lowercase prefix", "0xFF", 0xFF, false},
		{"lowercase digits", "dead", 0xDEAD, false},
		{"eight digits", "FFFFFFFF", 0xFFFFFFFF, false},
		{"one digit", "5", 5, false},
		{"too many digits", "123456789", 0, true},
		{"empty after prefix", "0X", 0, true},
		{"empty token", "", 0, true},
		{"non-hex char", "12G4", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseHex32(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseHex32(%q) expected error, got nil", tt.token)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseHex32(%q) unexpected error: %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("parseHex32(%q) = 0x%X, want 0x%X", tt.token, got, tt.want)
			}
		})
	}
}

func TestFormatHex32(t *testing.T) {
	tests := []struct {
		v    uint32
		want string
	}{
		{0, "00000000"},
		{0xFF, "000000FF"},
		{0xDEADBEEF, "DEADBEEF"},
		{1, "00000001"},
	}

	for _, tt := range tests {
		got := formatHex32(tt.v)
		if got != tt.want {
			t.Errorf("formatHex32(0x%X) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
