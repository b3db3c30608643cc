package flash

import "testing"

func TestPlanChunk(t *testing.T) {
	tests := []struct {
		name       string
		addr       int64
		remaining  int
		wantBase   int64
		wantOffset int
		wantLength int
	}{
		{"aligned start fits in sector", 0, 100, 0, 0, 100},
		{"aligned start exceeds sector", 0, SectorBytes + 10, 0, 0, SectorBytes},
		{"mid-sector start fits", 10, 100, 0, 10, 100},
		{"mid-sector start crosses boundary", SectorBytes - 10, 100, 0, SectorBytes - 10, 10},
		{"second sector aligned", SectorBytes, 50, SectorBytes, 0, 50},
		{"exact sector boundary", SectorBytes - 1, 1, 0, SectorBytes - 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := planChunk(tt.addr, tt.remaining)
			if c.sectorBase != tt.wantBase {
				t.Errorf("sectorBase = %d, want %d", c.sectorBase, tt.wantBase)
			}
			if c.offset != tt.wantOffset {
				t.Errorf("offset = %d, want %d", c.offset, tt.wantOffset)
			}
			if c.length != tt.wantLength {
				t.Errorf("length = %d, want %d", c.length, tt.wantLength)
			}
			if c.offset+c.length > SectorBytes {
				t.Errorf("chunk crosses sector boundary: offset=%d length=%d", c.offset, c.length)
			}
		})
	}
}
