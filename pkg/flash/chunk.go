package flash

// chunk describes the portion of a single sector-oriented operation that
// falls within one sector. A multi-sector read or write is planned one
// chunk at a time; no chunk ever crosses a sector boundary.
type chunk struct {
	sectorBase int64 // sector-aligned start address in the device
	offset     int   // offset of this chunk within the sector
	length     int   // number of bytes this chunk covers
}

// planChunk computes the next chunk of an operation that starts at addr
// and has remaining bytes left to go. It never returns a chunk that
// extends past the end of addr's sector; callers advance addr and
// remaining by the returned length and call again until remaining is 0.
func planChunk(addr int64, remaining int) chunk {
	sectorBase := (addr / SectorBytes) * SectorBytes
	offset := int(addr - sectorBase)
	maxLen := SectorBytes - offset

	length := remaining
	if length > maxLen {
		length = maxLen
	}

	return chunk{sectorBase: sectorBase, offset: offset, length: length}
}
