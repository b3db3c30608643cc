package flash

// invalidSectorAddr marks the cache as holding nothing. A real address
// is always a non-negative multiple of SectorBytes, so -1 cannot
// collide with a live sector.
const invalidSectorAddr = int64(-1)

// sectorCache holds exactly one sector's worth of flash content so a
// sequence of sub-sector reads and writes touching the same sector only
// costs one device read.
type sectorCache struct {
	addr   int64
	buffer []byte
}

func newSectorCache() *sectorCache {
	return &sectorCache{
		addr:   invalidSectorAddr,
		buffer: make([]byte, SectorBytes),
	}
}

// ensure makes the cache hold sectorBase's content, reading through to
// the device only if it doesn't already.
func (c *sectorCache) ensure(dev Device, sectorBase int64) error {
	if c.addr == sectorBase {
		return nil
	}
	if err := dev.ReadAt(c.buffer, sectorBase); err != nil {
		c.addr = invalidSectorAddr
		return err
	}
	c.addr = sectorBase
	return nil
}

// invalidateIf drops the cache if it currently holds sectorBase. Callers
// invoke this before any device operation that could leave the cache
// stale relative to the device (an erase, or a program that might fail
// partway through).
func (c *sectorCache) invalidateIf(sectorBase int64) {
	if c.addr == sectorBase {
		c.addr = invalidSectorAddr
	}
}

// store replaces the cache with data, which the caller has already
// written to the device at sectorBase.
func (c *sectorCache) store(sectorBase int64, data []byte) {
	copy(c.buffer, data)
	c.addr = sectorBase
}
