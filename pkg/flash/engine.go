package flash

import (
	"bytes"
	"fmt"
)

// Request is a sum type for the two things Engine.Write can do to a
// range of flash: program it with data, or erase it back to EraseValue.
type Request interface {
	isRequest()
}

// Program writes Data starting at the address passed to Write.
type Program struct {
	Data []byte
}

func (Program) isRequest() {}

// Erase fills Length bytes starting at the address passed to Write with
// EraseValue.
type Erase struct {
	Length int64
}

func (Erase) isRequest() {}

// Engine is the sector-oriented read-modify-write layer over a raw
// flash Device. It is not safe for concurrent use: the command loop
// that drives it is single-threaded by design.
type Engine struct {
	dev   Device
	cache *sectorCache
}

// NewEngine wraps dev with a one-sector cache.
func NewEngine(dev Device) *Engine {
	return &Engine{dev: dev, cache: newSectorCache()}
}

// Read fills dst from the device starting at addr, spanning as many
// sectors as necessary.
func (e *Engine) Read(addr int64, dst []byte) error {
	pos := 0
	remaining := len(dst)

	for remaining > 0 {
		c := planChunk(addr+int64(pos), remaining)
		if err := e.cache.ensure(e.dev, c.sectorBase); err != nil {
			return fmt.Errorf("flash: read sector 0x%X: %w", c.sectorBase, err)
		}
		copy(dst[pos:pos+c.length], e.cache.buffer[c.offset:c.offset+c.length])
		pos += c.length
		remaining -= c.length
	}
	return nil
}

// Write applies req starting at addr, merging each affected sector with
// its current content, then erasing and reprogramming it. A Program
// request skips sectors whose content would not change; an Erase request
// rewrites every sector it touches.
func (e *Engine) Write(addr int64, req Request) error {
	switch r := req.(type) {
	case Program:
		return e.write(addr, len(r.Data), false, func(scratch []byte, offset, length, pos int) {
			copy(scratch[offset:offset+length], r.Data[pos:pos+length])
		})
	case Erase:
		// must_rewrite is unconditional for an erase request: the host
		// asked to blank this range regardless of what's cached, so the
		// skip-if-unchanged wear-reduction check below does not apply.
		return e.write(addr, int(r.Length), true, func(scratch []byte, offset, length, pos int) {
			for i := offset; i < offset+length; i++ {
				scratch[i] = EraseValue
			}
		})
	default:
		return fmt.Errorf("flash: unsupported request type %T", req)
	}
}

// fill writes length bytes of the pending operation's content into
// scratch at offset; pos is how far into the overall operation this
// chunk starts, for Program to index into its source data.
type fill func(scratch []byte, offset, length, pos int)

func (e *Engine) write(addr int64, totalLen int, forceRewrite bool, apply fill) error {
	pos := 0
	remaining := totalLen

	for remaining > 0 {
		c := planChunk(addr+int64(pos), remaining)

		if err := e.cache.ensure(e.dev, c.sectorBase); err != nil {
			return fmt.Errorf("flash: write sector 0x%X: %w", c.sectorBase, err)
		}

		scratch := make([]byte, SectorBytes)
		copy(scratch, e.cache.buffer)
		apply(scratch, c.offset, c.length, pos)

		if !forceRewrite && bytes.Equal(scratch[c.offset:c.offset+c.length], e.cache.buffer[c.offset:c.offset+c.length]) {
			// Chunk already matches what's on the device: skip the
			// erase/program cycle entirely to avoid wearing the cell.
			pos += c.length
			remaining -= c.length
			continue
		}

		e.cache.invalidateIf(c.sectorBase)
		if err := e.dev.EraseSector(c.sectorBase); err != nil {
			return fmt.Errorf("flash: erase sector 0x%X: %w", c.sectorBase, err)
		}
		if err := e.dev.ProgramBlock(c.sectorBase, scratch); err != nil {
			e.cache.invalidateIf(c.sectorBase)
			return fmt.Errorf("flash: program sector 0x%X: %w", c.sectorBase, err)
		}
		e.cache.store(c.sectorBase, scratch)

		pos += c.length
		remaining -= c.length
	}
	return nil
}
