package web

import "encoding/binary"

// cacheEntry is a previously sent message payload.
type cacheEntry struct {
	hash uint64
	data []byte
}

// cache is a ring of the last size payloads sent to the clients. The
// clients mirror it, so a repeated payload is sent as its index.
type cache struct {
	entries []cacheEntry
	idx     int
}

func newCache(size int) *cache {
	return &cache{entries: make([]cacheEntry, size)}
}

// index returns the slot holding hash.
func (c *cache) index(hash uint64) (int, bool) {
	for i, e := range c.entries {
		if e.data != nil && e.hash == hash {
			return i, true
		}
	}
	return -1, false
}

// add stores data in the oldest slot and returns its index.
func (c *cache) add(hash uint64, data []byte) int {
	i := c.idx
	c.entries[i] = cacheEntry{hash: hash, data: data}
	c.idx = (c.idx + 1) % len(c.entries)
	return i
}

// records encodes every filled slot as (uint32 length, uint16 index,
// data).
func (c *cache) records() []byte {
	var out []byte
	for i, e := range c.entries {
		if e.data == nil {
			continue
		}
		out = binary.LittleEndian.AppendUint32(out, uint32(len(e.data)))
		out = binary.LittleEndian.AppendUint16(out, uint16(i))
		out = append(out, e.data...)
	}
	return out
}
