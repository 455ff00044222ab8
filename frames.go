package main

import "sync/atomic"

// frameCounter counts the frames completed by the engine goroutine
// between two reads of the title updater.
type frameCounter struct {
	n atomic.Uint32
}

func (c *frameCounter) add() {
	c.n.Add(1)
}

// reset returns the frames counted since the last reset.
func (c *frameCounter) reset() uint32 {
	return c.n.Swap(0)
}
