package grid

import (
	"sync"
	"sync/atomic"
)

// ChunkCoord addresses a chunk in chunk units.
type ChunkCoord struct{ X, Y int }

// Chunk owns a square block of cells. Its cell storage is allocated on the
// first write; until then every read yields Vacancy.
type Chunk struct {
	coord  ChunkCoord
	bounds Rect
	stride int
	cells  []Cell

	// mu guards the activity bookkeeping below, which neighbouring chunks
	// update during a parallel sweep.
	mu     sync.Mutex
	dirty  Rect
	active bool
	idle   int

	stale atomic.Bool
}

func newChunk(cc ChunkCoord, bounds Rect, size int) *Chunk {
	return &Chunk{coord: cc, bounds: bounds, stride: size}
}

func (c *Chunk) Coord() ChunkCoord { return c.coord }

// Bounds returns the world-space rectangle covered by the chunk, clipped to
// the world.
func (c *Chunk) Bounds() Rect { return c.bounds }

// Allocated reports whether the chunk has cell storage.
func (c *Chunk) Allocated() bool { return c.cells != nil }

func (c *Chunk) allocate() {
	if c.cells == nil {
		c.cells = make([]Cell, c.stride*c.stride)
	}
}

func (c *Chunk) index(x, y int) int {
	return (y-c.bounds.Y0)*c.stride + (x - c.bounds.X0)
}

func (c *Chunk) get(x, y int) Cell {
	if c.cells == nil {
		return Vacancy
	}
	return c.cells[c.index(x, y)]
}

func (c *Chunk) set(x, y int, cell Cell) {
	c.allocate()
	c.cells[c.index(x, y)] = cell
	c.stale.Store(true)
}

// Active reports whether the chunk is scheduled for updates.
func (c *Chunk) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Idle returns the number of consecutive ticks without change.
func (c *Chunk) Idle() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idle
}

// Dirty returns the region pending processing.
func (c *Chunk) Dirty() Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// wake merges r into the dirty region, activates the chunk and resets the
// idle counter.
func (c *Chunk) wake(r Rect) {
	r = r.Intersect(c.bounds)
	if r.Empty() {
		return
	}
	c.mu.Lock()
	c.dirty = c.dirty.Union(r)
	c.active = true
	c.idle = 0
	c.mu.Unlock()
}

// TakeDirty returns the pending region and resets it. Changes made after the
// call accumulate for the next tick.
func (c *Chunk) TakeDirty() Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := c.dirty
	c.dirty = Rect{}
	return r
}

// Rest records one tick without change and returns the new idle count.
func (c *Chunk) Rest() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.idle++
	return c.idle
}

// Busy records a tick with change.
func (c *Chunk) Busy() {
	c.mu.Lock()
	c.idle = 0
	c.mu.Unlock()
}

// Sleep deactivates the chunk and clears its dirty region.
func (c *Chunk) Sleep() {
	c.mu.Lock()
	c.active = false
	c.dirty = Rect{}
	c.idle = 0
	c.mu.Unlock()
}

// TakeStale reports whether the chunk changed since the last call.
func (c *Chunk) TakeStale() bool { return c.stale.Swap(false) }

// Each calls fn for every cell inside r (clipped to the chunk), rows top to
// bottom.
func (c *Chunk) Each(r Rect, fn func(x, y int, cell Cell)) {
	r = r.Intersect(c.bounds)
	for y := r.Y0; y < r.Y1; y++ {
		for x := r.X0; x < r.X1; x++ {
			fn(x, y, c.get(x, y))
		}
	}
}
