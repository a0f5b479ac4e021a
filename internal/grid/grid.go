package grid

import (
	"errors"
	"fmt"

	"sandfall/internal/material"
)

// ErrOutOfBounds is returned for coordinates outside the world.
var ErrOutOfBounds = errors.New("position outside the world")

// Grid is a bounded world of width x height cells split into square chunks.
// Out-of-world positions behave as a permanent solid boundary.
type Grid struct {
	width, height int
	size          int
	margin        int
	cw, ch        int
	chunks        []*Chunk
}

// New creates a world of w x h cells with chunks of chunkSize cells per side.
// margin is the neighbourhood radius a change can influence; MarkDirty
// inflates touched regions by it.
func New(w, h, chunkSize, margin int) *Grid {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("grid: invalid size %dx%d", w, h))
	}
	if chunkSize <= 0 {
		panic(fmt.Sprintf("grid: invalid chunk size %d", chunkSize))
	}
	if margin < 1 {
		margin = 1
	}
	g := &Grid{
		width:  w,
		height: h,
		size:   chunkSize,
		margin: margin,
		cw:     (w + chunkSize - 1) / chunkSize,
		ch:     (h + chunkSize - 1) / chunkSize,
	}
	g.chunks = make([]*Chunk, g.cw*g.ch)
	for cy := 0; cy < g.ch; cy++ {
		for cx := 0; cx < g.cw; cx++ {
			b := Rect{
				X0: cx * chunkSize,
				Y0: cy * chunkSize,
				X1: min((cx+1)*chunkSize, w),
				Y1: min((cy+1)*chunkSize, h),
			}
			g.chunks[cy*g.cw+cx] = newChunk(ChunkCoord{X: cx, Y: cy}, b, chunkSize)
		}
	}
	return g
}

func (g *Grid) Width() int      { return g.width }
func (g *Grid) Height() int     { return g.height }
func (g *Grid) ChunkSize() int  { return g.size }
func (g *Grid) Margin() int     { return g.margin }
func (g *Grid) ChunksWide() int { return g.cw }
func (g *Grid) ChunksHigh() int { return g.ch }

// Bounds returns the world rectangle.
func (g *Grid) Bounds() Rect { return Rect{X1: g.width, Y1: g.height} }

// InBounds reports whether (x, y) lies inside the world.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// ChunkAt maps a world position to the coordinate of the chunk that owns it.
// It is pure arithmetic and accepts positions outside the world.
func (g *Grid) ChunkAt(x, y int) ChunkCoord {
	return ChunkCoord{X: floorDiv(x, g.size), Y: floorDiv(y, g.size)}
}

// Chunk returns the chunk at cc, or nil outside the world.
func (g *Grid) Chunk(cc ChunkCoord) *Chunk {
	if cc.X < 0 || cc.Y < 0 || cc.X >= g.cw || cc.Y >= g.ch {
		return nil
	}
	return g.chunks[cc.Y*g.cw+cc.X]
}

// Chunks returns every chunk in row-major order. The slice must not be
// modified.
func (g *Grid) Chunks() []*Chunk { return g.chunks }

func (g *Grid) owner(x, y int) *Chunk {
	return g.chunks[(y/g.size)*g.cw+x/g.size]
}

// Get returns the cell at (x, y).
func (g *Grid) Get(x, y int) (Cell, error) {
	if !g.InBounds(x, y) {
		return Cell{}, fmt.Errorf("get (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	return g.owner(x, y).get(x, y), nil
}

// At returns the cell at (x, y), or BoundaryCell outside the world.
func (g *Grid) At(x, y int) Cell {
	if !g.InBounds(x, y) {
		return BoundaryCell
	}
	return g.owner(x, y).get(x, y)
}

// Set writes the cell at (x, y). It does not mark the position dirty. An
// empty cell keeps only its Stamp.
func (g *Grid) Set(x, y int, c Cell) error {
	if !g.InBounds(x, y) {
		return fmt.Errorf("set (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	if c.Material == material.Empty {
		c = Cell{Stamp: c.Stamp}
	}
	g.owner(x, y).set(x, y, c)
	return nil
}

// Swap exchanges two cells. Either both positions are in the world and the
// exchange happens, or nothing changes.
func (g *Grid) Swap(x1, y1, x2, y2 int) error {
	if !g.InBounds(x1, y1) || !g.InBounds(x2, y2) {
		return fmt.Errorf("swap (%d,%d)<->(%d,%d): %w", x1, y1, x2, y2, ErrOutOfBounds)
	}
	a, b := g.owner(x1, y1), g.owner(x2, y2)
	ca, cb := a.get(x1, y1), b.get(x2, y2)
	a.set(x1, y1, cb)
	b.set(x2, y2, ca)
	return nil
}

// MarkDirty records a change at (x, y). The region inflated by the margin is
// merged into every chunk it overlaps, which wakes those chunks.
func (g *Grid) MarkDirty(x, y int) {
	g.MarkRect(RectAt(x, y))
}

// MarkRect is MarkDirty for a whole rectangle.
func (g *Grid) MarkRect(r Rect) {
	r = r.Inflate(g.margin).Intersect(g.Bounds())
	if r.Empty() {
		return
	}
	lo := g.ChunkAt(r.X0, r.Y0)
	hi := g.ChunkAt(r.X1-1, r.Y1-1)
	for cy := lo.Y; cy <= hi.Y; cy++ {
		for cx := lo.X; cx <= hi.X; cx++ {
			g.chunks[cy*g.cw+cx].wake(r)
		}
	}
}

// Allocate gives every chunk overlapping r cell storage. The parallel sweep
// calls it up front so that no allocation happens concurrently.
func (g *Grid) Allocate(r Rect) {
	r = r.Intersect(g.Bounds())
	if r.Empty() {
		return
	}
	lo := g.ChunkAt(r.X0, r.Y0)
	hi := g.ChunkAt(r.X1-1, r.Y1-1)
	for cy := lo.Y; cy <= hi.Y; cy++ {
		for cx := lo.X; cx <= hi.X; cx++ {
			g.chunks[cy*g.cw+cx].allocate()
		}
	}
}

// View calls fn for every cell of r clipped to the world, row by row.
func (g *Grid) View(r Rect, fn func(x, y int, c Cell)) {
	r = r.Intersect(g.Bounds())
	for y := r.Y0; y < r.Y1; y++ {
		for x := r.X0; x < r.X1; x++ {
			fn(x, y, g.owner(x, y).get(x, y))
		}
	}
}

// Count returns the number of cells holding id.
func (g *Grid) Count(id material.ID) int {
	if id == material.Empty {
		return g.width*g.height - g.occupied()
	}
	n := 0
	for _, c := range g.chunks {
		for _, cell := range c.cells {
			if cell.Material == id {
				n++
			}
		}
	}
	return n
}

// Census counts the non-empty cells per material.
func (g *Grid) Census() map[material.ID]int {
	out := make(map[material.ID]int)
	for _, c := range g.chunks {
		for _, cell := range c.cells {
			if cell.Material != material.Empty {
				out[cell.Material]++
			}
		}
	}
	return out
}

func (g *Grid) occupied() int {
	n := 0
	for _, c := range g.chunks {
		for _, cell := range c.cells {
			if cell.Material != material.Empty {
				n++
			}
		}
	}
	return n
}

// Clear empties the world and puts every chunk to sleep.
func (g *Grid) Clear() {
	for _, c := range g.chunks {
		if c.cells != nil {
			clear(c.cells)
			c.stale.Store(true)
		}
		c.Sleep()
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
