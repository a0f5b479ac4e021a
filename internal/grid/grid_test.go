package grid

import (
	"errors"
	"testing"

	"sandfall/internal/material"
)

const sand material.ID = 3

func TestLazyAllocation(t *testing.T) {
	g := New(64, 32, 16, 1)
	for _, c := range g.Chunks() {
		if c.Allocated() {
			t.Fatalf("chunk %v allocated before any write", c.Coord())
		}
	}
	cell, err := g.Get(40, 20)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cell != Vacancy {
		t.Fatalf("unallocated chunk returned %+v, want vacancy", cell)
	}
	if err := g.Set(40, 20, Cell{Material: sand}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	allocated := 0
	for _, c := range g.Chunks() {
		if c.Allocated() {
			allocated++
		}
	}
	if allocated != 1 {
		t.Fatalf("expected exactly one allocated chunk, got %d", allocated)
	}
	if got := g.At(40, 20); got.Material != sand {
		t.Fatalf("At returned %+v", got)
	}
}

func TestOutOfBounds(t *testing.T) {
	g := New(8, 8, 4, 1)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}} {
		if _, err := g.Get(p[0], p[1]); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("Get%v: expected ErrOutOfBounds, got %v", p, err)
		}
		if err := g.Set(p[0], p[1], Cell{Material: sand}); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("Set%v: expected ErrOutOfBounds, got %v", p, err)
		}
		if got := g.At(p[0], p[1]); got.Material != material.Boundary {
			t.Fatalf("At%v = %+v, want boundary", p, got)
		}
	}
}

func TestSetEmptyResetsState(t *testing.T) {
	g := New(4, 4, 4, 1)
	if err := g.Set(1, 1, Cell{Material: material.Empty, Life: 9, Stamp: 3, Flags: FlagBurning}); err != nil {
		t.Fatal(err)
	}
	if got := g.At(1, 1); got != (Cell{Stamp: 3}) {
		t.Fatalf("empty cell kept state: %+v", got)
	}
	if !g.At(1, 1).Processed(3) || g.At(1, 1).Processed(4) {
		t.Fatal("a stamped vacancy counts as processed for its generation only")
	}
	if g.At(2, 2).Processed(0) {
		t.Fatal("generation 0 never matches")
	}
}

func TestSwapIsAtomic(t *testing.T) {
	g := New(8, 8, 4, 1)
	a := Cell{Material: sand, Shade: 2}
	b := Cell{Material: 9, Flow: 4}
	_ = g.Set(3, 3, a)
	_ = g.Set(4, 3, b)

	if err := g.Swap(3, 3, 4, 3); err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if g.At(3, 3) != b || g.At(4, 3) != a {
		t.Fatalf("swap across chunks failed: %+v %+v", g.At(3, 3), g.At(4, 3))
	}

	if err := g.Swap(7, 7, 8, 7); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	if g.At(7, 7) != Vacancy {
		t.Fatal("failed swap modified the grid")
	}
}

func TestChunkAtFloorDivision(t *testing.T) {
	g := New(64, 64, 16, 1)
	cases := []struct {
		x, y int
		want ChunkCoord
	}{
		{0, 0, ChunkCoord{0, 0}},
		{15, 15, ChunkCoord{0, 0}},
		{16, 31, ChunkCoord{1, 1}},
		{-1, 0, ChunkCoord{-1, 0}},
		{-16, -17, ChunkCoord{-1, -2}},
	}
	for _, tc := range cases {
		if got := g.ChunkAt(tc.x, tc.y); got != tc.want {
			t.Fatalf("ChunkAt(%d,%d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
	if g.Chunk(ChunkCoord{-1, 0}) != nil || g.Chunk(ChunkCoord{4, 0}) != nil {
		t.Fatal("Chunk outside the world must be nil")
	}
}

func TestMarkDirtySpillsIntoNeighbours(t *testing.T) {
	g := New(32, 32, 16, 2)
	g.MarkDirty(15, 8)

	left := g.Chunk(ChunkCoord{0, 0})
	right := g.Chunk(ChunkCoord{1, 0})
	below := g.Chunk(ChunkCoord{0, 1})
	if !left.Active() || !right.Active() {
		t.Fatal("margin spill should wake both horizontal neighbours")
	}
	if below.Active() {
		t.Fatal("chunk outside the inflated rect must stay asleep")
	}
	if got, want := left.Dirty(), (Rect{X0: 13, Y0: 6, X1: 16, Y1: 11}); got != want {
		t.Fatalf("left dirty = %+v, want %+v", got, want)
	}
	if got, want := right.Dirty(), (Rect{X0: 16, Y0: 6, X1: 18, Y1: 11}); got != want {
		t.Fatalf("right dirty = %+v, want %+v", got, want)
	}

	right.Rest()
	g.MarkDirty(20, 8)
	if right.Idle() != 0 {
		t.Fatal("MarkDirty must reset the idle counter")
	}
	if r := right.TakeDirty(); r.Empty() {
		t.Fatal("TakeDirty lost the region")
	}
	if !right.Dirty().Empty() {
		t.Fatal("TakeDirty must reset the region")
	}
}

func TestSleepClearsDirty(t *testing.T) {
	g := New(16, 16, 16, 1)
	g.MarkDirty(3, 3)
	c := g.Chunk(ChunkCoord{})
	c.Sleep()
	if c.Active() || !c.Dirty().Empty() {
		t.Fatal("Sleep must deactivate and clear the dirty region")
	}
}

func TestCountCensusAndClear(t *testing.T) {
	g := New(20, 10, 8, 1)
	for x := 0; x < 20; x++ {
		_ = g.Set(x, 9, Cell{Material: sand})
	}
	_ = g.Set(0, 0, Cell{Material: 9})

	if n := g.Count(sand); n != 20 {
		t.Fatalf("Count(sand) = %d, want 20", n)
	}
	if n := g.Count(material.Empty); n != 200-21 {
		t.Fatalf("Count(empty) = %d, want %d", n, 200-21)
	}
	census := g.Census()
	if census[sand] != 20 || census[9] != 1 || len(census) != 2 {
		t.Fatalf("unexpected census %v", census)
	}

	seen := 0
	g.View(Rect{X0: 18, Y0: 8, X1: 40, Y1: 40}, func(x, y int, c Cell) {
		seen++
		if y == 9 && c.Material != sand {
			t.Fatalf("View(%d,%d) = %+v", x, y, c)
		}
	})
	if seen != 4 {
		t.Fatalf("View visited %d cells, want 4", seen)
	}

	g.MarkDirty(5, 5)
	g.Clear()
	if n := g.Count(material.Empty); n != 200 {
		t.Fatalf("Clear left %d empty cells, want 200", 200-n)
	}
	for _, c := range g.Chunks() {
		if c.Active() {
			t.Fatalf("chunk %v still active after Clear", c.Coord())
		}
	}
}

func TestStaleTracking(t *testing.T) {
	g := New(16, 16, 8, 1)
	c := g.Chunk(ChunkCoord{1, 1})
	if c.TakeStale() {
		t.Fatal("fresh chunk must not be stale")
	}
	_ = g.Set(9, 9, Cell{Material: sand})
	if !c.TakeStale() {
		t.Fatal("write must mark the chunk stale")
	}
	if c.TakeStale() {
		t.Fatal("TakeStale must reset the flag")
	}
}

func TestRectOps(t *testing.T) {
	a := Rect{X0: 0, Y0: 0, X1: 4, Y1: 4}
	b := Rect{X0: 2, Y0: 3, X1: 6, Y1: 8}
	if got := a.Union(b); got != (Rect{0, 0, 6, 8}) {
		t.Fatalf("Union = %+v", got)
	}
	if got := a.Intersect(b); got != (Rect{2, 3, 4, 4}) {
		t.Fatalf("Intersect = %+v", got)
	}
	if got := a.Intersect(Rect{X0: 10, Y0: 10, X1: 11, Y1: 11}); !got.Empty() {
		t.Fatalf("disjoint Intersect = %+v", got)
	}
	if got := (Rect{}).Union(b); got != b {
		t.Fatalf("empty Union = %+v", got)
	}
	if got := RectAt(1, 1).Inflate(1); got != (Rect{0, 0, 3, 3}) {
		t.Fatalf("Inflate = %+v", got)
	}
}
