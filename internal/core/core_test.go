package core

import (
	"testing"
	"time"
)

func TestFixedStepShouldStep(t *testing.T) {
	clock := time.Unix(0, 0)
	fs := NewFixedStep(10)
	fs.now = func() time.Time { return clock }

	if !fs.ShouldStep() {
		t.Fatal("first call should step immediately")
	}
	if fs.ShouldStep() {
		t.Fatal("no time passed, expected no step")
	}
	clock = clock.Add(100 * time.Millisecond)
	if !fs.ShouldStep() {
		t.Fatal("expected a step after one interval")
	}
	if fs.Interval() != 100*time.Millisecond {
		t.Fatalf("unexpected interval %v", fs.Interval())
	}
}

func TestFixedStepDueCapsCatchUp(t *testing.T) {
	clock := time.Unix(0, 0)
	fs := NewFixedStep(10)
	fs.now = func() time.Time { return clock }
	if n := fs.Due(); n != 1 {
		t.Fatalf("expected the initial tick, got %d", n)
	}

	clock = clock.Add(time.Second)
	if n := fs.Due(); n != 4 {
		t.Fatalf("expected catch-up capped at 4, got %d", n)
	}
	clock = clock.Add(250 * time.Millisecond)
	if n := fs.Due(); n != 2 {
		t.Fatalf("expected 2 ticks, got %d", n)
	}
	clock = clock.Add(50 * time.Millisecond)
	if n := fs.Due(); n != 1 {
		t.Fatalf("remainder should carry over, got %d", n)
	}

	fs.SetMaxCatchUp(0)
	clock = clock.Add(time.Second)
	if n := fs.Due(); n != 1 {
		t.Fatalf("catch-up floor is one tick, got %d", n)
	}
}

func TestRNGDeterministic(t *testing.T) {
	a, b := NewRNG(42), NewRNG(42)
	for i := 0; i < 100; i++ {
		if a.IntN(1000) != b.IntN(1000) {
			t.Fatalf("streams diverged at draw %d", i)
		}
	}
	first := NewRNG(7).Float64()
	a.Reseed(7)
	if got := a.Float64(); got != first {
		t.Fatalf("Reseed should restart the stream: %v != %v", got, first)
	}
}

func TestRNGRanges(t *testing.T) {
	r := NewRNG(1)
	for i := 0; i < 1000; i++ {
		if v := r.Between(3, 5); v < 3 || v > 5 {
			t.Fatalf("Between out of range: %d", v)
		}
		if v := r.Uint8n(4); v >= 4 {
			t.Fatalf("Uint8n out of range: %d", v)
		}
	}
	if r.Between(9, 2) != 9 {
		t.Fatal("inverted range should return lo")
	}
	if r.IntN(0) != 0 || r.Uint8n(0) != 0 {
		t.Fatal("empty ranges should return 0")
	}
	if r.Chance(0) || !r.Chance(1) {
		t.Fatal("Chance must honour the certain bounds")
	}
}

func TestChanceRate(t *testing.T) {
	r := NewRNG(3)
	hits := 0
	const n = 20000
	for i := 0; i < n; i++ {
		if r.Chance(0.25) {
			hits++
		}
	}
	if hits < n/4-500 || hits > n/4+500 {
		t.Fatalf("Chance(0.25) hit %d of %d", hits, n)
	}
}

func TestDeriveSeed(t *testing.T) {
	if DeriveSeed(1, 2, 3) != DeriveSeed(1, 2, 3) {
		t.Fatal("DeriveSeed must be a pure function")
	}
	seen := map[int64]bool{}
	for tick := int64(0); tick < 4; tick++ {
		for cx := int64(0); cx < 4; cx++ {
			s := DeriveSeed(1337, tick, cx, 0)
			if seen[s] {
				t.Fatalf("seed collision at tick %d chunk %d", tick, cx)
			}
			seen[s] = true
		}
	}
}

func TestByteGrid(t *testing.T) {
	g := NewByteGrid(4, 3)
	g.Set(3, 2, 9)
	g.Set(4, 0, 1)
	if g.At(3, 2) != 9 || g.Cells()[g.Index(3, 2)] != 9 {
		t.Fatal("Set/At mismatch")
	}
	if g.At(-1, 0) != 0 || g.InBounds(4, 0) {
		t.Fatal("out of bounds access should be ignored")
	}
	g.Clear()
	if g.At(3, 2) != 0 {
		t.Fatal("Clear should zero the grid")
	}
}
