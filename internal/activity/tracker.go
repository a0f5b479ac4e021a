// Package activity decides which chunks the scheduler visits. A chunk that
// goes a number of consecutive ticks without any change falls asleep; any
// change within its margin wakes it again.
package activity

import (
	"sort"

	"sandfall/internal/grid"
)

// DefaultThreshold is the number of quiet ticks before a chunk sleeps.
const DefaultThreshold = 3

// Tracker applies the sleep policy to a grid's chunks.
type Tracker struct {
	grid      *grid.Grid
	threshold int
	slept     int
}

// New returns a tracker for g. A threshold below 1 selects the default.
func New(g *grid.Grid, threshold int) *Tracker {
	if threshold < 1 {
		threshold = DefaultThreshold
	}
	return &Tracker{grid: g, threshold: threshold}
}

func (t *Tracker) Threshold() int { return t.threshold }

// Active returns the chunks scheduled for this tick, bottom chunk row first
// and left to right within a row.
func (t *Tracker) Active() []*grid.Chunk {
	var out []*grid.Chunk
	for _, c := range t.grid.Chunks() {
		if c.Active() {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Coord(), out[j].Coord()
		if a.Y != b.Y {
			return a.Y > b.Y
		}
		return a.X < b.X
	})
	return out
}

// Settle applies the policy to a chunk visited this tick. busy reports
// whether anything in the chunk changed or is pending. A chunk whose dirty
// region was refilled after the scheduler took it, by a neighbour moving a
// cell in, counts as busy. It returns true when the chunk fell asleep.
func (t *Tracker) Settle(c *grid.Chunk, busy bool) bool {
	if busy || !c.Dirty().Empty() {
		c.Busy()
		return false
	}
	if c.Rest() < t.threshold {
		return false
	}
	c.Sleep()
	t.slept++
	return true
}

// ActiveCount returns the number of awake chunks.
func (t *Tracker) ActiveCount() int {
	n := 0
	for _, c := range t.grid.Chunks() {
		if c.Active() {
			n++
		}
	}
	return n
}

// Sleeping returns the number of chunks currently asleep.
func (t *Tracker) Sleeping() int {
	return len(t.grid.Chunks()) - t.ActiveCount()
}

// TotalSlept returns how many times any chunk has fallen asleep.
func (t *Tracker) TotalSlept() int { return t.slept }
