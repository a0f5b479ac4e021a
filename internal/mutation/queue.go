package mutation

import (
	"errors"
	"fmt"
	"sync"

	"sandfall/internal/grid"
	"sandfall/internal/material"
)

var ErrQueueFull = errors.New("mutation queue is full")

// DefaultCapacity bounds the number of requests waiting for a tick.
const DefaultCapacity = 4096

// Kind is the edit a request performs.
type Kind uint8

const (
	Paint Kind = iota
	Erase
	Ignite
)

func (k Kind) String() string {
	switch k {
	case Paint:
		return "paint"
	case Erase:
		return "erase"
	case Ignite:
		return "ignite"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Request is one edit of the world.
type Request struct {
	Kind     Kind
	Brush    Brush
	X, Y     int
	Material material.ID
}

// Validate checks the request against the world bounds and registry. A
// request that fails validation must not be applied at all.
func (r Request) Validate(bounds grid.Rect, reg *material.Registry) error {
	if !bounds.Contains(r.X, r.Y) {
		return fmt.Errorf("%s at (%d,%d): %w", r.Kind, r.X, r.Y, grid.ErrOutOfBounds)
	}
	if err := r.Brush.Validate(); err != nil {
		return fmt.Errorf("%s: %w", r.Kind, err)
	}
	if r.Brush.Shape == Line && !bounds.Contains(r.Brush.FromX, r.Brush.FromY) {
		return fmt.Errorf("%s stroke from (%d,%d): %w", r.Kind, r.Brush.FromX, r.Brush.FromY, grid.ErrOutOfBounds)
	}
	switch r.Kind {
	case Paint:
		if r.Material == material.Boundary || r.Material == material.Keep || !reg.Valid(r.Material) {
			return fmt.Errorf("paint material %d: %w", r.Material, material.ErrUnknownMaterial)
		}
	case Erase, Ignite:
	default:
		return fmt.Errorf("unknown request kind %d", r.Kind)
	}
	return nil
}

// Queue buffers requests between producers on any goroutine and the
// scheduler, which drains it once per tick.
type Queue struct {
	mu       sync.Mutex
	items    []Request
	spare    []Request
	capacity int
}

// NewQueue returns a queue holding at most capacity requests. A capacity
// below 1 selects DefaultCapacity.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Queue{capacity: capacity}
}

// Push appends r. It is safe for concurrent use.
func (q *Queue) Push(r Request) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.capacity {
		return ErrQueueFull
	}
	q.items = append(q.items, r)
	return nil
}

// Drain removes and returns every pending request in submission order. The
// returned slice is valid until the next Drain.
func (q *Queue) Drain() []Request {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = q.spare[:0]
	q.spare = out
	return out
}

// Len returns the number of pending requests.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
