package mutation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandfall/internal/grid"
	"sandfall/internal/material"
)

func collect(b Brush, cx, cy int) map[[2]int]int {
	out := make(map[[2]int]int)
	b.Each(cx, cy, func(x, y int) { out[[2]int{x, y}]++ })
	return out
}

func TestBrushShapes(t *testing.T) {
	assert.Len(t, collect(Brush{Shape: Point, Size: 5}, 3, 3), 1)
	assert.Len(t, collect(Brush{Shape: Square, Size: 1}, 3, 3), 9)
	assert.Len(t, collect(Brush{Shape: Circle}, 3, 3), 1)

	disc := collect(Brush{Shape: Circle, Size: 2}, 0, 0)
	assert.Contains(t, disc, [2]int{2, 0})
	assert.Contains(t, disc, [2]int{1, 1})
	assert.NotContains(t, disc, [2]int{2, 2})

	line := collect(Brush{Shape: Line, FromX: 0, FromY: 0}, 4, 2)
	assert.Len(t, line, 5)
	assert.Contains(t, line, [2]int{0, 0})
	assert.Contains(t, line, [2]int{4, 2})

	thick := collect(Brush{Shape: Line, Size: 1, FromX: 0, FromY: 0}, 5, 0)
	for k, n := range thick {
		assert.Equal(t, 1, n, "cell %v visited more than once", k)
	}
	assert.Len(t, thick, 8*3)
}

func TestBrushBounds(t *testing.T) {
	assert.Equal(t, grid.Rect{X0: 3, Y0: 3, X1: 4, Y1: 4}, Brush{Shape: Point, Size: 9}.Bounds(3, 3))
	assert.Equal(t, grid.Rect{X0: 1, Y0: 1, X1: 6, Y1: 6}, Brush{Shape: Square, Size: 2}.Bounds(3, 3))
	assert.Equal(t, grid.Rect{X0: -1, Y0: 1, X1: 6, Y1: 5}, Brush{Shape: Line, Size: 1, FromX: 0, FromY: 2}.Bounds(4, 3))
}

func TestValidateBrush(t *testing.T) {
	assert.NoError(t, Brush{Shape: Circle, Size: 3}.Validate())
	assert.ErrorIs(t, Brush{Shape: Shape(42)}.Validate(), ErrInvalidBrushShape)
	assert.ErrorIs(t, Brush{Shape: Square, Size: -1}.Validate(), ErrInvalidBrushShape)
	assert.ErrorIs(t, Brush{Shape: Square, Size: MaxBrushSize + 1}.Validate(), ErrInvalidBrushShape)

	s, err := ParseShape("Circle")
	require.NoError(t, err)
	assert.Equal(t, Circle, s)
	_, err = ParseShape("star")
	assert.ErrorIs(t, err, ErrInvalidBrushShape)
}

func TestValidateRequest(t *testing.T) {
	reg := material.Default()
	bounds := grid.Rect{X1: 10, Y1: 10}
	sand := reg.MustID(material.NameSand)

	ok := Request{Kind: Paint, Brush: Brush{Shape: Circle, Size: 4}, X: 9, Y: 0, Material: sand}
	assert.NoError(t, ok.Validate(bounds, reg), "brush may overhang the edge")

	cases := []struct {
		name string
		req  Request
		want error
	}{
		{"outside", Request{Kind: Paint, X: 10, Y: 0, Material: sand}, grid.ErrOutOfBounds},
		{"negative", Request{Kind: Erase, X: -1, Y: 3}, grid.ErrOutOfBounds},
		{"stroke start", Request{Kind: Paint, Brush: Brush{Shape: Line, FromX: 20}, X: 1, Y: 1, Material: sand}, grid.ErrOutOfBounds},
		{"shape", Request{Kind: Paint, Brush: Brush{Shape: 9}, X: 1, Y: 1, Material: sand}, ErrInvalidBrushShape},
		{"material", Request{Kind: Paint, X: 1, Y: 1, Material: material.ID(reg.Len())}, material.ErrUnknownMaterial},
		{"boundary", Request{Kind: Paint, X: 1, Y: 1, Material: material.Boundary}, material.ErrUnknownMaterial},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.req.Validate(bounds, reg), tc.want)
		})
	}
	assert.Error(t, Request{Kind: Kind(7), X: 1, Y: 1}.Validate(bounds, reg))
}

func TestQueueDrainOrderAndCapacity(t *testing.T) {
	q := NewQueue(3)
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Push(Request{X: i}))
	}
	assert.ErrorIs(t, q.Push(Request{X: 99}), ErrQueueFull)
	assert.Equal(t, 3, q.Len())

	got := q.Drain()
	require.Len(t, got, 3)
	for i, r := range got {
		assert.Equal(t, i, r.X)
	}
	assert.Zero(t, q.Len())
	assert.Empty(t, q.Drain())
}

func TestQueueConcurrentPush(t *testing.T) {
	q := NewQueue(0)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = q.Push(Request{X: w, Y: i})
			}
		}(w)
	}
	wg.Wait()
	assert.Len(t, q.Drain(), 800)
}
