// Package mutation carries edit requests from input handlers to the
// simulation. Requests are validated when they are submitted and applied by
// the scheduler at the next tick boundary.
package mutation

import (
	"errors"
	"fmt"
	"strings"

	"sandfall/internal/grid"
)

var ErrInvalidBrushShape = errors.New("invalid brush shape")

// MaxBrushSize bounds the brush radius.
const MaxBrushSize = 64

// Shape is the footprint of a brush.
type Shape uint8

const (
	Point Shape = iota
	Square
	Circle
	// Line strokes a round pen from (FromX, FromY) to the request centre.
	Line
)

var shapeNames = [...]string{Point: "point", Square: "square", Circle: "circle", Line: "line"}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("shape(%d)", uint8(s))
}

// ParseShape resolves a shape name.
func ParseShape(name string) (Shape, error) {
	for i, n := range shapeNames {
		if strings.EqualFold(n, name) {
			return Shape(i), nil
		}
	}
	return Point, fmt.Errorf("%q: %w", name, ErrInvalidBrushShape)
}

// Brush describes which cells around a centre a request covers.
type Brush struct {
	Shape Shape
	// Size is the radius; 0 covers a single cell.
	Size         int
	FromX, FromY int
}

// Validate checks the brush parameters.
func (b Brush) Validate() error {
	if int(b.Shape) >= len(shapeNames) {
		return fmt.Errorf("%v: %w", b.Shape, ErrInvalidBrushShape)
	}
	if b.Size < 0 || b.Size > MaxBrushSize {
		return fmt.Errorf("brush size %d outside [0,%d]: %w", b.Size, MaxBrushSize, ErrInvalidBrushShape)
	}
	return nil
}

// Bounds returns the rectangle covering every cell of the brush at (cx, cy).
func (b Brush) Bounds(cx, cy int) grid.Rect {
	r := grid.RectAt(cx, cy)
	if b.Shape == Point {
		return r
	}
	if b.Shape == Line {
		r = r.Union(grid.RectAt(b.FromX, b.FromY))
	}
	return r.Inflate(b.Size)
}

// Each calls fn once for every cell covered by the brush at (cx, cy).
func (b Brush) Each(cx, cy int, fn func(x, y int)) {
	switch b.Shape {
	case Point:
		fn(cx, cy)
	case Square:
		for y := cy - b.Size; y <= cy+b.Size; y++ {
			for x := cx - b.Size; x <= cx+b.Size; x++ {
				fn(x, y)
			}
		}
	case Circle:
		disc(cx, cy, b.Size, fn)
	case Line:
		seen := make(map[[2]int]struct{})
		visit := func(x, y int) {
			k := [2]int{x, y}
			if _, ok := seen[k]; ok {
				return
			}
			seen[k] = struct{}{}
			fn(x, y)
		}
		bresenham(b.FromX, b.FromY, cx, cy, func(x, y int) {
			disc(x, y, b.Size, visit)
		})
	}
}

func disc(cx, cy, r int, fn func(x, y int)) {
	limit := r*r + r
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= limit {
				fn(cx+dx, cy+dy)
			}
		}
	}
}

func bresenham(x0, y0, x1, y1 int, fn func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		fn(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
