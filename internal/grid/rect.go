package grid

// Rect is a half-open world-space rectangle [X0,X1) x [Y0,Y1).
type Rect struct {
	X0, Y0, X1, Y1 int
}

// RectAt returns the 1x1 rectangle covering (x, y).
func RectAt(x, y int) Rect { return Rect{X0: x, Y0: y, X1: x + 1, Y1: y + 1} }

func (r Rect) Empty() bool { return r.X0 >= r.X1 || r.Y0 >= r.Y1 }
func (r Rect) Dx() int     { return r.X1 - r.X0 }
func (r Rect) Dy() int     { return r.Y1 - r.Y0 }

func (r Rect) Contains(x, y int) bool {
	return x >= r.X0 && x < r.X1 && y >= r.Y0 && y < r.Y1
}

// Union returns the smallest rectangle covering r and o. Empty operands are
// ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{
		X0: min(r.X0, o.X0),
		Y0: min(r.Y0, o.Y0),
		X1: max(r.X1, o.X1),
		Y1: max(r.Y1, o.Y1),
	}
}

// Intersect returns the overlap of r and o, or the zero Rect.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		X0: max(r.X0, o.X0),
		Y0: max(r.Y0, o.Y0),
		X1: min(r.X1, o.X1),
		Y1: min(r.Y1, o.Y1),
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// Inflate grows r by n cells on every side.
func (r Rect) Inflate(n int) Rect {
	if r.Empty() {
		return r
	}
	return Rect{X0: r.X0 - n, Y0: r.Y0 - n, X1: r.X1 + n, Y1: r.Y1 + n}
}
