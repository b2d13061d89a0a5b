package core

// Point is a grid position. X grows to the right, Y grows downward.
type Point struct {
	X, Y int
}

// Step returns the point one step away in direction d.
func (p Point) Step(d Direction) Point {
	dx, dy := d.Delta()
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Rect is an axis-aligned grid area whose cells are numbered row-major.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if p is inside this rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// PointAt returns the position of row-major index i.
func (r Rect) PointAt(i int) Point {
	return Point{X: r.X + i%r.W, Y: r.Y + i/r.W}
}

// Index returns the row-major index of p. p must be inside r.
func (r Rect) Index(p Point) int {
	return (p.Y-r.Y)*r.W + (p.X - r.X)
}
