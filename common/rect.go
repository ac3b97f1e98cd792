package common

// Rect is an axis-aligned rectangle with a top-left origin.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// NewRect creates a rect from a top-left corner and a size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 {
	return r.X + r.Width
}

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 {
	return r.Y + r.Height
}

// Center returns the rect's center point.
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Empty reports whether the rect has no area. Degenerate rects never
// intersect anything.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersects reports whether r and other overlap.
func (r Rect) Intersects(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// OverlapX returns the overlap of the two rects' X intervals. A value
// <= 0 means the intervals are separated on this axis.
func (r Rect) OverlapX(other Rect) float64 {
	return min(r.MaxX(), other.MaxX()) - max(r.X, other.X)
}

// OverlapY returns the overlap of the two rects' Y intervals.
func (r Rect) OverlapY(other Rect) float64 {
	return min(r.MaxY(), other.MaxY()) - max(r.Y, other.Y)
}
