package viewport

import (
	"image"
	"math"
)

// Point is a 2D coordinate in some pixel space
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Image rounds the point to the nearest integer pixel
func (p Point) Image() image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

// Size is the width and height of a pixel space
type Size struct {
	W, H float64
}

// Sz is shorthand for Size{W: w, H: h}
func Sz(w, h int) Size {
	return Size{W: float64(w), H: float64(h)}
}

// Aspect returns width over height, or 0 for a degenerate size
func (s Size) Aspect() float64 {
	if s.H == 0 {
		return 0
	}
	return s.W / s.H
}

// Empty reports whether either dimension is not positive
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Rect is an axis aligned rectangle described by its top left origin and
// its dimensions
type Rect struct {
	X, Y, W, H float64
}

// RectFromImage converts an integer image rectangle
func RectFromImage(r image.Rectangle) Rect {
	return Rect{
		X: float64(r.Min.X),
		Y: float64(r.Min.Y),
		W: float64(r.Dx()),
		H: float64(r.Dy()),
	}
}

// Left returns the x coordinate of the left edge
func (r Rect) Left() float64 { return r.X }

// Top returns the y coordinate of the top edge
func (r Rect) Top() float64 { return r.Y }

// Right returns the x coordinate of the right edge
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the mid point of the rectangle
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside r.  The left and top edges are
// inclusive, the right and bottom edges exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X < r.Right() &&
		p.Y >= r.Top() && p.Y < r.Bottom()
}

// Intersect returns the largest rectangle contained by both r and o.  If the
// two do not overlap the zero Rect is returned.
func (r Rect) Intersect(o Rect) Rect {
	x0 := math.Max(r.Left(), o.Left())
	y0 := math.Max(r.Top(), o.Top())
	x1 := math.Min(r.Right(), o.Right())
	y1 := math.Min(r.Bottom(), o.Bottom())

	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}

	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Empty reports whether the rectangle has no area
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Image converts the rectangle to integer pixel bounds, expanding outwards
// so partially covered pixels are included
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Left())), int(math.Floor(r.Top())),
		int(math.Ceil(r.Right())), int(math.Ceil(r.Bottom())),
	)
}

// IoU returns the intersection over union of two rectangles
func (r Rect) IoU(o Rect) float64 {
	in := r.Intersect(o)
	if in.Empty() {
		return 0
	}

	inArea := in.W * in.H
	union := r.W*r.H + o.W*o.H - inArea

	if union <= 0 {
		return 0
	}

	return inArea / union
}
