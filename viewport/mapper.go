package viewport

import "fmt"

// Policy defines how a source space is placed into a destination space of
// a different aspect ratio
type Policy int

const (
	// Fill scales the source to cover the whole destination, cropping the
	// overflowing axis
	Fill Policy = 0
	// Fit scales the source to lie entirely within the destination,
	// leaving letterbox bands on the short axis
	Fit Policy = 1
)

// String returns the policy name
func (p Policy) String() string {
	switch p {
	case Fill:
		return "fill"
	case Fit:
		return "fit"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy converts the names "fill" and "fit" to a Policy
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "fill":
		return Fill, nil
	case "fit":
		return Fit, nil
	}
	return Fill, fmt.Errorf("unknown aspect policy: %s", s)
}

// Mapper converts coordinates between a source space (the analysed frame)
// and a destination space (the on screen viewport) under an aspect policy.
// The scaling parameters are calculated once on creation.
type Mapper struct {
	src    Size
	dst    Size
	policy Policy
	// ratio is the uniform scale applied to both axes
	ratio float64
	// offsets applied after scaling, only one of which is non zero
	xPad float64
	yPad float64
}

// NewMapper returns a Mapper from src space to dst space
func NewMapper(src, dst Size, policy Policy) *Mapper {
	m := &Mapper{
		src:    src,
		dst:    dst,
		policy: policy,
	}

	m.preCalc()

	return m
}

// preCalc the ratio and offsets.  The axis used for the ratio is the one
// that is scaled fully, the other axis is centred.  When scaling by width
// the y axis is centred too, so overlays line up with the cropped or
// letterboxed picture rather than its top edge.
func (m *Mapper) preCalc() {

	if m.src.Empty() || m.dst.Empty() {
		m.ratio = 0
		return
	}

	dstAspect := m.dst.Aspect()
	srcAspect := m.src.Aspect()

	var byWidth bool

	switch m.policy {
	case Fit:
		byWidth = dstAspect < srcAspect
	default:
		byWidth = dstAspect > srcAspect
	}

	if byWidth {
		m.ratio = m.dst.W / m.src.W
		m.yPad = (m.dst.H - m.src.H*m.ratio) / 2
		return
	}

	m.ratio = m.dst.H / m.src.H
	m.xPad = (m.dst.W - m.src.W*m.ratio) / 2
}

// Ratio returns the uniform scale factor from source to destination
func (m *Mapper) Ratio() float64 {
	return m.ratio
}

// XPad returns the horizontal offset applied after scaling
func (m *Mapper) XPad() float64 {
	return m.xPad
}

// YPad returns the vertical offset applied after scaling
func (m *Mapper) YPad() float64 {
	return m.yPad
}

// Src returns the source space size
func (m *Mapper) Src() Size {
	return m.src
}

// Dst returns the destination space size
func (m *Mapper) Dst() Size {
	return m.dst
}

// Policy returns the aspect policy in use
func (m *Mapper) Policy() Policy {
	return m.policy
}

// Point maps p from source space to destination space
func (m *Mapper) Point(p Point) Point {
	return Point{
		X: p.X*m.ratio + m.xPad,
		Y: p.Y*m.ratio + m.yPad,
	}
}

// Rect maps r from source space to destination space
func (m *Mapper) Rect(r Rect) Rect {
	o := m.Point(Point{X: r.X, Y: r.Y})
	return Rect{
		X: o.X,
		Y: o.Y,
		W: r.W * m.ratio,
		H: r.H * m.ratio,
	}
}

// Points maps a list of points from source space to destination space
func (m *Mapper) Points(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = m.Point(p)
	}
	return out
}

// Inverse maps p from destination space back to source space.  A degenerate
// mapper returns p unchanged.
func (m *Mapper) Inverse(p Point) Point {
	if m.ratio == 0 {
		return p
	}
	return Point{
		X: (p.X - m.xPad) / m.ratio,
		Y: (p.Y - m.yPad) / m.ratio,
	}
}

// MapPoint maps p, expressed in src space, into dst space
func MapPoint(p Point, src, dst Size, policy Policy) Point {
	return NewMapper(src, dst, policy).Point(p)
}

// MapRect maps r, expressed in src space, into dst space
func MapRect(r Rect, src, dst Size, policy Policy) Rect {
	return NewMapper(src, dst, policy).Rect(r)
}
