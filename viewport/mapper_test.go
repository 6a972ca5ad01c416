package viewport

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestMapPoint(t *testing.T) {

	tests := []struct {
		name   string
		src    Size
		dst    Size
		policy Policy
		in     Point
		want   Point
	}{
		{"wide view fill centre", Size{100, 100}, Size{200, 100}, Fill, Point{50, 50}, Point{100, 50}},
		{"wide view fill origin", Size{100, 100}, Size{200, 100}, Fill, Point{0, 0}, Point{0, -50}},
		{"wide view fit centre", Size{100, 100}, Size{200, 100}, Fit, Point{50, 50}, Point{100, 50}},
		{"wide view fit origin", Size{100, 100}, Size{200, 100}, Fit, Point{0, 0}, Point{50, 0}},
		{"equal aspect fill", Size{100, 50}, Size{200, 100}, Fill, Point{10, 20}, Point{20, 40}},
		{"equal aspect fit", Size{100, 50}, Size{200, 100}, Fit, Point{10, 20}, Point{20, 40}},
		{"wide frame fill", Size{400, 200}, Size{100, 100}, Fill, Point{0, 0}, Point{-50, 0}},
		{"wide frame fit", Size{400, 200}, Size{100, 100}, Fit, Point{0, 0}, Point{0, 25}},
		{"portrait fill", Size{480, 640}, Size{1080, 1920}, Fill, Point{0, 0}, Point{-180, 0}},
		{"portrait fill centre", Size{480, 640}, Size{1080, 1920}, Fill, Point{240, 320}, Point{540, 960}},
		{"portrait fit", Size{480, 640}, Size{1080, 1920}, Fit, Point{0, 0}, Point{0, 240}},
		{"portrait fit centre", Size{480, 640}, Size{1080, 1920}, Fit, Point{240, 320}, Point{540, 960}},
	}

	for _, tc := range tests {
		got := MapPoint(tc.in, tc.src, tc.dst, tc.policy)

		if !near(got.X, tc.want.X) || !near(got.Y, tc.want.Y) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestMapRect(t *testing.T) {

	tests := []struct {
		name   string
		src    Size
		dst    Size
		policy Policy
		in     Rect
		want   Rect
	}{
		{"wide view fill", Size{100, 100}, Size{200, 100}, Fill, Rect{10, 20, 30, 40}, Rect{20, -10, 60, 80}},
		{"wide frame fill", Size{400, 200}, Size{100, 100}, Fill, Rect{100, 50, 200, 100}, Rect{0, 25, 100, 50}},
		{"wide frame fit", Size{400, 200}, Size{100, 100}, Fit, Rect{100, 50, 200, 100}, Rect{25, 37.5, 50, 25}},
		{"equal aspect", Size{100, 50}, Size{200, 100}, Fit, Rect{0, 0, 100, 50}, Rect{0, 0, 200, 100}},
	}

	for _, tc := range tests {
		got := MapRect(tc.in, tc.src, tc.dst, tc.policy)

		if !near(got.X, tc.want.X) || !near(got.Y, tc.want.Y) ||
			!near(got.W, tc.want.W) || !near(got.H, tc.want.H) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestMapperEqualAspectHasNoOffset(t *testing.T) {

	for _, policy := range []Policy{Fill, Fit} {
		m := NewMapper(Size{360, 640}, Size{1080, 1920}, policy)

		if m.XPad() != 0 || m.YPad() != 0 {
			t.Errorf("%s: expected no offset, got xPad=%f yPad=%f", policy, m.XPad(), m.YPad())
		}

		if !near(m.Ratio(), 3) {
			t.Errorf("%s: expected ratio 3, got %f", policy, m.Ratio())
		}
	}
}

func TestMapperInverse(t *testing.T) {

	sizes := []struct {
		src Size
		dst Size
	}{
		{Size{100, 100}, Size{200, 100}},
		{Size{400, 200}, Size{100, 100}},
		{Size{480, 640}, Size{1080, 1920}},
		{Size{1280, 720}, Size{720, 1280}},
	}

	pts := []Point{{0, 0}, {13.5, 7.25}, {99, 1}}

	for _, sz := range sizes {
		for _, policy := range []Policy{Fill, Fit} {
			m := NewMapper(sz.src, sz.dst, policy)

			for _, p := range pts {
				back := m.Inverse(m.Point(p))

				if !near(back.X, p.X) || !near(back.Y, p.Y) {
					t.Errorf("src %v dst %v %s: expected %v, got %v", sz.src, sz.dst, policy, p, back)
				}
			}
		}
	}
}

func TestMapperDegenerate(t *testing.T) {

	m := NewMapper(Size{0, 100}, Size{200, 100}, Fill)

	if m.Ratio() != 0 {
		t.Errorf("expected zero ratio for empty source, got %f", m.Ratio())
	}

	p := Point{5, 6}
	if got := m.Inverse(p); got != p {
		t.Errorf("expected inverse to pass point through, got %v", got)
	}
}

func TestRectContainsAndIntersect(t *testing.T) {

	r := Rect{10, 10, 20, 20}

	tests := []struct {
		p    Point
		want bool
	}{
		{Point{10, 10}, true},
		{Point{29.9, 29.9}, true},
		{Point{30, 15}, false},
		{Point{15, 30}, false},
		{Point{9.9, 15}, false},
	}

	for _, tc := range tests {
		if got := r.Contains(tc.p); got != tc.want {
			t.Errorf("Contains(%v): expected %t, got %t", tc.p, tc.want, got)
		}
	}

	in := r.Intersect(Rect{0, 0, 15, 100})
	if in != (Rect{10, 10, 5, 20}) {
		t.Errorf("unexpected intersection %v", in)
	}

	if !r.Intersect(Rect{100, 100, 5, 5}).Empty() {
		t.Errorf("expected empty intersection for disjoint rects")
	}
}

func TestParsePolicy(t *testing.T) {

	if p, err := ParsePolicy("fit"); err != nil || p != Fit {
		t.Errorf("expected Fit, got %v %v", p, err)
	}

	if _, err := ParsePolicy("stretch"); err == nil {
		t.Errorf("expected error for unknown policy")
	}
}
