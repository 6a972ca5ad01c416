package comparer

import (
	"sync"

	"github.com/swdee/go-facepipe/frame"
	"github.com/swdee/go-facepipe/result"
	"github.com/swdee/go-facepipe/viewport"
)

// Selection is a face chosen as the comparison reference along with the
// pixels of the frame it was cropped from
type Selection struct {
	Face result.Face
	// Crop holds the face's bounding box cut from the analysed frame
	Crop *frame.Frame
}

// Picker turns a tap on the viewport into a reference face.  At most one
// request is outstanding, a newer tap replaces an older unresolved one.
type Picker struct {
	mu      sync.Mutex
	tap     viewport.Point
	pending bool
	view    viewport.Size
	policy  viewport.Policy
}

// NewPicker returns a picker for a viewport of the given size and aspect
// policy
func NewPicker(view viewport.Size, policy viewport.Policy) *Picker {
	return &Picker{
		view:   view,
		policy: policy,
	}
}

// SetViewport updates the viewport the tap coordinates refer to
func (p *Picker) SetViewport(view viewport.Size, policy viewport.Policy) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.view = view
	p.policy = policy
}

// Request records a tap at the given viewport coordinates.  It is resolved
// against the next analysis result to complete, including one already in
// flight when the tap was made.
func (p *Picker) Request(tap viewport.Point) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tap = tap
	p.pending = true
}

// Pending reports whether a request is waiting to be resolved
func (p *Picker) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.pending
}

// Cancel discards any outstanding request
func (p *Picker) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending = false
}

// Resolve consumes the outstanding request against the faces found in f.
// The tap is mapped from viewport to frame coordinates and the first face
// whose box, clipped to the frame, contains it is selected.  The request is
// cleared whether or not a face matched.
func (p *Picker) Resolve(f *frame.Frame, faces []result.Face) (Selection, bool) {

	p.mu.Lock()
	if !p.pending {
		p.mu.Unlock()
		return Selection{}, false
	}

	tap, view, policy := p.tap, p.view, p.policy
	p.pending = false
	p.mu.Unlock()

	if f == nil || len(faces) == 0 {
		return Selection{}, false
	}

	bounds := viewport.RectFromImage(f.Bounds())
	pt := viewport.NewMapper(f.Size(), view, policy).Inverse(tap)

	for _, face := range faces {
		box := face.Box.Intersect(bounds)

		if box.Empty() || !box.Contains(pt) {
			continue
		}

		if sel, ok := Select(f, face); ok {
			return sel, true
		}
	}

	return Selection{}, false
}

// Select builds a selection for face, cropping its box clipped to the
// frame bounds
func Select(f *frame.Frame, face result.Face) (Selection, bool) {

	box := face.Box.Intersect(viewport.RectFromImage(f.Bounds()))

	if box.Empty() {
		return Selection{}, false
	}

	crop, err := f.Crop(box.Image())

	if err != nil {
		return Selection{}, false
	}

	return Selection{Face: face.Clone(), Crop: crop}, true
}
