package render

import (
	"fmt"
	"sync"

	"github.com/swdee/go-facepipe/comparer"
	"github.com/swdee/go-facepipe/frame"
	"github.com/swdee/go-facepipe/preprocess"
	"github.com/swdee/go-facepipe/result"
	"github.com/swdee/go-facepipe/tracker"
	"github.com/swdee/go-facepipe/viewport"
	"gocv.io/x/gocv"
)

// Context is the state shared between the analysis worker and the
// renderer for one frame
type Context struct {
	// Reference is the face other faces are compared against, nil when none
	// has been picked
	Reference *comparer.Selection
	// Background is shown behind a segmented person, nil to tint instead
	Background *Background
	// FPS is the estimated pipeline frame rate, negative when unknown
	FPS     float64
	Measure result.Measure
}

// Renderer draws a detection over its frame and scales the result into
// the viewport
type Renderer struct {
	mu      sync.Mutex
	view    viewport.Size
	policy  viewport.Policy
	style   Style
	cmp     comparer.Comparator
	resizer *preprocess.Resizer
	trail   *tracker.Trail
	hud     hud
}

// NewRenderer returns a renderer producing view sized output.  A zero view
// renders at the frame's own size.
func NewRenderer(view viewport.Size, policy viewport.Policy, style Style,
	cmp comparer.Comparator) *Renderer {

	r := &Renderer{
		view:   view,
		policy: policy,
		style:  style,
		cmp:    cmp,
	}

	if style.Trail {
		r.trail = tracker.NewTrail(style.TrailStyle.Length, style.TrailStyle.MaxAge)
	}

	return r
}

// SetViewport changes the output size and aspect policy
func (r *Renderer) SetViewport(view viewport.Size, policy viewport.Policy) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.view = view
	r.policy = policy
}

// Reset clears the trail history
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.trail != nil {
		r.trail.Reset()
	}
}

// Close frees the memory held by the renderer
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resizer != nil {
		err := r.resizer.Close()
		r.resizer = nil
		return err
	}

	return nil
}

// resizerFor returns a resizer from the frame size into the viewport,
// reusing the previous one when dimensions are unchanged
func (r *Renderer) resizerFor(width, height int) *preprocess.Resizer {

	vw, vh := int(r.view.W), int(r.view.H)

	if r.view.Empty() {
		vw, vh = width, height
	}

	if r.resizer != nil && r.resizer.Matches(width, height, vw, vh, r.policy) {
		return r.resizer
	}

	if r.resizer != nil {
		r.resizer.Close()
	}

	r.resizer = preprocess.NewResizer(width, height, vw, vh, r.policy)

	return r.resizer
}

// Render draws det over f and returns a new BGR frame of the viewport size.
// f is not modified.
func (r *Renderer) Render(f *frame.Frame, det result.Detection, rc Context) (*frame.Frame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	img, err := preprocess.ToMat(f)

	if err != nil {
		return nil, fmt.Errorf("error preparing frame: %w", err)
	}

	defer img.Close()

	// segmentation is composited in frame space before scaling
	if det.Kind == result.RunBody && !det.Segment.IsEmpty() {
		if err := drawSegment(&img, det.Segment, rc.Background, r.style); err != nil {
			return nil, fmt.Errorf("error compositing segment: %w", err)
		}
	}

	canvas := gocv.NewMat()
	defer canvas.Close()

	resizer := r.resizerFor(f.Width, f.Height)
	resizer.Resize(img, &canvas, r.style.Letterbox)
	mapper := resizer.Mapper()

	switch det.Kind {
	case result.RunFace:
		if r.trail != nil {
			recordTrail(r.trail, det.Faces)
			Trail(&canvas, mapper, det.Faces, r.trail, r.style.TrailStyle)
		}
		Faces(&canvas, mapper, det.Faces, rc.Reference, r.cmp, r.style)

	case result.RunDocument:
		Document(&canvas, mapper, det.Document, r.style)
	}

	if r.style.HUD {
		r.hud.add(rc.Measure)
		r.hud.draw(&canvas, rc, HUDFont())
	}

	out, err := preprocess.FromMat(canvas)

	if err != nil {
		return nil, err
	}

	return out.WithMeta(f), nil
}
