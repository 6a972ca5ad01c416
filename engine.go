package facepipe

import (
	"errors"

	"github.com/swdee/go-facepipe/comparer"
	"github.com/swdee/go-facepipe/frame"
	"github.com/swdee/go-facepipe/render"
	"github.com/swdee/go-facepipe/result"
)

// ErrNoInferenceResult is reported when the engine produced nothing for a
// frame.  The frame is skipped and the overlay is left as it was.
var ErrNoInferenceResult = errors.New("no inference result")

// Engine is the on device analysis component.  Run is called from a single
// goroutine and never concurrently.
type Engine interface {
	Run(f *frame.Frame, opts result.Options, kind result.RunKind) (result.Detection, result.Measure, error)
}

// Converter prepares captured frames for the engine
type Converter interface {
	NeedsLayout(f *frame.Frame) bool
	ConvertLayout(f *frame.Frame) (*frame.Frame, error)
	ScaleDown(f *frame.Frame, factor int) (*frame.Frame, error)
	Rotate(f *frame.Frame, quarterTurns int) (*frame.Frame, error)
	Mirror(f *frame.Frame) (*frame.Frame, error)
}

// Renderer draws a detection over its frame for display
type Renderer interface {
	Render(f *frame.Frame, det result.Detection, rc render.Context) (*frame.Frame, error)
}

// FacingSwitcher is implemented by capture sources able to change camera
type FacingSwitcher interface {
	SwitchFacing(f frame.Facing) error
}

// Update is delivered to listeners on the display context after each
// analysed frame has been rendered
type Update struct {
	// Frame is the rendered viewport image
	Frame     *frame.Frame
	Detection result.Detection
	Measure   result.Measure
	// FPS is the estimated pipeline frame rate, -1 when not yet known
	FPS float64
}

// Listener receives rendered results
type Listener func(Update)

// PickListener is told when a new comparison reference has been chosen
type PickListener func(comparer.Selection)
