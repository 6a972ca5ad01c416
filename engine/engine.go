// Package engine provides an analysis engine built on OpenCV.  Faces are
// found with a cascade classifier, documents from the largest four sided
// contour and people by background subtraction.
package engine

import (
	"fmt"
	"image"
	"time"

	"github.com/swdee/go-facepipe/frame"
	"github.com/swdee/go-facepipe/preprocess"
	"github.com/swdee/go-facepipe/result"
	"github.com/swdee/go-facepipe/tracker"
	"go.uber.org/multierr"
	"gocv.io/x/gocv"
)

// FaceDetector finds faces in a grayscale image
type FaceDetector interface {
	Detect(gray gocv.Mat) []image.Rectangle
}

// Engine runs the analysis for each run kind.  It is not safe for
// concurrent use.
type Engine struct {
	params   Params
	faces    FaceDetector
	eyes     FaceDetector
	assigner *tracker.Assigner
	// segmenter is created on the first body run
	segmenter *gocv.BackgroundSubtractorMOG2
	closers   []func() error
}

// New loads the cascades named in params and returns an engine
func New(params Params) (*Engine, error) {

	faces, err := LoadCascade(params.FaceCascade, params)

	if err != nil {
		return nil, err
	}

	e := newEngine(params, faces)
	e.closers = append(e.closers, faces.Close)

	if params.EyeCascade != "" {
		eyes, err := LoadCascade(params.EyeCascade, params)

		if err != nil {
			e.Close()
			return nil, err
		}

		e.eyes = eyes
		e.closers = append(e.closers, eyes.Close)
	}

	return e, nil
}

// NewWithDetector returns an engine using the given face detector
func NewWithDetector(params Params, faces FaceDetector) *Engine {
	return newEngine(params, faces)
}

func newEngine(params Params, faces FaceDetector) *Engine {
	return &Engine{
		params:   params,
		faces:    faces,
		assigner: tracker.NewAssigner(params.TrackIoU, params.TrackMaxLost),
	}
}

// Run analyses f for the given kind
func (e *Engine) Run(f *frame.Frame, opts result.Options,
	kind result.RunKind) (result.Detection, result.Measure, error) {

	start := time.Now()

	img, err := preprocess.ToMat(f)

	if err != nil {
		return result.Detection{}, result.Measure{}, err
	}

	defer img.Close()

	det := result.Empty(kind)
	var meas result.Measure

	switch kind {
	case result.RunFace:
		det.Faces, err = e.detectFaces(img, opts, &meas)

	case result.RunDocument:
		det.Document, err = e.detectDocument(img, opts, &meas)

	case result.RunBody:
		det.Segment, err = e.segmentBody(img, opts, &meas)

	default:
		err = fmt.Errorf("unsupported run kind: %s", kind)
	}

	if err != nil {
		return result.Detection{}, result.Measure{}, err
	}

	if took := time.Since(start); took > 0 {
		meas.NativeFPS = float64(time.Second) / float64(took)
	}

	return det, meas, nil
}

// ResetTracking forgets all face tracks
func (e *Engine) ResetTracking() {
	e.assigner.Reset()
}

// Close releases the cascades and the background model
func (e *Engine) Close() error {

	var err error

	for _, c := range e.closers {
		err = multierr.Append(err, c())
	}

	e.closers = nil

	if e.segmenter != nil {
		err = multierr.Append(err, e.segmenter.Close())
		e.segmenter = nil
	}

	return err
}

// shrink reduces img so its longest side is at most limit, returning the
// factor to multiply coordinates by to get back to img's size.  The caller
// closes the returned Mat.
func shrink(img gocv.Mat, limit int) (gocv.Mat, float64) {

	longest := img.Cols()
	if img.Rows() > longest {
		longest = img.Rows()
	}

	if limit <= 0 || longest <= limit {
		return img.Clone(), 1
	}

	scale := float64(limit) / float64(longest)

	out := gocv.NewMat()
	gocv.Resize(img, &out, image.Point{}, scale, scale, gocv.InterpolationArea)

	return out, 1 / scale
}
