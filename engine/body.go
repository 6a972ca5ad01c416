package engine

import (
	"image"
	"time"

	"github.com/swdee/go-facepipe/result"
	"gocv.io/x/gocv"
)

// segmentBody separates moving foreground from the learnt background.  The
// mask is produced at the detection size and is scaled to the frame by the
// renderer.
func (e *Engine) segmentBody(img gocv.Mat, opts result.Options,
	meas *result.Measure) (result.Segment, error) {

	start := time.Now()
	defer func() { meas.Detector = time.Since(start) }()

	if e.segmenter == nil {
		s := gocv.NewBackgroundSubtractorMOG2WithParams(e.params.SegmentHistory, 16, false)
		e.segmenter = &s
	}

	small, _ := shrink(img, opts.ResizeThreshold)
	defer small.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	e.segmenter.Apply(small, &mask)

	// remove speckle and fill small holes
	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(5, 5))
	defer kernel.Close()

	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel)
	gocv.MorphologyEx(mask, &mask, gocv.MorphClose, kernel)
	gocv.GaussianBlur(mask, &mask, image.Pt(7, 7), 0, 0, gocv.BorderDefault)

	return result.Segment{
		Width:  mask.Cols(),
		Height: mask.Rows(),
		Alpha:  mask.ToBytes(),
	}, nil
}

// ResetSegmenter discards the learnt background
func (e *Engine) ResetSegmenter() error {
	if e.segmenter == nil {
		return nil
	}

	err := e.segmenter.Close()
	e.segmenter = nil

	return err
}
