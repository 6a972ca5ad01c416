package preprocess

import (
	"fmt"

	"github.com/swdee/go-facepipe/frame"
	"gocv.io/x/gocv"
)

// matType returns the gocv Mat type holding a packed layout
func matType(l frame.Layout) (gocv.MatType, error) {
	switch l.Channels() {
	case 4:
		return gocv.MatTypeCV8UC4, nil
	case 3:
		return gocv.MatTypeCV8UC3, nil
	case 1:
		return gocv.MatTypeCV8UC1, nil
	}
	return gocv.MatTypeCV8U, fmt.Errorf("no mat type for layout %s", l)
}

// validate checks the frame's buffer matches its declared dimensions
func validate(op string, f *frame.Frame) error {

	if f == nil {
		return convErr(op, frame.Layout(-1), fmt.Errorf("nil frame"))
	}

	if f.Width <= 0 || f.Height <= 0 {
		return convErr(op, f.Layout, fmt.Errorf("invalid dimensions %dx%d", f.Width, f.Height))
	}

	if want := f.Layout.BufferSize(f.Width, f.Height); len(f.Data) != want {
		return convErr(op, f.Layout, fmt.Errorf("buffer is %d bytes, expected %d", len(f.Data), want))
	}

	return nil
}

// rawMat wraps the frame's bytes in a Mat without any color conversion.
// NV21 frames are wrapped as a single channel Mat of height*3/2 rows.
func rawMat(f *frame.Frame) (gocv.Mat, error) {

	if f.Layout == frame.LayoutNV21 {
		if f.Width%2 != 0 || f.Height%2 != 0 {
			return gocv.NewMat(), fmt.Errorf("NV21 requires even dimensions, got %dx%d", f.Width, f.Height)
		}
		return gocv.NewMatFromBytes(f.Height*3/2, f.Width, gocv.MatTypeCV8U, f.Data)
	}

	mt, err := matType(f.Layout)

	if err != nil {
		return gocv.NewMat(), err
	}

	return gocv.NewMatFromBytes(f.Height, f.Width, mt, f.Data)
}

// fromMat copies a Mat's pixels into a new frame carrying the capture
// metadata of src
func fromMat(m gocv.Mat, layout frame.Layout, src *frame.Frame) (*frame.Frame, error) {

	out, err := frame.New(m.Cols(), m.Rows(), layout, m.ToBytes())

	if err != nil {
		return nil, err
	}

	if src != nil {
		out.WithMeta(src)
	}

	return out, nil
}

// ToMat returns a BGR Mat copy of the frame suitable for drawing on.  The
// caller must Close the Mat.
func ToMat(f *frame.Frame) (gocv.Mat, error) {

	if err := validate("to mat", f); err != nil {
		return gocv.NewMat(), err
	}

	raw, err := rawMat(f)

	if err != nil {
		return gocv.NewMat(), convErr("to mat", f.Layout, err)
	}

	defer raw.Close()

	bgr := gocv.NewMat()

	if f.Layout == frame.LayoutBGR {
		raw.CopyTo(&bgr)
		return bgr, nil
	}

	code, ok := colorCodes[convKey{f.Layout, frame.LayoutBGR}]

	if !ok {
		bgr.Close()
		return gocv.NewMat(), convErr("to mat", f.Layout, fmt.Errorf("no conversion to BGR"))
	}

	gocv.CvtColor(raw, &bgr, code)

	return bgr, nil
}

// FromMat copies a BGR Mat into a new BGR frame
func FromMat(m gocv.Mat) (*frame.Frame, error) {

	if m.Empty() {
		return nil, convErr("from mat", frame.LayoutBGR, fmt.Errorf("empty mat"))
	}

	if m.Channels() != 3 {
		return nil, convErr("from mat", frame.LayoutBGR, fmt.Errorf("expected 3 channels, got %d", m.Channels()))
	}

	return fromMat(m, frame.LayoutBGR, nil)
}
