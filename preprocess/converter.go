package preprocess

import (
	"fmt"
	"image"

	"github.com/swdee/go-facepipe/frame"
	"gocv.io/x/gocv"
)

// convKey identifies a layout conversion
type convKey struct {
	from frame.Layout
	to   frame.Layout
}

// colorCodes maps a layout conversion to the gocv color code performing it.
// Channel swaps are symmetric so the same code serves both directions.
var colorCodes = map[convKey]gocv.ColorConversionCode{
	{frame.LayoutBGRA, frame.LayoutBGR}:  gocv.ColorBGRAToBGR,
	{frame.LayoutBGRA, frame.LayoutRGB}:  gocv.ColorRGBAToBGR,
	{frame.LayoutBGRA, frame.LayoutRGBA}: gocv.ColorBGRAToRGBA,
	{frame.LayoutBGRA, frame.LayoutGray}: gocv.ColorBGRAToGray,

	{frame.LayoutRGBA, frame.LayoutRGB}:  gocv.ColorBGRAToBGR,
	{frame.LayoutRGBA, frame.LayoutBGR}:  gocv.ColorRGBAToBGR,
	{frame.LayoutRGBA, frame.LayoutBGRA}: gocv.ColorBGRAToRGBA,
	{frame.LayoutRGBA, frame.LayoutGray}: gocv.ColorRGBAToGray,

	{frame.LayoutBGR, frame.LayoutRGB}:  gocv.ColorBGRToRGB,
	{frame.LayoutBGR, frame.LayoutBGRA}: gocv.ColorBGRToBGRA,
	{frame.LayoutBGR, frame.LayoutRGBA}: gocv.ColorBGRToRGBA,
	{frame.LayoutBGR, frame.LayoutGray}: gocv.ColorBGRToGray,

	{frame.LayoutRGB, frame.LayoutBGR}:  gocv.ColorBGRToRGB,
	{frame.LayoutRGB, frame.LayoutRGBA}: gocv.ColorBGRToBGRA,
	{frame.LayoutRGB, frame.LayoutBGRA}: gocv.ColorBGRToRGBA,
	{frame.LayoutRGB, frame.LayoutGray}: gocv.ColorRGBToGray,

	{frame.LayoutGray, frame.LayoutBGR}:  gocv.ColorGrayToBGR,
	{frame.LayoutGray, frame.LayoutRGB}:  gocv.ColorGrayToBGR,
	{frame.LayoutGray, frame.LayoutBGRA}: gocv.ColorGrayToBGRA,
	{frame.LayoutGray, frame.LayoutRGBA}: gocv.ColorGrayToBGRA,

	{frame.LayoutNV21, frame.LayoutBGR}:  gocv.ColorYUVToBGRNV21,
	{frame.LayoutNV21, frame.LayoutRGB}:  gocv.ColorYUVToRGBNV21,
	{frame.LayoutNV21, frame.LayoutBGRA}: gocv.ColorYUVToBGRANV21,
	{frame.LayoutNV21, frame.LayoutRGBA}: gocv.ColorYUVToRGBANV21,
}

// Converter performs the pixel level transformations applied to captured
// frames before inference.  Every operation returns a newly allocated frame
// and leaves its input untouched.
type Converter struct {
	// Target is the layout ConvertLayout produces
	Target frame.Layout
}

// NewConverter returns a Converter producing the given layout
func NewConverter(target frame.Layout) *Converter {
	return &Converter{Target: target}
}

// DefaultConverter returns a Converter producing packed RGB
func DefaultConverter() *Converter {
	return NewConverter(frame.LayoutRGB)
}

// NeedsLayout reports whether f must pass through ConvertLayout before it
// is in the target layout
func (c *Converter) NeedsLayout(f *frame.Frame) bool {
	return f.Layout != c.Target
}

// ConvertLayout converts f into the converter's target layout
func (c *Converter) ConvertLayout(f *frame.Frame) (*frame.Frame, error) {

	const op = "convert layout"

	if err := validate(op, f); err != nil {
		return nil, err
	}

	if f.Layout == c.Target {
		return f.Clone(), nil
	}

	// the luminance plane of NV21 is already a gray image
	if f.Layout == frame.LayoutNV21 && c.Target == frame.LayoutGray {
		out := frame.Alloc(f.Width, f.Height, frame.LayoutGray).WithMeta(f)
		copy(out.Data, f.Data[:f.Width*f.Height])
		return out, nil
	}

	code, ok := colorCodes[convKey{f.Layout, c.Target}]

	if !ok {
		return nil, convErr(op, f.Layout, fmt.Errorf("no conversion to %s", c.Target))
	}

	src, err := rawMat(f)

	if err != nil {
		return nil, convErr(op, f.Layout, err)
	}

	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	gocv.CvtColor(src, &dst, code)

	out, err := fromMat(dst, c.Target, f)

	if err != nil {
		return nil, convErr(op, f.Layout, err)
	}

	return out, nil
}

// ScaleDown reduces both dimensions of f by an integer factor using area
// interpolation.  A factor of 1 returns a copy.
func (c *Converter) ScaleDown(f *frame.Frame, factor int) (*frame.Frame, error) {

	const op = "scale down"

	if err := validate(op, f); err != nil {
		return nil, err
	}

	if factor < 1 {
		return nil, convErr(op, f.Layout, fmt.Errorf("invalid factor %d", factor))
	}

	if factor == 1 {
		return f.Clone(), nil
	}

	w, h := f.Width/factor, f.Height/factor

	if w == 0 || h == 0 {
		return nil, convErr(op, f.Layout, fmt.Errorf("factor %d too large for %dx%d", factor, f.Width, f.Height))
	}

	return c.transform(op, f, func(src gocv.Mat, dst *gocv.Mat) {
		gocv.Resize(src, dst, image.Pt(w, h), 0, 0, gocv.InterpolationArea)
	})
}

// Rotate turns f clockwise by the given number of quarter turns.  Negative
// values rotate counter clockwise.
func (c *Converter) Rotate(f *frame.Frame, quarterTurns int) (*frame.Frame, error) {

	const op = "rotate"

	if err := validate(op, f); err != nil {
		return nil, err
	}

	var flag gocv.RotateFlag

	switch ((quarterTurns % 4) + 4) % 4 {
	case 0:
		return f.Clone(), nil
	case 1:
		flag = gocv.Rotate90Clockwise
	case 2:
		flag = gocv.Rotate180Clockwise
	case 3:
		flag = gocv.Rotate90CounterClockwise
	}

	return c.transform(op, f, func(src gocv.Mat, dst *gocv.Mat) {
		gocv.Rotate(src, dst, flag)
	})
}

// Mirror flips f horizontally, as needed for front facing capture
func (c *Converter) Mirror(f *frame.Frame) (*frame.Frame, error) {

	const op = "mirror"

	if err := validate(op, f); err != nil {
		return nil, err
	}

	return c.transform(op, f, func(src gocv.Mat, dst *gocv.Mat) {
		gocv.Flip(src, dst, 1)
	})
}

// transform runs a geometric gocv operation over a packed frame, keeping
// its layout
func (c *Converter) transform(op string, f *frame.Frame,
	fn func(src gocv.Mat, dst *gocv.Mat)) (*frame.Frame, error) {

	if f.Layout.Planar() {
		return nil, convErr(op, f.Layout, fmt.Errorf("planar layout must be converted first"))
	}

	src, err := rawMat(f)

	if err != nil {
		return nil, convErr(op, f.Layout, err)
	}

	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	fn(src, &dst)

	out, err := fromMat(dst, f.Layout, f)

	if err != nil {
		return nil, convErr(op, f.Layout, err)
	}

	return out, nil
}

// QuarterTurns converts a clockwise rotation in degrees into quarter turns.
// Only multiples of 90 are accepted.
func QuarterTurns(degrees int) (int, error) {

	if degrees%90 != 0 {
		return 0, fmt.Errorf("rotation of %d degrees is not a multiple of 90", degrees)
	}

	return ((degrees/90)%4 + 4) % 4, nil
}
