package preprocess

import (
	"image"
	"image/color"
	"math"

	"github.com/swdee/go-facepipe/viewport"
	"gocv.io/x/gocv"
)

// Resizer scales a frame sized Mat into the viewport following the same
// aspect policy the overlay coordinates are mapped with
type Resizer struct {
	mapper *viewport.Mapper
	// tempMat is a Mat used during the resize process
	tempMat gocv.Mat
	// destination dimensions
	destWidth  int
	destHeight int
	// scaled source dimensions
	resizeW int
	resizeH int
	// letterbox padding for Fit, crop offset for Fill
	xPad int
	yPad int
}

// NewResizer returns a resizer from srcWidth x srcHeight into
// destWidth x destHeight
func NewResizer(srcWidth, srcHeight, destWidth, destHeight int,
	policy viewport.Policy) *Resizer {

	r := &Resizer{
		mapper: viewport.NewMapper(viewport.Sz(srcWidth, srcHeight),
			viewport.Sz(destWidth, destHeight), policy),
		tempMat:    gocv.NewMat(),
		destWidth:  destWidth,
		destHeight: destHeight,
	}

	// precalculate scaling dimensions
	r.preCalc()

	return r
}

// Close frees memory allocated during resize process
func (r *Resizer) Close() error {
	return r.tempMat.Close()
}

// preCalc the integer scaled size and offsets
func (r *Resizer) preCalc() {

	src := r.mapper.Src()
	ratio := r.mapper.Ratio()

	r.resizeW = int(math.Round(src.W * ratio))
	r.resizeH = int(math.Round(src.H * ratio))

	// guard against rounding pushing the scaled size past the destination
	// on the axis that should match exactly
	if r.mapper.Policy() == viewport.Fit {
		r.resizeW = min(r.resizeW, r.destWidth)
		r.resizeH = min(r.resizeH, r.destHeight)
		r.xPad = (r.destWidth - r.resizeW) / 2
		r.yPad = (r.destHeight - r.resizeH) / 2
		return
	}

	r.resizeW = max(r.resizeW, r.destWidth)
	r.resizeH = max(r.resizeH, r.destHeight)
	r.xPad = (r.resizeW - r.destWidth) / 2
	r.yPad = (r.resizeH - r.destHeight) / 2
}

// Resize scales src into dest.  Fit letterboxes the result with the given
// color, Fill crops the overflowing axis around the centre.
func (r *Resizer) Resize(src gocv.Mat, dest *gocv.Mat, clr color.RGBA) {

	gocv.Resize(src, &r.tempMat, image.Pt(r.resizeW, r.resizeH),
		0, 0, gocv.InterpolationArea)

	if r.mapper.Policy() == viewport.Fit {
		gocv.CopyMakeBorder(r.tempMat, dest, r.yPad, r.destHeight-r.resizeH-r.yPad,
			r.xPad, r.destWidth-r.resizeW-r.xPad, gocv.BorderConstant, clr)
		return
	}

	region := r.tempMat.Region(image.Rect(r.xPad, r.yPad,
		r.xPad+r.destWidth, r.yPad+r.destHeight))
	defer region.Close()

	region.CopyTo(dest)
}

// Mapper returns the coordinate mapper matching this resize
func (r *Resizer) Mapper() *viewport.Mapper {
	return r.mapper
}

// XPad returns the horizontal letterbox padding or crop offset
func (r *Resizer) XPad() int {
	return r.xPad
}

// YPad returns the vertical letterbox padding or crop offset
func (r *Resizer) YPad() int {
	return r.yPad
}

// ScaleFactor returns the scale applied to the source
func (r *Resizer) ScaleFactor() float64 {
	return r.mapper.Ratio()
}

// Matches reports whether the resizer was built for the given source and
// destination dimensions and policy, so callers can reuse it across frames
func (r *Resizer) Matches(srcWidth, srcHeight, destWidth, destHeight int,
	policy viewport.Policy) bool {

	src := r.mapper.Src()

	return int(src.W) == srcWidth && int(src.H) == srcHeight &&
		r.destWidth == destWidth && r.destHeight == destHeight &&
		r.mapper.Policy() == policy
}
