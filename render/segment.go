package render

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/swdee/go-facepipe/result"
	"gocv.io/x/gocv"
	"golang.org/x/image/draw"
)

// Background is an image shown behind a segmented person.  Scaled copies
// are cached per frame size.
type Background struct {
	img image.Image

	mu     sync.Mutex
	cached map[image.Point][]byte
}

// NewBackground wraps img for use as a segmentation background
func NewBackground(img image.Image) *Background {
	return &Background{
		img:    img,
		cached: make(map[image.Point][]byte),
	}
}

// BGR returns the background stretched to width x height as packed BGR
// bytes.  The returned slice is shared and must not be modified.
func (b *Background) BGR(width, height int) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := image.Pt(width, height)

	if data, ok := b.cached[key]; ok {
		return data
	}

	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), b.img, b.img.Bounds(), draw.Src, nil)

	data := make([]byte, width*height*3)

	for i, j := 0, 0; i < len(scaled.Pix); i, j = i+4, j+3 {
		data[j+0] = scaled.Pix[i+2]
		data[j+1] = scaled.Pix[i+1]
		data[j+2] = scaled.Pix[i+0]
	}

	// frame sizes rarely change, keep only the latest
	b.cached = map[image.Point][]byte{key: data}

	return data
}

// Composite erases the background wherever the mask marks foreground and
// lays the result over fg.  Each output pixel is
//
//	bg*(255-alpha)/255 + fg*alpha/255
//
// so an all zero mask shows only the background and an all 255 mask only
// the foreground.  Inputs are not modified and the output is a new buffer.
func Composite(fg, bg []byte, alpha []uint8, channels int) ([]byte, error) {

	if len(fg) != len(bg) {
		return nil, fmt.Errorf("foreground is %d bytes, background %d", len(fg), len(bg))
	}

	if len(alpha)*channels != len(fg) {
		return nil, fmt.Errorf("mask of %d pixels does not cover %d bytes of %d channels",
			len(alpha), len(fg), channels)
	}

	out := make([]byte, len(fg))

	for i, a := range alpha {
		fa := uint32(a)
		ba := 255 - fa

		for c := 0; c < channels; c++ {
			off := i*channels + c
			out[off] = uint8((uint32(bg[off])*ba + uint32(fg[off])*fa + 127) / 255)
		}
	}

	return out, nil
}

// Tint blends a color into fg in proportion to the mask, scaled by
// strength.  It is used when no background image is set.
func Tint(fg []byte, alpha []uint8, clr color.RGBA, strength float32) ([]byte, error) {

	if len(alpha)*3 != len(fg) {
		return nil, fmt.Errorf("mask of %d pixels does not cover %d BGR bytes", len(alpha), len(fg))
	}

	out := make([]byte, len(fg))
	copy(out, fg)

	for i, a := range alpha {

		if a == 0 {
			continue
		}

		w := strength * float32(a) / 255
		pos := i * 3

		b, g, r := out[pos+0], out[pos+1], out[pos+2]

		out[pos+0] = uint8(float32(b)*(1-w) + float32(clr.B)*w)
		out[pos+1] = uint8(float32(g)*(1-w) + float32(clr.G)*w)
		out[pos+2] = uint8(float32(r)*(1-w) + float32(clr.R)*w)
	}

	return out, nil
}

// segmentAlpha returns the mask resized to width x height if needed
func segmentAlpha(seg result.Segment, width, height int) ([]uint8, error) {

	if len(seg.Alpha) != seg.Width*seg.Height {
		return nil, fmt.Errorf("segment mask of %d bytes does not match %dx%d",
			len(seg.Alpha), seg.Width, seg.Height)
	}

	if seg.Width == width && seg.Height == height {
		return seg.Alpha, nil
	}

	src, err := gocv.NewMatFromBytes(seg.Height, seg.Width, gocv.MatTypeCV8U, seg.Alpha)

	if err != nil {
		return nil, fmt.Errorf("error creating mask Mat: %w", err)
	}

	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	gocv.Resize(src, &dst, image.Pt(width, height), 0, 0, gocv.InterpolationLinear)

	return dst.ToBytes(), nil
}

// drawSegment composites the segment over the background, or tints it when
// no background is given, on a frame sized BGR Mat
func drawSegment(img *gocv.Mat, seg result.Segment, bg *Background, style Style) error {

	width := img.Cols()
	height := img.Rows()

	alpha, err := segmentAlpha(seg, width, height)

	if err != nil {
		return err
	}

	// it is too slow to manipulate pixel by pixel using GoCV due to slowness
	// over CGO.  So we copy the bytes from the source image and manipulate
	// the bytes directly before copying back to a Mat
	imgData := img.ToBytes()

	var out []byte

	if bg != nil {
		out, err = Composite(imgData, bg.BGR(width, height), alpha, 3)
	} else {
		out, err = Tint(imgData, alpha, style.SegmentColor, style.SegmentAlpha)
	}

	if err != nil {
		return err
	}

	// copy back to the original mat
	tmpImg, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC3, out)

	if err != nil {
		return fmt.Errorf("error creating segment Mat: %w", err)
	}

	defer tmpImg.Close()
	tmpImg.CopyTo(img)

	return nil
}
