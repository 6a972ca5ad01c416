package frame

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/swdee/go-facepipe/viewport"
)

// Frame is a single image buffer with its dimensions and pixel layout.  A
// Frame handed to a consumer is exclusively owned by that consumer until it
// calls Release.
type Frame struct {
	Width  int
	Height int
	Layout Layout
	Data   []byte
	// Timestamp is the time the frame arrived from the capture device
	Timestamp time.Time
	// Seq is the capture sequence number
	Seq uint64

	release     func([]byte)
	releaseOnce sync.Once
}

// New returns a frame wrapping data.  The buffer must be exactly the size
// the layout requires for the given dimensions.
func New(width, height int, layout Layout, data []byte) (*Frame, error) {

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame dimensions %dx%d", width, height)
	}

	if want := layout.BufferSize(width, height); len(data) != want {
		return nil, fmt.Errorf("frame buffer for %dx%d %s must be %d bytes, got %d",
			width, height, layout, want, len(data))
	}

	return &Frame{
		Width:  width,
		Height: height,
		Layout: layout,
		Data:   data,
	}, nil
}

// Alloc returns a frame with a newly allocated zeroed buffer
func Alloc(width, height int, layout Layout) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Layout: layout,
		Data:   make([]byte, layout.BufferSize(width, height)),
	}
}

// Size returns the frame dimensions as a viewport size
func (f *Frame) Size() viewport.Size {
	return viewport.Sz(f.Width, f.Height)
}

// Bounds returns the frame's pixel rectangle
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// Stride returns the number of bytes in one row of a packed frame
func (f *Frame) Stride() int {
	return f.Width * f.Layout.Channels()
}

// WithMeta copies the capture timestamp and sequence number from src
func (f *Frame) WithMeta(src *Frame) *Frame {
	f.Timestamp = src.Timestamp
	f.Seq = src.Seq
	return f
}

// OnRelease sets the function called with the buffer when the frame is
// released
func (f *Frame) OnRelease(fn func([]byte)) {
	f.release = fn
}

// Release hands the buffer back to its owner.  It is safe to call more than
// once and on frames without an owner.
func (f *Frame) Release() {
	if f == nil {
		return
	}

	f.releaseOnce.Do(func() {
		if f.release != nil {
			f.release(f.Data)
		}
	})
}

// Clone returns a deep copy of the frame which has no release owner
func (f *Frame) Clone() *Frame {
	data := make([]byte, len(f.Data))
	copy(data, f.Data)

	return &Frame{
		Width:     f.Width,
		Height:    f.Height,
		Layout:    f.Layout,
		Data:      data,
		Timestamp: f.Timestamp,
		Seq:       f.Seq,
	}
}

// Crop copies the pixels inside r into a new frame.  r is clipped to the
// frame bounds first.  Planar layouts are not supported.
func (f *Frame) Crop(r image.Rectangle) (*Frame, error) {

	if f.Layout.Planar() {
		return nil, fmt.Errorf("crop of planar layout %s not supported", f.Layout)
	}

	r = r.Intersect(f.Bounds())

	if r.Empty() {
		return nil, fmt.Errorf("crop rectangle outside frame bounds")
	}

	ch := f.Layout.Channels()
	stride := f.Stride()
	rowLen := r.Dx() * ch

	out := Alloc(r.Dx(), r.Dy(), f.Layout).WithMeta(f)

	for y := 0; y < r.Dy(); y++ {
		srcOff := (r.Min.Y+y)*stride + r.Min.X*ch
		copy(out.Data[y*rowLen:(y+1)*rowLen], f.Data[srcOff:srcOff+rowLen])
	}

	return out, nil
}
