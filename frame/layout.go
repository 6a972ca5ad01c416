package frame

import "fmt"

// Layout tags the byte ordering of a frame's pixel buffer
type Layout int

const (
	// LayoutBGRA is packed 4 channel blue, green, red, alpha.  This is the
	// format most capture devices deliver.
	LayoutBGRA Layout = iota
	// LayoutRGBA is packed 4 channel red, green, blue, alpha
	LayoutRGBA
	// LayoutBGR is packed 3 channel blue, green, red, the native gocv order
	LayoutBGR
	// LayoutRGB is packed 3 channel red, green, blue
	LayoutRGB
	// LayoutGray is single channel luminance
	LayoutGray
	// LayoutNV21 is YUV 4:2:0 with a full Y plane followed by an
	// interleaved VU plane
	LayoutNV21
)

var layoutNames = map[Layout]string{
	LayoutBGRA: "BGRA",
	LayoutRGBA: "RGBA",
	LayoutBGR:  "BGR",
	LayoutRGB:  "RGB",
	LayoutGray: "Gray",
	LayoutNV21: "NV21",
}

// String returns the layout name
func (l Layout) String() string {
	if name, ok := layoutNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// Channels returns the number of interleaved bytes per pixel.  NV21 is
// planar and reports 1 for its luminance plane.
func (l Layout) Channels() int {
	switch l {
	case LayoutBGRA, LayoutRGBA:
		return 4
	case LayoutBGR, LayoutRGB:
		return 3
	}
	return 1
}

// Packed4 reports whether the layout is a packed 4 channel format
func (l Layout) Packed4() bool {
	return l == LayoutBGRA || l == LayoutRGBA
}

// Packed3 reports whether the layout is a packed 3 channel format
func (l Layout) Packed3() bool {
	return l == LayoutBGR || l == LayoutRGB
}

// Planar reports whether the layout stores its channels in separate planes
func (l Layout) Planar() bool {
	return l == LayoutNV21
}

// BufferSize returns the number of bytes a width x height frame of this
// layout occupies
func (l Layout) BufferSize(width, height int) int {
	if l == LayoutNV21 {
		return width*height + 2*((width+1)/2)*((height+1)/2)
	}
	return width * height * l.Channels()
}
