package render

import "image/color"

// Style holds the drawing parameters used by the Renderer
type Style struct {
	Font Font
	// LineThickness of face boxes, spoof crosses and document outlines
	LineThickness int
	// ContourRadius of the landmark dots
	ContourRadius int
	// MaskAlpha is the opacity of the fill drawn over a masked face
	MaskAlpha float64
	// CornerRadius of the document corner dots
	CornerRadius int
	// SegmentColor and SegmentAlpha tint the segment when there is no
	// background image
	SegmentColor color.RGBA
	SegmentAlpha float32
	// Letterbox is the color of the bands left by the Fit policy
	Letterbox color.RGBA
	// HUD enables the statistics header
	HUD bool
	// Trail enables trails behind tracked faces
	Trail      bool
	TrailStyle TrailStyle
}

// DefaultStyle returns default style settings
func DefaultStyle() Style {
	return Style{
		Font:          DefaultFont(),
		LineThickness: 2,
		ContourRadius: 2,
		MaskAlpha:     float64(0x6f) / 255,
		CornerRadius:  5,
		SegmentColor:  classColors[7],
		SegmentAlpha:  0.5,
		Letterbox:     Black,
		HUD:           false,
		Trail:         false,
		TrailStyle:    DefaultTrailStyle(),
	}
}
