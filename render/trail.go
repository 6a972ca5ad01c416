package render

import (
	"image/color"

	"github.com/swdee/go-facepipe/result"
	"github.com/swdee/go-facepipe/tracker"
	"github.com/swdee/go-facepipe/viewport"
	"gocv.io/x/gocv"
)

// TrailStyle defines the parameters used for rendering the trail style
type TrailStyle struct {
	// LineSame defines if the color of the trail line should be the
	// palette color of the tracking id.  If set to false then use
	// the color specified at LineColor
	LineSame      bool
	LineColor     color.RGBA
	LineThickness int
	// CircleSame defines if the color of the midpoint circle should be the
	// palette color of the tracking id.  If set to false then use
	// the color specified at CircleColor
	CircleSame   bool
	CircleColor  color.RGBA
	CircleRadius int
	// Length is the number of centre points kept per face
	Length int
	// MaxAge is the number of frames a face may be missing before its
	// trail is dropped
	MaxAge int
}

// DefaultTrailStyle returns default trail style settings
func DefaultTrailStyle() TrailStyle {
	return TrailStyle{
		LineSame:      false,
		LineColor:     Yellow,
		LineThickness: 1,
		CircleSame:    true,
		CircleColor:   Pink,
		CircleRadius:  3,
		Length:        30,
		MaxAge:        15,
	}
}

// recordTrail adds the tracked faces to the trail history
func recordTrail(trail *tracker.Trail, faces []result.Face) {

	boxes := make(map[int]viewport.Rect)

	for _, face := range faces {
		if face.Has(result.InfoTrackingIDs) {
			boxes[face.TrackingID] = face.Box
		}
	}

	trail.Update(boxes)
}

// Trail draws the trail behind each tracked face.  History is held in
// frame coordinates and mapped onto the canvas with m.
func Trail(img *gocv.Mat, m *viewport.Mapper, faces []result.Face,
	trail *tracker.Trail, style TrailStyle) {

	for _, face := range faces {

		if !face.Has(result.InfoTrackingIDs) {
			continue
		}

		objClr := paletteColor(face.TrackingID)

		// determine style colors to use
		lineClr := objClr
		circleClr := objClr

		if !style.LineSame {
			lineClr = style.LineColor
		}

		if !style.CircleSame {
			circleClr = style.CircleColor
		}

		points := m.Points(trail.GetPoints(face.TrackingID))

		if len(points) < 2 {
			continue
		}

		for i := 1; i < len(points); i++ {
			gocv.Line(img, points[i-1].Image(), points[i].Image(),
				lineClr, style.LineThickness)
		}

		// draw center point circle on current box
		gocv.Circle(img, points[len(points)-1].Image(), style.CircleRadius, circleClr, -1)
	}
}
