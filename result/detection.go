package result

import "github.com/swdee/go-facepipe/viewport"

// EulerAngle is the head pose in degrees
type EulerAngle struct {
	X, Y, Z float64
}

// Face is a single detected face.  Optional attributes are only meaningful
// when the matching Information bit is set.
type Face struct {
	// Box is the bounding box in frame coordinates
	Box viewport.Rect
	// Score is the detector confidence
	Score float32
	// Contour is the ordered list of landmark points
	Contour []viewport.Point
	Angle   EulerAngle
	// Mask is true when a face covering is worn
	Mask bool
	// Spoof is true when the face is judged to be a presentation attack
	Spoof      bool
	TrackingID int
	// Embedding is the recognition feature vector
	Embedding   []float64
	Information Information
}

// Has reports whether the optional attributes in info are populated
func (f Face) Has(info Information) bool {
	return f.Information.Has(info)
}

// Clone returns a deep copy of the face
func (f Face) Clone() Face {
	out := f

	if f.Contour != nil {
		out.Contour = append([]viewport.Point(nil), f.Contour...)
	}

	if f.Embedding != nil {
		out.Embedding = append([]float64(nil), f.Embedding...)
	}

	return out
}

// Segment is a per pixel alpha mask over the analysed frame
type Segment struct {
	Width  int
	Height int
	// Alpha holds Width*Height values, 0 for background through 255 for
	// fully foreground
	Alpha []uint8
}

// IsEmpty reports whether the segment holds no mask
func (s Segment) IsEmpty() bool {
	return len(s.Alpha) == 0
}

// Document holds the four corners of a detected document in frame
// coordinates
type Document struct {
	Found       bool
	LeftTop     viewport.Point
	RightTop    viewport.Point
	RightBottom viewport.Point
	LeftBottom  viewport.Point
}

// Corners returns the corners in drawing order, left top first and
// proceeding clockwise
func (d Document) Corners() []viewport.Point {
	if !d.Found {
		return nil
	}
	return []viewport.Point{d.LeftTop, d.RightTop, d.RightBottom, d.LeftBottom}
}

// Detection is the outcome of one inference run.  Only the member matching
// Kind is populated.
type Detection struct {
	Kind     RunKind
	Faces    []Face
	Segment  Segment
	Document Document
}

// Empty returns a detection with nothing found, used when inference is
// bypassed
func Empty(kind RunKind) Detection {
	return Detection{Kind: kind}
}

// IsEmpty reports whether the detection found nothing
func (d Detection) IsEmpty() bool {
	return len(d.Faces) == 0 && d.Segment.IsEmpty() && !d.Document.Found
}
