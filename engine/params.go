package engine

import "image"

// Params configure the OpenCV engine
type Params struct {
	// FaceCascade is the path to a Haar or LBP face cascade
	FaceCascade string
	// EyeCascade is an optional eye cascade used to estimate head roll
	EyeCascade string
	// ScaleFactor is the cascade's image pyramid step
	ScaleFactor float64
	// MinNeighbors is the number of overlapping hits a face needs
	MinNeighbors int
	// MinFaceSize is the smallest face searched for in detection pixels
	MinFaceSize image.Point
	// TrackIoU is the overlap needed for a face to keep its tracking id
	TrackIoU float64
	// TrackMaxLost is the number of frames a track survives unseen
	TrackMaxLost int
	// EmbeddingSize is the side of the square face thumbnail used as the
	// recognition feature vector
	EmbeddingSize int
	// CannyLow and CannyHigh are the edge thresholds used to find documents
	CannyLow  float32
	CannyHigh float32
	// DocumentMinArea is the smallest document accepted, as a fraction of
	// the frame area
	DocumentMinArea float64
	// SegmentHistory is the number of frames the body segmenter's
	// background model learns from
	SegmentHistory int
}

// DefaultParams returns the default engine parameters
func DefaultParams() Params {
	return Params{
		FaceCascade:     "haarcascade_frontalface_default.xml",
		ScaleFactor:     1.1,
		MinNeighbors:    3,
		MinFaceSize:     image.Pt(20, 20),
		TrackIoU:        0.3,
		TrackMaxLost:    15,
		EmbeddingSize:   16,
		CannyLow:        75,
		CannyHigh:       200,
		DocumentMinArea: 0.2,
		SegmentHistory:  120,
	}
}
