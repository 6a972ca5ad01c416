package result

import (
	"fmt"
	"strings"
)

// RunKind selects which analysis the inference engine performs on a frame
type RunKind int

const (
	// RunFace runs face detection and the per face estimators
	RunFace RunKind = iota
	// RunBody runs person segmentation
	RunBody
	// RunDocument runs document corner detection
	RunDocument
)

// String returns the run kind name
func (k RunKind) String() string {
	switch k {
	case RunFace:
		return "face"
	case RunBody:
		return "body"
	case RunDocument:
		return "document"
	}
	return fmt.Sprintf("RunKind(%d)", int(k))
}

// ParseRunKind converts a run kind name, accepting "ocr" as an alias of
// document
func ParseRunKind(s string) (RunKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "face":
		return RunFace, nil
	case "body":
		return RunBody, nil
	case "document", "ocr":
		return RunDocument, nil
	}
	return RunFace, fmt.Errorf("unknown run kind: %s", s)
}

// Information is a bitmask of the optional face attributes an engine
// should compute, and of those it actually populated on a Face
type Information uint32

const (
	InfoContours Information = 1 << iota
	InfoMasks
	InfoEulerAngles
	InfoTrackingIDs
	InfoSpoofs
	InfoEmbeddings
)

// Has reports whether all bits of o are set
func (i Information) Has(o Information) bool {
	return i&o == o
}

// Options configure a single inference run
type Options struct {
	// Information requested per face
	Information Information
	// BoundingBoxThreshold is the minimum detector confidence
	BoundingBoxThreshold float32
	// MinimumBoundingBoxSize is the smallest face accepted, as a fraction
	// of the frame's shorter side
	MinimumBoundingBoxSize float32
	// ResizeThreshold is the longest side in pixels a frame is reduced to
	// before detection.  Zero disables resizing.
	ResizeThreshold int
}

// DefaultFaceOptions returns the options used for live face analysis
func DefaultFaceOptions() Options {
	return Options{
		Information:            InfoContours | InfoMasks | InfoEulerAngles | InfoTrackingIDs | InfoEmbeddings,
		BoundingBoxThreshold:   0.7,
		MinimumBoundingBoxSize: 0.1,
		ResizeThreshold:        320,
	}
}

// DefaultPhotoOptions returns the options used to analyse a still photo
// for a comparison reference
func DefaultPhotoOptions() Options {
	return Options{
		Information:            InfoEmbeddings,
		BoundingBoxThreshold:   0.7,
		MinimumBoundingBoxSize: 0.1,
		ResizeThreshold:        0,
	}
}

// DefaultOptions returns the default options for the given run kind
func DefaultOptions(kind RunKind) Options {
	if kind == RunFace {
		return DefaultFaceOptions()
	}
	return Options{ResizeThreshold: 320}
}
