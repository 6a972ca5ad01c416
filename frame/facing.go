package frame

import "fmt"

// Facing is the direction the capture device points
type Facing int

const (
	// FacingBack is the rear, world facing camera
	FacingBack Facing = iota
	// FacingFront is the user facing camera whose frames are mirrored for
	// display
	FacingFront
)

// String returns the facing name
func (f Facing) String() string {
	switch f {
	case FacingBack:
		return "back"
	case FacingFront:
		return "front"
	}
	return fmt.Sprintf("Facing(%d)", int(f))
}

// ParseFacing converts "front" or "back" to a Facing
func ParseFacing(s string) (Facing, error) {
	switch s {
	case "back":
		return FacingBack, nil
	case "front":
		return FacingFront, nil
	}
	return FacingBack, fmt.Errorf("unknown facing: %s", s)
}
