package preprocess

import (
	"fmt"

	"github.com/swdee/go-facepipe/frame"
)

// ConversionError is returned when a frame can not be converted, either
// because its buffer is malformed or the operation is unsupported for its
// layout
type ConversionError struct {
	Op     string
	Layout frame.Layout
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s %s frame: %v", e.Op, e.Layout, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// convErr wraps err as a ConversionError
func convErr(op string, l frame.Layout, err error) error {
	return &ConversionError{Op: op, Layout: l, Err: err}
}
