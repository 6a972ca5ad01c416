package engine

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Cascade is a FaceDetector backed by an OpenCV cascade classifier
type Cascade struct {
	classifier   gocv.CascadeClassifier
	scaleFactor  float64
	minNeighbors int
	minSize      image.Point
}

// LoadCascade reads a cascade definition from file
func LoadCascade(file string, params Params) (*Cascade, error) {

	c := gocv.NewCascadeClassifier()

	if !c.Load(file) {
		c.Close()
		return nil, fmt.Errorf("error loading cascade file: %s", file)
	}

	return &Cascade{
		classifier:   c,
		scaleFactor:  params.ScaleFactor,
		minNeighbors: params.MinNeighbors,
		minSize:      params.MinFaceSize,
	}, nil
}

// Detect returns the regions of gray matched by the cascade
func (c *Cascade) Detect(gray gocv.Mat) []image.Rectangle {
	return c.classifier.DetectMultiScaleWithParams(gray, c.scaleFactor,
		c.minNeighbors, 0, c.minSize, image.Point{})
}

// Close frees the classifier
func (c *Cascade) Close() error {
	return c.classifier.Close()
}
