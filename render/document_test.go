package render

import (
	"image"
	"testing"
)

func TestDocumentPathsInsideKeepsOrder(t *testing.T) {

	pts := []image.Point{{10, 10}, {90, 12}, {88, 80}, {12, 78}}

	paths := documentPaths(pts, image.Rect(0, 0, 100, 100))

	if len(paths) != 1 {
		t.Fatalf("expected a single path, got %d", len(paths))
	}

	for i, p := range pts {
		if paths[0][i] != p {
			t.Errorf("point %d: expected %v, got %v", i, p, paths[0][i])
		}
	}
}

func TestDocumentPathsClipped(t *testing.T) {

	pts := []image.Point{{-20, 10}, {90, 10}, {90, 150}, {-20, 150}}
	bounds := image.Rect(0, 0, 100, 100)

	paths := documentPaths(pts, bounds)

	if len(paths) == 0 {
		t.Fatalf("expected clipped outline")
	}

	for _, path := range paths {
		for _, p := range path {
			if p.X < bounds.Min.X || p.X > bounds.Max.X || p.Y < bounds.Min.Y || p.Y > bounds.Max.Y {
				t.Errorf("point %v lies outside canvas", p)
			}
		}
	}
}
