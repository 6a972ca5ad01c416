package render

import (
	"image"

	clipper "github.com/ctessum/go.clipper"
	"github.com/swdee/go-facepipe/result"
	"github.com/swdee/go-facepipe/viewport"
	"gocv.io/x/gocv"
)

// documentPaths returns the outline(s) to draw for a document polygon.  A
// polygon inside the canvas is returned unchanged so the drawing order
// stays left top, right top, right bottom, left bottom.  Otherwise it is
// clipped to the canvas.
func documentPaths(pts []image.Point, bounds image.Rectangle) [][]image.Point {

	inside := true

	for _, p := range pts {
		if !p.In(bounds) {
			inside = false
			break
		}
	}

	if inside {
		return [][]image.Point{pts}
	}

	subject := make(clipper.Path, 0, len(pts))
	for _, p := range pts {
		subject = append(subject, &clipper.IntPoint{X: clipper.CInt(p.X), Y: clipper.CInt(p.Y)})
	}

	canvas := clipper.Path{
		&clipper.IntPoint{X: clipper.CInt(bounds.Min.X), Y: clipper.CInt(bounds.Min.Y)},
		&clipper.IntPoint{X: clipper.CInt(bounds.Max.X), Y: clipper.CInt(bounds.Min.Y)},
		&clipper.IntPoint{X: clipper.CInt(bounds.Max.X), Y: clipper.CInt(bounds.Max.Y)},
		&clipper.IntPoint{X: clipper.CInt(bounds.Min.X), Y: clipper.CInt(bounds.Max.Y)},
	}

	c := clipper.NewClipper(0)
	c.AddPath(subject, clipper.PtSubject, true)
	c.AddPath(canvas, clipper.PtClip, true)

	solution, ok := c.Execute1(clipper.CtIntersection, clipper.PftNonZero, clipper.PftNonZero)

	if !ok {
		return nil
	}

	paths := make([][]image.Point, 0, len(solution))

	for _, path := range solution {
		poly := make([]image.Point, 0, len(path))
		for _, p := range path {
			poly = append(poly, image.Pt(int(p.X), int(p.Y)))
		}
		if len(poly) > 2 {
			paths = append(paths, poly)
		}
	}

	return paths
}

// Document renders the document outline and its corners onto a viewport
// canvas.  Nothing is drawn when no document was found.
func Document(img *gocv.Mat, m *viewport.Mapper, doc result.Document, style Style) {

	corners := doc.Corners()

	if len(corners) == 0 {
		return
	}

	pts := make([]image.Point, 0, len(corners))
	for _, p := range m.Points(corners) {
		pts = append(pts, p.Image())
	}

	paths := documentPaths(pts, image.Rect(0, 0, img.Cols(), img.Rows()))

	if len(paths) > 0 {
		ptsVec := gocv.NewPointsVectorFromPoints(paths)
		gocv.Polylines(img, ptsVec, true, DocumentColor, style.LineThickness)
		ptsVec.Close()
	}

	for _, p := range pts {
		gocv.Circle(img, p, style.CornerRadius, DocumentColor, -1)
	}
}
