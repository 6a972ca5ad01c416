package engine

import (
	"image"
	"math"
	"time"

	"github.com/swdee/go-facepipe/result"
	"github.com/swdee/go-facepipe/viewport"
	"gocv.io/x/gocv"
)

// detectDocument looks for the largest four sided contour in the image
func (e *Engine) detectDocument(img gocv.Mat, opts result.Options,
	meas *result.Measure) (result.Document, error) {

	start := time.Now()
	defer func() { meas.Detector = time.Since(start) }()

	gray := gocv.NewMat()
	defer gray.Close()

	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	small, factor := shrink(gray, opts.ResizeThreshold)
	defer small.Close()

	gocv.GaussianBlur(small, &small, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()

	gocv.Canny(small, &edges, e.params.CannyLow, e.params.CannyHigh)

	// close small gaps in the outline
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()

	gocv.Dilate(edges, &edges, kernel)

	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	minArea := float64(small.Cols()*small.Rows()) * e.params.DocumentMinArea

	var best []image.Point
	bestArea := 0.0

	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)

		if contour.Size() < 4 {
			continue
		}

		epsilon := 0.02 * gocv.ArcLength(contour, true)
		approx := gocv.ApproxPolyDP(contour, epsilon, true)

		if approx.Size() == 4 {
			area := gocv.ContourArea(approx)

			if area >= minArea && area > bestArea {
				best = approx.ToPoints()
				bestArea = area
			}
		}

		approx.Close()
	}

	if best == nil {
		return result.Document{}, nil
	}

	pts := make([]viewport.Point, len(best))

	for i, p := range best {
		pts[i] = viewport.Pt(float64(p.X)*factor, float64(p.Y)*factor)
	}

	return orderCorners(pts), nil
}

// orderCorners assigns four points to the document corners.  The left top
// has the smallest x+y and the right bottom the largest, the right top has
// the largest x-y and the left bottom the smallest.
func orderCorners(pts []viewport.Point) result.Document {

	doc := result.Document{Found: true}

	minSum, maxSum := math.Inf(1), math.Inf(-1)
	minDiff, maxDiff := math.Inf(1), math.Inf(-1)

	for _, p := range pts {
		sum, diff := p.X+p.Y, p.X-p.Y

		if sum < minSum {
			minSum, doc.LeftTop = sum, p
		}
		if sum > maxSum {
			maxSum, doc.RightBottom = sum, p
		}
		if diff > maxDiff {
			maxDiff, doc.RightTop = diff, p
		}
		if diff < minDiff {
			minDiff, doc.LeftBottom = diff, p
		}
	}

	return doc
}
