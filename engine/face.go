package engine

import (
	"image"
	"math"
	"sort"
	"time"

	"github.com/swdee/go-facepipe/result"
	"github.com/swdee/go-facepipe/viewport"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// detectFaces finds faces in the BGR image and fills in the optional
// attributes requested by opts that this engine can compute
func (e *Engine) detectFaces(img gocv.Mat, opts result.Options,
	meas *result.Measure) ([]result.Face, error) {

	gray := gocv.NewMat()
	defer gray.Close()

	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	gocv.EqualizeHist(gray, &gray)

	small, factor := shrink(gray, opts.ResizeThreshold)
	defer small.Close()

	start := time.Now()
	rects := e.faces.Detect(small)
	meas.Detector = time.Since(start)

	bounds := viewport.Rect{W: float64(gray.Cols()), H: float64(gray.Rows())}
	minSide := math.Min(bounds.W, bounds.H) * float64(opts.MinimumBoundingBoxSize)

	faces := make([]result.Face, 0, len(rects))

	for _, r := range rects {
		box := viewport.Rect{
			X: float64(r.Min.X) * factor,
			Y: float64(r.Min.Y) * factor,
			W: float64(r.Dx()) * factor,
			H: float64(r.Dy()) * factor,
		}.Intersect(bounds)

		if box.Empty() || box.W < minSide || box.H < minSide {
			continue
		}

		// cascades report hits without a confidence
		faces = append(faces, result.Face{Box: box, Score: 1})
	}

	if len(faces) == 0 {
		return faces, nil
	}

	if opts.Information.Has(result.InfoTrackingIDs) {
		start = time.Now()

		boxes := make([]viewport.Rect, len(faces))
		for i, f := range faces {
			boxes[i] = f.Box
		}

		for i, id := range e.assigner.Assign(boxes) {
			faces[i].TrackingID = id
			faces[i].Information |= result.InfoTrackingIDs
		}

		meas.Tracker = time.Since(start)
	}

	if e.eyes != nil && opts.Information&(result.InfoEulerAngles|result.InfoContours) != 0 {
		start = time.Now()

		for i := range faces {
			e.landmarks(gray, &faces[i], opts.Information)
		}

		meas.Landmarker = time.Since(start)
	}

	if opts.Information.Has(result.InfoEmbeddings) && e.params.EmbeddingSize > 0 {
		start = time.Now()

		for i := range faces {
			if v := embed(gray, faces[i].Box, e.params.EmbeddingSize); v != nil {
				faces[i].Embedding = v
				faces[i].Information |= result.InfoEmbeddings
			}
		}

		meas.Recognizer = time.Since(start)
	}

	return faces, nil
}

// landmarks looks for eyes in the upper half of the face, using their
// centres as the contour and the line between them for head roll
func (e *Engine) landmarks(gray gocv.Mat, face *result.Face, info result.Information) {

	upper := face.Box
	upper.H /= 2

	rect := upper.Image().Intersect(image.Rect(0, 0, gray.Cols(), gray.Rows()))

	if rect.Empty() {
		return
	}

	roi := gray.Region(rect)
	defer roi.Close()

	eyes := e.eyes.Detect(roi)

	if len(eyes) < 2 {
		return
	}

	// the two largest hits, left to right
	sort.Slice(eyes, func(i, j int) bool {
		return eyes[i].Dx()*eyes[i].Dy() > eyes[j].Dx()*eyes[j].Dy()
	})

	pair := eyes[:2]

	sort.Slice(pair, func(i, j int) bool {
		return pair[i].Min.X < pair[j].Min.X
	})

	centres := make([]viewport.Point, 2)

	for i, r := range pair {
		centres[i] = viewport.Pt(
			float64(rect.Min.X)+float64(r.Min.X+r.Max.X)/2,
			float64(rect.Min.Y)+float64(r.Min.Y+r.Max.Y)/2,
		)
	}

	if info.Has(result.InfoContours) {
		face.Contour = centres
		face.Information |= result.InfoContours
	}

	if info.Has(result.InfoEulerAngles) {
		dx := centres[1].X - centres[0].X
		dy := centres[1].Y - centres[0].Y

		face.Angle = result.EulerAngle{Z: math.Atan2(dy, dx) * 180 / math.Pi}
		face.Information |= result.InfoEulerAngles
	}
}

// embed reduces the face to a size x size thumbnail and returns it as a
// zero mean unit length vector, or nil if the face has no contrast
func embed(gray gocv.Mat, box viewport.Rect, size int) []float64 {

	rect := box.Image().Intersect(image.Rect(0, 0, gray.Cols(), gray.Rows()))

	if rect.Empty() {
		return nil
	}

	roi := gray.Region(rect)
	defer roi.Close()

	thumb := gocv.NewMat()
	defer thumb.Close()

	gocv.Resize(roi, &thumb, image.Pt(size, size), 0, 0, gocv.InterpolationArea)

	px := thumb.ToBytes()
	v := make([]float64, len(px))

	for i, b := range px {
		v[i] = float64(b)
	}

	floats.AddConst(-stat.Mean(v, nil), v)

	norm := floats.Norm(v, 2)

	if norm == 0 {
		return nil
	}

	floats.Scale(1/norm, v)

	return v
}
