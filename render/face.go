package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/swdee/go-facepipe/comparer"
	"github.com/swdee/go-facepipe/result"
	"github.com/swdee/go-facepipe/viewport"
	"gocv.io/x/gocv"
)

// boxLabel defines where a face label should be rendered on the canvas
type boxLabel struct {
	rect    image.Rectangle
	clr     color.RGBA
	text    string
	textPos image.Point
}

// paint returns the color for a face given the comparison reference
func paint(face result.Face, ref *comparer.Selection, cmp comparer.Comparator) color.RGBA {
	if ref == nil || cmp == nil || cmp.IsSame(face, ref.Face) {
		return Positive
	}
	return Negative
}

// similarityText formats the similarity of face to the reference, false
// when there is nothing to compare
func similarityText(face result.Face, ref *comparer.Selection,
	cmp comparer.Comparator) (string, bool) {

	if ref == nil || cmp == nil || !face.Has(result.InfoEmbeddings) {
		return "", false
	}

	return fmt.Sprintf("%.3f", cmp.Similarity(face, ref.Face)), true
}

// faceLabels returns the text shown above a face box, top line first
func faceLabels(face result.Face) []string {

	labels := make([]string, 0, 3)

	if face.Has(result.InfoTrackingIDs) {
		labels = append(labels, fmt.Sprintf("id=%d", face.TrackingID))
	}

	if face.Has(result.InfoMasks) {
		if face.Mask {
			labels = append(labels, "Mask ON")
		} else {
			labels = append(labels, "Mask OFF")
		}
	}

	if face.Has(result.InfoEulerAngles) {
		labels = append(labels, fmt.Sprintf("[x: %4.2f, y: %4.2f, z: %4.2f]",
			face.Angle.X, face.Angle.Y, face.Angle.Z))
	}

	return labels
}

// Faces renders the face boxes and their attributes onto a viewport canvas.
// Coordinates are mapped from frame space with m.
func Faces(img *gocv.Mat, m *viewport.Mapper, faces []result.Face,
	ref *comparer.Selection, cmp comparer.Comparator, style Style) {

	// keep a record of all box labels for later rendering
	boxLabels := make([]boxLabel, 0)
	font := style.Font

	for _, face := range faces {

		clr := paint(face, ref, cmp)
		box := m.Rect(face.Box).Image()

		gocv.Rectangle(img, box, clr, style.LineThickness)

		if face.Has(result.InfoContours) {
			for _, pt := range m.Points(face.Contour) {
				gocv.Circle(img, pt.Image(), style.ContourRadius, clr, -1)
			}
		}

		if face.Has(result.InfoSpoofs) && face.Spoof {
			gocv.Line(img, box.Min, box.Max, clr, style.LineThickness)
			gocv.Line(img, image.Pt(box.Max.X, box.Min.Y), image.Pt(box.Min.X, box.Max.Y),
				clr, style.LineThickness)
		}

		if face.Has(result.InfoMasks) && face.Mask {
			fillTranslucent(img, box, clr, style.MaskAlpha)
		}

		// stack labels upwards from the top of the box
		bottom := box.Min.Y
		labels := faceLabels(face)

		for i := len(labels) - 1; i >= 0; i-- {
			lbl := placeLabel(labels[i], box, bottom, clr, font, style.LineThickness)
			boxLabels = append(boxLabels, lbl)
			bottom = lbl.rect.Min.Y
		}

		// similarity to the reference sits below the box
		if text, ok := similarityText(face, ref, cmp); ok {
			size := font.textSize(text)
			top := box.Max.Y

			boxLabels = append(boxLabels, boxLabel{
				rect: image.Rect(box.Min.X, top,
					box.Min.X+size.X+font.LeftPad+font.RightPad,
					top+size.Y+font.TopPad+font.BottomPad),
				clr:     clr,
				text:    text,
				textPos: image.Pt(box.Min.X+font.LeftPad, top+size.Y+font.TopPad),
			})
		}
	}

	// draw all precalculated box labels so they are the top most layer on the
	// image and don't get overlapped by neighbouring boxes
	for _, lbl := range boxLabels {
		// draw box text gets written on
		gocv.Rectangle(img, lbl.rect, lbl.clr, -1)

		// Draw the label over box
		font.put(img, lbl.text, lbl.textPos)
	}
}

// placeLabel positions a label so its bottom edge sits at bottom,
// horizontally aligned to the box according to the font
func placeLabel(text string, box image.Rectangle, bottom int, clr color.RGBA,
	font Font, lineThickness int) boxLabel {

	textSize := font.textSize(text)

	// Calculate the alignment of text label
	var centerX int

	switch font.Alignment {
	case Center:
		centerX = (box.Min.X + box.Max.X) / 2

	case Right:
		centerX = box.Max.X - (textSize.X / 2) - font.RightPad + (lineThickness / 2)

	case Left:
		fallthrough
	default:
		centerX = box.Min.X + (textSize.X / 2) + font.LeftPad - (lineThickness / 2)
	}

	return boxLabel{
		rect: image.Rect(centerX-textSize.X/2-font.LeftPad,
			bottom-textSize.Y-font.TopPad-font.BottomPad,
			centerX+textSize.X/2+font.RightPad, bottom),
		clr:     clr,
		text:    text,
		textPos: image.Pt(centerX-textSize.X/2, bottom-font.BottomPad),
	}
}

// fillTranslucent blends a solid color over the part of rect inside img
func fillTranslucent(img *gocv.Mat, rect image.Rectangle, clr color.RGBA, alpha float64) {

	rect = rect.Intersect(image.Rect(0, 0, img.Cols(), img.Rows()))

	if rect.Empty() {
		return
	}

	roi := img.Region(rect)
	defer roi.Close()

	overlay := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(clr.B), float64(clr.G), float64(clr.R), 0),
		rect.Dy(), rect.Dx(), img.Type())
	defer overlay.Close()

	gocv.AddWeighted(roi, 1-alpha, overlay, alpha, 0, &roi)
}
