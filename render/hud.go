package render

import (
	"fmt"
	"image"
	"strings"

	"github.com/swdee/go-facepipe/result"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// hudWindow is the number of recent engine totals averaged in the header
const hudWindow = 30

// hud keeps the recent engine times shown in the statistics header
type hud struct {
	totals []float64
}

// add records the total engine time of a run in milliseconds
func (h *hud) add(m result.Measure) {
	h.totals = append(h.totals, result.Millis(m.Total()))

	if len(h.totals) > hudWindow {
		h.totals = h.totals[1:]
	}
}

// lines returns the header text
func (h *hud) lines(rc Context) []string {

	avg := 0.0
	if len(h.totals) > 0 {
		avg = stat.Mean(h.totals, nil)
	}

	fps := "-"
	if rc.FPS > 0 {
		fps = fmt.Sprintf("%.2f", rc.FPS)
	}

	stages := make([]string, 0)
	for _, s := range rc.Measure.Stages() {
		if s.Duration > 0 {
			stages = append(stages, fmt.Sprintf("%s %.1fms", s.Name, result.Millis(s.Duration)))
		}
	}

	return []string{
		fmt.Sprintf("FPS: %s, Engine FPS: %.2f, Engine Avg: %.2fms",
			fps, rc.Measure.NativeFPS, avg),
		strings.Join(stages, ", "),
	}
}

// draw blanks a header bar and writes the statistics onto it
func (h *hud) draw(img *gocv.Mat, rc Context, font Font) {

	lines := h.lines(rc)
	lineHeight := font.textSize("Ag").Y + font.TopPad + font.BottomPad

	// blank out background video
	rect := image.Rect(0, 0, img.Cols(), lineHeight*len(lines))
	gocv.Rectangle(img, rect, Black, -1)

	for i, line := range lines {
		font.put(img, line, image.Pt(font.LeftPad, lineHeight*(i+1)-font.BottomPad))
	}
}
