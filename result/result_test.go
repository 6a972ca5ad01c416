package result

import (
	"testing"
	"time"

	"github.com/swdee/go-facepipe/viewport"
	"go.uber.org/zap/zapcore"
)

func TestDefaultFaceOptions(t *testing.T) {

	opts := DefaultFaceOptions()

	for _, info := range []Information{InfoContours, InfoMasks, InfoEulerAngles, InfoTrackingIDs, InfoEmbeddings} {
		if !opts.Information.Has(info) {
			t.Errorf("expected information bit %d to be requested", info)
		}
	}

	if opts.Information.Has(InfoSpoofs) {
		t.Errorf("spoof detection should not be requested by default")
	}

	if DefaultOptions(RunDocument).Information.Has(InfoEmbeddings) {
		t.Errorf("expected document options without embeddings")
	}

	if opts.BoundingBoxThreshold != 0.7 || opts.MinimumBoundingBoxSize != 0.1 ||
		opts.ResizeThreshold != 320 {
		t.Errorf("unexpected default options %+v", opts)
	}
}

func TestParseRunKind(t *testing.T) {

	tests := []struct {
		in      string
		want    RunKind
		wantErr bool
	}{
		{"face", RunFace, false},
		{"Body", RunBody, false},
		{"ocr", RunDocument, false},
		{" document ", RunDocument, false},
		{"hand", RunFace, true},
	}

	for _, tc := range tests {
		got, err := ParseRunKind(tc.in)

		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseRunKind(%q): expected %s err=%t, got %s %v", tc.in, tc.want, tc.wantErr, got, err)
		}
	}
}

func TestDetectionEmpty(t *testing.T) {

	if !Empty(RunBody).IsEmpty() {
		t.Errorf("expected empty detection")
	}

	det := Detection{Kind: RunDocument, Document: Document{Found: true}}
	if det.IsEmpty() {
		t.Errorf("expected detection with document to be non empty")
	}

	if len(det.Document.Corners()) != 4 {
		t.Errorf("expected four corners")
	}

	if (Document{}).Corners() != nil {
		t.Errorf("expected no corners when document not found")
	}
}

func TestFaceClone(t *testing.T) {

	f := Face{
		Contour:   []viewport.Point{{X: 1, Y: 2}},
		Embedding: []float64{0.5},
	}

	c := f.Clone()
	c.Contour[0].X = 9
	c.Embedding[0] = 9

	if f.Contour[0].X != 1 || f.Embedding[0] != 0.5 {
		t.Errorf("clone shares backing arrays with original")
	}
}

func TestMeasureLogObject(t *testing.T) {

	m := Measure{Detector: 2 * time.Millisecond, Tracker: 500 * time.Microsecond, NativeFPS: 30}

	enc := zapcore.NewMapObjectEncoder()
	if err := m.MarshalLogObject(enc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if enc.Fields["detector"] != 2.0 || enc.Fields["tracker"] != 0.5 ||
		enc.Fields["totalFps"] != 30.0 {
		t.Errorf("unexpected encoded fields %v", enc.Fields)
	}

	if m.Total() != 2500*time.Microsecond {
		t.Errorf("expected total 2.5ms, got %s", m.Total())
	}
}
