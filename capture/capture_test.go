package capture

import (
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/swdee/go-facepipe/frame"
	"gocv.io/x/gocv"
)

func TestSwitchFacing(t *testing.T) {

	s := New(DefaultParams(), nil, nil)

	if err := s.SwitchFacing(frame.FacingFront); !errors.Is(err, ErrNoFacing) {
		t.Errorf("expected ErrNoFacing without a front device, got %v", err)
	}

	params := DefaultParams()
	params.FrontDevice = 1
	s = New(params, nil, nil)

	if err := s.SwitchFacing(frame.FacingFront); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.reopen || s.device(s.facing) != 1 {
		t.Errorf("expected reopen of device 1")
	}

	file := New(Params{File: "clip.mp4"}, nil, nil)

	if err := file.SwitchFacing(frame.FacingFront); err == nil {
		t.Errorf("expected error switching a file source")
	}
}

func TestToFrame(t *testing.T) {

	clk := clock.NewMock()
	clk.Add(time.Hour)

	s := New(DefaultParams(), nil, clk)

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 20, 30, 0), 4, 6, gocv.MatTypeCV8UC3)
	defer img.Close()

	for i := 1; i <= 2; i++ {
		f, err := s.toFrame(img)

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if f.Width != 6 || f.Height != 4 || f.Layout != frame.LayoutBGRA || len(f.Data) != 6*4*4 {
			t.Fatalf("unexpected frame %dx%d %s", f.Width, f.Height, f.Layout)
		}

		if f.Data[0] != 10 || f.Data[1] != 20 || f.Data[2] != 30 || f.Data[3] != 255 {
			t.Errorf("unexpected first pixel %v", f.Data[:4])
		}

		if f.Seq != uint64(i) {
			t.Errorf("expected seq %d, got %d", i, f.Seq)
		}

		if !f.Timestamp.Equal(clk.Now()) {
			t.Errorf("expected timestamp from clock")
		}

		f.Release()
	}

	if !s.pool.Has("capture-6x4") {
		t.Errorf("expected pool for capture size")
	}
}

func TestCloseUnopened(t *testing.T) {
	if err := New(DefaultParams(), nil, nil).Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
