package frame

import (
	"image"
	"testing"
)

func TestNewValidatesBuffer(t *testing.T) {

	tests := []struct {
		name    string
		w, h    int
		layout  Layout
		size    int
		wantErr bool
	}{
		{"bgra ok", 4, 2, LayoutBGRA, 32, false},
		{"rgb ok", 4, 2, LayoutRGB, 24, false},
		{"nv21 ok", 4, 2, LayoutNV21, 12, false},
		{"nv21 odd dims", 3, 3, LayoutNV21, 9 + 8, false},
		{"short buffer", 4, 2, LayoutBGRA, 31, true},
		{"zero width", 0, 2, LayoutRGB, 0, true},
	}

	for _, tc := range tests {
		_, err := New(tc.w, tc.h, tc.layout, make([]byte, tc.size))

		if (err != nil) != tc.wantErr {
			t.Errorf("%s: expected error=%t, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestCrop(t *testing.T) {

	// 4x3 gray frame with pixel value = y*10 + x
	f := Alloc(4, 3, LayoutGray)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			f.Data[y*4+x] = byte(y*10 + x)
		}
	}
	f.Seq = 7

	crop, err := f.Crop(image.Rect(1, 1, 10, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if crop.Width != 3 || crop.Height != 2 {
		t.Fatalf("expected 3x2 crop clipped to bounds, got %dx%d", crop.Width, crop.Height)
	}

	want := []byte{11, 12, 13, 21, 22, 23}
	for i, v := range want {
		if crop.Data[i] != v {
			t.Errorf("pixel %d: expected %d, got %d", i, v, crop.Data[i])
		}
	}

	if crop.Seq != 7 {
		t.Errorf("expected crop to keep sequence number, got %d", crop.Seq)
	}

	if _, err := f.Crop(image.Rect(20, 20, 30, 30)); err == nil {
		t.Errorf("expected error for crop outside bounds")
	}
}

func TestCropPacked(t *testing.T) {

	f := Alloc(2, 2, LayoutBGR)
	for i := range f.Data {
		f.Data[i] = byte(i)
	}

	crop, err := f.Crop(image.Rect(1, 0, 2, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []byte{3, 4, 5, 9, 10, 11}
	for i, v := range want {
		if crop.Data[i] != v {
			t.Errorf("byte %d: expected %d, got %d", i, v, crop.Data[i])
		}
	}

	nv := Alloc(2, 2, LayoutNV21)
	if _, err := nv.Crop(image.Rect(0, 0, 1, 1)); err == nil {
		t.Errorf("expected error cropping planar frame")
	}
}

func TestReleaseOnce(t *testing.T) {

	calls := 0
	f := Alloc(1, 1, LayoutGray)
	f.OnRelease(func([]byte) { calls++ })

	f.Release()
	f.Release()

	if calls != 1 {
		t.Errorf("expected release callback once, got %d", calls)
	}

	var nilFrame *Frame
	nilFrame.Release()
}

func TestPool(t *testing.T) {

	p := NewPool()

	if err := p.Create("capture", 64); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := p.Create("capture", 64); err == nil {
		t.Errorf("expected error creating duplicate pool")
	}

	f, err := p.NewFrame("capture", 4, 4, LayoutBGRA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Data) != 64 {
		t.Errorf("expected 64 byte buffer, got %d", len(f.Data))
	}

	f.Release()

	big, err := p.Get("capture", 128)
	if err != nil || len(big) != 128 {
		t.Errorf("expected oversized allocation of 128 bytes, got %d %v", len(big), err)
	}

	if _, err := p.Get("missing", 1); err == nil {
		t.Errorf("expected error for unregistered pool")
	}
}

func TestSeqGenerator(t *testing.T) {

	g := NewSeqGenerator()

	for want := uint64(1); want <= 3; want++ {
		if got := g.Next(); got != want {
			t.Errorf("expected %d, got %d", want, got)
		}
	}
}
