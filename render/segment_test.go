package render

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func filled(n int, v byte) []byte {
	return bytes.Repeat([]byte{v}, n)
}

func TestCompositeMaskExtremes(t *testing.T) {

	const pixels = 4
	fg := filled(pixels*3, 200)
	bg := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	tests := []struct {
		name string
		mask byte
		want []byte
	}{
		{"all zero shows background", 0, bg},
		{"all 255 shows foreground", 255, fg},
	}

	for _, tc := range tests {
		out, err := Composite(fg, bg, filled(pixels, tc.mask), 3)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}

		if !bytes.Equal(out, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, out)
		}
	}
}

func TestCompositePartialAndIdempotent(t *testing.T) {

	fg := []byte{255, 255, 255}
	bg := []byte{0, 0, 0}
	mask := []uint8{128}

	first, err := Composite(fg, bg, mask, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first[0] != 128 {
		t.Errorf("expected half blend of 128, got %d", first[0])
	}

	second, err := Composite(fg, bg, mask, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("expected identical output on repeat, got %v and %v", first, second)
	}

	if fg[0] != 255 || bg[0] != 0 {
		t.Errorf("inputs were modified")
	}
}

func TestCompositeSizeMismatch(t *testing.T) {

	if _, err := Composite(filled(6, 0), filled(3, 0), filled(2, 0), 3); err == nil {
		t.Errorf("expected error for background size mismatch")
	}

	if _, err := Composite(filled(6, 0), filled(6, 0), filled(1, 0), 3); err == nil {
		t.Errorf("expected error for mask size mismatch")
	}
}

func TestTint(t *testing.T) {

	fg := []byte{0, 0, 0, 0, 0, 0}
	red := color.RGBA{R: 200, A: 255}

	out, err := Tint(fg, []uint8{0, 255}, red, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []byte{0, 0, 0, 0, 0, 100}
	if !bytes.Equal(out, want) {
		t.Errorf("expected %v, got %v", want, out)
	}
}

func TestBackgroundScaled(t *testing.T) {

	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i+0] = 10
		src.Pix[i+1] = 20
		src.Pix[i+2] = 30
		src.Pix[i+3] = 255
	}

	bg := NewBackground(src)
	data := bg.BGR(4, 3)

	if len(data) != 4*3*3 {
		t.Fatalf("expected %d bytes, got %d", 4*3*3, len(data))
	}

	for i := 0; i < len(data); i += 3 {
		if data[i] != 30 || data[i+1] != 20 || data[i+2] != 10 {
			t.Fatalf("pixel %d: expected BGR 30,20,10, got %v", i/3, data[i:i+3])
		}
	}
}
