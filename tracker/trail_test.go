package tracker

import (
	"testing"

	"github.com/swdee/go-facepipe/viewport"
)

func TestTrailKeepsMostRecent(t *testing.T) {

	trail := NewTrail(3, 10)

	for i := 0; i < 5; i++ {
		trail.Update(map[int]viewport.Rect{
			1: {X: float64(i * 10), Y: 0, W: 10, H: 10},
		})
	}

	pts := trail.GetPoints(1)

	if len(pts) != 3 {
		t.Fatalf("expected 3 points, got %d", len(pts))
	}

	want := []float64{25, 35, 45}
	for i, x := range want {
		if pts[i].X != x || pts[i].Y != 5 {
			t.Errorf("point %d: expected (%f, 5), got %v", i, x, pts[i])
		}
	}

	if trail.GetPoints(2) != nil {
		t.Errorf("expected no history for unknown id")
	}
}

func TestTrailForgetsStaleTracks(t *testing.T) {

	trail := NewTrail(10, 2)

	trail.Update(map[int]viewport.Rect{1: {W: 2, H: 2}, 2: {W: 2, H: 2}})

	for i := 0; i < 3; i++ {
		trail.Update(map[int]viewport.Rect{2: {W: 2, H: 2}})
	}

	if trail.GetPoints(1) != nil {
		t.Errorf("expected track 1 to be forgotten")
	}

	if len(trail.GetPoints(2)) != 4 {
		t.Errorf("expected track 2 to have 4 points, got %d", len(trail.GetPoints(2)))
	}

	trail.Reset()

	if trail.Len() != 0 {
		t.Errorf("expected empty trail after reset")
	}
}
