package tracker

import (
	"testing"

	"github.com/swdee/go-facepipe/viewport"
)

func TestAssignerKeepsIdentity(t *testing.T) {

	a := NewAssigner(0.3, 1)

	first := a.Assign([]viewport.Rect{
		{X: 0, Y: 0, W: 10, H: 10},
		{X: 100, Y: 100, W: 10, H: 10},
	})

	if first[0] != 1 || first[1] != 2 {
		t.Fatalf("expected ids [1 2], got %v", first)
	}

	// boxes move slightly and swap order
	second := a.Assign([]viewport.Rect{
		{X: 101, Y: 100, W: 10, H: 10},
		{X: 1, Y: 0, W: 10, H: 10},
	})

	if second[0] != 2 || second[1] != 1 {
		t.Errorf("expected ids [2 1], got %v", second)
	}

	// a new face far away gets a fresh id
	third := a.Assign([]viewport.Rect{
		{X: 500, Y: 500, W: 10, H: 10},
	})

	if third[0] != 3 {
		t.Errorf("expected new id 3, got %v", third)
	}
}

func TestAssignerDropsLostTracks(t *testing.T) {

	a := NewAssigner(0.3, 1)
	box := viewport.Rect{W: 10, H: 10}

	a.Assign([]viewport.Rect{box})
	a.Assign(nil)
	a.Assign(nil)

	ids := a.Assign([]viewport.Rect{box})

	if ids[0] == 1 {
		t.Errorf("expected lost track to be replaced by a new id")
	}
}
