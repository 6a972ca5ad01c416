package tracker

import (
	"sort"
	"sync"

	"github.com/swdee/go-facepipe/viewport"
)

// candidate is a possible pairing of an existing track with a new box
type candidate struct {
	track int
	box   int
	iou   float64
}

// tracked is a box carried over from earlier frames
type tracked struct {
	box  viewport.Rect
	lost int
}

// Assigner gives boxes stable identities across frames by greedily
// matching each new box to the previous box it overlaps most
type Assigner struct {
	// threshold is the minimum IoU for a box to keep an identity
	threshold float64
	// maxLost is the number of frames a track survives without a match
	maxLost int
	nextID  int
	tracks  map[int]*tracked
	sync.Mutex
}

// NewAssigner returns an assigner matching boxes whose IoU is at least
// threshold and keeping unmatched tracks for maxLost frames
func NewAssigner(threshold float64, maxLost int) *Assigner {
	return &Assigner{
		threshold: threshold,
		maxLost:   maxLost,
		tracks:    make(map[int]*tracked),
	}
}

// Reset forgets all tracks, ids continue to increase
func (a *Assigner) Reset() {
	a.Lock()
	defer a.Unlock()

	a.tracks = make(map[int]*tracked)
}

// Assign returns an id for each box, in the same order as boxes
func (a *Assigner) Assign(boxes []viewport.Rect) []int {
	a.Lock()
	defer a.Unlock()

	ids := make([]int, len(boxes))
	for i := range ids {
		ids[i] = -1
	}

	cands := make([]candidate, 0)

	for tid, tr := range a.tracks {
		for bi, box := range boxes {
			if iou := tr.box.IoU(box); iou >= a.threshold {
				cands = append(cands, candidate{track: tid, box: bi, iou: iou})
			}
		}
	}

	// highest overlap first, ties broken by the older track
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].iou != cands[j].iou {
			return cands[i].iou > cands[j].iou
		}
		if cands[i].track != cands[j].track {
			return cands[i].track < cands[j].track
		}
		return cands[i].box < cands[j].box
	})

	usedTrack := make(map[int]bool)

	for _, c := range cands {
		if usedTrack[c.track] || ids[c.box] != -1 {
			continue
		}

		usedTrack[c.track] = true
		ids[c.box] = c.track
	}

	for tid, tr := range a.tracks {
		if usedTrack[tid] {
			continue
		}

		tr.lost++

		if tr.lost > a.maxLost {
			delete(a.tracks, tid)
		}
	}

	for bi, box := range boxes {
		if ids[bi] == -1 {
			a.nextID++
			ids[bi] = a.nextID
			a.tracks[ids[bi]] = &tracked{box: box}
			continue
		}

		tr := a.tracks[ids[bi]]
		tr.box = box
		tr.lost = 0
	}

	return ids
}
