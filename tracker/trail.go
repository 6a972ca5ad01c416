package tracker

import (
	"sync"

	"github.com/swdee/go-facepipe/viewport"
)

// Track represents the centre point history of one tracking id
type Track struct {
	points []viewport.Point
	// seen is the value of the trail's update counter when the track was
	// last extended
	seen uint64
}

// Trail is the struct to keep a history of face box centres used for
// drawing a trail behind each tracked face
type Trail struct {
	// size is the maximum number of most recent points to keep in history
	size int
	// maxAge is the number of updates a track may go unseen before it is
	// forgotten
	maxAge uint64
	// updates counts calls to Update
	updates uint64
	// history of tracked points
	history map[int]*Track
	sync.Mutex
}

// NewTrail returns a new trail history instance.  Size is the maximum
// length of each trail, maxAge the number of updates a face may be missing
// before its trail is dropped.
func NewTrail(size, maxAge int) *Trail {
	return &Trail{
		size:    size,
		maxAge:  uint64(maxAge),
		history: make(map[int]*Track),
	}
}

// Reset clears all history
func (t *Trail) Reset() {
	t.Lock()
	defer t.Unlock()

	t.history = make(map[int]*Track)
	t.updates = 0
}

// Update adds the centre of each box to the history of its tracking id and
// forgets tracks that have not been seen for longer than maxAge
func (t *Trail) Update(boxes map[int]viewport.Rect) {
	t.Lock()
	defer t.Unlock()

	t.updates++

	for id, box := range boxes {
		t.add(id, box.Center())
	}

	for id, track := range t.history {
		if t.updates-track.seen > t.maxAge {
			delete(t.history, id)
		}
	}
}

// add appends a point to a track, dropping the oldest when full
func (t *Trail) add(id int, p viewport.Point) {

	// init map if no history exists yet for track id
	track, exists := t.history[id]

	if !exists {
		track = &Track{}
		t.history[id] = track
	}

	track.points = append(track.points, p)
	track.seen = t.updates

	// check if history is exceeded and drop oldest point
	if len(track.points) > t.size {
		track.points = track.points[1:]
	}
}

// GetPoints gets a copy of the point history for a specific track id
func (t *Trail) GetPoints(id int) []viewport.Point {
	t.Lock()
	defer t.Unlock()

	if track, exists := t.history[id]; exists {
		return append([]viewport.Point(nil), track.points...)
	}

	// no history yet
	return nil
}

// Len returns the number of tracks held
func (t *Trail) Len() int {
	t.Lock()
	defer t.Unlock()

	return len(t.history)
}
