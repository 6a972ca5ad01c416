package facepipe

import (
	"sync"
	"sync/atomic"

	"github.com/swdee/go-facepipe/frame"
)

// delivery is a captured frame waiting for the analysis worker
type delivery struct {
	frame *frame.Frame
	// turns is the clockwise quarter turns needed to make the frame upright
	turns int
}

// mailbox hands frames from the capture goroutine to the analysis worker.
// It holds at most one live frame and one photo, a photo is served first.
type mailbox struct {
	mu    sync.Mutex
	cond  *sync.Cond
	live  *delivery
	photo *delivery
	// closed is set once the worker should exit
	closed bool
	// overwrites counts unconsumed deliveries replaced by newer ones
	overwrites uint64
}

func newMailbox() *mailbox {
	m := &mailbox{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// put places a live frame, returning any unconsumed frame it replaced
func (m *mailbox) put(d delivery) *delivery {
	return m.store(&m.live, d)
}

// putPhoto places a photo, returning any unconsumed photo it replaced
func (m *mailbox) putPhoto(d delivery) *delivery {
	return m.store(&m.photo, d)
}

// store overwrites a slot and wakes the worker
func (m *mailbox) store(slot **delivery, d delivery) *delivery {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return &d
	}

	old := *slot

	if old != nil {
		atomic.AddUint64(&m.overwrites, 1)
	}

	*slot = &d
	m.cond.Signal()

	return old
}

// take blocks until a delivery is available.  photo reports whether it
// came from the photo slot, ok is false once the mailbox has been closed.
func (m *mailbox) take() (d delivery, photo bool, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for m.live == nil && m.photo == nil {
		if m.closed {
			return delivery{}, false, false
		}
		m.cond.Wait()
	}

	if m.closed {
		return delivery{}, false, false
	}

	if m.photo != nil {
		d = *m.photo
		m.photo = nil
		return d, true, true
	}

	d = *m.live
	m.live = nil
	return d, false, true
}

// close wakes the worker for exit and returns the unconsumed deliveries so
// their frames can be released
func (m *mailbox) close() []delivery {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.cond.Broadcast()

	left := make([]delivery, 0, 2)

	for _, slot := range []**delivery{&m.live, &m.photo} {
		if *slot != nil {
			left = append(left, **slot)
			*slot = nil
		}
	}

	return left
}

// overwriteCount returns the number of replaced deliveries
func (m *mailbox) overwriteCount() uint64 {
	return atomic.LoadUint64(&m.overwrites)
}
