package facepipe

import "sync"

// Display runs jobs on the context that owns the screen.  Post must not
// block, it reports false when the job could not be queued.
type Display interface {
	Post(job func()) bool
}

// DisplayFunc adapts a function to the Display interface.  The function
// is expected to run or schedule the job without blocking for long.
type DisplayFunc func(job func())

// Post hands the job to the function
func (f DisplayFunc) Post(job func()) bool {
	f(job)
	return true
}

// Inline is a Display that runs each job on the posting goroutine
var Inline = DisplayFunc(func(job func()) { job() })

// DisplayLoop is a Display that runs jobs in order on its own goroutine
type DisplayLoop struct {
	jobs   chan func()
	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewDisplayLoop starts a display goroutine with room for size queued jobs
func NewDisplayLoop(size int) *DisplayLoop {
	if size < 1 {
		size = 1
	}

	d := &DisplayLoop{
		jobs: make(chan func(), size),
		done: make(chan struct{}),
	}

	go d.run()

	return d
}

func (d *DisplayLoop) run() {
	defer close(d.done)

	for job := range d.jobs {
		job()
	}
}

// Post queues a job, returning false if the queue is full or closed
func (d *DisplayLoop) Post(job func()) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return false
	}

	select {
	case d.jobs <- job:
		return true
	default:
		// queue is full
		return false
	}
}

// Close stops accepting jobs, runs those already queued and waits for the
// display goroutine to exit
func (d *DisplayLoop) Close() error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	<-d.done

	return nil
}
