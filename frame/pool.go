package frame

import (
	"fmt"
	"sync"
)

// Pool holds a set of named frame buffer pools so capture sources can reuse
// buffers instead of allocating one per frame
type Pool struct {
	mu    sync.Mutex
	pools map[string]*poolEntry
}

// poolEntry defines a single named pool
type poolEntry struct {
	pool    sync.Pool
	maxSize int
}

// NewPool returns an empty Pool
func NewPool() *Pool {
	return &Pool{
		pools: make(map[string]*poolEntry),
	}
}

// Create registers a new pool under 'name' that will produce buffers
// up to maxSize. Calling it twice with the same name returns an error.
func (p *Pool) Create(name string, maxSize int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.pools[name]; exists {
		return fmt.Errorf("frame pool %q already exists", name)
	}

	entry := &poolEntry{maxSize: maxSize}

	entry.pool.New = func() any {
		return make([]byte, maxSize)
	}

	p.pools[name] = entry
	return nil
}

// Has reports whether a pool is registered under name
func (p *Pool) Has(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, ok := p.pools[name]
	return ok
}

// entry looks up a named pool
func (p *Pool) entry(name string) (*poolEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.pools[name]

	if !ok {
		return nil, fmt.Errorf("frame pool %q not registered", name)
	}

	return entry, nil
}

// Get returns a byte slice of length 'size' from the named pool.  If size
// exceeds the pool's maxSize a new slice of exactly size is allocated.  The
// contents are not cleared, callers overwrite the whole buffer.
func (p *Pool) Get(name string, size int) ([]byte, error) {
	entry, err := p.entry(name)

	if err != nil {
		return nil, err
	}

	buf := entry.pool.Get().([]byte)

	if cap(buf) < size {
		return make([]byte, size), nil
	}

	return buf[:size], nil
}

// Put returns a buffer to its named pool.  Buffers smaller than the pool's
// maxSize are discarded.
func (p *Pool) Put(name string, buf []byte) {
	entry, err := p.entry(name)

	if err != nil || cap(buf) < entry.maxSize {
		return
	}

	// restore to full capacity so it matches entry.New next time
	entry.pool.Put(buf[:entry.maxSize])
}

// NewFrame returns a frame backed by a buffer from the named pool.  Calling
// Release on the frame puts the buffer back.
func (p *Pool) NewFrame(name string, width, height int, layout Layout) (*Frame, error) {

	buf, err := p.Get(name, layout.BufferSize(width, height))

	if err != nil {
		return nil, err
	}

	f := &Frame{
		Width:  width,
		Height: height,
		Layout: layout,
		Data:   buf,
	}

	f.OnRelease(func(b []byte) {
		p.Put(name, b)
	})

	return f, nil
}
