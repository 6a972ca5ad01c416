package comparer

import "sync"

// Reference retains the face other faces are compared against.  It is
// written by the analysis worker and read by the renderer.
type Reference struct {
	mu  sync.RWMutex
	sel *Selection
}

// NewReference returns an empty reference
func NewReference() *Reference {
	return &Reference{}
}

// Set replaces the retained selection
func (r *Reference) Set(sel Selection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sel = &sel
}

// Get returns the retained selection, or nil when none is held
func (r *Reference) Get() *Selection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.sel == nil {
		return nil
	}

	sel := *r.sel
	return &sel
}

// Clear drops the retained selection
func (r *Reference) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sel = nil
}
