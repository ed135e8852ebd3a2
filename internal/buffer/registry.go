package buffer

import "sync"

// Registry owns the handle→buffer map. Lifecycle is explicit: a buffer
// exists from the first successful connect until monitoring stops.
type Registry struct {
	mu      sync.Mutex
	buffers map[string]*Buffer
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		buffers: make(map[string]*Buffer),
	}
}

// GetOrCreate returns the handle's buffer, allocating one if needed
func (r *Registry) GetOrCreate(handle string) *Buffer {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buffers[handle]
	if !ok {
		b = New()
		r.buffers[handle] = b
	}
	return b
}

// Get returns the handle's buffer, or nil if none exists
func (r *Registry) Get(handle string) *Buffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buffers[handle]
}

// Remove discards the handle's buffer
func (r *Registry) Remove(handle string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.buffers, handle)
}

// Handles returns the handles that currently have a buffer
func (r *Registry) Handles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	handles := make([]string, 0, len(r.buffers))
	for h := range r.buffers {
		handles = append(handles, h)
	}
	return handles
}
