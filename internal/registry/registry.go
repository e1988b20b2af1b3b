package registry

import (
	"maps"
	"slices"
	"sync"
)

// Registry maps image ids to band sets. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	bands map[string]BandSet
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{bands: make(map[string]BandSet)}
}

// FromMap returns a registry holding copies of the entries of m.
func FromMap(m map[string]BandSet) *Registry {
	r := New()
	for id, b := range m {
		r.bands[id] = b.Clone()
	}
	return r
}

// Put stores b under id, replacing any previous entry.
func (r *Registry) Put(id string, b BandSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bands[id] = b.Clone()
}

// Get returns the band set stored under id.
func (r *Registry) Get(id string) (BandSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bands[id]
	if !ok {
		return BandSet{}, false
	}
	return b.Clone(), true
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bands)
}

// IDs returns the image ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.bands))
}

// Snapshot returns a deep copy of all entries.
func (r *Registry) Snapshot() map[string]BandSet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]BandSet, len(r.bands))
	for id, b := range r.bands {
		out[id] = b.Clone()
	}
	return out
}
