package component

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/zeusync/simcore/internal/core/entity"
)

// Registry tracks the registered component types of one state shape and
// cascades entity removal into every one of them.
type Registry[S any] struct {
	types []Registered[S]
	index map[TypeID]int
}

// NewRegistry panics when the same type is registered twice.
func NewRegistry[S any](types ...Registered[S]) *Registry[S] {
	r := &Registry[S]{
		types: make([]Registered[S], 0, len(types)),
		index: make(map[TypeID]int, len(types)),
	}
	for _, t := range types {
		r.Register(t)
	}
	return r
}

func (r *Registry[S]) Register(t Registered[S]) {
	if _, dup := r.index[t.id]; dup {
		panic(fmt.Sprintf("component: %s registered twice", t.id))
	}
	r.index[t.id] = len(r.types)
	r.types = append(r.types, t)
}

func (r *Registry[S]) Lookup(id TypeID) (Registered[S], bool) {
	i, ok := r.index[id]
	if !ok {
		return Registered[S]{}, false
	}
	return r.types[i], true
}

func (r *Registry[S]) Has(id TypeID) bool {
	_, ok := r.index[id]
	return ok
}

func (r *Registry[S]) Len() int { return len(r.types) }

// IDs lists registered identifiers, sorted.
func (r *Registry[S]) IDs() []TypeID {
	ids := make([]TypeID, len(r.types))
	for i, t := range r.types {
		ids[i] = t.id
	}
	slices.Sort(ids)
	return ids
}

// RemoveAll clears the entity from every registered component Map.
func (r *Registry[S]) RemoveAll(id entity.ID, state S) {
	for _, t := range r.types {
		t.RemoveFor(id, state)
	}
}

// Fingerprint hashes the sorted set of registered identifiers. Snapshots
// carry it so that a state saved under one set of component types is not
// restored under another.
func (r *Registry[S]) Fingerprint() uint64 {
	d := xxhash.New()
	for _, id := range r.IDs() {
		_, _ = d.WriteString(string(id))
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}
