package entity

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	ErrInvalidID       = errors.New("entity: invalid id")
	ErrDuplicateEntity = errors.New("entity: duplicate id")
	ErrUnknownEntity   = errors.New("entity: unknown id")
	ErrUnknownParent   = errors.New("entity: unknown parent")
	ErrCycle           = errors.New("entity: move would create a cycle")
	ErrCorrupt         = errors.New("entity: inconsistent repository snapshot")
)

type node struct {
	id       ID
	parent   *node
	children []*node
}

func (n *node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	if i := slices.Index(p.children, n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	if len(p.children) == 0 {
		p.children = nil
	}
	n.parent = nil
}

func (n *node) attach(parent *node) {
	n.parent = parent
	parent.children = append(parent.children, n)
}

func (n *node) isDescendantOf(other *node) bool {
	for p := n.parent; p != nil; p = p.parent {
		if p == other {
			return true
		}
	}
	return false
}

// Repository owns entity identities, the tag index and the parent/child
// hierarchy rooted at Root. It never touches component data.
// Not safe for concurrent use.
type Repository struct {
	entities map[ID]Entity
	tags     map[string]map[ID]struct{}
	root     *node
	nodes    map[ID]*node
}

func NewRepository() *Repository {
	root := &node{id: Root}
	return &Repository{
		entities: make(map[ID]Entity),
		tags:     make(map[string]map[ID]struct{}),
		root:     root,
		nodes:    map[ID]*node{Root: root},
	}
}

// Add registers e, indexes its tags and inserts it under e.Parent.
func (r *Repository) Add(e Entity) error {
	if e.ID == Root {
		return ErrInvalidID
	}
	if _, exists := r.entities[e.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEntity, e.ID)
	}
	parent, ok := r.nodes[e.Parent]
	if !ok {
		return fmt.Errorf("%w: %s (adding %s)", ErrUnknownParent, e.Parent, e.ID)
	}

	e = e.clone()
	e.Tags = normalizeTags(e.Tags)
	r.entities[e.ID] = e
	for _, tag := range e.Tags {
		set, ok := r.tags[tag]
		if !ok {
			set = make(map[ID]struct{})
			r.tags[tag] = set
		}
		set[e.ID] = struct{}{}
	}

	n := &node{id: e.ID}
	n.attach(parent)
	r.nodes[e.ID] = n
	return nil
}

// Remove drops id from the tag index and splices it out of the hierarchy.
// Its children move up to its parent, keeping their relative order.
func (r *Repository) Remove(id ID) error {
	e, ok := r.entities[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, id)
	}
	for _, tag := range e.Tags {
		set := r.tags[tag]
		delete(set, id)
		if len(set) == 0 {
			delete(r.tags, tag)
		}
	}

	n := r.nodes[id]
	parent := n.parent
	n.detach()
	for _, child := range n.children {
		child.attach(parent)
		ce := r.entities[child.id]
		ce.Parent = parent.id
		r.entities[child.id] = ce
	}
	n.children = nil

	delete(r.nodes, id)
	delete(r.entities, id)
	return nil
}

// Move re-parents id under parent.
func (r *Repository) Move(id, parent ID) error {
	n, ok := r.nodes[id]
	if !ok || id == Root {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, id)
	}
	p, ok := r.nodes[parent]
	if !ok {
		return fmt.Errorf("%w: %s (moving %s)", ErrUnknownParent, parent, id)
	}
	if p == n || p.isDescendantOf(n) {
		return fmt.Errorf("%w: %s under %s", ErrCycle, id, parent)
	}
	n.detach()
	n.attach(p)

	e := r.entities[id]
	e.Parent = parent
	r.entities[id] = e
	return nil
}

// Lookup returns a copy of the entity.
func (r *Repository) Lookup(id ID) (Entity, bool) {
	e, ok := r.entities[id]
	if !ok {
		return Entity{}, false
	}
	return e.clone(), true
}

func (r *Repository) Has(id ID) bool {
	_, ok := r.entities[id]
	return ok
}

func (r *Repository) Len() int {
	return len(r.entities)
}

// Tagged lists the entities carrying tag, sorted by id.
func (r *Repository) Tagged(tag string) []ID {
	set := r.tags[tag]
	if len(set) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(set))
}

// Tags lists every tag in use, sorted.
func (r *Repository) Tags() []string {
	return slices.Sorted(maps.Keys(r.tags))
}

// Children lists the direct children of id in insertion order.
func (r *Repository) Children(id ID) []ID {
	n, ok := r.nodes[id]
	if !ok || len(n.children) == 0 {
		return nil
	}
	out := make([]ID, len(n.children))
	for i, c := range n.children {
		out[i] = c.id
	}
	return out
}

// Parent returns the parent of id; Root for top-level entities.
func (r *Repository) Parent(id ID) (ID, bool) {
	n, ok := r.nodes[id]
	if !ok || n.parent == nil {
		return Root, false
	}
	return n.parent.id, true
}

// Walk visits the hierarchy depth first, parents before children, starting
// below the root. Returning false from fn stops the walk.
func (r *Repository) Walk(fn func(e Entity, depth int) bool) {
	var visit func(n *node, depth int) bool
	visit = func(n *node, depth int) bool {
		for _, c := range n.children {
			if !fn(r.entities[c.id].clone(), depth) {
				return false
			}
			if !visit(c, depth+1) {
				return false
			}
		}
		return true
	}
	visit(r.root, 0)
}

// Entities returns every entity sorted by id.
func (r *Repository) Entities() []Entity {
	out := make([]Entity, 0, len(r.entities))
	for _, id := range slices.Sorted(maps.Keys(r.entities)) {
		out = append(out, r.entities[id].clone())
	}
	return out
}

// Equal compares identities, tags and hierarchy including child order.
func (r *Repository) Equal(other *Repository) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.snapshot().equal(other.snapshot())
}
