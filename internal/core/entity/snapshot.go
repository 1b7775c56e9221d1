package entity

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// snapshot is the encoded form of a Repository. The hierarchy is kept as
// ordered child lists keyed by parent so that sibling order survives.
type snapshot struct {
	Entities []Entity    `yaml:"entities"`
	Children map[ID][]ID `yaml:"children,omitempty"`
}

func (r *Repository) snapshot() snapshot {
	s := snapshot{
		Entities: r.Entities(),
		Children: make(map[ID][]ID),
	}
	for id, n := range r.nodes {
		if len(n.children) > 0 {
			s.Children[id] = r.Children(id)
		}
	}
	return s
}

func (s snapshot) equal(o snapshot) bool {
	eq := slices.EqualFunc(s.Entities, o.Entities, func(a, b Entity) bool {
		return a.ID == b.ID && a.Parent == b.Parent && slices.Equal(a.Tags, b.Tags)
	})
	return eq && maps.EqualFunc(s.Children, o.Children, func(a, b []ID) bool {
		return slices.Equal(a, b)
	})
}

// restore rebuilds a repository, verifying that every entity appears in the
// hierarchy exactly once.
func (s snapshot) restore() (*Repository, error) {
	r := NewRepository()
	byID := make(map[ID]Entity, len(s.Entities))
	for _, e := range s.Entities {
		if e.ID == Root {
			return nil, fmt.Errorf("%w: root listed as entity", ErrCorrupt)
		}
		if _, dup := byID[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate %s", ErrCorrupt, e.ID)
		}
		byID[e.ID] = e
	}

	queue := []ID{Root}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		for _, id := range s.Children[parent] {
			e, ok := byID[id]
			if !ok || e.Parent != parent {
				return nil, fmt.Errorf("%w: bad child %s of %s", ErrCorrupt, id, parent)
			}
			if err := r.Add(e); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
			}
			queue = append(queue, id)
		}
	}
	if r.Len() != len(byID) {
		return nil, fmt.Errorf("%w: %d entities outside the hierarchy", ErrCorrupt, len(byID)-r.Len())
	}
	return r, nil
}

func (r *Repository) install(s snapshot) error {
	restored, err := s.restore()
	if err != nil {
		return err
	}
	*r = *restored
	return nil
}

func (r *Repository) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(r.snapshot()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Repository) GobDecode(data []byte) error {
	var s snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return err
	}
	return r.install(s)
}

func (r *Repository) MarshalYAML() (any, error) {
	return r.snapshot(), nil
}

func (r *Repository) UnmarshalYAML(value *yaml.Node) error {
	var s snapshot
	if err := value.Decode(&s); err != nil {
		return err
	}
	return r.install(s)
}
