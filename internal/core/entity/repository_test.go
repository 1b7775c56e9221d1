package entity

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAddIndexesTagsAndHierarchy(t *testing.T) {
	r := NewRepository()
	require.NoError(t, r.Add(New("ship", "player", "solid", "player")))
	require.NoError(t, r.Add(NewChild("gun", "ship", "weapon")))

	e, ok := r.Lookup("ship")
	require.True(t, ok)
	assert.Equal(t, []string{"player", "solid"}, e.Tags)
	assert.True(t, e.HasTag("solid"))
	assert.Equal(t, []ID{"ship"}, r.Tagged("player"))
	assert.Equal(t, []ID{"gun"}, r.Tagged("weapon"))
	assert.Equal(t, []ID{"ship"}, r.Children(Root))
	assert.Equal(t, []ID{"gun"}, r.Children("ship"))

	parent, ok := r.Parent("gun")
	assert.True(t, ok)
	assert.Equal(t, ID("ship"), parent)
}

func TestAddRejectsBadInput(t *testing.T) {
	r := NewRepository()
	require.NoError(t, r.Add(New("a")))

	assert.ErrorIs(t, r.Add(New("a")), ErrDuplicateEntity)
	assert.ErrorIs(t, r.Add(New(Root)), ErrInvalidID)
	assert.ErrorIs(t, r.Add(NewChild("b", "missing")), ErrUnknownParent)
	assert.False(t, r.Has("b"))
}

func TestRemoveClearsTagsAndReparentsChildren(t *testing.T) {
	r := NewRepository()
	require.NoError(t, r.Add(New("a", "x")))
	require.NoError(t, r.Add(NewChild("b", "a", "x", "y")))
	require.NoError(t, r.Add(NewChild("c", "a")))
	require.NoError(t, r.Add(New("d")))

	require.NoError(t, r.Remove("a"))

	assert.False(t, r.Has("a"))
	assert.Equal(t, []ID{"b"}, r.Tagged("x"))
	assert.Equal(t, []ID{"d", "b", "c"}, r.Children(Root))
	b, _ := r.Lookup("b")
	assert.Equal(t, Root, b.Parent)

	require.NoError(t, r.Remove("b"))
	assert.Empty(t, r.Tagged("x"))
	assert.Empty(t, r.Tagged("y"))
	assert.Empty(t, r.Tags())

	assert.ErrorIs(t, r.Remove("b"), ErrUnknownEntity)
}

func TestMove(t *testing.T) {
	r := NewRepository()
	require.NoError(t, r.Add(New("a")))
	require.NoError(t, r.Add(New("b")))
	require.NoError(t, r.Add(NewChild("c", "b")))

	require.NoError(t, r.Move("b", "a"))
	assert.Equal(t, []ID{"a"}, r.Children(Root))
	assert.Equal(t, []ID{"b"}, r.Children("a"))
	e, _ := r.Lookup("b")
	assert.Equal(t, ID("a"), e.Parent)

	assert.ErrorIs(t, r.Move("a", "c"), ErrCycle)
	assert.ErrorIs(t, r.Move("a", "a"), ErrCycle)
	assert.ErrorIs(t, r.Move("zz", "a"), ErrUnknownEntity)
	assert.ErrorIs(t, r.Move("a", "zz"), ErrUnknownParent)

	require.NoError(t, r.Move("c", Root))
	assert.Equal(t, []ID{"a", "c"}, r.Children(Root))
}

func TestWalkDepthFirst(t *testing.T) {
	r := NewRepository()
	require.NoError(t, r.Add(New("a")))
	require.NoError(t, r.Add(NewChild("a1", "a")))
	require.NoError(t, r.Add(NewChild("a11", "a1")))
	require.NoError(t, r.Add(New("b")))

	var seen []ID
	var depths []int
	r.Walk(func(e Entity, depth int) bool {
		seen = append(seen, e.ID)
		depths = append(depths, depth)
		return true
	})
	assert.Equal(t, []ID{"a", "a1", "a11", "b"}, seen)
	assert.Equal(t, []int{0, 1, 2, 0}, depths)

	seen = seen[:0]
	r.Walk(func(e Entity, _ int) bool {
		seen = append(seen, e.ID)
		return e.ID != "a1"
	})
	assert.Equal(t, []ID{"a", "a1"}, seen)
}

func buildRepo(t *testing.T) *Repository {
	t.Helper()
	r := NewRepository()
	require.NoError(t, r.Add(New("z", "enemy")))
	require.NoError(t, r.Add(New("a", "player", "solid")))
	require.NoError(t, r.Add(NewChild("a1", "a")))
	require.NoError(t, r.Add(NewChild("z1", "z", "enemy")))
	require.NoError(t, r.Move("a1", "z"))
	return r
}

func TestGobRoundTrip(t *testing.T) {
	r := buildRepo(t)

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(r))
	restored := &Repository{}
	require.NoError(t, gob.NewDecoder(&buf).Decode(restored))

	assert.True(t, r.Equal(restored))
	assert.Equal(t, []ID{"z1", "a1"}, restored.Children("z"))
	assert.Equal(t, []ID{"z", "z1"}, restored.Tagged("enemy"))
}

func TestYAMLRoundTrip(t *testing.T) {
	r := buildRepo(t)

	data, err := yaml.Marshal(r)
	require.NoError(t, err)
	restored := NewRepository()
	require.NoError(t, yaml.Unmarshal(data, restored))

	assert.True(t, r.Equal(restored))
	assert.Equal(t, []ID{"z", "z1"}, restored.Tagged("enemy"))
}

func TestRestoreRejectsOrphans(t *testing.T) {
	s := snapshot{Entities: []Entity{{ID: "a"}}}
	_, err := s.restore()
	assert.ErrorIs(t, err, ErrCorrupt)

	s = snapshot{
		Entities: []Entity{{ID: "a", Parent: "b"}, {ID: "b"}},
		Children: map[ID][]ID{Root: {"a", "b"}},
	}
	_, err = s.restore()
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestEqualDetectsOrder(t *testing.T) {
	a := NewRepository()
	b := NewRepository()
	require.NoError(t, a.Add(New("x")))
	require.NoError(t, a.Add(New("y")))
	require.NoError(t, b.Add(New("y")))
	require.NoError(t, b.Add(New("x")))
	assert.False(t, a.Equal(b))
}
