package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/simcore/internal/core/entity"
	"github.com/zeusync/simcore/internal/core/lens"
)

type position struct{ X, Y float64 }

type health int

func (health) ComponentType() TypeID { return "health" }

type world struct {
	Positions Map[position]
	Health    Map[health]
}

func positions() lens.Lens[*world, Map[position]] {
	return lens.Of(
		func(w *world) Map[position] { return w.Positions },
		func(w *world, m Map[position]) { w.Positions = m },
	)
}

func healths() lens.Lens[*world, Map[health]] {
	return lens.Of(
		func(w *world) Map[health] { return w.Health },
		func(w *world, m Map[health]) { w.Health = m },
	)
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, TypeID("component.position"), TypeOf[position]())
	assert.Equal(t, TypeID("health"), TypeOf[health]())
}

func TestWrapInsertsIntoNilMap(t *testing.T) {
	w := &world{}
	c := Wrap(positions(), position{X: 1, Y: 2})
	assert.Equal(t, TypeOf[position](), c.ID())

	c.InsertFor("a", w)
	got, ok := w.Positions.Get("a")
	require.True(t, ok)
	assert.Equal(t, position{X: 1, Y: 2}, got)
}

func TestRegistryRemoveAll(t *testing.T) {
	w := &world{}
	reg := NewRegistry(Register(positions()), Register(healths()))

	Wrap(positions(), position{}).InsertFor("a", w)
	Wrap(healths(), health(3)).InsertFor("a", w)
	Wrap(healths(), health(4)).InsertFor("b", w)

	reg.RemoveAll("a", w)
	assert.False(t, w.Positions.Has("a"))
	assert.False(t, w.Health.Has("a"))
	assert.True(t, w.Health.Has("b"))

	// untouched map stays nil-safe
	reg.RemoveAll("zzz", &world{})
}

func TestRegistryLookupAndFingerprint(t *testing.T) {
	a := NewRegistry(Register(positions()), Register(healths()))
	b := NewRegistry(Register(healths()), Register(positions()))
	c := NewRegistry(Register(healths()))

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.Equal(t, []TypeID{"component.position", "health"}, a.IDs())

	r, ok := a.Lookup("health")
	require.True(t, ok)
	assert.Equal(t, TypeID("health"), r.ID())
	assert.False(t, c.Has(TypeOf[position]()))

	assert.Panics(t, func() { NewRegistry(Register(healths()), Register(healths())) })
}

func TestMutate(t *testing.T) {
	m := Map[health]{"a": 1}
	m.Mutate("a", func(h *health) { *h += 2 })
	assert.Equal(t, health(3), m["a"])

	assert.PanicsWithError(t, "component: entity has no such component: health on b", func() {
		m.Mutate("b", func(*health) {})
	})
}

type nested struct {
	World *world
}

func TestLift(t *testing.T) {
	outer := lens.Of(func(n *nested) *world { return n.World }, nil)
	n := &nested{World: &world{}}

	LiftAny(Wrap(healths(), health(9)), outer).InsertFor(entity.ID("a"), n)
	assert.Equal(t, health(9), n.World.Health["a"])

	LiftRegistered(Register(healths()), outer).RemoveFor("a", n)
	assert.False(t, n.World.Health.Has("a"))
}
