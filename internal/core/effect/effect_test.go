package effect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/simcore/internal/core/component"
	"github.com/zeusync/simcore/internal/core/entity"
	"github.com/zeusync/simcore/internal/core/future"
	"github.com/zeusync/simcore/internal/core/lens"
)

type local struct {
	Marks component.Map[int]
}

type global struct {
	Local local
}

type localAction string

type globalAction struct {
	Local localAction
	Other bool
}

type Fx = Effect[*local, localAction]

func TestManyCollapses(t *testing.T) {
	assert.True(t, Many[*local, localAction]().IsNone())
	assert.True(t, Many(None[*local, localAction](), None[*local, localAction]()).IsNone())

	one := Game[*local](localAction("a"))
	assert.Equal(t, KindGame, Many(None[*local, localAction](), one).Kind())

	m := Many(one, RemoveEntity[*local, localAction]("x"))
	assert.Equal(t, KindMany, m.Kind())
	assert.Len(t, m.Effects(), 2)
}

func TestFlattenOrder(t *testing.T) {
	e := Many(
		Game[*local](localAction("a")),
		Many(Game[*local](localAction("b")), AddEntity[*local, localAction]("e")),
		Game[*local](localAction("c")),
	)
	leaves := Flatten(e)
	require.Len(t, leaves, 4)
	assert.Equal(t, localAction("a"), leaves[0].Action())
	assert.Equal(t, OpAddEntity, leaves[2].System().Op)
	assert.Equal(t, localAction("c"), leaves[3].Action())
}

func TestPendingConsumesMultiset(t *testing.T) {
	e := WaitFor(Game[*local](localAction("done")), localAction("a"), localAction("a"), localAction("b"))
	p := e.Pending().Clone()

	assert.False(t, p.Consume("z"))
	assert.True(t, p.Consume("a"))
	assert.Equal(t, 2, p.Remaining())
	assert.True(t, p.Consume("b"))
	assert.False(t, p.Consume("b"))
	assert.False(t, p.Satisfied())
	assert.True(t, p.Consume("a"))
	assert.True(t, p.Satisfied())
	assert.Equal(t, localAction("done"), p.Then().Action())

	// the original value is untouched
	assert.Equal(t, 3, e.Pending().Remaining())
}

func scope() (lens.Lens[*global, *local], lens.Prism[globalAction, localAction]) {
	st := lens.Of(func(g *global) *local { return &g.Local }, nil)
	act := lens.Prism[globalAction, localAction]{
		Extract: func(g globalAction) (localAction, bool) { return g.Local, !g.Other },
		Embed:   func(l localAction) globalAction { return globalAction{Local: l} },
	}
	return st, act
}

func TestLiftMapsEveryVariant(t *testing.T) {
	st, act := scope()
	marks := lens.Of(
		func(l *local) component.Map[int] { return l.Marks },
		func(l *local, m component.Map[int]) { l.Marks = m },
	)

	e := Many(
		Game[*local](localAction("a")),
		AddComponent[*local, localAction]("x", component.Wrap(marks, 5)),
		MoveEntity[*local, localAction]("x", "p"),
	)
	lifted := Lift(e, st, act)
	leaves := Flatten(lifted)
	require.Len(t, leaves, 3)
	assert.Equal(t, globalAction{Local: "a"}, leaves[0].Action())

	g := &global{}
	leaves[1].System().Component.InsertFor("x", g)
	assert.Equal(t, 5, g.Local.Marks["x"])
	assert.Equal(t, component.TypeOf[int](), leaves[1].System().Type)
	assert.Equal(t, entity.ID("p"), leaves[2].System().Parent)
}

func TestLiftPendingMatchers(t *testing.T) {
	st, act := scope()
	lifted := Lift(WaitFor(Game[*local](localAction("go")), localAction("a")), st, act)
	p := lifted.Pending().Clone()

	assert.False(t, p.Consume(globalAction{Local: "a", Other: true}))
	assert.True(t, p.Consume(globalAction{Local: "a"}))
	assert.Equal(t, globalAction{Local: "go"}, p.Then().Action())
}

func TestLiftDeferred(t *testing.T) {
	st, act := scope()
	f, p := future.New[Fx]()
	lifted := Lift(Deferred(f), st, act)
	require.Equal(t, KindDeferred, lifted.Kind())

	require.NoError(t, p.Resolve(Game[*local](localAction("loaded"))))
	got, err := lifted.Future().Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, globalAction{Local: "loaded"}, got.Action())
}
