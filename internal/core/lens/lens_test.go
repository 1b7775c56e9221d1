package lens

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type inner struct{ N int }

type outer struct {
	In inner
}

func TestLensModify(t *testing.T) {
	l := Of(
		func(o *outer) inner { return o.In },
		func(o *outer, i inner) { o.In = i },
	)
	o := &outer{}
	l.Modify(o, func(i inner) inner { i.N += 2; return i })
	assert.Equal(t, 2, o.In.N)
}

func TestComposeWritesThrough(t *testing.T) {
	in := Of(
		func(i *inner) int { return i.N },
		func(i *inner, n int) { i.N = n },
	)
	out := Of(
		func(o *outer) *inner { return &o.In },
		nil,
	)
	l := Compose(out, in)
	o := &outer{In: inner{N: 3}}
	assert.Equal(t, 3, l.Get(o))
	l.Set(o, 9)
	assert.Equal(t, 9, o.In.N)
}

func TestIdentityPrism(t *testing.T) {
	p := IdentityPrism[string]()
	v, ok := p.Project("a")
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	assert.Equal(t, "b", p.Embed("b"))

	var empty Prism[string, int]
	_, ok = empty.Project("x")
	assert.False(t, ok)
}
