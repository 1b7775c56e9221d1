// Package lens provides explicit get/set pairs used to scope a larger value
// down to a part of it that a sub-system understands.
package lens

// Lens projects a global value G onto a local value L.
// Set writes the local value back into the global one. For pointer or map
// locals Set may be nil when mutations through Get are already visible.
type Lens[G, L any] struct {
	Get func(G) L
	Set func(G, L)
}

// Of builds a lens from a getter and a setter.
func Of[G, L any](get func(G) L, set func(G, L)) Lens[G, L] {
	return Lens[G, L]{Get: get, Set: set}
}

// Identity returns the lens that views a value as itself.
func Identity[T any]() Lens[T, T] {
	return Lens[T, T]{
		Get: func(v T) T { return v },
	}
}

// Write stores local into global when the lens has a setter.
func (l Lens[G, L]) Write(global G, local L) {
	if l.Set != nil {
		l.Set(global, local)
	}
}

// Modify reads the local value, applies fn and writes the result back.
func (l Lens[G, L]) Modify(global G, fn func(L) L) {
	l.Write(global, fn(l.Get(global)))
}

// Compose chains outer (G to M) with inner (M to L).
func Compose[G, M, L any](outer Lens[G, M], inner Lens[M, L]) Lens[G, L] {
	return Lens[G, L]{
		Get: func(g G) L { return inner.Get(outer.Get(g)) },
		Set: func(g G, l L) {
			m := outer.Get(g)
			inner.Write(m, l)
			outer.Write(g, m)
		},
	}
}

// Prism is a partial projection used for actions: Extract may fail when a
// global value has no local counterpart, Embed always succeeds.
type Prism[G, L any] struct {
	Extract func(G) (L, bool)
	Embed   func(L) G
}

// IdentityPrism never fails to extract.
func IdentityPrism[T any]() Prism[T, T] {
	return Prism[T, T]{
		Extract: func(v T) (T, bool) { return v, true },
		Embed:   func(v T) T { return v },
	}
}

// Project maps a value with no local counterpart to ok=false and otherwise
// extracts through the prism.
func (p Prism[G, L]) Project(g G) (L, bool) {
	if p.Extract == nil {
		var zero L
		return zero, false
	}
	return p.Extract(g)
}
