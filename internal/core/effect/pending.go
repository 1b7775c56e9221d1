package effect

// Matcher reports whether a dispatched action satisfies one outstanding
// entry of a pending effect.
type Matcher[A any] func(A) bool

// Pending guards an effect behind a multiset of outstanding actions. Each
// matching dispatch consumes one entry; the guarded effect fires once the
// multiset is empty.
type Pending[S, A any] struct {
	outstanding []Matcher[A]
	then        Effect[S, A]
}

// WaitFor fires then after every action in actions was dispatched, counting
// duplicates.
func WaitFor[S any, A comparable](then Effect[S, A], actions ...A) Effect[S, A] {
	matchers := make([]Matcher[A], len(actions))
	for i, want := range actions {
		matchers[i] = func(got A) bool { return got == want }
	}
	return WaitForMatching(then, matchers...)
}

// WaitForMatching is WaitFor for actions that are not comparable.
func WaitForMatching[S, A any](then Effect[S, A], matchers ...Matcher[A]) Effect[S, A] {
	return Effect[S, A]{
		kind: KindWaitFor,
		pending: &Pending[S, A]{
			outstanding: append([]Matcher[A](nil), matchers...),
			then:        then,
		},
	}
}

// Consume removes the first entry matching a and reports whether one did.
func (p *Pending[S, A]) Consume(a A) bool {
	for i, m := range p.outstanding {
		if m(a) {
			p.outstanding = append(p.outstanding[:i], p.outstanding[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Pending[S, A]) Remaining() int { return len(p.outstanding) }

func (p *Pending[S, A]) Satisfied() bool { return len(p.outstanding) == 0 }

func (p *Pending[S, A]) Then() Effect[S, A] { return p.then }

// Clone returns an independent copy so that one Effect value registered
// twice tracks its outstanding set twice.
func (p *Pending[S, A]) Clone() *Pending[S, A] {
	return &Pending[S, A]{
		outstanding: append([]Matcher[A](nil), p.outstanding...),
		then:        p.then,
	}
}
