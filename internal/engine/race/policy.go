package race

// Policy decides whether a produced value settles a race. Policies may keep
// state and must not be shared between races.
type Policy[T any] interface {
	Accept(v T) bool
}

type firstValue[T any] struct{}

func (firstValue[T]) Accept(T) bool { return true }

// FirstValue accepts the first value produced.
func FirstValue[T any]() Policy[T] {
	return firstValue[T]{}
}

type confirmAmbiguous[T any] struct {
	ambiguous func(T) bool
	seen      int
}

// ConfirmAmbiguous accepts a non-ambiguous value immediately. An ambiguous
// value is held until a second ambiguous value arrives, and that second one is
// accepted. An uncorroborated ambiguous value never settles the race.
func ConfirmAmbiguous[T any](ambiguous func(T) bool) Policy[T] {
	return &confirmAmbiguous[T]{ambiguous: ambiguous}
}

func (p *confirmAmbiguous[T]) Accept(v T) bool {
	if !p.ambiguous(v) {
		return true
	}
	p.seen++
	return p.seen >= 2
}
