package vec

import "errors"

// Errors returned by lifecycle operations.
var (
	// ErrNotCopyable reports that an element type does not support
	// duplication. Lifecycles with the NoCopy trait return it from Copy.
	ErrNotCopyable = errors.New("vec: element type does not support copying")
)

// Traits describes static capabilities of a Lifecycle. A Vector resolves
// them once at construction, not per element operation.
type Traits struct {
	// NoFailMove promises that Move never returns an error. Relocating a
	// run of elements between buffers uses Move only under this promise,
	// because a move that fails halfway through a run cannot be rolled
	// back; without it the run is duplicated via Copy instead.
	NoFailMove bool

	// NoCopy marks element types whose Copy is unsupported. Relocation
	// falls back to Move for such types even when moving may fail, since
	// there is no alternative.
	NoCopy bool
}

// Lifecycle describes how elements of type T are created, duplicated,
// relocated and retired. Every element operation a Vector performs runs
// through its Lifecycle, so resource-owning element types can execute
// real acquisition and release code at the right moments.
type Lifecycle[T any] interface {
	// New produces the value for a default-constructed slot.
	New() (T, error)

	// Copy produces an independent duplicate of src, leaving src intact.
	Copy(src T) (T, error)

	// Move transfers the value out of *src. On success *src is left
	// zeroed; on failure *src is unchanged.
	Move(src *T) (T, error)

	// Retire releases whatever *src holds and zeroes it, so the backing
	// array drops the reference. Retiring an already zeroed slot must be
	// a no-op.
	Retire(src *T)

	// Traits reports the static capabilities used to pick the
	// relocation strategy.
	Traits() Traits
}

// Plain returns the Lifecycle for self-contained value types: plain
// assignment both copies and moves, nothing fails, and retiring zeroes
// the slot. This is the lifecycle a zero-value Vector uses.
func Plain[T any]() Lifecycle[T] {
	return plainLifecycle[T]{}
}

type plainLifecycle[T any] struct{}

func (plainLifecycle[T]) New() (T, error) {
	var zero T
	return zero, nil
}

func (plainLifecycle[T]) Copy(src T) (T, error) {
	return src, nil
}

func (plainLifecycle[T]) Move(src *T) (T, error) {
	var zero T
	out := *src
	*src = zero
	return out, nil
}

func (plainLifecycle[T]) Retire(src *T) {
	var zero T
	*src = zero
}

func (plainLifecycle[T]) Traits() Traits {
	return Traits{NoFailMove: true}
}

// Hooks adapts plain functions to a Lifecycle. Nil fields fall back to
// the Plain behavior for that operation, except Copy, which honors the
// NoCopy trait first.
type Hooks[T any] struct {
	NewFunc    func() (T, error)
	CopyFunc   func(src T) (T, error)
	MoveFunc   func(src *T) (T, error)
	RetireFunc func(src *T)
	Static     Traits
}

func (h Hooks[T]) New() (T, error) {
	if h.NewFunc != nil {
		return h.NewFunc()
	}
	var zero T
	return zero, nil
}

func (h Hooks[T]) Copy(src T) (T, error) {
	if h.Static.NoCopy {
		var zero T
		return zero, ErrNotCopyable
	}
	if h.CopyFunc != nil {
		return h.CopyFunc(src)
	}
	return src, nil
}

func (h Hooks[T]) Move(src *T) (T, error) {
	if h.MoveFunc != nil {
		return h.MoveFunc(src)
	}
	var zero T
	out := *src
	*src = zero
	return out, nil
}

func (h Hooks[T]) Retire(src *T) {
	if h.RetireFunc != nil {
		h.RetireFunc(src)
		return
	}
	var zero T
	*src = zero
}

func (h Hooks[T]) Traits() Traits {
	return h.Static
}
