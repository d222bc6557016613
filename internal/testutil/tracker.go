// Package testutil provides a lifecycle-instrumented element type shared
// by the vec tests: every construction, duplication, relocation and
// retirement is counted, and individual operations can be made to fail
// on a chosen call.
package testutil

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-vec/vec"
)

// ErrInjected is the failure injected by a Tracker when an operation
// reaches its configured failing call.
var ErrInjected = errors.New("testutil: injected element failure")

// Elem is a tracked element. V carries the payload; the unexported
// liveness flag lets the Tracker tell a real element from a zeroed slot.
type Elem struct {
	V     int
	alive bool
}

// Tracker counts lifecycle operations across all elements it manages.
// The zero value is ready to use and never fails.
type Tracker struct {
	News    int // successful constructions (New and Make)
	Copies  int // successful duplications
	Moves   int // successful relocations
	Retires int // retirements of live elements
	Live    int // constructions plus duplications minus retirements

	// FailNewAt makes the n-th call of New fail (1-based); 0 disables.
	// FailCopyAt and FailMoveAt work the same way for Copy and Move.
	FailNewAt  int
	FailCopyAt int
	FailMoveAt int

	newCalls  int
	copyCalls int
	moveCalls int
}

// Make constructs a live element outside any vector, counted like a
// construction, for handing to Append or Insert.
func (tr *Tracker) Make(v int) Elem {
	tr.News++
	tr.Live++
	return Elem{V: v, alive: true}
}

// Lifecycle returns a vec lifecycle managing Elem values through t,
// reporting the given traits.
func (tr *Tracker) Lifecycle(traits vec.Traits) vec.Lifecycle[Elem] {
	return trackedLifecycle{t: tr, traits: traits}
}

// RequireBalanced fails t when live accounting does not match want, or
// when more elements were retired than ever constructed.
func (tr *Tracker) RequireBalanced(t *testing.T, want int) {
	t.Helper()
	if tr.Live != want {
		t.Fatalf("Live = %d, want %d (news %d, copies %d, retires %d)",
			tr.Live, want, tr.News, tr.Copies, tr.Retires)
	}
	if tr.Retires > tr.News+tr.Copies {
		t.Fatalf("retired %d elements but only %d were ever constructed",
			tr.Retires, tr.News+tr.Copies)
	}
}

// Values returns the payloads of v's live elements in order.
func Values(v *vec.Vector[Elem]) []int {
	out := make([]int, v.Len())
	for i, e := range v.Slice() {
		out[i] = e.V
	}
	return out
}

type trackedLifecycle struct {
	t      *Tracker
	traits vec.Traits
}

func (l trackedLifecycle) New() (Elem, error) {
	l.t.newCalls++
	if l.t.FailNewAt > 0 && l.t.newCalls == l.t.FailNewAt {
		return Elem{}, ErrInjected
	}
	l.t.News++
	l.t.Live++
	return Elem{alive: true}, nil
}

func (l trackedLifecycle) Copy(src Elem) (Elem, error) {
	if l.traits.NoCopy {
		return Elem{}, vec.ErrNotCopyable
	}
	l.t.copyCalls++
	if l.t.FailCopyAt > 0 && l.t.copyCalls == l.t.FailCopyAt {
		return Elem{}, ErrInjected
	}
	l.t.Copies++
	l.t.Live++
	return Elem{V: src.V, alive: true}, nil
}

func (l trackedLifecycle) Move(src *Elem) (Elem, error) {
	l.t.moveCalls++
	if l.t.FailMoveAt > 0 && l.t.moveCalls == l.t.FailMoveAt {
		return Elem{}, ErrInjected
	}
	l.t.Moves++
	out := *src
	*src = Elem{}
	return out, nil
}

func (l trackedLifecycle) Retire(src *Elem) {
	if src.alive {
		l.t.Retires++
		l.t.Live--
	}
	*src = Elem{}
}

func (l trackedLifecycle) Traits() vec.Traits {
	return l.traits
}
