package vec_test

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-vec/internal/testutil"
	"github.com/cwbudde/algo-vec/vec"
)

func buildTracked(t *testing.T, tr *testutil.Tracker, traits vec.Traits, payloads ...int) *vec.Vector[testutil.Elem] {
	t.Helper()
	v := vec.NewWith(tr.Lifecycle(traits))
	for _, p := range payloads {
		if err := v.Append(tr.Make(p)); err != nil {
			t.Fatalf("Append(%d) failed: %v", p, err)
		}
	}
	return v
}

func requireValues(t *testing.T, v *vec.Vector[testutil.Elem], want ...int) {
	t.Helper()
	got := testutil.Values(v)
	if len(got) != len(want) {
		t.Fatalf("values = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("values = %v, want %v", got, want)
		}
	}
}

func TestRelocationCopiesWhenMoveIsUntrusted(t *testing.T) {
	// Copyable type whose move is not promised to succeed: growth and
	// reserve must duplicate, never move.
	tr := &testutil.Tracker{}
	v := buildTracked(t, tr, vec.Traits{}, 1, 2, 3, 4, 5, 6, 7, 8, 9)

	if err := v.Reserve(64); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if tr.Moves != 0 {
		t.Fatalf("Moves = %d during relocation of untrusted-move type, want 0", tr.Moves)
	}
	if tr.Copies == 0 {
		t.Fatal("expected copy-based relocation to run")
	}
	requireValues(t, v, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	tr.RequireBalanced(t, 9)
}

func TestRelocationMovesTrustedType(t *testing.T) {
	tr := &testutil.Tracker{}
	v := buildTracked(t, tr, vec.Traits{NoFailMove: true}, 1, 2, 3, 4, 5)

	if err := v.Reserve(64); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if tr.Copies != 0 {
		t.Fatalf("Copies = %d during relocation of no-fail-move type, want 0", tr.Copies)
	}
	if tr.Moves == 0 {
		t.Fatal("expected move-based relocation to run")
	}
	requireValues(t, v, 1, 2, 3, 4, 5)
	tr.RequireBalanced(t, 5)
}

func TestMoveOnlyTypeRelocatesByMove(t *testing.T) {
	tr := &testutil.Tracker{}
	v := buildTracked(t, tr, vec.Traits{NoCopy: true}, 1, 2, 3)

	if err := v.Reserve(16); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if tr.Copies != 0 {
		t.Fatalf("Copies = %d for move-only type, want 0", tr.Copies)
	}
	requireValues(t, v, 1, 2, 3)

	if _, err := v.Clone(); !errors.Is(err, vec.ErrNotCopyable) {
		t.Fatalf("Clone error = %v, want ErrNotCopyable", err)
	}
}

func TestSizedConstructionFailureCleansUp(t *testing.T) {
	tr := &testutil.Tracker{FailNewAt: 3}
	v, err := vec.NewWithLen(tr.Lifecycle(vec.Traits{NoFailMove: true}), 5)
	if !errors.Is(err, testutil.ErrInjected) {
		t.Fatalf("NewWithLen error = %v, want ErrInjected", err)
	}
	if v != nil {
		t.Fatal("no vector may be returned after failed sized construction")
	}
	// Both elements built before the failure were retired; nothing else
	// ever ran a constructor.
	tr.RequireBalanced(t, 0)
	if tr.Retires != 2 {
		t.Fatalf("Retires = %d, want 2", tr.Retires)
	}
}

func TestGrowthAppendFailureLeavesVectorUnchanged(t *testing.T) {
	tr := &testutil.Tracker{}
	v := buildTracked(t, tr, vec.Traits{}, 1, 2, 3, 4)
	for v.Len() < v.Cap() {
		if err := v.Append(tr.Make(0)); err != nil {
			t.Fatalf("fill Append failed: %v", err)
		}
	}
	size, capacity := v.Len(), v.Cap()
	before := testutil.Values(v)

	// Fail the second relocation copy of the growth.
	tr.FailCopyAt = tr.Copies + 2
	err := v.Append(tr.Make(99))
	if !errors.Is(err, testutil.ErrInjected) {
		t.Fatalf("Append error = %v, want ErrInjected", err)
	}
	if v.Len() != size || v.Cap() != capacity {
		t.Fatalf("Len, Cap = %d, %d after failed growth, want %d, %d", v.Len(), v.Cap(), size, capacity)
	}
	requireValues(t, v, before...)
	// The rejected element stays with the caller; the one relocated
	// duplicate was retired again.
	tr.RequireBalanced(t, size+1)
}

func TestGrowthEmplaceConstructionFailureLeavesVectorUnchanged(t *testing.T) {
	tr := &testutil.Tracker{}
	v := buildTracked(t, tr, vec.Traits{NoFailMove: true}, 1, 2, 3, 4)
	for v.Len() < v.Cap() {
		if err := v.Append(tr.Make(0)); err != nil {
			t.Fatalf("fill Append failed: %v", err)
		}
	}
	size := v.Len()
	before := testutil.Values(v)

	tr.FailNewAt = 1 // Appends never construct, so this is the Emplace
	if _, err := v.Emplace(1); !errors.Is(err, testutil.ErrInjected) {
		t.Fatalf("Emplace error = %v, want ErrInjected", err)
	}
	if v.Len() != size {
		t.Fatalf("Len() = %d after failed Emplace, want %d", v.Len(), size)
	}
	requireValues(t, v, before...)
	tr.RequireBalanced(t, size)
}

func TestInteriorInsertFailureRollsBackTrailingSlot(t *testing.T) {
	tr := &testutil.Tracker{}
	v := buildTracked(t, tr, vec.Traits{NoFailMove: true}, 1, 2, 3, 4)
	if err := v.Reserve(8); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	// First move extends the live range with the old last element; the
	// second happens mid-shift and fails there.
	tr.FailMoveAt = tr.Moves + 2
	err := v.Insert(1, tr.Make(99))
	if !errors.Is(err, testutil.ErrInjected) {
		t.Fatalf("Insert error = %v, want ErrInjected", err)
	}
	if v.Len() != 4 {
		t.Fatalf("Len() = %d after failed interior insert, want 4", v.Len())
	}
	// The extended trailing slot was retired again; every slot in the
	// live range is valid, the shifted tail may hold zeroed holes.
	tr.RequireBalanced(t, 4) // 1, 2, 3 in the vector plus the caller's 99
}

func TestInteriorGrowthInsertSequence(t *testing.T) {
	tr := &testutil.Tracker{}
	v := buildTracked(t, tr, vec.Traits{NoFailMove: true}, 1, 2, 4, 5)
	for v.Len() < v.Cap() {
		if err := v.Append(tr.Make(9)); err != nil {
			t.Fatalf("fill Append failed: %v", err)
		}
	}
	size := v.Len()

	if err := v.Insert(2, tr.Make(3)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if v.Len() != size+1 {
		t.Fatalf("Len() = %d, want %d", v.Len(), size+1)
	}
	want := []int{1, 2, 3, 4, 5}
	for i := size; i > 4; i-- {
		want = append(want, 9)
	}
	requireValues(t, v, want...)
	tr.RequireBalanced(t, size+1)
}

func TestEraseRetiresExactlyOne(t *testing.T) {
	tr := &testutil.Tracker{}
	v := buildTracked(t, tr, vec.Traits{NoFailMove: true}, 1, 2, 3, 4)

	if err := v.Erase(1); err != nil {
		t.Fatalf("Erase failed: %v", err)
	}
	requireValues(t, v, 1, 3, 4)
	if tr.Retires != 1 {
		t.Fatalf("Retires = %d after one erase, want 1", tr.Retires)
	}
	tr.RequireBalanced(t, 3)
}

func TestCopyFromSmallerRetiresExtraTrailing(t *testing.T) {
	tr := &testutil.Tracker{}
	dst := buildTracked(t, tr, vec.Traits{NoFailMove: true}, 1, 2, 3, 4)
	src := buildTracked(t, tr, vec.Traits{NoFailMove: true}, 7, 8)

	if err := dst.CopyFrom(src); err != nil {
		t.Fatalf("CopyFrom failed: %v", err)
	}
	requireValues(t, dst, 7, 8)
	requireValues(t, src, 7, 8)
	tr.RequireBalanced(t, 4)
}

func TestCopyFromLargerConstructsWithinCapacity(t *testing.T) {
	tr := &testutil.Tracker{}
	dst := buildTracked(t, tr, vec.Traits{NoFailMove: true}, 1, 2)
	if err := dst.Reserve(8); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	src := buildTracked(t, tr, vec.Traits{NoFailMove: true}, 5, 6, 7, 8)

	if err := dst.CopyFrom(src); err != nil {
		t.Fatalf("CopyFrom failed: %v", err)
	}
	requireValues(t, dst, 5, 6, 7, 8)
	if dst.Cap() != 8 {
		t.Fatalf("Cap() = %d after in-place CopyFrom, want 8", dst.Cap())
	}
	tr.RequireBalanced(t, 8)
}

func TestCloneNeverMutatesSource(t *testing.T) {
	// Even for trusted-move types, duplication must copy: the source
	// outlives the operation.
	tr := &testutil.Tracker{}
	v := buildTracked(t, tr, vec.Traits{NoFailMove: true}, 1, 2, 3)
	movesBefore := tr.Moves

	c, err := v.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	if tr.Moves != movesBefore {
		t.Fatalf("Moves = %d during Clone, want %d", tr.Moves, movesBefore)
	}
	requireValues(t, v, 1, 2, 3)
	requireValues(t, c, 1, 2, 3)
	tr.RequireBalanced(t, 6)
}

func TestReserveFailureLeavesVectorUnchanged(t *testing.T) {
	tr := &testutil.Tracker{}
	v := buildTracked(t, tr, vec.Traits{}, 1, 2, 3)
	capacity := v.Cap()

	tr.FailCopyAt = tr.Copies + 2
	if err := v.Reserve(32); !errors.Is(err, testutil.ErrInjected) {
		t.Fatalf("Reserve error = %v, want ErrInjected", err)
	}
	if v.Cap() != capacity {
		t.Fatalf("Cap() = %d after failed Reserve, want %d", v.Cap(), capacity)
	}
	requireValues(t, v, 1, 2, 3)
	tr.RequireBalanced(t, 3)
}

func TestMoveFromRetiresTargetContents(t *testing.T) {
	tr := &testutil.Tracker{}
	dst := buildTracked(t, tr, vec.Traits{NoFailMove: true}, 8, 9)
	src := buildTracked(t, tr, vec.Traits{NoFailMove: true}, 1, 2, 3)

	dst.MoveFrom(src)
	requireValues(t, dst, 1, 2, 3)
	if src.Len() != 0 || src.Cap() != 0 {
		t.Fatalf("source after MoveFrom: Len() = %d, Cap() = %d, want 0, 0", src.Len(), src.Cap())
	}
	tr.RequireBalanced(t, 3)
}

func TestResizeShrinkRetiresTrailingOnce(t *testing.T) {
	tr := &testutil.Tracker{}
	v := buildTracked(t, tr, vec.Traits{NoFailMove: true}, 1, 2, 3, 4, 5)

	if err := v.Resize(2); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	requireValues(t, v, 1, 2)
	if tr.Retires != 3 {
		t.Fatalf("Retires = %d after shrinking by 3, want 3", tr.Retires)
	}
	tr.RequireBalanced(t, 2)
}

func TestResizeGrowConstructsTrailing(t *testing.T) {
	tr := &testutil.Tracker{}
	v := buildTracked(t, tr, vec.Traits{NoFailMove: true}, 1, 2)

	if err := v.Resize(5); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	requireValues(t, v, 1, 2, 0, 0, 0)
	tr.RequireBalanced(t, 5)
}

func TestResizeGrowFailureRetiresPartialRun(t *testing.T) {
	tr := &testutil.Tracker{FailNewAt: 2}
	v := buildTracked(t, tr, vec.Traits{NoFailMove: true}, 1, 2)

	if err := v.Resize(6); !errors.Is(err, testutil.ErrInjected) {
		t.Fatalf("Resize error = %v, want ErrInjected", err)
	}
	if v.Len() != 2 {
		t.Fatalf("Len() = %d after failed Resize, want 2", v.Len())
	}
	requireValues(t, v, 1, 2)
	tr.RequireBalanced(t, 2)
}

func TestReleaseRetiresEverything(t *testing.T) {
	tr := &testutil.Tracker{}
	v := buildTracked(t, tr, vec.Traits{NoFailMove: true}, 1, 2, 3, 4)

	v.Release()
	tr.RequireBalanced(t, 0)
	if tr.Retires != 4 {
		t.Fatalf("Retires = %d after Release, want 4", tr.Retires)
	}
}
