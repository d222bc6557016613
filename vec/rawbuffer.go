package vec

// rawBuffer owns reserved storage for up to capacity() elements of T.
// It tracks no liveness: which slots hold meaningful values is entirely
// the owner's concern, and no lifecycle hook ever runs in here. A
// zero-capacity buffer holds no storage at all.
type rawBuffer[T any] struct {
	slots []T // len == cap; nil when capacity is 0
}

// newRawBuffer reserves storage for capacity elements. Requesting a
// negative capacity is a programming error.
func newRawBuffer[T any](capacity int) rawBuffer[T] {
	if capacity < 0 {
		panic("vec: negative capacity")
	}
	if capacity == 0 {
		return rawBuffer[T]{}
	}
	return rawBuffer[T]{slots: make([]T, capacity)}
}

func (b *rawBuffer[T]) capacity() int {
	return len(b.slots)
}

// at returns the address of slot i. The slot may or may not hold a live
// element; i must lie within the reserved region.
func (b *rawBuffer[T]) at(i int) *T {
	if i < 0 || i >= len(b.slots) {
		panic("vec: slot index out of reserved range")
	}
	return &b.slots[i]
}

// view returns the slots in [lo, hi) as a slice.
func (b *rawBuffer[T]) view(lo, hi int) []T {
	if lo < 0 || hi < lo || hi > len(b.slots) {
		panic("vec: slot range out of reserved range")
	}
	return b.slots[lo:hi]
}

// swap exchanges storage ownership with other in constant time. Every
// reallocation commits through this single step, so a relocation that
// fails beforehand leaves the current buffer untouched.
func (b *rawBuffer[T]) swap(other *rawBuffer[T]) {
	b.slots, other.slots = other.slots, b.slots
}

// release drops the storage without retiring any slot. Retiring live
// elements first is the owner's job.
func (b *rawBuffer[T]) release() {
	b.slots = nil
}
