package vec

import "fmt"

// Vector is a contiguous growable sequence of T. Slots [0, Len()) of its
// buffer hold live elements; the remainder is reserved storage. Mutating
// operations that run lifecycle code report failures as errors and leave
// the vector in a well-defined state: reallocating operations either
// commit completely or change nothing.
//
// The zero value is an empty vector with the Plain lifecycle, ready to
// use. A Vector must not be used from multiple goroutines concurrently.
type Vector[T any] struct {
	life   Lifecycle[T]
	byMove bool // relocate runs between buffers by Move rather than Copy
	data   rawBuffer[T]
	size   int
}

// New returns an empty vector for self-contained value types.
func New[T any]() *Vector[T] {
	return NewWith(Plain[T]())
}

// NewLen returns a vector of n zero-valued elements with capacity
// exactly n.
func NewLen[T any](n int) *Vector[T] {
	if n < 0 {
		panic("vec: negative length")
	}
	v := New[T]()
	v.data = newRawBuffer[T](n)
	v.size = n
	return v
}

// NewWith returns an empty vector whose elements are managed by life.
// A nil life selects the Plain lifecycle.
func NewWith[T any](life Lifecycle[T]) *Vector[T] {
	v := &Vector[T]{}
	v.adopt(life)
	return v
}

// NewWithLen returns a vector of n elements default-constructed through
// life, with capacity exactly n. If construction fails partway, the
// elements built so far are retired and the storage is dropped; no
// partially-live vector is ever returned.
func NewWithLen[T any](life Lifecycle[T], n int) (*Vector[T], error) {
	if n < 0 {
		panic("vec: negative length")
	}
	v := NewWith(life)
	v.data = newRawBuffer[T](n)
	if err := v.constructRun(v.data.view(0, n)); err != nil {
		v.data.release()
		return nil, err
	}
	v.size = n
	return v, nil
}

// adopt installs life and resolves the relocation policy once.
func (v *Vector[T]) adopt(life Lifecycle[T]) {
	if life == nil {
		life = Plain[T]()
	}
	t := life.Traits()
	v.life = life
	v.byMove = t.NoFailMove || t.NoCopy
}

// ensure makes the zero value usable by installing the Plain lifecycle
// on first contact.
func (v *Vector[T]) ensure() {
	if v.life == nil {
		v.adopt(nil)
	}
}

// Len returns the number of live elements.
func (v *Vector[T]) Len() int {
	return v.size
}

// Cap returns the number of reserved slots.
func (v *Vector[T]) Cap() int {
	return v.data.capacity()
}

// At returns the address of the element at index i. Indexing outside
// [0, Len()) is a programming error.
func (v *Vector[T]) At(i int) *T {
	if i < 0 || i >= v.size {
		panic("vec: index out of range")
	}
	return v.data.at(i)
}

// Slice returns the live elements as a slice sharing the vector's
// storage. The view stays valid until the next operation that
// reallocates or shifts elements; writes through it bypass the
// lifecycle.
func (v *Vector[T]) Slice() []T {
	return v.data.view(0, v.size)
}

// Reserve grows the capacity to at least n, relocating the live
// elements into a fresh buffer. It is a no-op when the current capacity
// already suffices. On failure the vector is unchanged.
func (v *Vector[T]) Reserve(n int) error {
	v.ensure()
	if n <= v.data.capacity() {
		return nil
	}
	fresh := newRawBuffer[T](n)
	if err := v.relocateRun(fresh.view(0, v.size), v.data.view(0, v.size)); err != nil {
		fresh.release()
		return err
	}
	v.retireRun(v.data.view(0, v.size))
	v.data.swap(&fresh)
	fresh.release()
	return nil
}

// Resize sets the length to n. Shrinking retires the trailing elements;
// growing default-constructs the new trailing elements, reserving more
// capacity first when needed. The length changes only after every new
// element constructed successfully.
func (v *Vector[T]) Resize(n int) error {
	v.ensure()
	if n < 0 {
		panic("vec: negative length")
	}
	switch {
	case n < v.size:
		v.retireRun(v.data.view(n, v.size))
		v.size = n
	case n > v.size:
		if n > v.data.capacity() {
			if err := v.Reserve(n); err != nil {
				return err
			}
		}
		if err := v.constructRun(v.data.view(v.size, n)); err != nil {
			return err
		}
		v.size = n
	}
	return nil
}

// Append places x at the end of the sequence, growing if needed.
// On failure the vector is unchanged and x stays with the caller.
func (v *Vector[T]) Append(x T) error {
	return v.Insert(v.size, x)
}

// Insert places x before position i, shifting later elements one slot
// right; Insert(Len(), x) appends. Positions outside [0, Len()] are a
// programming error. If a lifecycle operation fails the error is
// propagated, the live range stays consistent, and x stays with the
// caller; when growth was required the vector is completely unchanged.
func (v *Vector[T]) Insert(i int, x T) error {
	v.ensure()
	if i < 0 || i > v.size {
		panic("vec: insert position out of range")
	}
	return v.insertAt(i, x)
}

// Emplace default-constructs a new element through the lifecycle before
// position i and returns its address. The construction happens before
// anything else changes, so a failing constructor leaves the vector
// untouched.
func (v *Vector[T]) Emplace(i int) (*T, error) {
	v.ensure()
	if i < 0 || i > v.size {
		panic("vec: insert position out of range")
	}
	x, err := v.life.New()
	if err != nil {
		return nil, fmt.Errorf("vec: element construction failed: %w", err)
	}
	if err := v.insertAt(i, x); err != nil {
		// The fresh element never joined the sequence.
		v.life.Retire(&x)
		return nil, err
	}
	return v.data.at(i), nil
}

// EmplaceBack default-constructs a new trailing element and returns its
// address.
func (v *Vector[T]) EmplaceBack() (*T, error) {
	return v.Emplace(v.size)
}

// insertAt is the single insertion primitive behind Append, Insert and
// Emplace. i has been validated.
func (v *Vector[T]) insertAt(i int, x T) error {
	if v.size == v.data.capacity() {
		return v.growInsert(i, x)
	}
	if i == v.size {
		*v.data.at(v.size) = x
		v.size++
		return nil
	}
	return v.shiftInsert(i, x)
}

// grownCapacity returns the next capacity step: double, except that the
// first growth from an empty buffer reserves exactly one slot.
func (v *Vector[T]) grownCapacity() int {
	if c := v.data.capacity(); c > 0 {
		return c * 2
	}
	return 1
}

// growInsert reallocates to the next capacity step, placing x at its
// final slot i in the fresh buffer before relocating the old prefix
// [0, i) and suffix [i, size) around it. The buffer swap commits the
// operation; any relocation failure drops the fresh buffer and leaves
// the old one untouched.
func (v *Vector[T]) growInsert(i int, x T) error {
	fresh := newRawBuffer[T](v.grownCapacity())
	*fresh.at(i) = x
	if err := v.relocateRun(fresh.view(0, i), v.data.view(0, i)); err != nil {
		fresh.release()
		return err
	}
	if err := v.relocateRun(fresh.view(i+1, v.size+1), v.data.view(i, v.size)); err != nil {
		v.retireRun(fresh.view(0, i))
		fresh.release()
		return err
	}
	v.retireRun(v.data.view(0, v.size))
	v.data.swap(&fresh)
	fresh.release()
	v.size++
	return nil
}

// shiftInsert opens slot i within spare capacity: the current last
// element moves into the next free slot, extending the live range by
// one, then [i, size-1) shifts one slot right and x lands at i. If any
// move fails, the freshly extended trailing slot is retired again
// before the error propagates, so the live range never ends in an
// inconsistent state.
func (v *Vector[T]) shiftInsert(i int, x T) error {
	last, err := v.life.Move(v.data.at(v.size - 1))
	if err != nil {
		return fmt.Errorf("vec: element move failed: %w", err)
	}
	*v.data.at(v.size) = last
	v.size++
	for j := v.size - 2; j > i; j-- {
		moved, err := v.life.Move(v.data.at(j - 1))
		if err != nil {
			v.life.Retire(v.data.at(v.size - 1))
			v.size--
			return fmt.Errorf("vec: element move failed: %w", err)
		}
		v.life.Retire(v.data.at(j))
		*v.data.at(j) = moved
	}
	v.life.Retire(v.data.at(i))
	*v.data.at(i) = x
	return nil
}

// Erase removes the element at position i, shifting later elements one
// slot left and retiring the vacated trailing slot. Positions outside
// [0, Len()) are a programming error.
func (v *Vector[T]) Erase(i int) error {
	v.ensure()
	if i < 0 || i >= v.size {
		panic("vec: erase position out of range")
	}
	for j := i; j < v.size-1; j++ {
		moved, err := v.life.Move(v.data.at(j + 1))
		if err != nil {
			return fmt.Errorf("vec: element move failed: %w", err)
		}
		v.life.Retire(v.data.at(j))
		*v.data.at(j) = moved
	}
	v.life.Retire(v.data.at(v.size - 1))
	v.size--
	return nil
}

// PopBack removes the last element. Popping an empty vector is a
// programming error.
func (v *Vector[T]) PopBack() {
	v.ensure()
	if v.size == 0 {
		panic("vec: PopBack on empty vector")
	}
	v.life.Retire(v.data.at(v.size - 1))
	v.size--
}

// Clear retires every live element but keeps the reserved storage.
func (v *Vector[T]) Clear() {
	v.ensure()
	v.retireRun(v.data.view(0, v.size))
	v.size = 0
}

// Release retires every live element and drops the storage. The vector
// remains usable as an empty vector.
func (v *Vector[T]) Release() {
	v.Clear()
	v.data.release()
}

// Clone returns a deep copy with capacity equal to the live element
// count. The source is never mutated; element types without copy
// support cannot be cloned. On failure the duplicates made so far are
// retired and nothing is returned.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	v.ensure()
	fresh := newRawBuffer[T](v.size)
	for i := 0; i < v.size; i++ {
		c, err := v.life.Copy(*v.data.at(i))
		if err != nil {
			v.retireRun(fresh.view(0, i))
			fresh.release()
			return nil, fmt.Errorf("vec: element copy failed: %w", err)
		}
		*fresh.at(i) = c
	}
	out := NewWith(v.life)
	out.data.swap(&fresh)
	out.size = v.size
	return out, nil
}

// CopyFrom replaces the contents with a copy of src's elements. When
// the current capacity cannot hold them, a full clone of src is built
// first and swapped in, so a failed copy leaves the vector unchanged.
// Within existing capacity the storage is reused: the overlapping
// prefix is overwritten element-wise, then the extra suffix is either
// copy-constructed (src longer) or retired (src shorter); the length
// updates last.
func (v *Vector[T]) CopyFrom(src *Vector[T]) error {
	if v == src {
		return nil
	}
	v.ensure()
	src.ensure()
	if v.data.capacity() < src.size {
		tmp, err := src.Clone()
		if err != nil {
			return err
		}
		v.Swap(tmp)
		tmp.Release()
		return nil
	}
	overlap := min(v.size, src.size)
	for i := 0; i < overlap; i++ {
		c, err := v.life.Copy(*src.data.at(i))
		if err != nil {
			return fmt.Errorf("vec: element copy failed: %w", err)
		}
		v.life.Retire(v.data.at(i))
		*v.data.at(i) = c
	}
	if src.size > v.size {
		for i := v.size; i < src.size; i++ {
			c, err := v.life.Copy(*src.data.at(i))
			if err != nil {
				v.retireRun(v.data.view(v.size, i))
				return fmt.Errorf("vec: element copy failed: %w", err)
			}
			*v.data.at(i) = c
		}
	} else {
		v.retireRun(v.data.view(src.size, v.size))
	}
	v.size = src.size
	return nil
}

// MoveFrom takes ownership of src's storage and length in constant
// time, retiring the current contents first. src is left empty with no
// reserved storage, still valid for further use.
func (v *Vector[T]) MoveFrom(src *Vector[T]) {
	if v == src {
		return
	}
	v.ensure()
	src.ensure()
	v.retireRun(v.data.view(0, v.size))
	v.data.release()
	v.data.swap(&src.data)
	v.size = src.size
	src.size = 0
	v.life, v.byMove = src.life, src.byMove
}

// Swap exchanges contents, storage and lifecycle with other in constant
// time.
func (v *Vector[T]) Swap(other *Vector[T]) {
	v.ensure()
	other.ensure()
	v.data.swap(&other.data)
	v.size, other.size = other.size, v.size
	v.life, other.life = other.life, v.life
	v.byMove, other.byMove = other.byMove, v.byMove
}

// relocateRun transfers the elements of src into the same-length dst,
// which lies in a different buffer. The strategy was resolved once from
// the lifecycle traits: Move only when it cannot fail or when copying
// is unsupported, Copy otherwise. A failed copy retires whatever
// already landed in dst and leaves src untouched.
func (v *Vector[T]) relocateRun(dst, src []T) error {
	if v.byMove {
		for i := range src {
			moved, err := v.life.Move(&src[i])
			if err != nil {
				// Only reachable for move-only types whose move may
				// fail; the damage cannot be undone, but every slot
				// stays valid.
				v.retireRun(dst[:i])
				return fmt.Errorf("vec: element move failed: %w", err)
			}
			dst[i] = moved
		}
		return nil
	}
	for i := range src {
		c, err := v.life.Copy(src[i])
		if err != nil {
			v.retireRun(dst[:i])
			return fmt.Errorf("vec: element copy failed: %w", err)
		}
		dst[i] = c
	}
	return nil
}

// constructRun default-constructs every slot of run through the
// lifecycle. On failure the elements built so far are retired and run
// is left fully dead.
func (v *Vector[T]) constructRun(run []T) error {
	for i := range run {
		x, err := v.life.New()
		if err != nil {
			v.retireRun(run[:i])
			return fmt.Errorf("vec: element construction failed: %w", err)
		}
		run[i] = x
	}
	return nil
}

func (v *Vector[T]) retireRun(run []T) {
	for i := range run {
		v.life.Retire(&run[i])
	}
}
