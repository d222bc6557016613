// Package vec provides a contiguous growable sequence container with an
// explicit element-lifetime protocol. Plain value types work out of the
// box; resource-owning element types supply a Lifecycle so the vector can
// run real construction, duplication, relocation and release code, with
// well-defined state after any of those operations fails.
package vec
