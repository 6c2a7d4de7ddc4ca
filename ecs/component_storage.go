package ecs

import (
	"iter"
	"reflect"
)

// ComponentStorage holds, for every component type ever added, a sparse array
// of that type's values addressed by entity index. Per-type arrays are created
// lazily and live as long as the storage.
//
// A ComponentStorage has a single owner and is not safe for concurrent use.
// Structural changes (Add, Set, Remove, Clear) must not be made while a
// sequence returned by Components, ComponentsMut or Zip is being consumed; use
// Commands to defer them.
type ComponentStorage struct {
	registry componentRegistry
}

// NewComponentStorage creates an empty storage with no registered types.
func NewComponentStorage() *ComponentStorage {
	return &ComponentStorage{
		registry: newComponentRegistry(),
	}
}

// Register ensures a per-type array exists for T. Registering a type more than
// once leaves the existing array and its contents untouched.
func Register[T any](s *ComponentStorage) {
	registerArray[T](&s.registry)
}

// IsRegistered reports whether an array for T has been created.
func IsRegistered[T any](s *ComponentStorage) bool {
	return resolveArray[T](&s.registry) != nil
}

// Add stores component at index for type T. If index already lies within the
// array for T the call does nothing, whether or not that slot is filled: the
// first write to an index wins. Otherwise the array grows to index+1 with the
// new slots empty and component placed at index. Negative indices are ignored.
func Add[T any](s *ComponentStorage, index int, component T) {
	registerArray[T](&s.registry).Append(index, component)
}

// Set stores component at index for type T, growing the array as Add does but
// also replacing whatever the slot held.
func Set[T any](s *ComponentStorage, index int, component T) {
	registerArray[T](&s.registry).Put(index, component)
}

// Get returns a copy of the T component at index. The boolean is false when T
// was never registered, index is out of range, or the slot is empty.
func Get[T any](s *ComponentStorage, index int) (T, bool) {
	if arr := resolveArray[T](&s.registry); arr != nil {
		if ptr := arr.Get(index); ptr != nil {
			return *ptr, true
		}
	}
	var zero T
	return zero, false
}

// GetMut returns a pointer to the T component at index, or nil under the same
// conditions in which Get reports absence. Writes through the pointer are
// visible to every later access of the slot.
func GetMut[T any](s *ComponentStorage, index int) *T {
	arr := resolveArray[T](&s.registry)
	if arr == nil {
		return nil
	}
	return arr.Get(index)
}

// Has reports whether a T component is stored at index.
func Has[T any](s *ComponentStorage, index int) bool {
	arr := resolveArray[T](&s.registry)
	return arr != nil && arr.Has(index)
}

// Len returns the length of the array for T, counting empty slots. It is zero
// when T was never registered.
func Len[T any](s *ComponentStorage) int {
	if arr := resolveArray[T](&s.registry); arr != nil {
		return arr.Len()
	}
	return 0
}

// Count returns the number of T components currently stored.
func Count[T any](s *ComponentStorage) int {
	if arr := resolveArray[T](&s.registry); arr != nil {
		return arr.Count()
	}
	return 0
}

// Components returns a sequence over every slot of the array for T in index
// order, empty slots included, so that it can be lined up against entity
// indices or against the sequence of another type. The sequence can be ranged
// over any number of times. The boolean is false when T was never registered.
func Components[T any](s *ComponentStorage) (iter.Seq2[int, Slot[T]], bool) {
	arr := resolveArray[T](&s.registry)
	if arr == nil {
		return nil, false
	}
	return arr.Slots(), true
}

// ComponentsMut returns a sequence of pointers to the stored T components in
// index order, skipping empty slots. It yields nothing when T was never
// registered.
func ComponentsMut[T any](s *ComponentStorage) iter.Seq2[int, *T] {
	arr := resolveArray[T](&s.registry)
	if arr == nil {
		return func(func(int, *T) bool) {}
	}
	return arr.Filled()
}

// Pair holds the slots of two component types at the same entity index.
type Pair[A, B any] struct {
	A Slot[A]
	B Slot[B]
}

// Zip walks the arrays for A and B in lockstep by index, empty slots included,
// and stops at the end of the shorter one. It yields nothing unless both types
// are registered.
func Zip[A, B any](s *ComponentStorage) iter.Seq2[int, Pair[A, B]] {
	a := resolveArray[A](&s.registry)
	b := resolveArray[B](&s.registry)
	return func(yield func(int, Pair[A, B]) bool) {
		if a == nil || b == nil {
			return
		}

		length := min(a.Len(), b.Len())
		for i := 0; i < length; i++ {
			if !yield(i, Pair[A, B]{A: a.slot(i), B: b.slot(i)}) {
				return
			}
		}
	}
}

// Remove empties the T slot at index. The array keeps its length. Removing
// from an unregistered type or an index outside the array does nothing.
func Remove[T any](s *ComponentStorage, index int) {
	if arr := resolveArray[T](&s.registry); arr != nil {
		arr.Delete(index)
	}
}

// Clear empties the slot at index in every registered array.
func (s *ComponentStorage) Clear(index int) {
	s.registry.arrays.ForEach(func(_ typeKey, arr iComponentArray) bool {
		arr.Delete(index)
		return true
	})
}

// Types returns the registered component types sorted by name.
func (s *ComponentStorage) Types() []reflect.Type {
	return s.registry.types()
}

// TypeCount returns the number of registered component types.
func (s *ComponentStorage) TypeCount() int {
	return s.registry.len()
}
