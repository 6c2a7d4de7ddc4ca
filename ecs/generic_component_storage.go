package ecs

import (
	"iter"
	"reflect"
)

const (
	genericBlockSize = 64
)

// Slot is a single nullable position in a per-type array. Ok is false when no
// component of that type is stored at the slot's index.
type Slot[T any] struct {
	Value T
	Ok    bool
}

// sparseArray stores components of a specific type `T` in fixed-size blocks.
// Slot i belongs to entity index i. Blocks are allocated individually and never
// copied, so pointers into a block survive growth of the array.
type sparseArray[T any] struct {
	typ    reflect.Type
	blocks []*[genericBlockSize]T
	filled []*[genericBlockSize]bool
	length int
	count  int
}

func newSparseArray[T any](typ reflect.Type) *sparseArray[T] {
	return &sparseArray[T]{typ: typ}
}

// Type returns the element type of the array.
func (sa *sparseArray[T]) Type() reflect.Type {
	return sa.typ
}

// Len returns the number of slots, filled or not.
func (sa *sparseArray[T]) Len() int {
	return sa.length
}

// Count returns the number of filled slots.
func (sa *sparseArray[T]) Count() int {
	return sa.count
}

// Blocks returns the number of allocated blocks.
func (sa *sparseArray[T]) Blocks() int {
	return len(sa.blocks)
}

// Has checks if a component exists at the given index.
func (sa *sparseArray[T]) Has(index int) bool {
	if index < 0 || index >= sa.length {
		return false
	}
	return sa.filled[index/genericBlockSize][index%genericBlockSize]
}

// Get returns a pointer to the component at the given index, or nil.
func (sa *sparseArray[T]) Get(index int) *T {
	if !sa.Has(index) {
		return nil
	}
	return &sa.blocks[index/genericBlockSize][index%genericBlockSize]
}

// slot returns a copy of the slot at index.
func (sa *sparseArray[T]) slot(index int) Slot[T] {
	if ptr := sa.Get(index); ptr != nil {
		return Slot[T]{Value: *ptr, Ok: true}
	}
	return Slot[T]{}
}

// Delete marks a component slot as empty. Out of range indices are ignored
// and the length is left untouched.
func (sa *sparseArray[T]) Delete(index int) {
	if !sa.Has(index) {
		return
	}

	blockIdx := index / genericBlockSize
	slotIdx := index % genericBlockSize

	var zero T
	sa.blocks[blockIdx][slotIdx] = zero // Zero out the value
	sa.filled[blockIdx][slotIdx] = false
	sa.count--
}

// Append stores item at index only when index lies beyond the current length,
// growing the array to index+1. Slots already inside the array are never
// written. Returns whether the item was stored.
func (sa *sparseArray[T]) Append(index int, item T) bool {
	if index < 0 || index < sa.length {
		return false
	}
	sa.grow(index + 1)
	sa.put(index, item)
	return true
}

// Put stores item at index, growing the array if needed and replacing any
// existing component.
func (sa *sparseArray[T]) Put(index int, item T) {
	if index < 0 {
		return
	}
	if index >= sa.length {
		sa.grow(index + 1)
	}
	sa.put(index, item)
}

func (sa *sparseArray[T]) put(index int, item T) {
	blockIdx := index / genericBlockSize
	slotIdx := index % genericBlockSize

	if !sa.filled[blockIdx][slotIdx] {
		sa.filled[blockIdx][slotIdx] = true
		sa.count++
	}
	sa.blocks[blockIdx][slotIdx] = item
}

// grow extends the array to length slots. New slots are empty.
func (sa *sparseArray[T]) grow(length int) {
	if length <= sa.length {
		return
	}

	numBlocks := (length + genericBlockSize - 1) / genericBlockSize
	for len(sa.blocks) < numBlocks {
		sa.blocks = append(sa.blocks, new([genericBlockSize]T))
		sa.filled = append(sa.filled, new([genericBlockSize]bool))
	}
	sa.length = length
}

// Slots iterates every slot in index order, including empty ones. The length
// is read when iteration starts, so the sequence may be restarted and will
// reflect growth that happened in between.
func (sa *sparseArray[T]) Slots() iter.Seq2[int, Slot[T]] {
	return func(yield func(int, Slot[T]) bool) {
		length := sa.length
		for i := 0; i < length; i++ {
			blockIdx := i / genericBlockSize
			slotIdx := i % genericBlockSize

			var slot Slot[T]
			if sa.filled[blockIdx][slotIdx] {
				slot = Slot[T]{Value: sa.blocks[blockIdx][slotIdx], Ok: true}
			}
			if !yield(i, slot) {
				return
			}
		}
	}
}

// Filled iterates pointers to the filled slots in index order.
func (sa *sparseArray[T]) Filled() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		length := sa.length
		for i := 0; i < length; i++ {
			blockIdx := i / genericBlockSize
			slotIdx := i % genericBlockSize

			if !sa.filled[blockIdx][slotIdx] {
				continue
			}
			if !yield(i, &sa.blocks[blockIdx][slotIdx]) {
				return
			}
		}
	}
}
