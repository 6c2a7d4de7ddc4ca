package ecs

import "reflect"

// iComponentArray is the type-erased view of a per-type sparse array.
// Only operations that need no knowledge of the element type live here;
// typed access goes through resolveArray.
type iComponentArray interface {
	Type() reflect.Type
	Len() int
	Count() int
	Blocks() int
	Has(index int) bool
	Delete(index int)
}
