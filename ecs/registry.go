package ecs

import (
	"reflect"
	"sort"

	"github.com/kamstrup/intmap"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// componentRegistry maps runtime type identifiers to their erased per-type
// arrays. It holds at most one array per type.
type componentRegistry struct {
	arrays *intmap.Map[typeKey, iComponentArray]
}

func newComponentRegistry() componentRegistry {
	return componentRegistry{
		arrays: intmap.New[typeKey, iComponentArray](16),
	}
}

// registerArray returns the array for T, creating an empty one on first use.
// An existing array is returned untouched.
func registerArray[T any](r *componentRegistry) *sparseArray[T] {
	key, typ := keyFor[T]()
	if erased, ok := r.arrays.Get(key); ok {
		if arr, ok := erased.(*sparseArray[T]); ok {
			return arr
		}
		panic("ecs: registry entry for " + typ.String() + " holds " + erased.Type().String())
	}

	arr := newSparseArray[T](typ)
	r.arrays.Put(key, arr)
	return arr
}

// resolveArray returns the concrete array for T, or nil when T has never been
// registered. The downcast is checked, so a nil result is also returned if the
// entry somehow belongs to another element type.
func resolveArray[T any](r *componentRegistry) *sparseArray[T] {
	key, _ := keyFor[T]()
	erased, ok := r.arrays.Get(key)
	if !ok {
		return nil
	}
	arr, _ := erased.(*sparseArray[T])
	return arr
}

func (r *componentRegistry) len() int {
	return r.arrays.Len()
}

// each visits the erased arrays sorted by type name.
func (r *componentRegistry) each(fn func(iComponentArray)) {
	arrays := make([]iComponentArray, 0, r.arrays.Len())
	r.arrays.ForEach(func(_ typeKey, arr iComponentArray) bool {
		arrays = append(arrays, arr)
		return true
	})
	sort.Slice(arrays, func(i, j int) bool {
		return arrays[i].Type().String() < arrays[j].Type().String()
	})
	for _, arr := range arrays {
		fn(arr)
	}
}

func (r *componentRegistry) types() []reflect.Type {
	types := make([]reflect.Type, 0, r.arrays.Len())
	r.arrays.ForEach(func(_ typeKey, arr iComponentArray) bool {
		types = append(types, arr.Type())
		return true
	})
	sort.Sort(byTypeName(types))
	return types
}
