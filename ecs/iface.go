package ecs

import (
	"reflect"
	"unsafe"
)

// iface represents the internal memory layout of an interface{}.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// typeKey is the runtime type identifier used to key the registry.
type typeKey uint64

// keyOf derives a typeKey from the address of the type's runtime descriptor.
// Descriptors are unique per type and never move, so the key is stable for the
// life of the process.
func keyOf(t reflect.Type) typeKey {
	ptr := (*iface)(unsafe.Pointer(&t)).data
	return typeKey(uintptr(ptr))
}

// keyFor returns the typeKey of T along with its reflect.Type.
func keyFor[T any]() (typeKey, reflect.Type) {
	t := reflect.TypeFor[T]()
	return keyOf(t), t
}
