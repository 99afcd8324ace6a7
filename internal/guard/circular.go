package guard

import (
	"reflect"
	"unsafe"
)

type visit struct {
	ptr unsafe.Pointer
	typ reflect.Type
}

// HasCircularReferences reports whether any value reachable from v refers
// back to one of its own ancestors. References are compared by identity.
// It is a diagnostic walk and is never used while writing.
func HasCircularReferences(v any) bool {
	if v == nil {
		return false
	}
	w := walker{ancestors: make(map[visit]bool)}
	return w.walk(reflect.ValueOf(v))
}

type walker struct {
	ancestors map[visit]bool
}

func (w *walker) walk(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return false
		}
		// Zero-length slices can share a data pointer without being related.
		if v.Kind() == reflect.Slice && v.Len() == 0 {
			return false
		}
		key := visit{ptr: v.UnsafePointer(), typ: v.Type()}
		if w.ancestors[key] {
			return true
		}
		w.ancestors[key] = true
		defer delete(w.ancestors, key)
		return w.children(v)
	case reflect.Interface:
		if v.IsNil() {
			return false
		}
		return w.walk(v.Elem())
	case reflect.Struct, reflect.Array:
		return w.children(v)
	default:
		return false
	}
}

func (w *walker) children(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer:
		return w.walk(v.Elem())
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if w.walk(v.Index(i)) {
				return true
			}
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if w.walk(iter.Key()) || w.walk(iter.Value()) {
				return true
			}
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if w.walk(v.Field(i)) {
				return true
			}
		}
	}
	return false
}
