// Package patch provides a tri-state JSON field for partial updates:
// a field is either absent from the request body, explicitly null, or
// carries a value. encoding/json only invokes UnmarshalJSON for keys
// present in the body, which is exactly the presence signal needed.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field wraps an optional update value. Its zero value means "absent".
type Field[T any] struct {
	value   *T
	present bool
}

// Set returns a Field carrying v.
func Set[T any](v T) Field[T] {
	return Field[T]{value: &v, present: true}
}

// Null returns a Field that was explicitly supplied as null.
func Null[T any]() Field[T] {
	return Field[T]{present: true}
}

// Present reports whether the field appeared in the request body at all.
func (f Field[T]) Present() bool {
	return f.present
}

// Null reports whether the field was supplied as an explicit null.
func (f Field[T]) Null() bool {
	return f.present && f.value == nil
}

// Value returns the supplied value; ok is false when the field was absent
// or null.
func (f Field[T]) Value() (T, bool) {
	if f.value == nil {
		var zero T
		return zero, false
	}
	return *f.value, true
}

// Ptr returns the supplied value as a pointer, nil for absent or null.
func (f Field[T]) Ptr() *T {
	return f.value
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.present = true
	if bytes.Equal(b, []byte("null")) {
		f.value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	f.value = &v
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.value)
}
