package dto

import (
	"bytes"
	"encoding/json"
)

// Optional distinguishes an absent JSON field from an explicit null and from a
// value. The zero value is "absent".
type Optional[T any] struct {
	set   bool
	null  bool
	value T
}

// Set wraps a present value.
func Set[T any](v T) Optional[T] {
	return Optional[T]{set: true, value: v}
}

// Null is an explicit null.
func Null[T any]() Optional[T] {
	return Optional[T]{set: true, null: true}
}

// UnmarshalJSON is only invoked when the key is present in the payload.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.null = true
		o.value = zero
		return nil
	}
	o.null = false
	return json.Unmarshal(data, &o.value)
}

// MarshalJSON renders absent and null both as null; use omitempty-free maps
// when absence must survive encoding.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set || o.null {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// IsSet reports whether the key was present, null included.
func (o Optional[T]) IsSet() bool { return o.set }

// IsNull reports an explicit null.
func (o Optional[T]) IsNull() bool { return o.set && o.null }

// Value returns the carried value and whether one was provided.
func (o Optional[T]) Value() (T, bool) {
	return o.value, o.set && !o.null
}

// Ptr returns nil for null, otherwise a pointer to the value. Callers check
// IsSet first.
func (o Optional[T]) Ptr() *T {
	if !o.set || o.null {
		return nil
	}
	v := o.value
	return &v
}
