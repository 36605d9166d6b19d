// Package optional implements optional values.
package optional

import (
	"reflect"

	"github.com/netxkit/srvconnect/internal/runtimex"
)

// Value is an optional value of type T. The zero value and None are
// both empty. Use Some to construct a nonempty Value.
type Value[T any] struct {
	// indirect is the indirect pointer to the value.
	indirect *T
}

// None constructs an empty Value.
func None[T any]() Value[T] {
	return Value[T]{nil}
}

// Some constructs a Value containing the given value, unless the value
// is a nil pointer, interface, or slice, in which case the result is
// equivalent to None.
func Some[T any](value T) Value[T] {
	v := Value[T]{}
	maybeSetFromValue(&v, value)
	return v
}

// maybeSetFromValue sets the underlying value unless the given value is
// nil-like, in which case it leaves the Value empty.
func maybeSetFromValue[T any](v *Value[T], value T) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface,
		reflect.Map, reflect.Pointer, reflect.Slice:
		if rv.IsNil() {
			v.indirect = nil
			return
		}
	}
	v.indirect = &value
}

// IsNone returns whether this Value is empty.
func (v Value[T]) IsNone() bool {
	return v.indirect == nil
}

// IsSome returns whether this Value is not empty.
func (v Value[T]) IsSome() bool {
	return !v.IsNone()
}

// Unwrap returns the underlying value. This method panics when
// the Value is empty.
func (v Value[T]) Unwrap() T {
	runtimex.Assert(v.IsSome(), "optional: Unwrap on an empty Value")
	return *v.indirect
}

// UnwrapOr returns the underlying value or the given fallback.
func (v Value[T]) UnwrapOr(fallback T) T {
	if v.IsNone() {
		return fallback
	}
	return v.Unwrap()
}
