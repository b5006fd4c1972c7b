package osproto

import (
	"fmt"
	"reflect"
)

// Presence is the wire state of an optional field.
type Presence uint8

const (
	Unset   Presence = iota // Key absent from the object.
	Null                    // Key present with JSON null (explicitly cleared).
	Present                 // Key present with a value.
)

func (p Presence) String() string {
	switch p {
	case Unset:
		return "unset"
	case Null:
		return "null"
	case Present:
		return "present"
	default:
		return fmt.Sprintf("presence(%d)", uint8(p))
	}
}

// Opt is a three-state optional value. The zero value is Unset.
//
// Services use "key absent" and "key: null" to mean different things (leave
// untouched vs. clear), so Opt never collapses the two.
type Opt[T any] struct {
	state Presence
	value T
}

// Some returns a present Opt holding v.
func Some[T any](v T) Opt[T] { return Opt[T]{state: Present, value: v} }

// Cleared returns an Opt in the explicitly-null state.
func Cleared[T any]() Opt[T] { return Opt[T]{state: Null} }

// NotSet returns the unset Opt. Equivalent to the zero value.
func NotSet[T any]() Opt[T] { return Opt[T]{} }

// State reports which of the three states o is in.
func (o Opt[T]) State() Presence { return o.state }

func (o Opt[T]) IsUnset() bool   { return o.state == Unset }
func (o Opt[T]) IsNull() bool    { return o.state == Null }
func (o Opt[T]) IsPresent() bool { return o.state == Present }

// Get returns the value and whether it is present.
func (o Opt[T]) Get() (T, bool) {
	if o.state != Present {
		var zero T
		return zero, false
	}
	return o.value, true
}

// OrElse returns the value when present, def otherwise.
func (o Opt[T]) OrElse(def T) T {
	if o.state != Present {
		return def
	}
	return o.value
}

// Equal reports structural equality. go-cmp picks this method up.
func (o Opt[T]) Equal(other Opt[T]) bool {
	if o.state != other.state {
		return false
	}
	if o.state != Present {
		return true
	}
	if eq, ok := any(o.value).(interface{ Equal(T) bool }); ok {
		return eq.Equal(other.value)
	}
	return reflect.DeepEqual(o.value, other.value)
}

func (o Opt[T]) String() string {
	switch o.state {
	case Present:
		return fmt.Sprintf("Some(%v)", o.value)
	case Null:
		return "Null"
	default:
		return "Unset"
	}
}
