// Package runtime implements the value model and concrete execution frame
// of the stack VM: tagged values, arrays, and the per-call frame the
// interpreter steps through.
package runtime

import "fmt"

// Type is the closed enumeration of value types. Sort is a total order
// used for the trivial array-subtype check: IntArray and FloatArray are
// both subtypes of Array, scalars are unrelated to anything else.
type Type int

const (
	Void Type = iota
	Null
	Int
	Float
	Array
	IntArray
	FloatArray
)

func (t Type) String() string {
	switch t {
	case Void:
		return "void"
	case Null:
		return "null"
	case Int:
		return "int"
	case Float:
		return "float"
	case Array:
		return "array"
	case IntArray:
		return "intarray"
	case FloatArray:
		return "floatarray"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// sort returns the ordering used by IsSubtypeOf. Array kinds sort at or
// above Array; scalars each get their own rung so they never compare
// as subtypes of one another.
func (t Type) sort() int {
	switch t {
	case Void:
		return 0
	case Null:
		return 1
	case Int:
		return 2
	case Float:
		return 3
	case Array:
		return 4
	case IntArray:
		return 5
	case FloatArray:
		return 6
	default:
		return -1
	}
}

// IsSubtypeOf reports whether t is an array type that can stand in for
// other. Only IntArray/FloatArray are subtypes of Array; scalars are
// never subtypes of anything but themselves.
func (t Type) IsSubtypeOf(other Type) bool {
	if t == other {
		return true
	}
	if other != Array {
		return false
	}
	return t == IntArray || t == FloatArray
}

// IsArrayType reports whether t is one of Array, IntArray, FloatArray.
func (t Type) IsArrayType() bool {
	return t.sort() >= Array.sort()
}

// Value is the tagged union of runtime values: a scalar (Int/Float), an
// array reference (IntArrayRef/FloatArrayRef), or an absent value — a
// container of its declared Kind with no payload, used for locals that
// were never written (including unallocated array locals) and for array
// cells that were never written. The verifier's abstract domain does not
// use Value; it works on Type tags.
//
// A value's Kind is immutable after construction.
type Value struct {
	Kind    Type
	I       int64
	F       float64
	Arr     *ArrayObject // non-nil only when Kind is IntArray/FloatArray and the reference is allocated
	present bool         // false means a never-written local or array cell (see ZeroOf)
}

// IsNone reports whether v is a value-absent container: an uninitialized
// local, a declared-but-unallocated array reference, or an array cell
// that was never written.
func (v Value) IsNone() bool {
	return !v.present
}

// IsArrayReference reports whether v's declared type is one of the array
// kinds (allocated or not).
func (v Value) IsArrayReference() bool {
	return v.Kind.IsArrayType()
}

// IsSubtypeOf reports whether v's declared type is a subtype of other.
func (v Value) IsSubtypeOf(other Type) bool {
	return v.Kind.IsSubtypeOf(other)
}

// Clone returns an independent copy of v. For scalars this is a value
// copy; for array references it is a reference copy sharing the same
// underlying *ArrayObject — exactly what DUP requires.
func (v Value) Clone() Value {
	return v
}

// Equals reports whether v and other carry the same type and payload.
func (v Value) Equals(other Value) bool {
	if v.Kind != other.Kind || v.present != other.present {
		return false
	}
	if !v.present {
		return true
	}
	switch v.Kind {
	case Int:
		return v.I == other.I
	case Float:
		return v.F == other.F
	case IntArray, FloatArray:
		return v.Arr == other.Arr
	default:
		return true
	}
}

func (v Value) String() string {
	if !v.present {
		return fmt.Sprintf("%s(none)", v.Kind)
	}
	switch v.Kind {
	case Int:
		return fmt.Sprintf("Int(%d)", v.I)
	case Float:
		return fmt.Sprintf("Float(%g)", v.F)
	case IntArray, FloatArray:
		return fmt.Sprintf("%s(%v)", v.Kind, v.Arr)
	default:
		return v.Kind.String()
	}
}

// VInt constructs a present Int value.
func VInt(i int64) Value { return Value{Kind: Int, I: i, present: true} }

// VFloat constructs a present Float value.
func VFloat(f float64) Value { return Value{Kind: Float, F: f, present: true} }

// VIntArray constructs a present IntArray reference.
func VIntArray(a *ArrayObject) Value { return Value{Kind: IntArray, Arr: a, present: true} }

// VFloatArray constructs a present FloatArray reference.
func VFloatArray(a *ArrayObject) Value { return Value{Kind: FloatArray, Arr: a, present: true} }

// ZeroOf returns the is-none default value for a declared local or array
// element of type t — an uninitialized container, not a constructed zero
// scalar.
func ZeroOf(t Type) Value {
	return Value{Kind: t, present: false}
}
