// Package value implements the lualike runtime value model and the operator
// semantics shared by the tokenizer and the evaluator.
package value

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the active variant of a Value.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBuiltin
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBuiltin:
		return "function"
	default:
		return "unknown"
	}
}

// Value is the interface for all lualike runtime values.
// The sealed marker method restricts implementations to this package.
type Value interface {
	Kind() Kind
	String() string
	value() // sealed marker
}

// Nil represents the absence of a value.
type Nil struct{}

func (Nil) value()         {}
func (Nil) Kind() Kind     { return KindNil }
func (Nil) String() string { return "nil" }

// Bool represents a boolean value.
type Bool struct {
	Value bool
}

func (Bool) value()     {}
func (Bool) Kind() Kind { return KindBool }
func (b Bool) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// Int represents a 64-bit signed integer.
type Int struct {
	Value int64
}

func (Int) value()           {}
func (Int) Kind() Kind       { return KindInt }
func (i Int) String() string { return strconv.FormatInt(i.Value, 10) }

// Float represents a 64-bit IEEE floating point number.
type Float struct {
	Value float64
}

func (Float) value()           {}
func (Float) Kind() Kind       { return KindFloat }
func (f Float) String() string { return formatFloat(f.Value) }

// String represents a text value.
type String struct {
	Value string
}

func (String) value()           {}
func (String) Kind() Kind       { return KindString }
func (s String) String() string { return s.Value }

// BuiltinFunc is the Go implementation of a host function.
type BuiltinFunc func(args []Value) (Value, error)

// Builtin is a host function placed in the global environment, such as print.
type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

func (Builtin) value()           {}
func (Builtin) Kind() Kind       { return KindBuiltin }
func (b Builtin) String() string { return "builtin: " + b.Name }

// NewNil creates a nil value.
func NewNil() Value {
	return Nil{}
}

// NewBool creates a boolean value.
func NewBool(b bool) Value {
	return Bool{Value: b}
}

// NewInt creates an integer value.
func NewInt(n int64) Value {
	return Int{Value: n}
}

// NewFloat creates a float value.
func NewFloat(f float64) Value {
	return Float{Value: f}
}

// NewString creates a string value.
func NewString(s string) Value {
	return String{Value: s}
}

// NewBuiltin creates a host function value.
func NewBuiltin(name string, fn BuiltinFunc) Value {
	return Builtin{Name: name, Fn: fn}
}

// Equal reports whether a and b hold the same variant and the same payload.
// Int(2) and Float(2.0) are not equal.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Nil:
		return true
	case Bool:
		return av.Value == b.(Bool).Value
	case Int:
		return av.Value == b.(Int).Value
	case Float:
		return av.Value == b.(Float).Value
	case String:
		return av.Value == b.(String).Value
	case Builtin:
		return av.Name == b.(Builtin).Name
	}
	return false
}

// ToFloat coerces Int and Float to float64. Every other kind is rejected.
func ToFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n.Value), true
	case Float:
		return n.Value, true
	default:
		return 0, false
	}
}

// formatFloat renders like Lua's "%.14g", keeping a ".0" on integral values
// so floats never print like integers.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', 14, 64)
	if strings.ContainsAny(s, ".e") {
		return s
	}
	return s + ".0"
}
