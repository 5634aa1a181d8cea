package value

import (
	"fmt"
	"math"
	"strings"

	"github.com/shvrma/lualike/pkg/diagnostics"
)

// Side names the operand an OpError is about.
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return ""
	}
}

// OpError is returned when an operator is applied to operands it does not
// accept. Code is one of the diagnostics value operator codes.
type OpError struct {
	Code string
	Op   string
	Side Side
	Kind Kind
}

func (e *OpError) Error() string {
	switch e.Code {
	case diagnostics.EOperandNotNumeric:
		return fmt.Sprintf("%s operand of '%s' is not a number (got %s)", e.Side, e.Op, e.Kind)
	case diagnostics.EOperandNotBoolean:
		return fmt.Sprintf("%s operand of '%s' is not a boolean (got %s)", e.Side, e.Op, e.Kind)
	default:
		return fmt.Sprintf("invalid operand types for '%s'", e.Op)
	}
}

func notNumeric(op string, side Side, v Value) error {
	return &OpError{Code: diagnostics.EOperandNotNumeric, Op: op, Side: side, Kind: v.Kind()}
}

func notBoolean(op string, side Side, v Value) error {
	return &OpError{Code: diagnostics.EOperandNotBoolean, Op: op, Side: side, Kind: v.Kind()}
}

// numericOperands coerces both operands to float64, reporting the left
// operand first.
func numericOperands(op string, l, r Value) (float64, float64, error) {
	a, ok := ToFloat(l)
	if !ok {
		return 0, 0, notNumeric(op, SideLeft, l)
	}
	b, ok := ToFloat(r)
	if !ok {
		return 0, 0, notNumeric(op, SideRight, r)
	}
	return a, b, nil
}

func arith(op string, l, r Value, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) (Value, error) {
	if li, ok := l.(Int); ok {
		if ri, ok := r.(Int); ok {
			return NewInt(intOp(li.Value, ri.Value)), nil
		}
	}
	a, b, err := numericOperands(op, l, r)
	if err != nil {
		return nil, err
	}
	return NewFloat(floatOp(a, b)), nil
}

// Add returns l + r.
func Add(l, r Value) (Value, error) {
	return arith("+", l, r,
		func(a, b int64) int64 { return a + b },
		func(a, b float64) float64 { return a + b })
}

// Sub returns l - r.
func Sub(l, r Value) (Value, error) {
	return arith("-", l, r,
		func(a, b int64) int64 { return a - b },
		func(a, b float64) float64 { return a - b })
}

// Mul returns l * r.
func Mul(l, r Value) (Value, error) {
	return arith("*", l, r,
		func(a, b int64) int64 { return a * b },
		func(a, b float64) float64 { return a * b })
}

// Div returns l / r. The result is always a Float, even for two Ints.
func Div(l, r Value) (Value, error) {
	a, b, err := numericOperands("/", l, r)
	if err != nil {
		return nil, err
	}
	return NewFloat(a / b), nil
}

// FloorDiv returns floor(l / r) as a Float.
func FloorDiv(l, r Value) (Value, error) {
	a, b, err := numericOperands("//", l, r)
	if err != nil {
		return nil, err
	}
	return NewFloat(math.Floor(a / b)), nil
}

// Mod returns l - floor(l/r)*r as a Float, so the sign of the result
// follows the divisor. A zero divisor gives nan.
func Mod(l, r Value) (Value, error) {
	a, b, err := numericOperands("%", l, r)
	if err != nil {
		return nil, err
	}
	return NewFloat(a - math.Floor(a/b)*b), nil
}

// Pow returns l ^ r as a Float.
func Pow(l, r Value) (Value, error) {
	a, b, err := numericOperands("^", l, r)
	if err != nil {
		return nil, err
	}
	return NewFloat(math.Pow(a, b)), nil
}

// Neg returns -v, keeping the numeric variant of v.
func Neg(v Value) (Value, error) {
	switch n := v.(type) {
	case Int:
		return NewInt(-n.Value), nil
	case Float:
		return NewFloat(-n.Value), nil
	default:
		return nil, notNumeric("-", SideRight, v)
	}
}

func booleanOperands(op string, l, r Value) (bool, bool, error) {
	a, ok := l.(Bool)
	if !ok {
		return false, false, notBoolean(op, SideLeft, l)
	}
	b, ok := r.(Bool)
	if !ok {
		return false, false, notBoolean(op, SideRight, r)
	}
	return a.Value, b.Value, nil
}

// And returns l and r. Both operands must be Bool.
func And(l, r Value) (Value, error) {
	a, b, err := booleanOperands("and", l, r)
	if err != nil {
		return nil, err
	}
	return NewBool(a && b), nil
}

// Or returns l or r. Both operands must be Bool.
func Or(l, r Value) (Value, error) {
	a, b, err := booleanOperands("or", l, r)
	if err != nil {
		return nil, err
	}
	return NewBool(a || b), nil
}

// Not returns the negation of a Bool.
func Not(v Value) (Value, error) {
	b, ok := v.(Bool)
	if !ok {
		return nil, notBoolean("not", SideRight, v)
	}
	return NewBool(!b.Value), nil
}

// Eq returns l == r using Equal.
func Eq(l, r Value) (Value, error) {
	return NewBool(Equal(l, r)), nil
}

// Ne returns l ~= r.
func Ne(l, r Value) (Value, error) {
	return NewBool(!Equal(l, r)), nil
}

// compare orders two numbers or two strings. It returns -1, 0 or 1, and
// false when the values are unordered (a NaN operand).
func compare(op string, l, r Value) (int, bool, error) {
	if li, ok := l.(Int); ok {
		if ri, ok := r.(Int); ok {
			switch {
			case li.Value < ri.Value:
				return -1, true, nil
			case li.Value > ri.Value:
				return 1, true, nil
			}
			return 0, true, nil
		}
	}
	if a, ok := ToFloat(l); ok {
		if b, ok := ToFloat(r); ok {
			switch {
			case a < b:
				return -1, true, nil
			case a > b:
				return 1, true, nil
			case a == b:
				return 0, true, nil
			}
			return 0, false, nil
		}
	}
	if ls, ok := l.(String); ok {
		if rs, ok := r.(String); ok {
			return strings.Compare(ls.Value, rs.Value), true, nil
		}
	}
	return 0, false, &OpError{Code: diagnostics.EInvalidOperandType, Op: op}
}

func ordered(op string, l, r Value, accept func(c int) bool) (Value, error) {
	c, ok, err := compare(op, l, r)
	if err != nil {
		return nil, err
	}
	return NewBool(ok && accept(c)), nil
}

// Lt returns l < r.
func Lt(l, r Value) (Value, error) {
	return ordered("<", l, r, func(c int) bool { return c < 0 })
}

// Le returns l <= r.
func Le(l, r Value) (Value, error) {
	return ordered("<=", l, r, func(c int) bool { return c <= 0 })
}

// Gt returns l > r.
func Gt(l, r Value) (Value, error) {
	return ordered(">", l, r, func(c int) bool { return c > 0 })
}

// Ge returns l >= r.
func Ge(l, r Value) (Value, error) {
	return ordered(">=", l, r, func(c int) bool { return c >= 0 })
}
