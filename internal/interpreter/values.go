package interpreter

import (
	"fmt"
	"math"
	"strconv"
)

type ValueType int

const (
	ValueNilType ValueType = iota
	ValueBoolType
	ValueNumberType
	ValueStringType
	ValueCallableType
	ValueClassType
	ValueInstanceType
)

var valueTypeNames = [...]string{
	ValueNilType:      "nil",
	ValueBoolType:     "boolean",
	ValueNumberType:   "number",
	ValueStringType:   "string",
	ValueCallableType: "function",
	ValueClassType:    "class",
	ValueInstanceType: "instance",
}

// String implements fmt.Stringer.
func (t ValueType) String() string {
	if t >= 0 && int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return "unknown"
}

// Value is any Lox runtime value. String is the form print shows.
// Every implementation is comparable, == on two Values is Lox equality.
type Value interface {
	Type() ValueType
	String() string
}

type (
	ValueNil    struct{}
	ValueBool   bool
	ValueNumber float64
	ValueString string
)

var NilValue = ValueNil{}

// Type implements Value.
func (v ValueNil) Type() ValueType {
	return ValueNilType
}

// String implements fmt.Stringer.
func (v ValueNil) String() string {
	return "nil"
}

// Type implements Value.
func (v ValueBool) Type() ValueType {
	return ValueBoolType
}

// String implements fmt.Stringer.
func (v ValueBool) String() string {
	return strconv.FormatBool(bool(v))
}

// Type implements Value.
func (v ValueNumber) Type() ValueType {
	return ValueNumberType
}

// String implements fmt.Stringer.
func (v ValueNumber) String() string {
	f := float64(v)
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Type implements Value.
func (v ValueString) Type() ValueType {
	return ValueStringType
}

// String implements fmt.Stringer.
func (v ValueString) String() string {
	return string(v)
}

// GoString implements fmt.GoStringer.
func (v ValueString) GoString() string {
	return strconv.Quote(string(v))
}

// literalValue lifts a token literal into a runtime Value.
func literalValue(literal any) Value {
	switch v := literal.(type) {
	case nil:
		return NilValue
	case bool:
		return ValueBool(v)
	case float64:
		return ValueNumber(v)
	case string:
		return ValueString(v)
	}
	panic(fmt.Sprintf("unreachable: unknown literal %T", literal))
}

// echo renders a value for the REPL, strings come back quoted.
func echo(v Value) string {
	if s, ok := v.(fmt.GoStringer); ok {
		return s.GoString()
	}
	return v.String()
}

func isTruthy(v Value) bool {
	switch v := v.(type) {
	case ValueNil:
		return false
	case ValueBool:
		return bool(v)
	}
	return true
}

func isEqual(left, right Value) bool {
	return left == right
}

var (
	_ Value          = ValueNil{}
	_ Value          = ValueBool(false)
	_ Value          = ValueNumber(0)
	_ Value          = ValueString("")
	_ fmt.GoStringer = ValueString("")
)
