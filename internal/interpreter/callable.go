package interpreter

import (
	"context"
	"fmt"
)

type Callable interface {
	Value
	Arity() int
	// Call runs the callable. The caller has already checked the arity.
	Call(ctx context.Context, interpreter *interpreter, arguments []Value) (Value, error)
}

// ========  ========  ========  ========  ========  ========  ========

type (
	NativeFunc0 func(ctx context.Context, interpreter *interpreter) (Value, error)
	NativeFunc1 func(ctx context.Context, interpreter *interpreter, arg1 Value) (Value, error)
)

// NativeFunction is a builtin implemented in Go. It is held by pointer so
// that natives compare by identity like every other callable.
type NativeFunction struct {
	name  string
	arity int
	fn    func(ctx context.Context, interpreter *interpreter, arguments []Value) (Value, error)
}

func NewNativeFunction0(name string, fn NativeFunc0) *NativeFunction {
	return &NativeFunction{name: name, arity: 0, fn: func(ctx context.Context, in *interpreter, _ []Value) (Value, error) {
		return fn(ctx, in)
	}}
}

func NewNativeFunction1(name string, fn NativeFunc1) *NativeFunction {
	return &NativeFunction{name: name, arity: 1, fn: func(ctx context.Context, in *interpreter, args []Value) (Value, error) {
		return fn(ctx, in, args[0])
	}}
}

func (n *NativeFunction) Name() string {
	return n.name
}

// Type implements Value.
func (n *NativeFunction) Type() ValueType {
	return ValueCallableType
}

// Arity implements Callable.
func (n *NativeFunction) Arity() int {
	return n.arity
}

// Call implements Callable.
func (n *NativeFunction) Call(ctx context.Context, interpreter *interpreter, arguments []Value) (Value, error) {
	return n.fn(ctx, interpreter, arguments)
}

// String implements fmt.Stringer.
func (n *NativeFunction) String() string {
	return "<native fn>"
}

// GoString implements fmt.GoStringer.
func (n *NativeFunction) GoString() string {
	return fmt.Sprintf("<native fn %s/%d>", n.name, n.arity)
}

var (
	_ Callable       = (*NativeFunction)(nil)
	_ fmt.Stringer   = (*NativeFunction)(nil)
	_ fmt.GoStringer = (*NativeFunction)(nil)
)
