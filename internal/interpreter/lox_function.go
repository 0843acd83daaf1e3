package interpreter

import (
	"context"
	"fmt"

	"github.com/loxlang/golox/internal/parser"
	"github.com/loxlang/golox/internal/token"
)

type LoxFunction struct {
	Name          *token.Token // nil for anonymous functions
	Fn            *parser.ExprFunction
	Closure       *Environment
	IsInitializer bool
}

func NewLoxFunction(name *token.Token, fn *parser.ExprFunction, closure *Environment, isInitializer bool) *LoxFunction {
	return &LoxFunction{Name: name, Fn: fn, Closure: closure, IsInitializer: isInitializer}
}

// Type implements Value.
func (l *LoxFunction) Type() ValueType {
	return ValueCallableType
}

// Arity implements Callable.
func (l *LoxFunction) Arity() int {
	return len(l.Fn.Parameters)
}

// Call implements Callable.
func (l *LoxFunction) Call(ctx context.Context, interpreter *interpreter, arguments []Value) (Value, error) {
	env := l.Closure.Nest()

	for idx, param := range l.Fn.Parameters {
		env.Define(param.Lexeme, arguments[idx])
	}

	result, err := interpreter.executeBlock(ctx, l.Fn.Body, env)
	if err != nil {
		return nil, err
	}

	// init always hands back the instance, even on a bare return.
	if l.IsInitializer {
		return l.Closure.GetAt(0, "this")
	}
	if result.kind == flowReturn {
		return result.value, nil
	}
	return NilValue, nil
}

// Bind returns a copy of the method whose closure defines this.
func (l *LoxFunction) Bind(instance *LoxInstance) *LoxFunction {
	env := l.Closure.Nest()
	env.Define("this", instance)
	return NewLoxFunction(l.Name, l.Fn, env, l.IsInitializer)
}

// String implements fmt.Stringer.
func (l *LoxFunction) String() string {
	if l.Name == nil {
		return "<fn>"
	}
	return fmt.Sprintf("<fn %s>", l.Name.Lexeme)
}

// GoString implements fmt.GoStringer.
func (l *LoxFunction) GoString() string {
	return l.String()
}

var (
	_ Callable       = (*LoxFunction)(nil)
	_ fmt.Stringer   = (*LoxFunction)(nil)
	_ fmt.GoStringer = (*LoxFunction)(nil)
)
