package interpreter

import (
	"context"
	"fmt"

	"github.com/loxlang/golox/internal/loxerrors"
	"github.com/loxlang/golox/internal/token"
)

const initializerName = "init"

type LoxClass struct {
	Name string
	// Single inheritance chain, fixed when the class is declared.
	SuperClass *LoxClass
	Methods    map[string]*LoxFunction
}

func NewLoxClass(name string, superClass *LoxClass, methods map[string]*LoxFunction) *LoxClass {
	return &LoxClass{Name: name, SuperClass: superClass, Methods: methods}
}

// Type implements Value.
func (l *LoxClass) Type() ValueType {
	return ValueClassType
}

// Arity implements Callable.
func (l *LoxClass) Arity() int {
	if initializer := l.FindMethod(initializerName); initializer != nil {
		return initializer.Arity()
	}
	return 0
}

// Call implements Callable.
func (l *LoxClass) Call(ctx context.Context, interpreter *interpreter, arguments []Value) (Value, error) {
	instance := NewLoxInstance(l)
	if initializer := l.FindMethod(initializerName); initializer != nil {
		if _, err := initializer.Bind(instance).Call(ctx, interpreter, arguments); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// FindMethod looks the method up on the class, then up the superclass chain.
func (l *LoxClass) FindMethod(name string) *LoxFunction {
	for cl := l; cl != nil; cl = cl.SuperClass {
		if method, ok := cl.Methods[name]; ok {
			return method
		}
	}

	return nil
}

// String implements fmt.Stringer.
func (l *LoxClass) String() string {
	return l.Name
}

// GoString implements fmt.GoStringer.
func (l *LoxClass) GoString() string {
	return fmt.Sprintf("<class %s/%d>", l.Name, l.Arity())
}

type LoxInstance struct {
	Class  *LoxClass
	Fields map[string]Value
}

func NewLoxInstance(class *LoxClass) *LoxInstance {
	return &LoxInstance{Class: class, Fields: make(map[string]Value)}
}

// Type implements Value.
func (l *LoxInstance) Type() ValueType {
	return ValueInstanceType
}

// Get returns a field, or a method bound to this instance. Fields shadow methods.
func (l *LoxInstance) Get(name *token.Token) (Value, error) {
	if value, ok := l.Fields[name.Lexeme]; ok {
		return value, nil
	}

	if method := l.Class.FindMethod(name.Lexeme); method != nil {
		return method.Bind(l), nil
	}

	return nil, loxerrors.NewRuntimeError(name, loxerrors.ErrRuntimeUndefinedProperty(name.Lexeme))
}

func (l *LoxInstance) Set(name *token.Token, value Value) {
	l.Fields[name.Lexeme] = value
}

// String implements fmt.Stringer.
func (l *LoxInstance) String() string {
	return l.Class.Name + " instance"
}

// GoString implements fmt.GoStringer.
func (l *LoxInstance) GoString() string {
	return l.String()
}

var (
	_ Callable       = (*LoxClass)(nil)
	_ fmt.Stringer   = (*LoxClass)(nil)
	_ fmt.GoStringer = (*LoxClass)(nil)
	_ Value          = (*LoxInstance)(nil)
	_ fmt.Stringer   = (*LoxInstance)(nil)
	_ fmt.GoStringer = (*LoxInstance)(nil)
)
