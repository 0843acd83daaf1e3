package loxerrors

import (
	"errors"
	"fmt"

	"github.com/loxlang/golox/internal/token"
)

var (
	ErrResolveCantInitVarSelfReference            = errors.New("Can't read local variable in its own initializer.")
	ErrResolveCantDuplicateVariableDefinition     = errors.New("Already a variable with this name in this scope.")
	ErrResolveReturnOutsideFunction               = errors.New("Can't return from top-level code.")
	ErrResolveCantReturnValueFromInitializer      = errors.New("Can't return a value from an initializer.")
	ErrResolveThisOutsideClass                    = errors.New("Can't use 'this' outside of a class.")
	ErrResolveCantUseSuperOutsideClass            = errors.New("Can't use 'super' outside of a class.")
	ErrResolveCantUseSuperInClassWithNoSuperclass = errors.New("Can't use 'super' in a class with no superclass.")
	ErrResolveClassCantInheritFromItself          = errors.New("A class can't inherit from itself.")
)

func NewResolveError(tok *token.Token, cause error) *ResolverError {
	return &ResolverError{tok: tok, cause: cause}
}

// ResolverError is a static scoping diagnostic found after a successful parse.
type ResolverError struct {
	tok   *token.Token
	cause error
}

// Line implements Diagnostic.
func (r *ResolverError) Line() int {
	return r.tok.Line
}

// Error implements error.
func (r *ResolverError) Error() string {
	return fmt.Sprintf("[line %d] Error %s: %v", r.tok.Line, r.tok.Where(), r.cause)
}

func (r *ResolverError) Unwrap() error {
	return r.cause
}

var (
	_ Diagnostic      = (*ResolverError)(nil)
	_ unwrapInterface = (*ResolverError)(nil)
)
