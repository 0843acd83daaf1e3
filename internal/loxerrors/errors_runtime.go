package loxerrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/loxlang/golox/internal/token"
)

var (
	ErrRuntimeOperandMustBeNumber          = errors.New("Operand must be a number.")
	ErrRuntimeOperandsMustBeNumbers        = errors.New("Operands must be numbers.")
	ErrRuntimeOperandsMustNumbersOrStrings = errors.New("Operands must be two numbers or two strings.")
	ErrRuntimeUndefinedVariable            = errors.New("Undefined variable")
	ErrRuntimeCalleeMustBeCallable         = errors.New("Can only call functions and classes.")
	ErrRuntimeOnlyInstancesHaveProperties  = errors.New("Only instances have properties.")
	ErrRuntimeOnlyInstancesHaveFields      = errors.New("Only instances have fields.")
	ErrRuntimeSuperClassMustBeClass        = errors.New("Superclass must be a class.")
	ErrRuntimeStackOverflow                = errors.New("Stack overflow.")
	ErrRuntimeArgumentMustBeString         = errors.New("Argument must be a string.")
)

func ErrRuntimeCalleeArityError(expectedArity int, actualArity int) error {
	return fmt.Errorf("Expected %d arguments but got %d.", expectedArity, actualArity)
}

func ErrRuntimeUndefinedProperty(name string) error {
	return fmt.Errorf("Undefined property '%s'.", name)
}

func ErrRuntimeUndefinedVariableName(name string) error {
	return fmt.Errorf("%w '%s'.", ErrRuntimeUndefinedVariable, name)
}

// ErrRuntimeOperandTypes decorates an operand sentinel with the operator and
// the runtime types it was applied to. The sentinel stays matchable with errors.Is.
func ErrRuntimeOperandTypes(cause error, operator string, operandTypes ...string) error {
	return fmt.Errorf("%w Operator '%s' got %s.", cause, operator, strings.Join(operandTypes, " and "))
}

func NewRuntimeError(tok *token.Token, cause error) *RuntimeError {
	return &RuntimeError{tok: tok, cause: cause}
}

// RuntimeError aborts the statement sequence being interpreted.
type RuntimeError struct {
	tok   *token.Token
	cause error
}

// Line implements Diagnostic.
func (r *RuntimeError) Line() int {
	return r.tok.Line
}

// Error implements error.
func (r *RuntimeError) Error() string {
	return fmt.Sprintf("%v\n[line %d]", r.cause, r.tok.Line)
}

func (r *RuntimeError) Unwrap() error {
	return r.cause
}

var (
	_ Diagnostic      = (*RuntimeError)(nil)
	_ unwrapInterface = (*RuntimeError)(nil)
)
