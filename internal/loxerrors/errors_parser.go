package loxerrors

import (
	"errors"
	"fmt"

	"github.com/loxlang/golox/internal/token"
)

var (
	ErrParseUnexpectedToken                       = errors.New("Expect expression.")
	ErrParseUnexpectedVariableName                = errors.New("Expect variable name.")
	ErrParseUnexpectedSuperClassName              = errors.New("Expect superclass name.")
	ErrParseUnexpectedPropertyName                = errors.New("Expect property name after '.'.")
	ErrParseUnexpectedParameterName               = errors.New("Expect parameter name.")
	ErrParseExpectedDotAfterSuper                 = errors.New("Expect '.' after 'super'.")
	ErrParseExpectedSuperclassMethodName          = errors.New("Expect superclass method name.")
	ErrParseInvalidAssignmentTarget               = errors.New("Invalid assignment target.")
	ErrParseExpectedRightParenToken               = errors.New("Expect ')' after expression.")
	ErrParseExpectedRightParenAfterArguments      = errors.New("Expect ')' after arguments.")
	ErrParseExpectedLeftParenIfToken              = errors.New("Expect '(' after 'if'.")
	ErrParseExpectedRightParenIfToken             = errors.New("Expect ')' after if condition.")
	ErrParseExpectedLeftParenWhileToken           = errors.New("Expect '(' after 'while'.")
	ErrParseExpectedRightParenWhileToken          = errors.New("Expect ')' after condition.")
	ErrParseExpectedLeftParenForToken             = errors.New("Expect '(' after 'for'.")
	ErrParseExpectedRightParenForToken            = errors.New("Expect ')' after for clauses.")
	ErrParseExpectedLeftBraceClassToken           = errors.New("Expect '{' before class body.")
	ErrParseExpectedRightBraceClassToken          = errors.New("Expect '}' after class body.")
	ErrParseExpectedRightBraceBlockToken          = errors.New("Expect '}' after block.")
	ErrParseExpectedRightParenFunToken            = errors.New("Expect ')' after parameters.")
	ErrParseExpectedLeftParenAfterFun             = errors.New("Expect '(' after 'fun'.")
	ErrParseExpectedSemicolonTokenAfterPrintValue = errors.New("Expect ';' after value.")
	ErrParseExpectedSemicolonTokenAfterExpr       = errors.New("Expect ';' after expression.")
	ErrParseExpectedSemicolonTokenAfterVar        = errors.New("Expect ';' after variable declaration.")
	ErrParseExpectedSemicolonAfterForLoopCond     = errors.New("Expect ';' after loop condition.")
	ErrParseExpectedSemicolonTokenAfterBreak      = errors.New("Expect ';' after 'break'.")
	ErrParseExpectedSemicolonTokenAfterReturn     = errors.New("Expect ';' after return value.")
	ErrParseBreakOutsideLoop                      = errors.New("Must be inside a loop to use 'break'.")
	ErrParseTooManyArguments                      = errors.New("Can't have more than 255 arguments.")
	ErrParseTooManyParameters                     = errors.New("Can't have more than 255 parameters.")
)

func ErrParseExpectedIdentifierKindError(kind string) error {
	return fmt.Errorf("Expect %s name.", kind)
}

func ErrParseExpectedLeftParenError(kind string) error {
	return fmt.Errorf("Expect '(' after %s name.", kind)
}

func ErrParseExpectedLeftBraceFunToken(kind string) error {
	return fmt.Errorf("Expect '{' before %s body.", kind)
}

func NewParseError(tok *token.Token, cause error) *ParserError {
	return &ParserError{tok: tok, cause: cause}
}

// ParserError is a syntax diagnostic anchored at the offending token.
type ParserError struct {
	tok   *token.Token
	cause error
}

// Line implements Diagnostic.
func (p *ParserError) Line() int {
	return p.tok.Line
}

// Error implements error.
func (p *ParserError) Error() string {
	return fmt.Sprintf("[line %d] Error %s: %v", p.tok.Line, p.tok.Where(), p.cause)
}

func (p *ParserError) Unwrap() error {
	return p.cause
}

var (
	_ Diagnostic      = (*ParserError)(nil)
	_ unwrapInterface = (*ParserError)(nil)
)
