package loxerrors

import (
	"errors"
	"fmt"
)

var (
	ErrScanUnexpectedCharacter = errors.New("Unexpected character.")
	ErrScanUnterminatedString  = errors.New("Unterminated string.")
)

// ScannerError is a lexical diagnostic. Scanning continues after one is reported.
type ScannerError struct {
	line    int
	cause   error
	details string
}

func NewScanError(line int, cause error, details string) *ScannerError {
	return &ScannerError{line: line, cause: cause, details: details}
}

// Line implements Diagnostic.
func (s *ScannerError) Line() int {
	return s.line
}

// Error implements error.
func (s *ScannerError) Error() string {
	details := s.details
	if details != "" {
		details = " " + details
	}
	return fmt.Sprintf("[line %d] Error: %v%s", s.line, s.cause, details)
}

func (s *ScannerError) Unwrap() error {
	return s.cause
}

var (
	_ Diagnostic      = (*ScannerError)(nil)
	_ unwrapInterface = (*ScannerError)(nil)
)
