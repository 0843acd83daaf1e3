package loxerrors

import "errors"

// Diagnostic is any Lox error that can point at a source line.
type Diagnostic interface {
	error
	Line() int
}

// local interface to be used with errors.Unwrap().
// errors packake does not define separate interface, relies on reflection instead.
type unwrapInterface interface {
	Unwrap() error
}

// errors.Join result.
type unwrapJoinInterface interface {
	Unwrap() []error
}

// Unjoin flattens errors.Join trees into the list of leaf diagnostics.
// A nil error yields an empty list.
func Unjoin(err error) []error {
	if err == nil {
		return nil
	}

	joined, ok := err.(unwrapJoinInterface)
	if !ok {
		return []error{err}
	}

	var errs []error
	for _, e := range joined.Unwrap() {
		errs = append(errs, Unjoin(e)...)
	}
	return errs
}

// IsStatic reports whether err carries scan, parse or resolve diagnostics.
// Static diagnostics mean nothing was executed.
func IsStatic(err error) bool {
	var (
		scanErr    *ScannerError
		parseErr   *ParserError
		resolveErr *ResolverError
	)
	return errors.As(err, &scanErr) || errors.As(err, &parseErr) || errors.As(err, &resolveErr)
}

// IsRuntime reports whether err is a Lox runtime error.
func IsRuntime(err error) bool {
	var runtimeErr *RuntimeError
	return errors.As(err, &runtimeErr)
}
