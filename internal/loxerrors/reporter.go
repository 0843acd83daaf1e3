package loxerrors

import (
	"fmt"
	"io"
)

type ErrReporter interface {
	// ReportError writes every diagnostic carried by err, one per line.
	ReportError(err error)
	HadError() bool
	HadRuntimeError() bool
	// Reset clears the error flags, the REPL calls it between lines.
	Reset()
}

type errReporter struct {
	w             io.Writer
	hadErr        bool
	hadRuntimeErr bool
}

func NewErrReporter(w io.Writer) ErrReporter {
	return &errReporter{w: w}
}

// ReportError implements ErrReporter.
func (e *errReporter) ReportError(err error) {
	for _, d := range Unjoin(err) {
		if IsRuntime(d) {
			e.hadRuntimeErr = true
		} else {
			e.hadErr = true
		}
		DefaultReportError(e.w, d)
	}
}

// HadError implements ErrReporter.
func (e *errReporter) HadError() bool {
	return e.hadErr
}

// HadRuntimeError implements ErrReporter.
func (e *errReporter) HadRuntimeError() bool {
	return e.hadRuntimeErr
}

// Reset implements ErrReporter.
func (e *errReporter) Reset() {
	e.hadErr = false
	e.hadRuntimeErr = false
}

// DefaultReportError is the default implementation of ErrReporter.ReportError.
func DefaultReportError(w io.Writer, err error) {
	fmt.Fprintln(w, err)
}

var _ ErrReporter = (*errReporter)(nil)
