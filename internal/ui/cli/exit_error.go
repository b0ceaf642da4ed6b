package cli

import (
	"fmt"
)

const (
	ExitClean    = 0
	ExitFindings = 1
	ExitUsage    = 2
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE
// handlers. A nil Err exits silently.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Err: err}
}

// errFindings is returned by commands whose report is not clean.
var errFindings = &ExitError{Code: ExitFindings}
