package cmd

import (
	"errors"
	"fmt"
)

// exitError carries a process exit code out of a command.
// 1 = no match, 2 = usage error.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit %d", e.code)
	}
	return e.err.Error()
}

func (e exitError) Unwrap() error { return e.err }

func usageError(err error) error {
	return exitError{code: 2, err: err}
}

// errNoMatch is returned after "No match found" has already been printed.
var errNoMatch = exitError{code: 1}

// ExitCode extracts the exit code from an error returned by Execute.
// Returns -1 if err carries no specific code.
func ExitCode(err error) int {
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return -1
}

// Silent reports whether err has already been reported to the user.
func Silent(err error) bool {
	var ee exitError
	return errors.As(err, &ee) && ee.err == nil
}
