package main

import (
	"errors"
	"fmt"
)

// hintError carries an actionable suggestion printed under the error.
type hintError struct {
	err  error
	hint string
}

func (e *hintError) Error() string { return e.err.Error() }
func (e *hintError) Unwrap() error { return e.err }

// withHint attaches a hint to err. A nil err stays nil.
func withHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return &hintError{err: err, hint: hint}
}

// printError writes a command failure to stderr:
//
//	Error: no task at position 9
//	Hint: run 'td list' to see positions
func printError(err error) {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	var h *hintError
	if errors.As(err, &h) && h.hint != "" {
		fmt.Fprintf(stderr, "Hint: %s\n", h.hint)
	}
}

// warnf writes a warning to stderr and returns. Used for problems the
// command can continue past, like a failed save.
func warnf(format string, args ...interface{}) {
	fmt.Fprintf(stderr, "Warning: "+format+"\n", args...)
}
