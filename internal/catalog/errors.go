// Package catalog reads and validates the product input table that drives
// review generation.
package catalog

import "fmt"

// InputError represents a fatal problem with the input table. It aborts the
// job before any work starts.
type InputError struct {
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("input error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("input error: %s", e.Message)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}
