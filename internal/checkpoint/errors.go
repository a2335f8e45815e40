// Package checkpoint persists and restores batch progress so an interrupted
// run can resume without regenerating completed work.
package checkpoint

import "fmt"

// CorruptError marks a checkpoint artifact that is unreadable or fails schema
// validation. Callers fall back to the next-newest checkpoint or a fresh run;
// a corrupt checkpoint never aborts the job.
type CorruptError struct {
	Path    string
	Message string
	Cause   error
}

func (e *CorruptError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("corrupt checkpoint %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("corrupt checkpoint %s: %s", e.Path, e.Message)
}

func (e *CorruptError) Unwrap() error {
	return e.Cause
}
