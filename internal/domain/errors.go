package domain

import "fmt"

// ValidationError reports a submission missing a required type-specific
// field. It fails fast before any network I/O and is never retried
// automatically; the caller corrects the input and resubmits.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid submission: %s: %s", e.Field, e.Reason)
}

// RemoteOperationError reports a failed call against the git hosting
// API. It is terminal for the publish attempt and may leave an orphaned
// branch behind; no compensation is attempted.
type RemoteOperationError struct {
	Op  string // the publisher step that failed (branch, commit, pull_request)
	Err error
}

func (e *RemoteOperationError) Error() string {
	return fmt.Sprintf("remote operation %s failed: %v", e.Op, e.Err)
}

func (e *RemoteOperationError) Unwrap() error { return e.Err }
