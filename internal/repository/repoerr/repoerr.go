package repoerr

import "fmt"

// PersistenceError reports a failed store read or write. Callers log it and
// surface a non-blocking warning; it never aborts the user session.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Wrap returns nil when err is nil, otherwise a PersistenceError tagged with op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
