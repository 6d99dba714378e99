package app

import "errors"

var (
	ErrAlreadyActive    = errors.New("session already active")
	ErrNotActive        = errors.New("session not active")
	ErrAlreadyRunning   = errors.New("viewer already running")
	ErrDocumentNotFound = errors.New("document not found")
)

// OpError records a failed document or terminal operation, such as
// "open" or "reload", and what it was applied to.
type OpError struct {
	Op     string
	Target string
	Err    error
}

// NewOpError wraps err with the operation that produced it.
func NewOpError(op, target string, err error) *OpError {
	return &OpError{Op: op, Target: target, Err: err}
}

func (e *OpError) Error() string {
	if e == nil {
		return ""
	}
	s := e.Op
	if e.Target != "" {
		s += " " + e.Target
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
