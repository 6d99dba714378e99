package dispatcher

import "errors"

var (
	// ErrNoHandler is returned when neither a namespace handler nor a
	// registered name accepts the action.
	ErrNoHandler = errors.New("no handler for action")

	// ErrPanic wraps a recovered handler panic.
	ErrPanic = errors.New("handler panicked")
)
