package fold

import "errors"

// MessageMarkersMissing is shown when fold markers are missing or unpaired.
const MessageMarkersMissing = "Fold marker(s) missing!"

// Errors returned by controller operations.
var (
	// ErrNoActiveDocument indicates there is no open document to operate on.
	ErrNoActiveDocument = errors.New("fold: no active document")

	// ErrMarkerValidation indicates the fold markers are missing or unpaired.
	ErrMarkerValidation = errors.New("fold: fold marker(s) missing")
)
