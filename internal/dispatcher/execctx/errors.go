package execctx

import "errors"

var (
	ErrMissingFolds  = errors.New("no fold commands attached")
	ErrMissingCursor = errors.New("no cursor attached")
)
