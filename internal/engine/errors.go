package engine

import "errors"

// ErrNoPath is returned by ReloadFile for engines built from a string.
var ErrNoPath = errors.New("engine: not backed by a file")
