// Package engine combines a line buffer, the primary cursor and the fold set
// into the editor buffer that fold commands operate on.
//
// Engine implements fold.Buffer:
//
//	e := engine.NewFromString("a\n///\nb\n///\n")
//	ctl := fold.NewController(fold.Single(e), hub)
//	_ = ctl.FoldAll(false)
//	rows := e.VisibleRows() // [0 1 4]
//
// A fold made from a selection keeps its start row visible up to the
// selection's start column and hides the rest of the range. FoldSelection
// with an empty selection folds the indentation block under the cursor.
//
// The engine is driven from a single goroutine (the editor loop). Only the
// underlying buffer is safe for concurrent reads.
package engine
