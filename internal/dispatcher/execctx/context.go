// Package execctx carries what a handler may act on while it runs.
package execctx

import "github.com/dshills/cubicfold/internal/input"

// FoldCommands are the fold operations on the active document.
type FoldCommands interface {
	FoldAll(quiet bool) error
	UnfoldAll() error
	ToggleFoldAll() error
	ToggleFold() error
	UnfoldMarkers() (bool, error)
}

// CursorMover moves the cursor of the active document. Rows are 0-based.
type CursorMover interface {
	CursorRow() int
	SetCursorRow(row int)
	MoveCursorVisible(delta int)
	LineCount() int
}

// ViewUpdater is the part of the view a result can ask for.
type ViewUpdater interface {
	Redraw()
	Reveal(row int)
}

// ExecutionContext is built per dispatch. Any of Folds, Cursor and
// Renderer may be nil when no document or view is attached.
type ExecutionContext struct {
	Folds    FoldCommands
	Cursor   CursorMover
	Renderer ViewUpdater

	Source input.ActionSource
	Count  int
}

// New returns a context with a count of one and nothing attached.
func New() *ExecutionContext {
	return &ExecutionContext{Count: 1}
}

func (ctx *ExecutionContext) WithFolds(f FoldCommands) *ExecutionContext {
	ctx.Folds = f
	return ctx
}

func (ctx *ExecutionContext) WithCursor(c CursorMover) *ExecutionContext {
	ctx.Cursor = c
	return ctx
}

func (ctx *ExecutionContext) WithRenderer(r ViewUpdater) *ExecutionContext {
	ctx.Renderer = r
	return ctx
}

// WithCount sets the repeat count. Non-positive counts are ignored.
func (ctx *ExecutionContext) WithCount(n int) *ExecutionContext {
	if n > 0 {
		ctx.Count = n
	}
	return ctx
}

// GetCount returns the repeat count, at least one.
func (ctx *ExecutionContext) GetCount() int {
	return max(ctx.Count, 1)
}

// ValidateForFolds returns ErrMissingFolds when no document is attached.
func (ctx *ExecutionContext) ValidateForFolds() error {
	if ctx.Folds == nil {
		return ErrMissingFolds
	}
	return nil
}

// ValidateForCursor returns ErrMissingCursor when no document is attached.
func (ctx *ExecutionContext) ValidateForCursor() error {
	if ctx.Cursor == nil {
		return ErrMissingCursor
	}
	return nil
}
