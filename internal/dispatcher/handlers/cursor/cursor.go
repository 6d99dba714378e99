// Package cursor moves the cursor over the rows a fold leaves visible.
package cursor

import (
	"github.com/dshills/cubicfold/internal/dispatcher/execctx"
	"github.com/dshills/cubicfold/internal/dispatcher/handler"
	"github.com/dshills/cubicfold/internal/input"
)

// Namespace is the action prefix served by NewHandler.
const Namespace = "cursor"

// Action names for cursor movements.
const (
	ActionMoveUp        = "cursor.moveUp"
	ActionMoveDown      = "cursor.moveDown"
	ActionMoveFirstLine = "cursor.moveFirstLine"
	ActionMoveLastLine  = "cursor.moveLastLine"
)

// NewHandler returns the cursor namespace handler.
func NewHandler() *handler.Table {
	return handler.NewTable(Namespace).
		Add(ActionMoveUp, motion(func(c execctx.CursorMover, n int) {
			c.MoveCursorVisible(-n)
		})).
		Add(ActionMoveDown, motion(func(c execctx.CursorMover, n int) {
			c.MoveCursorVisible(n)
		})).
		Add(ActionMoveFirstLine, motion(func(c execctx.CursorMover, _ int) {
			c.SetCursorRow(0)
		})).
		Add(ActionMoveLastLine, motion(func(c execctx.CursorMover, _ int) {
			c.SetCursorRow(c.LineCount() - 1)
			// A hidden last row settles on the fold that covers it.
			c.MoveCursorVisible(0)
		}))
}

// motion wraps a cursor move. It asks for a reveal when the row changed
// and is a no-op otherwise.
func motion(move func(c execctx.CursorMover, count int)) handler.Func {
	return func(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
		if err := ctx.ValidateForCursor(); err != nil {
			return handler.Error(err)
		}
		before := ctx.Cursor.CursorRow()
		move(ctx.Cursor, ctx.GetCount())
		after := ctx.Cursor.CursorRow()
		if after == before {
			return handler.NoOp()
		}
		return handler.Success().WithReveal(after).WithRedraw()
	}
}
