// Package fold provides the handlers for the fold commands.
package fold

import (
	"errors"

	"github.com/dshills/cubicfold/internal/dispatcher/execctx"
	"github.com/dshills/cubicfold/internal/dispatcher/handler"
	foldctl "github.com/dshills/cubicfold/internal/fold"
	"github.com/dshills/cubicfold/internal/input"
)

// Action names for fold operations.
const (
	ActionToggle        = "fold.toggle"        // fold or unfold the section under the cursor
	ActionToggleAll     = "fold.toggleAll"     // unfold everything, or fold everything
	ActionFoldAll       = "fold.foldAll"       // fold every section
	ActionUnfoldAll     = "fold.unfoldAll"     // unfold every section
	ActionUnfoldMarkers = "fold.unfoldMarkers" // unfold folded marker rows without validation
)

// ArgQuiet suppresses the missing-marker notification for fold.foldAll.
const ArgQuiet = "quiet"

// DataUnfolded reports whether fold.unfoldMarkers unfolded anything.
const DataUnfolded = "unfolded"

// Commands maps the user-facing command names to fold actions.
var Commands = map[string]string{
	"cubic-folds:toggleFold-this": ActionToggle,
	"cubic-folds:toggleFold-all":  ActionToggleAll,
	"cubic-folds:fold-all":        ActionFoldAll,
	"cubic-folds:unfold-all":      ActionUnfoldAll,
}

// Handler implements namespace-based fold handling.
type Handler struct{}

// NewHandler creates a new fold handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Namespace returns the fold namespace.
func (h *Handler) Namespace() string {
	return "fold"
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	switch actionName {
	case ActionToggle, ActionToggleAll, ActionFoldAll, ActionUnfoldAll, ActionUnfoldMarkers:
		return true
	}
	return false
}

// HandleAction processes a fold action.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.ValidateForFolds(); err != nil {
		return handler.Error(err)
	}

	switch action.Name {
	case ActionToggle:
		return result(ctx.Folds.ToggleFold())
	case ActionToggleAll:
		return result(ctx.Folds.ToggleFoldAll())
	case ActionFoldAll:
		return result(ctx.Folds.FoldAll(action.Args.GetBool(ArgQuiet)))
	case ActionUnfoldAll:
		return result(ctx.Folds.UnfoldAll())
	case ActionUnfoldMarkers:
		did, err := ctx.Folds.UnfoldMarkers()
		return result(err).WithData(DataUnfolded, did)
	default:
		return handler.Errorf("unknown fold action: %s", action.Name)
	}
}

// Alias returns a handler that runs the fold action bound to a command name.
func (h *Handler) Alias(command string) handler.Handler {
	target := Commands[command]
	return handler.Func(func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		if target == "" {
			return handler.Errorf("unknown fold command: %s", command)
		}
		action.Name = target
		return h.HandleAction(action, ctx)
	})
}

// result maps a controller error to a handler result.
func result(err error) handler.Result {
	switch {
	case err == nil:
		return handler.Success().WithRedraw()
	case errors.Is(err, foldctl.ErrNoActiveDocument):
		return handler.NoOpWithMessage("no active document")
	case errors.Is(err, foldctl.ErrMarkerValidation):
		return handler.Error(err).WithMessage(foldctl.MessageMarkersMissing)
	default:
		return handler.Error(err)
	}
}
