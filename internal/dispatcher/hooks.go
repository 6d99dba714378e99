package dispatcher

import (
	"go.uber.org/zap"

	"github.com/dshills/cubicfold/internal/dispatcher/execctx"
	"github.com/dshills/cubicfold/internal/dispatcher/handler"
	"github.com/dshills/cubicfold/internal/input"
)

// PreDispatchHook runs before the handler and may rewrite the action or
// the context. Returning false cancels the dispatch.
type PreDispatchHook interface {
	PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool
}

// PostDispatchHook sees every result, including errors.
type PostDispatchHook interface {
	PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)
}

// PreDispatchFunc adapts a function to PreDispatchHook.
type PreDispatchFunc func(action *input.Action, ctx *execctx.ExecutionContext) bool

func (f PreDispatchFunc) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	return f(action, ctx)
}

// PostDispatchFunc adapts a function to PostDispatchHook.
type PostDispatchFunc func(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)

func (f PostDispatchFunc) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	f(action, ctx, result)
}

// TraceHook logs each action and its outcome at debug level.
type TraceHook struct {
	logger *zap.Logger
}

// NewTraceHook returns a TraceHook writing to logger.
func NewTraceHook(logger *zap.Logger) *TraceHook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TraceHook{logger: logger}
}

func (h *TraceHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	h.logger.Debug("dispatching action",
		zap.String("action", action.Name),
		zap.Stringer("source", action.Source),
		zap.Int("count", ctx.GetCount()),
	)
	return true
}

func (h *TraceHook) PostDispatch(action *input.Action, _ *execctx.ExecutionContext, result *handler.Result) {
	if result.Error != nil {
		h.logger.Debug("dispatch failed",
			zap.String("action", action.Name),
			zap.Error(result.Error))
		return
	}
	h.logger.Debug("dispatch done",
		zap.String("action", action.Name),
		zap.Stringer("status", result.Status))
}

// countLimit clamps the repeat count carried by the context.
func countLimit(limit int) PreDispatchFunc {
	return func(_ *input.Action, ctx *execctx.ExecutionContext) bool {
		ctx.Count = min(ctx.Count, limit)
		return true
	}
}
