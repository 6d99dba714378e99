package dispatcher

import (
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/cubicfold/internal/dispatcher/execctx"
	"github.com/dshills/cubicfold/internal/dispatcher/handler"
	"github.com/dshills/cubicfold/internal/input"
)

// Dispatcher resolves action names to handlers and runs them against the
// attached document and view.
type Dispatcher struct {
	mu sync.RWMutex

	registry *Registry
	router   *Router

	folds    execctx.FoldCommands
	cursor   execctx.CursorMover
	renderer execctx.ViewUpdater

	metrics       *Metrics
	logger        *zap.Logger
	recoverPanics bool
	countLimit    int

	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook
}

// New returns a dispatcher with metrics, panic recovery and the default
// count limit, adjusted by opts.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry:      NewRegistry(),
		router:        NewRouter(),
		metrics:       NewMetrics(),
		logger:        zap.NewNop(),
		recoverPanics: true,
		countLimit:    DefaultCountLimit,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.countLimit > 0 {
		d.preHooks = append(d.preHooks, countLimit(d.countLimit))
	}
	return d
}

// SetFolds attaches the fold commands of the active document, or detaches
// them when folds is nil.
func (d *Dispatcher) SetFolds(folds execctx.FoldCommands) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.folds = folds
}

// SetCursor attaches the cursor of the active document.
func (d *Dispatcher) SetCursor(cursor execctx.CursorMover) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cursor = cursor
}

// SetRenderer attaches the view that redraw and reveal requests go to.
func (d *Dispatcher) SetRenderer(r execctx.ViewUpdater) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.renderer = r
}

// Dispatch runs action to completion on the calling goroutine.
func (d *Dispatcher) Dispatch(action input.Action) handler.Result {
	start := time.Now()
	ctx, pre, post := d.snapshot(action)

	for _, hook := range pre {
		if !hook.PreDispatch(&action, ctx) {
			return handler.CancelledWithMessage("cancelled by hook")
		}
	}

	h := d.resolve(action.Name)
	if h == nil {
		d.logger.Debug("no handler", zap.String("action", action.Name))
		return handler.Error(fmt.Errorf("%w: %s", ErrNoHandler, action.Name))
	}

	result := d.run(h, action, ctx)
	applyView(result, ctx.Renderer)
	for _, hook := range post {
		hook.PostDispatch(&action, ctx, &result)
	}
	if d.metrics != nil {
		d.metrics.Record(action.Name, time.Since(start), result.Status)
	}
	return result
}

// DispatchName dispatches name without arguments.
func (d *Dispatcher) DispatchName(name string, source input.ActionSource) handler.Result {
	return d.Dispatch(input.NewAction(name, source))
}

// snapshot builds the execution context and copies the hook lists under
// one read lock.
func (d *Dispatcher) snapshot(action input.Action) (*execctx.ExecutionContext, []PreDispatchHook, []PostDispatchHook) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx := execctx.New().
		WithFolds(d.folds).
		WithCursor(d.cursor).
		WithRenderer(d.renderer).
		WithCount(action.Count)
	ctx.Source = action.Source
	return ctx, slices.Clone(d.preHooks), slices.Clone(d.postHooks)
}

// resolve prefers the namespace owner over an exact-name registration.
func (d *Dispatcher) resolve(name string) handler.Handler {
	if h := d.router.Route(name); h != nil {
		return h
	}
	return d.registry.Get(name)
}

// run calls h, turning a panic into an ErrPanic result when recovery is on.
func (d *Dispatcher) run(h handler.Handler, action input.Action, ctx *execctx.ExecutionContext) (result handler.Result) {
	if !d.recoverPanics {
		return h.Handle(action, ctx)
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		stack := make([]byte, 4096)
		stack = stack[:runtime.Stack(stack, false)]
		d.logger.Error("handler panic",
			zap.String("action", action.Name),
			zap.Any("panic", r),
			zap.ByteString("stack", stack),
		)
		if d.metrics != nil {
			d.metrics.RecordPanic()
		}
		result = handler.Error(fmt.Errorf("%w: %s: %v", ErrPanic, action.Name, r))
	}()
	return h.Handle(action, ctx)
}

// applyView forwards the view requests of a result.
func applyView(result handler.Result, view execctx.ViewUpdater) {
	if view == nil {
		return
	}
	if row := result.ViewUpdate.RevealRow; row != nil {
		view.Reveal(*row)
	}
	if result.ViewUpdate.Redraw {
		view.Redraw()
	}
}

// RegisterHandler binds h to an exact action name, replacing any earlier
// binding.
func (d *Dispatcher) RegisterHandler(actionName string, h handler.Handler) {
	if d.registry.Register(actionName, h) {
		d.logger.Debug("handler replaced", zap.String("action", actionName))
	}
}

// RegisterFunc binds fn to an exact action name.
func (d *Dispatcher) RegisterFunc(actionName string, fn handler.Func) {
	d.RegisterHandler(actionName, fn)
}

// UnregisterHandler removes the handler bound to an action name.
func (d *Dispatcher) UnregisterHandler(actionName string) {
	d.registry.Unregister(actionName)
}

// RegisterNamespace routes every action in h's namespace to h.
func (d *Dispatcher) RegisterNamespace(h handler.NamespaceHandler) {
	d.router.RegisterNamespace(h.Namespace(), h)
}

// UnregisterNamespace stops routing namespace.
func (d *Dispatcher) UnregisterNamespace(namespace string) {
	d.router.UnregisterNamespace(namespace)
}

// CanDispatch reports whether some handler accepts actionName.
func (d *Dispatcher) CanDispatch(actionName string) bool {
	return d.resolve(actionName) != nil
}

// RegisterPreHook appends a hook run before every handler.
func (d *Dispatcher) RegisterPreHook(hook PreDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.preHooks = append(d.preHooks, hook)
}

// RegisterPostHook appends a hook run after every handler.
func (d *Dispatcher) RegisterPostHook(hook PostDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.postHooks = append(d.postHooks, hook)
}

func (d *Dispatcher) Registry() *Registry { return d.registry }
func (d *Dispatcher) Router() *Router     { return d.router }

// Metrics returns the collector, or nil when metrics are off.
func (d *Dispatcher) Metrics() *Metrics { return d.metrics }
