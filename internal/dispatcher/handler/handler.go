// Package handler describes how a dispatched action is executed and what
// the execution reports back.
package handler

import (
	"github.com/dshills/cubicfold/internal/dispatcher/execctx"
	"github.com/dshills/cubicfold/internal/input"
)

// Handler executes one action.
type Handler interface {
	Handle(action input.Action, ctx *execctx.ExecutionContext) Result
}

// Func lets an ordinary function act as a Handler.
type Func func(action input.Action, ctx *execctx.ExecutionContext) Result

// Handle calls f. A nil Func reports an error result.
func (f Func) Handle(action input.Action, ctx *execctx.ExecutionContext) Result {
	if f == nil {
		return Errorf("no function bound to %s", action.Name)
	}
	return f(action, ctx)
}

// NamespaceHandler owns the actions sharing a "namespace." prefix.
type NamespaceHandler interface {
	Namespace() string
	CanHandle(actionName string) bool
	HandleAction(action input.Action, ctx *execctx.ExecutionContext) Result
}

// Bind turns a namespace handler into a Handler.
func Bind(h NamespaceHandler) Handler {
	return Func(h.HandleAction)
}

// Table is a NamespaceHandler built from a fixed set of action functions.
type Table struct {
	namespace string
	actions   map[string]Func
}

// NewTable returns an empty table for namespace.
func NewTable(namespace string) *Table {
	return &Table{namespace: namespace, actions: make(map[string]Func)}
}

// Add binds fn to an action name and returns t for chaining.
func (t *Table) Add(actionName string, fn Func) *Table {
	t.actions[actionName] = fn
	return t
}

// Namespace returns the namespace the table serves.
func (t *Table) Namespace() string {
	return t.namespace
}

// CanHandle reports whether the table has the action.
func (t *Table) CanHandle(actionName string) bool {
	_, ok := t.actions[actionName]
	return ok
}

// HandleAction runs the function bound to the action name.
func (t *Table) HandleAction(action input.Action, ctx *execctx.ExecutionContext) Result {
	fn, ok := t.actions[action.Name]
	if !ok {
		return Errorf("%s: unknown action %s", t.namespace, action.Name)
	}
	return fn.Handle(action, ctx)
}
