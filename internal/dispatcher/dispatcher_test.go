package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/cubicfold/internal/dispatcher/execctx"
	"github.com/dshills/cubicfold/internal/dispatcher/handler"
	"github.com/dshills/cubicfold/internal/input"
)

type recordingRenderer struct {
	redraws  int
	revealed []int
}

func (r *recordingRenderer) Redraw()        { r.redraws++ }
func (r *recordingRenderer) Reveal(row int) { r.revealed = append(r.revealed, row) }

func newNS(namespace string, actions map[string]handler.Result) *handler.Table {
	t := handler.NewTable(namespace)
	for name, res := range actions {
		t.Add(name, func(input.Action, *execctx.ExecutionContext) handler.Result { return res })
	}
	return t
}

func TestDispatchRoutesNamespace(t *testing.T) {
	d := New()
	d.RegisterNamespace(newNS("fold", map[string]handler.Result{
		"fold.toggle": handler.Success().WithMessage("toggled"),
	}))

	res := d.Dispatch(input.Action{Name: "fold.toggle"})

	assert.True(t, res.IsOK())
	assert.Equal(t, "toggled", res.Message)
	assert.True(t, d.CanDispatch("fold.toggle"))
	assert.False(t, d.CanDispatch("fold.other"))
}

func TestDispatchFallsBackToRegistry(t *testing.T) {
	d := New()
	called := false
	d.RegisterFunc("cubic-folds:fold-all", func(input.Action, *execctx.ExecutionContext) handler.Result {
		called = true
		return handler.Success()
	})

	res := d.DispatchName("cubic-folds:fold-all", input.SourceCommand)

	assert.True(t, res.IsOK())
	assert.True(t, called)

	d.UnregisterHandler("cubic-folds:fold-all")
	res = d.DispatchName("cubic-folds:fold-all", input.SourceCommand)
	assert.ErrorIs(t, res.Error, ErrNoHandler)
}

func TestDispatchUnknownAction(t *testing.T) {
	d := New()

	res := d.Dispatch(input.Action{Name: "nope.nothing"})

	assert.True(t, res.IsError())
	assert.ErrorIs(t, res.Error, ErrNoHandler)
}

func TestUnregisterNamespace(t *testing.T) {
	d := New()
	d.RegisterNamespace(newNS("fold", map[string]handler.Result{"fold.toggle": handler.Success()}))
	assert.Equal(t, []string{"fold"}, d.Router().Namespaces())

	d.UnregisterNamespace("fold")

	assert.False(t, d.CanDispatch("fold.toggle"))
	assert.Empty(t, d.Router().Namespaces())
}

func TestDispatchRecoversPanic(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	d := New(WithLogger(zap.New(core)))
	d.RegisterFunc("boom", func(input.Action, *execctx.ExecutionContext) handler.Result {
		panic("kaboom")
	})

	res := d.Dispatch(input.Action{Name: "boom"})

	assert.True(t, res.IsError())
	assert.ErrorIs(t, res.Error, ErrPanic)
	assert.Equal(t, uint64(1), d.Metrics().Panics())
	require.Equal(t, 1, logs.FilterMessage("handler panic").Len())
	assert.Equal(t, "dispatcher", logs.All()[0].LoggerName)
}

func TestDispatchAppliesViewUpdates(t *testing.T) {
	d := New()
	r := &recordingRenderer{}
	d.SetRenderer(r)
	d.RegisterFunc("move", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.Success().WithReveal(7).WithRedraw()
	})
	d.RegisterFunc("noop", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.NoOp()
	})

	d.DispatchName("move", input.SourceKeyboard)
	d.DispatchName("noop", input.SourceKeyboard)

	assert.Equal(t, 1, r.redraws)
	assert.Equal(t, []int{7}, r.revealed)
}

func TestDispatchBuildsContext(t *testing.T) {
	d := New()
	var got *execctx.ExecutionContext
	d.RegisterFunc("inspect", func(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
		got = ctx
		return handler.Success()
	})

	d.Dispatch(input.NewAction("inspect", input.SourcePlugin).WithCount(3))

	require.NotNil(t, got)
	assert.Equal(t, input.SourcePlugin, got.Source)
	assert.Equal(t, 3, got.GetCount())
	assert.Nil(t, got.Folds)
}

func TestCountLimit(t *testing.T) {
	d := New(WithCountLimit(5), WithMetrics(false))
	var count int
	d.RegisterFunc("count", func(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
		count = ctx.GetCount()
		return handler.Success()
	})

	d.Dispatch(input.Action{Name: "count", Count: 50})

	assert.Equal(t, 5, count)
	assert.Nil(t, d.Metrics())
}

func TestHooks(t *testing.T) {
	d := New()
	d.RegisterFunc("a", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.Success()
	})

	var post []string
	d.RegisterPostHook(PostDispatchFunc(func(action *input.Action, _ *execctx.ExecutionContext, result *handler.Result) {
		post = append(post, action.Name+":"+result.Status.String())
	}))
	d.DispatchName("a", input.SourceCommand)
	assert.Equal(t, []string{"a:ok"}, post)

	d.RegisterPreHook(PreDispatchFunc(func(*input.Action, *execctx.ExecutionContext) bool { return false }))
	res := d.DispatchName("a", input.SourceCommand)
	assert.Equal(t, handler.StatusCancelled, res.Status)
	assert.Len(t, post, 1)
}

func TestTraceHook(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	d := New()
	hook := NewTraceHook(zap.New(core))
	d.RegisterPreHook(hook)
	d.RegisterPostHook(hook)
	d.RegisterFunc("fail", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.Errorf("bad")
	})

	d.DispatchName("fail", input.SourceCommand)

	assert.Equal(t, 1, logs.FilterMessage("dispatching action").Len())
	assert.Equal(t, 1, logs.FilterMessage("dispatch failed").Len())
}

func TestMetrics(t *testing.T) {
	d := New()
	d.RegisterFunc("ok", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.Success()
	})
	d.RegisterFunc("bad", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.Errorf("bad")
	})

	d.DispatchName("ok", input.SourceCommand)
	d.DispatchName("ok", input.SourceCommand)
	d.DispatchName("bad", input.SourceCommand)

	m := d.Metrics()
	totals := m.Totals()
	assert.Equal(t, uint64(3), totals.Count)
	assert.Equal(t, uint64(1), totals.Errors)

	stats, ok := m.Stats("ok")
	require.True(t, ok)
	assert.Equal(t, uint64(2), stats.Count)
	assert.Equal(t, handler.StatusOK, stats.Last)
	assert.LessOrEqual(t, stats.Mean(), stats.Slowest)

	names := []string{}
	for _, s := range m.Snapshot() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"bad", "ok"}, names)

	core, logs := observer.New(zapcore.DebugLevel)
	m.Log(zap.New(core))
	assert.Equal(t, 1, logs.FilterMessage("dispatch totals").Len())
	assert.Equal(t, 2, logs.FilterMessage("dispatch stats").Len())

	m.Reset()
	assert.Zero(t, m.Totals().Count)
	_, ok = m.Stats("ok")
	assert.False(t, ok)
}

func TestRegistryReplaces(t *testing.T) {
	r := NewRegistry()
	first := handler.Func(func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithData("who", "first")
	})
	second := handler.Func(func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithData("who", "second")
	})

	assert.False(t, r.Register("x", first))
	assert.True(t, r.Register("x", second))
	r.Register("a", first)

	who, _ := r.Get("x").Handle(input.Action{}, nil).GetData("who")
	assert.Equal(t, "second", who)
	assert.True(t, r.Has("x"))
	assert.Equal(t, []string{"a", "x"}, r.List())
	assert.Nil(t, r.Get("y"))

	r.Unregister("x")
	assert.False(t, r.Has("x"))
}

func TestNamespace(t *testing.T) {
	assert.Equal(t, "fold", Namespace("fold.toggle"))
	assert.Equal(t, "", Namespace("cubic-folds:fold-all"))
}
