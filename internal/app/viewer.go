package app

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/cubicfold/internal/dispatcher/handler"
	"github.com/dshills/cubicfold/internal/input"
	"github.com/dshills/cubicfold/internal/notify"
	"github.com/dshills/cubicfold/internal/renderer"
	"github.com/dshills/cubicfold/internal/renderer/backend"
	"github.com/dshills/cubicfold/internal/watcher"
)

// PostScheduler returns a Scheduler that runs fn on the event loop reading
// from b, by posting it as an interrupt event after delay.
func PostScheduler(b backend.Backend) Scheduler {
	return func(delay time.Duration, fn func()) func() {
		t := time.AfterFunc(delay, func() {
			_ = b.PostInterrupt(fn)
		})
		return func() { t.Stop() }
	}
}

// ViewerOption configures a Viewer.
type ViewerOption func(*Viewer)

// WithWatch reloads the active document when it changes on disk.
func WithWatch(enabled bool) ViewerOption {
	return func(v *Viewer) {
		v.watch = enabled
	}
}

// WithKeymap replaces the keymap from the session configuration.
func WithKeymap(km *input.Keymap) ViewerOption {
	return func(v *Viewer) {
		v.keymap = km
	}
}

// WithOnStart runs fn on the loop once the session is active, before the
// first redraw.
func WithOnStart(fn func(v *Viewer)) ViewerOption {
	return func(v *Viewer) {
		if fn != nil {
			v.onStart = append(v.onStart, fn)
		}
	}
}

// WithViewOptions passes options to the renderer view.
func WithViewOptions(opts ...renderer.ViewOption) ViewerOption {
	return func(v *Viewer) {
		v.viewOpts = append(v.viewOpts, opts...)
	}
}

// Viewer shows the active document of a session in a terminal and maps keys
// to dispatcher actions. All session work runs on the loop goroutine.
type Viewer struct {
	session  *Session
	backend  backend.Backend
	view     *renderer.View
	keymap   *input.Keymap
	viewOpts []renderer.ViewOption
	onStart  []func(*Viewer)
	watch    bool
	logger   *zap.Logger

	running atomic.Bool
	quit    bool
}

// NewViewer creates a viewer for s drawing on b. The session should be
// created with PostScheduler(b) so the startup fold runs on the loop.
func NewViewer(s *Session, b backend.Backend, opts ...ViewerOption) (*Viewer, error) {
	v := &Viewer{
		session: s,
		backend: b,
		logger:  s.Logger().Named("viewer"),
	}
	for _, opt := range opts {
		opt(v)
	}

	if v.keymap == nil {
		km, err := s.Config().Keymap()
		if err != nil {
			return nil, err
		}
		v.keymap = km
	}

	marker, err := s.Config().MarkerFunc()
	if err != nil {
		return nil, err
	}
	base := []renderer.ViewOption{
		renderer.WithMarker(marker),
		renderer.WithLineNumbers(s.Config().View.LineNumbers),
		renderer.WithViewLogger(v.logger),
	}
	v.view = renderer.NewView(b, append(base, v.viewOpts...)...)
	return v, nil
}

// View returns the renderer view.
func (v *Viewer) View() *renderer.View {
	return v.view
}

// Post runs fn on the event loop.
func (v *Viewer) Post(fn func()) error {
	return v.backend.PostInterrupt(fn)
}

// Run initializes the backend, activates the session and processes events
// until a quit key, ctx cancellation, or backend shutdown.
func (v *Viewer) Run(ctx context.Context) error {
	if !v.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer v.running.Store(false)

	if err := v.backend.Init(); err != nil {
		return NewOpError("init", "terminal", err)
	}
	defer v.backend.Shutdown()

	v.session.SetRenderer(v.view)
	defer v.session.SetRenderer(nil)

	sub := v.session.Hub().Subscribe(func(n notify.Notification) {
		// The hub may deliver from another goroutine; hop onto the loop.
		_ = v.Post(func() { v.view.SetStatus(n.Message, n.Kind.IsProblem()) })
	})
	defer sub.Unsubscribe()

	if !v.session.IsActive() {
		if err := v.session.Activate(); err != nil {
			return err
		}
		defer func() { _ = v.session.Deactivate() }()
	}

	if v.watch {
		stop, err := v.startWatcher()
		if err != nil {
			v.logger.Warn("watch disabled", zap.Error(err))
			v.view.SetStatus("watch disabled: "+err.Error(), true)
		} else {
			defer stop()
		}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = v.Post(func() { v.quit = true })
		case <-done:
		}
	}()

	v.quit = false
	v.view.SetDocument(v.document())
	for _, fn := range v.onStart {
		fn(v)
	}
	v.view.Redraw()

	for !v.quit {
		ev := v.backend.PollEvent()
		if ev.Type == backend.EventClosed {
			break
		}
		v.HandleEvent(ev)
	}
	v.logger.Debug("viewer stopped")
	return nil
}

// HandleEvent processes one backend event and redraws.
func (v *Viewer) HandleEvent(ev backend.Event) {
	switch ev.Type {
	case backend.EventKey:
		v.handleKey(ev)
	case backend.EventInterrupt:
		if fn, ok := ev.Data.(func()); ok && fn != nil {
			fn()
		}
	case backend.EventResize:
	default:
		return
	}
	if !v.quit {
		v.view.Redraw()
	}
}

// Quit reports whether the loop has been asked to stop.
func (v *Viewer) Quit() bool {
	return v.quit
}

func (v *Viewer) handleKey(ev backend.Event) {
	name := backend.KeyName(ev)
	switch name {
	case "q", "Esc", "Ctrl+C":
		v.quit = true
		return
	case "":
		return
	}

	action, ok := v.keymap.Lookup(name)
	if !ok {
		return
	}
	v.showResult(v.session.Dispatch(action))
}

// showResult puts a dispatch outcome on the status line.
func (v *Viewer) showResult(result handler.Result) {
	switch {
	case result.IsError():
		msg := result.Message
		if msg == "" && result.Error != nil {
			msg = result.Error.Error()
		}
		v.view.SetStatus(msg, true)
	case result.Message != "":
		v.view.SetStatus(result.Message, false)
	case result.IsOK():
		v.view.SetStatus("", false)
	}
}

func (v *Viewer) document() renderer.Document {
	if e := v.session.ActiveEngine(); e != nil {
		return e
	}
	return nil
}

// startWatcher watches the active document's file and reloads it on the
// loop when it changes.
func (v *Viewer) startWatcher() (func(), error) {
	doc := v.session.Documents().Active()
	if doc == nil || doc.IsScratch() {
		return func() {}, nil
	}

	w, err := watcher.New(func(ev watcher.Event) {
		_ = v.Post(func() { v.reload(doc, ev) })
	}, watcher.WithLogger(v.logger))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(doc.Path); err != nil {
		_ = w.Close()
		return nil, err
	}
	return func() { _ = w.Close() }, nil
}

func (v *Viewer) reload(doc *Document, ev watcher.Event) {
	switch {
	case ev.Removed() && !ev.Changed():
		v.view.SetStatus(doc.Name+" was removed", true)
	case ev.Changed():
		if err := doc.Reload(); err != nil {
			v.logger.Warn("reload failed", zap.Error(err))
			v.view.SetStatus(err.Error(), true)
			return
		}
		v.logger.Info("reloaded", zap.String("path", doc.Path))
		v.view.SetStatus("reloaded "+doc.Name, false)
	}
}
