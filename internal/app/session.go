// Package app ties the fold controller to an editor session.
//
// A Session owns the documents, the notification hub, the fold controller
// and the command dispatcher for one editing session. Activate registers the
// fold commands and schedules the quiet startup fold; Deactivate removes them
// again. The Viewer runs a Session inside a terminal event loop.
package app

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/cubicfold/internal/config"
	"github.com/dshills/cubicfold/internal/dispatcher"
	"github.com/dshills/cubicfold/internal/dispatcher/execctx"
	"github.com/dshills/cubicfold/internal/dispatcher/handler"
	cursorhandler "github.com/dshills/cubicfold/internal/dispatcher/handlers/cursor"
	foldhandler "github.com/dshills/cubicfold/internal/dispatcher/handlers/fold"
	"github.com/dshills/cubicfold/internal/engine"
	"github.com/dshills/cubicfold/internal/fold"
	"github.com/dshills/cubicfold/internal/input"
	"github.com/dshills/cubicfold/internal/notify"
	"github.com/dshills/cubicfold/internal/section"
)

// NotificationSource tags notifications raised by a session.
const NotificationSource = "cubic-folds"

// Scheduler runs fn once after delay. The returned function cancels the
// call if it has not run yet.
type Scheduler func(delay time.Duration, fn func()) (stop func())

// TimerScheduler schedules fn on its own goroutine with time.AfterFunc.
// The session serializes the startup fold with Dispatch, so the callback
// never touches the engine while a command runs.
func TimerScheduler(delay time.Duration, fn func()) func() {
	t := time.AfterFunc(delay, fn)
	return func() { t.Stop() }
}

// Option configures a Session.
type Option func(*Session)

// WithConfig sets the configuration. The default is config.Default().
func WithConfig(cfg *config.Config) Option {
	return func(s *Session) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithScheduler sets the scheduler used for the startup fold.
func WithScheduler(scheduler Scheduler) Option {
	return func(s *Session) {
		if scheduler != nil {
			s.scheduler = scheduler
		}
	}
}

// WithHub sets the notification hub.
func WithHub(hub *notify.Hub) Option {
	return func(s *Session) {
		s.hub = hub
	}
}

// Session is one editing session.
type Session struct {
	mu sync.Mutex
	// cmdMu serializes everything that reads or writes the active engine
	// through the dispatcher or the controller.
	cmdMu sync.Mutex

	id         string
	cfg        *config.Config
	logger     *zap.Logger
	hub        *notify.Hub
	documents  *DocumentManager
	controller *fold.Controller
	dispatcher *dispatcher.Dispatcher
	scheduler  Scheduler

	active bool
	// generation changes on every Activate and Deactivate so that a
	// scheduled startup fold from an earlier activation does nothing.
	generation  uint64
	stopStartup func()
}

// NewSession creates an inactive session.
func NewSession(opts ...Option) (*Session, error) {
	s := &Session{
		id:        uuid.NewString(),
		cfg:       config.Default(),
		logger:    zap.NewNop(),
		scheduler: TimerScheduler,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	marker, err := s.cfg.MarkerFunc()
	if err != nil {
		return nil, err
	}

	s.logger = s.logger.Named("session").With(zap.String("session", s.id))
	if s.hub == nil {
		s.hub = notify.New(notify.WithSource(NotificationSource))
	}
	s.documents = NewDocumentManager()
	s.controller = fold.NewController(s, s.hub,
		fold.WithMarker(marker),
		fold.WithColumnOffset(s.cfg.Fold.ColumnOffset),
		fold.WithLogger(s.logger),
	)
	s.dispatcher = dispatcher.New(dispatcher.WithLogger(s.logger))
	trace := dispatcher.NewTraceHook(s.logger.Named("trace"))
	s.dispatcher.RegisterPreHook(trace)
	s.dispatcher.RegisterPostHook(trace)

	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Config returns the session configuration.
func (s *Session) Config() *config.Config { return s.cfg }

// Logger returns the session logger.
func (s *Session) Logger() *zap.Logger { return s.logger }

// Hub returns the notification hub.
func (s *Session) Hub() *notify.Hub { return s.hub }

// Documents returns the document manager.
func (s *Session) Documents() *DocumentManager { return s.documents }

// Controller returns the fold controller.
func (s *Session) Controller() *fold.Controller { return s.controller }

// Dispatcher returns the command dispatcher.
func (s *Session) Dispatcher() *dispatcher.Dispatcher { return s.dispatcher }

// ActiveBuffer returns the engine of the active document, or nil.
func (s *Session) ActiveBuffer() fold.Buffer {
	if e := s.activeEngine(); e != nil {
		return e
	}
	return nil
}

// ActiveEngine returns the engine of the active document, or nil.
func (s *Session) ActiveEngine() *engine.Engine {
	return s.activeEngine()
}

func (s *Session) activeEngine() *engine.Engine {
	doc := s.documents.Active()
	if doc == nil {
		return nil
	}
	return doc.Engine
}

// SetRenderer sets the renderer that command results redraw.
func (s *Session) SetRenderer(r execctx.ViewUpdater) {
	s.dispatcher.SetRenderer(r)
}

// IsActive reports whether the fold commands are registered.
func (s *Session) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Activate registers the fold commands and, when configured, schedules a
// quiet fold of every section.
func (s *Session) Activate() error {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return ErrAlreadyActive
	}

	folds := foldhandler.NewHandler()
	s.dispatcher.RegisterNamespace(folds)
	s.dispatcher.RegisterNamespace(cursorhandler.NewHandler())
	for _, name := range commandNames() {
		s.dispatcher.RegisterHandler(name, folds.Alias(name))
	}
	s.dispatcher.SetFolds(s.controller)
	s.dispatcher.SetCursor(activeCursor{s: s})

	s.active = true
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	s.logger.Info("session activated")

	if !s.cfg.Fold.FoldOnStartup {
		return nil
	}
	delay, err := s.cfg.StartupDelay()
	if err != nil {
		return err
	}

	stop := s.scheduler(delay, func() { s.startupFold(gen) })

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == gen {
		s.stopStartup = stop
	} else {
		stop()
	}
	return nil
}

// Deactivate unregisters the fold commands and cancels a pending startup
// fold.
func (s *Session) Deactivate() error {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return ErrNotActive
	}

	s.active = false
	s.generation++
	stop := s.stopStartup
	s.stopStartup = nil

	s.dispatcher.UnregisterNamespace(foldhandler.NewHandler().Namespace())
	s.dispatcher.UnregisterNamespace(cursorhandler.Namespace)
	for _, name := range commandNames() {
		s.dispatcher.UnregisterHandler(name)
	}
	s.dispatcher.SetFolds(nil)
	s.dispatcher.SetCursor(nil)
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
	s.logger.Info("session deactivated")
	return nil
}

// Close deactivates the session if needed, logs the dispatch statistics
// and closes the hub.
func (s *Session) Close() {
	if s.IsActive() {
		_ = s.Deactivate()
	}
	if m := s.dispatcher.Metrics(); m != nil {
		m.Log(s.logger)
	}
	s.hub.Close()
}

// startupFold runs the quiet fold scheduled by Activate.
func (s *Session) startupFold(gen uint64) {
	s.mu.Lock()
	current := s.active && s.generation == gen
	s.mu.Unlock()
	if !current {
		s.logger.Debug("startup fold skipped")
		return
	}

	action := input.NewAction(foldhandler.ActionFoldAll, input.SourceStartup).
		WithArg(foldhandler.ArgQuiet, true)
	result := s.Dispatch(action)
	s.logger.Debug("startup fold", zap.Stringer("status", result.Status))
}

// Dispatch runs an action through the session dispatcher.
func (s *Session) Dispatch(action input.Action) handler.Result {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()
	return s.dispatcher.Dispatch(action)
}

// DispatchName runs a command or action by name.
func (s *Session) DispatchName(name string) handler.Result {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()
	return s.dispatcher.DispatchName(name, input.SourceCommand)
}

// Sections scans the active document at the cursor row.
func (s *Session) Sections() (section.Result, error) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()
	return s.controller.Sections()
}

// commandNames returns the fold command names in a stable order.
func commandNames() []string {
	names := make([]string, 0, len(foldhandler.Commands))
	for name := range foldhandler.Commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// activeCursor forwards cursor commands to the active document.
type activeCursor struct {
	s *Session
}

func (c activeCursor) CursorRow() int {
	if e := c.s.activeEngine(); e != nil {
		return e.CursorRow()
	}
	return 0
}

func (c activeCursor) SetCursorRow(row int) {
	if e := c.s.activeEngine(); e != nil {
		e.SetCursorRow(row)
	}
}

func (c activeCursor) MoveCursorVisible(delta int) {
	if e := c.s.activeEngine(); e != nil {
		e.MoveCursorVisible(delta)
	}
}

func (c activeCursor) LineCount() int {
	if e := c.s.activeEngine(); e != nil {
		return e.LineCount()
	}
	return 0
}
