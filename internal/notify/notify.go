// Package notify delivers user-facing notifications from editor components.
//
// Components report problems through a Notifier (a single Notify(kind,
// message) call) and never talk to a UI directly. The Hub fans each
// notification out to observers: the terminal viewer shows it in the status
// line, the CLI prints it, tests record it.
package notify

import (
	"sort"
	"sync"
	"time"
)

// Kind classifies a notification.
type Kind int

const (
	// KindInfo is an informational message.
	KindInfo Kind = iota

	// KindWarning is a recoverable problem.
	KindWarning

	// KindMarkerValidation reports missing or unpaired fold markers.
	KindMarkerValidation

	// KindError is a failure the user should act on.
	KindError
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInfo:
		return "info"
	case KindWarning:
		return "warning"
	case KindMarkerValidation:
		return "marker-validation"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// IsProblem reports whether the kind needs the user's acknowledgement.
func (k Kind) IsProblem() bool {
	return k == KindMarkerValidation || k == KindError
}

// Notifier is implemented by anything that accepts notifications.
type Notifier interface {
	Notify(kind Kind, message string)
}

// Notification is a delivered notification.
type Notification struct {
	Kind    Kind
	Message string
	Source  string
	Time    time.Time
}

// Observer is called for each delivered notification.
type Observer func(n Notification)

// Subscription represents an active observer subscription.
type Subscription struct {
	id  uint64
	hub *Hub
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.hub != nil {
		s.hub.unsubscribe(s.id)
	}
}

// Hub fans notifications out to observers. It implements Notifier.
type Hub struct {
	mu sync.RWMutex

	source string

	// Observers that receive every notification
	observers map[uint64]Observer

	// Observers that receive a single kind
	kindObservers map[Kind]map[uint64]Observer

	nextID uint64

	async  bool
	buffer chan Notification
	done   chan struct{}
	wg     sync.WaitGroup
	closed bool

	now func() time.Time
}

// Option configures a Hub.
type Option func(*Hub)

// WithAsync enables asynchronous delivery through a buffered channel.
func WithAsync(bufferSize int) Option {
	return func(h *Hub) {
		if bufferSize > 0 {
			h.async = true
			h.buffer = make(chan Notification, bufferSize)
		}
	}
}

// WithSource sets the Source stamped on notifications sent through Notify.
func WithSource(source string) Option {
	return func(h *Hub) {
		h.source = source
	}
}

// New creates a new Hub.
func New(opts ...Option) *Hub {
	h := &Hub{
		observers:     make(map[uint64]Observer),
		kindObservers: make(map[Kind]map[uint64]Observer),
		done:          make(chan struct{}),
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.async {
		h.wg.Add(1)
		go h.processAsync()
	}

	return h
}

// Subscribe registers an observer for all notifications.
func (h *Hub) Subscribe(observer Observer) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.observers[id] = observer

	return &Subscription{id: id, hub: h}
}

// SubscribeKind registers an observer for one kind of notification.
func (h *Hub) SubscribeKind(kind Kind, observer Observer) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	if h.kindObservers[kind] == nil {
		h.kindObservers[kind] = make(map[uint64]Observer)
	}
	h.kindObservers[kind][id] = observer

	return &Subscription{id: id, hub: h}
}

// Notify implements Notifier.
func (h *Hub) Notify(kind Kind, message string) {
	h.Send(Notification{Kind: kind, Message: message, Source: h.source})
}

// Send delivers a notification, stamping its time if unset.
func (h *Hub) Send(n Notification) {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	h.mu.RUnlock()

	if n.Time.IsZero() {
		n.Time = h.now()
	}

	if h.async {
		select {
		case h.buffer <- n:
		case <-h.done:
		}
		return
	}

	h.deliver(n)
}

// Close shuts down the hub. It is safe to call Close multiple times.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.mu.Unlock()

	close(h.done)
	h.wg.Wait()
}

func (h *Hub) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.observers, id)
	for kind, observers := range h.kindObservers {
		delete(observers, id)
		if len(observers) == 0 {
			delete(h.kindObservers, kind)
		}
	}
}

// deliver calls matching observers in subscription order, outside the lock.
func (h *Hub) deliver(n Notification) {
	h.mu.RLock()
	matched := make(map[uint64]Observer, len(h.observers))
	for id, obs := range h.observers {
		matched[id] = obs
	}
	for id, obs := range h.kindObservers[n.Kind] {
		matched[id] = obs
	}
	h.mu.RUnlock()

	ids := make([]uint64, 0, len(matched))
	for id := range matched {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		matched[id](n)
	}
}

func (h *Hub) processAsync() {
	defer h.wg.Done()

	for {
		select {
		case n := <-h.buffer:
			h.deliver(n)
		case <-h.done:
			// Drain what is already buffered
			for {
				select {
				case n := <-h.buffer:
					h.deliver(n)
				default:
					return
				}
			}
		}
	}
}

// Recorder is a Notifier that keeps every notification it receives.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(kind Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, Notification{Kind: kind, Message: message})
}

// Notifications returns a copy of the recorded notifications.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

// Count returns the number of recorded notifications of kind.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rec := range r.notifications {
		if rec.Kind == kind {
			n++
		}
	}
	return n
}

// Reset discards recorded notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = nil
}
