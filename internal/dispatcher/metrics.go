package dispatcher

import (
	"maps"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/cubicfold/internal/dispatcher/handler"
)

// Stats counts the dispatches of one action name.
type Stats struct {
	Name    string
	Count   uint64
	Errors  uint64
	NoOps   uint64
	Total   time.Duration
	Slowest time.Duration
	Last    handler.ResultStatus
}

// Mean returns the average handling time.
func (s Stats) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

func (s *Stats) add(elapsed time.Duration, status handler.ResultStatus) {
	s.Count++
	s.Total += elapsed
	s.Slowest = max(s.Slowest, elapsed)
	s.Last = status
	switch status {
	case handler.StatusError:
		s.Errors++
	case handler.StatusNoOp:
		s.NoOps++
	}
}

// Metrics collects per-action dispatch statistics.
type Metrics struct {
	mu     sync.Mutex
	byName map[string]*Stats
	total  Stats
	panics uint64
}

// NewMetrics returns an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{byName: make(map[string]*Stats)}
}

// Record adds one dispatch of name.
func (m *Metrics) Record(name string, elapsed time.Duration, status handler.ResultStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.byName[name]
	if s == nil {
		s = &Stats{Name: name}
		m.byName[name] = s
	}
	s.add(elapsed, status)
	m.total.add(elapsed, status)
}

// RecordPanic counts a recovered handler panic.
func (m *Metrics) RecordPanic() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panics++
}

// Panics returns the number of recovered panics.
func (m *Metrics) Panics() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.panics
}

// Totals returns the statistics over all action names.
func (m *Metrics) Totals() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// Stats returns the statistics of one action name.
func (m *Metrics) Stats(name string) (Stats, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byName[name]
	if !ok {
		return Stats{}, false
	}
	return *s, true
}

// Snapshot returns a copy of every action's statistics, sorted by name.
func (m *Metrics) Snapshot() []Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Stats, 0, len(m.byName))
	for _, name := range slices.Sorted(maps.Keys(m.byName)) {
		out = append(out, *m.byName[name])
	}
	return out
}

// Reset forgets everything recorded so far.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.byName)
	m.total = Stats{}
	m.panics = 0
}

// Log writes the totals and one line per action at debug level.
func (m *Metrics) Log(logger *zap.Logger) {
	t := m.Totals()
	logger.Debug("dispatch totals",
		zap.Uint64("count", t.Count),
		zap.Uint64("errors", t.Errors),
		zap.Uint64("panics", m.Panics()),
		zap.Duration("total", t.Total),
	)
	for _, s := range m.Snapshot() {
		logger.Debug("dispatch stats",
			zap.String("action", s.Name),
			zap.Uint64("count", s.Count),
			zap.Uint64("errors", s.Errors),
			zap.Uint64("noops", s.NoOps),
			zap.Duration("mean", s.Mean()),
			zap.Duration("slowest", s.Slowest),
		)
	}
}
