package dispatcher

import "go.uber.org/zap"

// DefaultCountLimit caps the repeat count an action may carry.
const DefaultCountLimit = 10000

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. The dispatcher logs under the "dispatcher" name.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger.Named("dispatcher")
		}
	}
}

// WithMetrics turns dispatch statistics on or off. They are on by default.
func WithMetrics(enabled bool) Option {
	return func(d *Dispatcher) {
		if enabled {
			d.metrics = NewMetrics()
		} else {
			d.metrics = nil
		}
	}
}

// WithPanicRecovery controls whether a panicking handler becomes an error
// result. Recovery is on by default.
func WithPanicRecovery(recover bool) Option {
	return func(d *Dispatcher) {
		d.recoverPanics = recover
	}
}

// WithCountLimit caps action repeat counts at n. Zero removes the cap.
func WithCountLimit(n int) Option {
	return func(d *Dispatcher) {
		d.countLimit = n
	}
}
