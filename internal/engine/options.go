package engine

import "github.com/dshills/cubicfold/internal/engine/buffer"

// Option configures an Engine.
type Option func(*config)

type config struct {
	path       string
	bufferOpts []buffer.Option
}

// WithPath records the file the engine content came from.
func WithPath(path string) Option {
	return func(c *config) {
		c.path = path
	}
}

// WithTabWidth sets the tab width used for indentation folds.
func WithTabWidth(width int) Option {
	return func(c *config) {
		c.bufferOpts = append(c.bufferOpts, buffer.WithTabWidth(width))
	}
}

// WithLineEnding forces the line ending used when writing text back.
func WithLineEnding(le buffer.LineEnding) Option {
	return func(c *config) {
		c.bufferOpts = append(c.bufferOpts, buffer.WithLineEnding(le))
	}
}
