package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/cubicfold/internal/config/loader"
	"github.com/dshills/cubicfold/internal/fold"
	"github.com/dshills/cubicfold/internal/input"
	"github.com/dshills/cubicfold/internal/logging"
	"github.com/dshills/cubicfold/internal/section"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "CUBICFOLD_"

// Config is the complete cubicfold configuration.
type Config struct {
	Fold FoldConfig `yaml:"fold"`
	Log  LogConfig  `yaml:"log"`
	View ViewConfig `yaml:"view"`
}

// FoldConfig configures section discovery and the fold commands.
type FoldConfig struct {
	// Marker is the token that marks a section boundary line.
	Marker string `yaml:"marker"`
	// MarkerRegexp treats Marker as a regular expression.
	MarkerRegexp bool `yaml:"marker_regexp"`
	// ColumnOffset is the column fold selections are anchored at.
	ColumnOffset int `yaml:"column_offset"`
	// FoldOnStartup folds every section shortly after a document opens.
	FoldOnStartup bool `yaml:"fold_on_startup"`
	// StartupDelay is the delay before the startup fold, e.g. "500ms".
	StartupDelay string `yaml:"startup_delay"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ViewConfig configures the terminal viewer.
type ViewConfig struct {
	LineNumbers bool              `yaml:"line_numbers"`
	Keys        map[string]string `yaml:"keys"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Fold: FoldConfig{
			Marker:        section.DefaultMarker,
			ColumnOffset:  fold.DefaultColumnOffset,
			FoldOnStartup: true,
			StartupDelay:  "500ms",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		View: ViewConfig{
			LineNumbers: true,
			Keys:        map[string]string{},
		},
	}
}

// Load builds the configuration from defaults, the file at path (if path is
// not empty) and the process environment.
func Load(path string) (*Config, error) {
	sources := []loader.Loader{}
	if path != "" {
		l, err := loader.ForPath(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, l)
	}
	sources = append(sources, loader.NewEnvLoader(EnvPrefix))
	return LoadFrom(sources...)
}

// LoadFrom builds the configuration from defaults overridden by each source
// in order.
func LoadFrom(sources ...loader.Loader) (*Config, error) {
	merged, err := toMap(Default())
	if err != nil {
		return nil, err
	}
	for _, src := range sources {
		m, err := src.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, m)
	}

	cfg, err := decode(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func toMap(cfg *Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	return loader.ParseYAML("<defaults>", data)
}

// decode converts a merged map into a Config by round-tripping it through
// YAML so the struct tags drive the field mapping.
func decode(m map[string]any) (*Config, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if c.Fold.Marker == "" {
		errs = append(errs, errors.New("fold.marker must not be empty"))
	} else if _, err := c.MarkerFunc(); err != nil {
		errs = append(errs, fmt.Errorf("fold.marker: %w", err))
	}
	if c.Fold.ColumnOffset < 0 {
		errs = append(errs, fmt.Errorf("fold.column_offset must be >= 0, got %d", c.Fold.ColumnOffset))
	}
	if _, err := c.StartupDelay(); err != nil {
		errs = append(errs, fmt.Errorf("fold.startup_delay: %w", err))
	}
	if _, err := c.Logging(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Keymap(); err != nil {
		errs = append(errs, fmt.Errorf("view.keys: %w", err))
	}

	return errors.Join(errs...)
}

// MarkerFunc returns the marker predicate for the configured marker.
func (c *Config) MarkerFunc() (section.MarkerFunc, error) {
	if c.Fold.MarkerRegexp {
		return section.Regexp(c.Fold.Marker)
	}
	return section.Substring(c.Fold.Marker), nil
}

// StartupDelay parses the configured startup delay.
func (c *Config) StartupDelay() (time.Duration, error) {
	if c.Fold.StartupDelay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Fold.StartupDelay)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative delay %s", d)
	}
	return d, nil
}

// Logging returns the logging configuration.
func (c *Config) Logging() (logging.Config, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return logging.Config{}, fmt.Errorf("log.level: %w", err)
	}
	format := strings.ToLower(c.Log.Format)
	if format != logging.FormatConsole && format != logging.FormatJSON {
		return logging.Config{}, fmt.Errorf("log.format must be %q or %q, got %q",
			logging.FormatConsole, logging.FormatJSON, c.Log.Format)
	}
	return logging.Config{Level: level, Format: format, File: c.Log.File}, nil
}

// Keymap returns the default keymap with the configured keys applied.
// Only fold and cursor actions can be bound.
func (c *Config) Keymap() (*input.Keymap, error) {
	for key, action := range c.View.Keys {
		if action == "" {
			continue
		}
		ns, _, _ := strings.Cut(action, ".")
		if ns != "fold" && ns != "cursor" {
			return nil, fmt.Errorf("key %q: unknown action %q", key, action)
		}
	}
	km := input.DefaultKeymap()
	if err := km.Merge(c.View.Keys); err != nil {
		return nil, err
	}
	return km, nil
}
