package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/cubicfold/internal/config/loader"
	"github.com/dshills/cubicfold/internal/fold"
	"github.com/dshills/cubicfold/internal/section"
)

type mapLoader map[string]any

func (m mapLoader) Load() (map[string]any, error) { return m, nil }

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, section.DefaultMarker, cfg.Fold.Marker)
	assert.Equal(t, fold.DefaultColumnOffset, cfg.Fold.ColumnOffset)
	assert.True(t, cfg.Fold.FoldOnStartup)

	d, err := cfg.StartupDelay()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, d)
}

func TestLoadFromNoSources(t *testing.T) {
	cfg, err := LoadFrom()

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromLayers(t *testing.T) {
	file := mapLoader{
		"fold": map[string]any{"marker": "#region", "column_offset": int64(80)},
		"view": map[string]any{"keys": map[string]any{"t": "fold.toggle"}},
	}
	env := loader.NewEnvLoaderFrom(EnvPrefix, []string{
		"CUBICFOLD_FOLD_COLUMN_OFFSET=100",
		"CUBICFOLD_LOG_LEVEL=debug",
	})

	cfg, err := LoadFrom(file, env)
	require.NoError(t, err)

	assert.Equal(t, "#region", cfg.Fold.Marker)
	assert.Equal(t, 100, cfg.Fold.ColumnOffset, "environment overrides the file")
	assert.True(t, cfg.Fold.FoldOnStartup, "defaults survive the merge")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, map[string]string{"t": "fold.toggle"}, cfg.View.Keys)

	km, err := cfg.Keymap()
	require.NoError(t, err)
	a, ok := km.Lookup("t")
	require.True(t, ok)
	assert.Equal(t, "fold.toggle", a.Name)
	_, ok = km.Lookup("z")
	assert.True(t, ok, "default bindings are kept")
}

func TestLoadTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cubicfold.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[fold]
marker = "^\\s*// ---"
marker_regexp = true
startup_delay = "1s"

[log]
format = "json"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Fold.MarkerRegexp)
	marker, err := cfg.MarkerFunc()
	require.NoError(t, err)
	assert.True(t, marker("  // --- imports"))
	assert.False(t, marker("x // --- no"))

	d, err := cfg.StartupDelay()
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)

	lc, err := cfg.Logging()
	require.NoError(t, err)
	assert.Equal(t, "json", lc.Format)
	assert.Equal(t, zapcore.InfoLevel, lc.Level)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cubicfold.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fold:\n  fold_on_startup: false\nview:\n  line_numbers: false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Fold.FoldOnStartup)
	assert.False(t, cfg.View.LineNumbers)
	assert.Equal(t, section.DefaultMarker, cfg.Fold.Marker)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))

	require.NoError(t, err)
	assert.Equal(t, section.DefaultMarker, cfg.Fold.Marker)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load("cubicfold.ini")

	assert.Error(t, err)
}

func TestLoadParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[fold"), 0o644))

	_, err := Load(path)

	var perr *loader.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty marker", func(c *Config) { c.Fold.Marker = "" }, "fold.marker must not be empty"},
		{"bad regexp", func(c *Config) { c.Fold.Marker = "(["; c.Fold.MarkerRegexp = true }, "fold.marker"},
		{"negative offset", func(c *Config) { c.Fold.ColumnOffset = -1 }, "fold.column_offset"},
		{"bad delay", func(c *Config) { c.Fold.StartupDelay = "soon" }, "fold.startup_delay"},
		{"negative delay", func(c *Config) { c.Fold.StartupDelay = "-1s" }, "fold.startup_delay"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"unknown action", func(c *Config) { c.View.Keys = map[string]string{"x": "editor.save"} }, "view.keys"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateReportsEveryError(t *testing.T) {
	cfg := Default()
	cfg.Fold.Marker = ""
	cfg.Log.Format = "xml"

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fold.marker")
	assert.Contains(t, err.Error(), "log.format")
}

func TestLoadFromRejectsInvalid(t *testing.T) {
	_, err := LoadFrom(mapLoader{"fold": map[string]any{"column_offset": int64(-5)}})

	assert.Error(t, err)
}

func TestEmptyDelayIsZero(t *testing.T) {
	cfg := Default()
	cfg.Fold.StartupDelay = ""

	d, err := cfg.StartupDelay()
	require.NoError(t, err)
	assert.Zero(t, d)
}
