package loader

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlConfig = `
[fold]
marker = "#region"
column_offset = 120

[view.keys]
t = "fold.toggle"
`

const yamlConfig = `
fold:
  marker: "#region"
  column_offset: 120
view:
  keys:
    t: fold.toggle
`

func TestTOMLLoader(t *testing.T) {
	fsys := FSFS{FS: fstest.MapFS{"cubicfold.toml": {Data: []byte(tomlConfig)}}}

	cfg, err := NewTOMLLoaderWithFS(fsys, "cubicfold.toml").Load()
	require.NoError(t, err)

	v, ok := GetByPath(cfg, "fold.marker")
	require.True(t, ok)
	assert.Equal(t, "#region", v)

	v, ok = GetByPath(cfg, "fold.column_offset")
	require.True(t, ok)
	assert.EqualValues(t, 120, v)

	v, ok = GetByPath(cfg, "view.keys.t")
	require.True(t, ok)
	assert.Equal(t, "fold.toggle", v)
}

func TestYAMLLoader(t *testing.T) {
	fsys := FSFS{FS: fstest.MapFS{"cubicfold.yaml": {Data: []byte(yamlConfig)}}}

	cfg, err := NewYAMLLoaderWithFS(fsys, "cubicfold.yaml").Load()
	require.NoError(t, err)

	v, ok := GetByPath(cfg, "fold.column_offset")
	require.True(t, ok)
	assert.EqualValues(t, 120, v)

	v, ok = GetByPath(cfg, "view.keys.t")
	require.True(t, ok)
	assert.Equal(t, "fold.toggle", v)
}

func TestMissingFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()

	cfg, err := NewTOMLLoader(filepath.Join(dir, "missing.toml")).Load()
	assert.NoError(t, err)
	assert.Nil(t, cfg)

	cfg, err = NewYAMLLoaderWithFS(FSFS{FS: fstest.MapFS{}}, "missing.yaml").Load()
	assert.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestTOMLParseError(t *testing.T) {
	_, err := ParseTOML("bad.toml", []byte("[fold\nmarker = 1"))

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "bad.toml", perr.Path)
	assert.Positive(t, perr.Line)
	assert.Contains(t, perr.Error(), "bad.toml")
}

func TestYAMLParseError(t *testing.T) {
	_, err := ParseYAML("bad.yaml", []byte("fold: [unclosed"))

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Error(), "parse error in bad.yaml")
}

func TestParseYAMLEmpty(t *testing.T) {
	cfg, err := ParseYAML("empty.yaml", nil)

	require.NoError(t, err)
	assert.Empty(t, cfg)
}

func TestForPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cubicfold.yml")
	require.NoError(t, os.WriteFile(path, []byte(yamlConfig), 0o644))

	l, err := ForPath(path)
	require.NoError(t, err)
	require.IsType(t, &FileLoader{}, l)
	assert.Equal(t, FormatYAML, l.(*FileLoader).Format())

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Contains(t, cfg, "fold")

	l, err = ForPath("x.TOML")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, l.(*FileLoader).Format())

	_, err = ForPath("x.ini")
	assert.Error(t, err)
}

func TestEnvLoader(t *testing.T) {
	l := NewEnvLoaderFrom("CUBICFOLD_", []string{
		"CUBICFOLD_FOLD_MARKER=#region",
		"CUBICFOLD_FOLD_COLUMN_OFFSET=80",
		"CUBICFOLD_FOLD_FOLD_ON_STARTUP=off",
		"CUBICFOLD_LOG_LEVEL=debug",
		"CUBICFOLD_NOSECTION=1",
		"OTHER_FOLD_MARKER=x",
		"CUBICFOLD_CUSTOM=y",
	})
	l.AddMapping("CUBICFOLD_CUSTOM", "view.custom")

	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"fold": map[string]any{
			"marker":          "#region",
			"column_offset":   int64(80),
			"fold_on_startup": false,
		},
		"log":  map[string]any{"level": "debug"},
		"view": map[string]any{"custom": "y"},
	}, cfg)
}

func TestEnvLoaderReadsProcessEnvironment(t *testing.T) {
	t.Setenv("CUBICFOLDTEST_LOG_FORMAT", "json")

	cfg, err := NewEnvLoader("CUBICFOLDTEST_").Load()
	require.NoError(t, err)

	v, ok := GetByPath(cfg, "log.format")
	require.True(t, ok)
	assert.Equal(t, "json", v)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"Yes", true},
		{"off", false},
		{"42", int64(42)},
		{"1.5", 1.5},
		{"500ms", "500ms"},
		{"///", "///"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseValue(tt.in), tt.in)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"fold": map[string]any{"marker": "///", "column_offset": 200},
		"log":  map[string]any{"level": "info"},
	}
	src := map[string]any{
		"fold": map[string]any{"marker": "#region"},
		"view": map[string]any{"line_numbers": false},
	}

	got := DeepMerge(dst, src)

	assert.Equal(t, map[string]any{
		"fold": map[string]any{"marker": "#region", "column_offset": 200},
		"log":  map[string]any{"level": "info"},
		"view": map[string]any{"line_numbers": false},
	}, got)

	src["view"].(map[string]any)["line_numbers"] = true
	v, _ := GetByPath(got, "view.line_numbers")
	assert.Equal(t, false, v, "merged maps are copies of src maps")

	assert.Equal(t, map[string]any{"a": 1}, DeepMerge(nil, map[string]any{"a": 1}))
}

func TestSetByPath(t *testing.T) {
	m := map[string]any{"fold": "scalar"}

	SetByPath(m, "fold.marker", "x")
	SetByPath(m, "top", 1)

	v, ok := GetByPath(m, "fold.marker")
	require.True(t, ok)
	assert.Equal(t, "x", v)
	assert.Equal(t, 1, m["top"])

	_, ok = GetByPath(m, "fold.marker.deeper")
	assert.False(t, ok)
}
