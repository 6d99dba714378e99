package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const sectioned = "intro\n/// one\na\n/// end\n/// two\nb\n/// end"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the root command and returns what it wrote to stdout and
// stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "cubicfold", cmd.Use)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"scan", "render", "run", "view", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootHelp(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "marker lines")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "cubicfold dev"))
}

func TestScanText(t *testing.T) {
	path := writeFile(t, "doc.txt", sectioned)

	out, _, err := execute(t, "scan", path, "--row", "5", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "status: valid\n")
	assert.Contains(t, out, " * 2: rows 4-6")
	assert.Contains(t, out, "markers: 1, 3, 4, 6\n")
}

func TestScanJSON(t *testing.T) {
	path := writeFile(t, "doc.txt", sectioned)

	out, _, err := execute(t, "scan", path, "--format", "json")
	require.NoError(t, err)
	require.True(t, gjson.Valid(out), out)
	assert.True(t, gjson.Get(out, "valid").Bool())
	assert.Equal(t, int64(2), gjson.Get(out, "sections.#").Int())
	assert.Equal(t, int64(0), gjson.Get(out, "current").Int())
}

func TestScanInvalid(t *testing.T) {
	path := writeFile(t, "bad.txt", "a\n///\nb\n")

	out, _, err := execute(t, "scan", path, "-f", "yaml")
	assert.ErrorIs(t, err, ErrInvalidSections)
	assert.True(t, Silent(err))
	assert.Contains(t, out, "valid: false")
}

func TestScanErrors(t *testing.T) {
	path := writeFile(t, "doc.txt", sectioned)

	_, _, err := execute(t, "scan", path, "--format", "xml")
	assert.Error(t, err)
	assert.False(t, Silent(err))

	_, _, err = execute(t, "scan", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	_, _, err = execute(t, "scan")
	assert.Error(t, err)
}

func TestScanCustomMarker(t *testing.T) {
	path := writeFile(t, "doc.txt", "a\n#--\nb\n#--\n")
	cfg := writeFile(t, "cubicfold.toml", "[fold]\nmarker = \"#--\"\n")

	out, _, err := execute(t, "--config", cfg, "scan", path, "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "sections: 1")
}

func TestRenderFoldAll(t *testing.T) {
	path := writeFile(t, "doc.txt", sectioned)

	out, _, err := execute(t, "render", path, "--op", "fold-all", "--color", "never")
	require.NoError(t, err)
	want := "> 1 intro\n" +
		"  2 /// one ⋯ 2\n" +
		"  5 /// two ⋯ 2\n"
	assert.Equal(t, want, out)
}

func TestRenderOpsInOrder(t *testing.T) {
	path := writeFile(t, "doc.txt", sectioned)

	out, _, err := execute(t, "render", path,
		"--row", "5", "--op", "toggle", "--numbers=false", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "/// two ⋯ 2\n")
	assert.NotContains(t, out, "/// one ⋯")

	out, _, err = execute(t, "render", path, "--op", "fold-all,toggle-all", "--color", "never")
	require.NoError(t, err)
	assert.NotContains(t, out, "⋯")

	out, _, err = execute(t, "render", path, "--op", "fold.foldAll", "--op", "unfold-markers", "--color", "never")
	require.NoError(t, err)
	assert.NotContains(t, out, "⋯")
}

func TestRenderReportsMarkerProblem(t *testing.T) {
	path := writeFile(t, "bad.txt", "a\n///\nb\n")

	out, errOut, err := execute(t, "render", path, "--op", "fold-all", "--color", "never")
	require.NoError(t, err)
	assert.Equal(t, "fold-all: Fold marker(s) missing!\n", errOut)
	assert.Contains(t, out, "///")
}

func TestCommandName(t *testing.T) {
	assert.Equal(t, "cubic-folds:toggleFold-this", commandName("toggle"))
	assert.Equal(t, "fold.unfoldMarkers", commandName("unfold-markers"))
	assert.Equal(t, "fold.foldAll", commandName("fold.foldAll"))
	assert.Equal(t, "cubic-folds:fold-all", commandName("cubic-folds:fold-all"))
	assert.Equal(t, "cubic-folds:toggleFold-all", commandName("toggleFold-all"))
}

func TestRunScript(t *testing.T) {
	path := writeFile(t, "doc.txt", sectioned)
	script := writeFile(t, "script.lua", `
		assert(fold.fold_all())
		local secs = fold.sections()
		print(#secs, secs.valid)
		print(fold.is_folded(3), fold.line(2))
	`)

	out, _, err := execute(t, "run", path, script, "--show", "--color", "never")
	require.NoError(t, err)
	want := "2\ttrue\n" +
		"true\t/// one\n" +
		"> 1 intro\n" +
		"  2 /// one ⋯ 2\n" +
		"  5 /// two ⋯ 2\n"
	assert.Equal(t, want, out)
}

func TestRunScriptError(t *testing.T) {
	path := writeFile(t, "doc.txt", sectioned)
	script := writeFile(t, "script.lua", `error("stop here")`)

	_, _, err := execute(t, "run", path, script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stop here")
}

func TestRunScriptTimeout(t *testing.T) {
	path := writeFile(t, "doc.txt", sectioned)
	script := writeFile(t, "loop.lua", `while true do end`)

	_, _, err := execute(t, "run", path, script, "--timeout", "50ms")
	assert.ErrorContains(t, err, "timeout")
}

func TestViewMissingFile(t *testing.T) {
	_, _, err := execute(t, "view", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
