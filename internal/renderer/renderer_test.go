package renderer

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cubicfold/internal/engine"
	"github.com/dshills/cubicfold/internal/renderer/backend"
	"github.com/dshills/cubicfold/internal/section"
)

var _ Document = (*engine.Engine)(nil)

const markedText = "a\n///x\nb\n///y\nc"

var defaultMarker = section.Substring(section.DefaultMarker)

// foldedEngine returns markedText with rows 1..3 folded and the cursor on row 1.
func foldedEngine() *engine.Engine {
	e := engine.NewFromString(markedText)
	e.SelectRowRange(1, 3, 200)
	e.FoldSelection()
	return e
}

func numberedEngine(n int) *engine.Engine {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("l%d", i+1)
	}
	return engine.NewFromString(strings.Join(lines, "\n"))
}

func TestLayout(t *testing.T) {
	lines := Layout(foldedEngine(), defaultMarker)

	require.Len(t, lines, 3)
	assert.Equal(t, Line{Row: 0, Text: "a"}, lines[0])
	assert.Equal(t, Line{Row: 1, Text: "///x", Folded: true, Hidden: 2, Marker: true, Cursor: true}, lines[1])
	assert.Equal(t, Line{Row: 4, Text: "c"}, lines[2])
}

func TestLayoutWithoutMarker(t *testing.T) {
	lines := Layout(engine.NewFromString(markedText), nil)
	require.Len(t, lines, 5)
	for _, l := range lines {
		assert.False(t, l.Marker)
	}
	assert.True(t, lines[0].Cursor)
}

func TestLayoutCutsAtFoldColumn(t *testing.T) {
	e := engine.NewFromString("/// long header\nbody\n///")
	e.SelectRowRange(0, 2, 3)
	e.FoldSelection()

	lines := Layout(e, defaultMarker)
	require.Len(t, lines, 1)
	assert.Equal(t, "///", lines[0].Text)
	assert.Equal(t, 2, lines[0].Hidden)
}

func TestCutAt(t *testing.T) {
	tests := []struct {
		text   string
		column int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 2, "he"},
		{"hello", 0, ""},
		{"hello", -1, ""},
		{"héllo", 2, "h"},
		{"héllo", 3, "hé"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cutAt(tt.text, tt.column), "cutAt(%q, %d)", tt.text, tt.column)
	}
}

func TestIndexOfRow(t *testing.T) {
	lines := []Line{{Row: 0}, {Row: 1}, {Row: 4}}

	assert.Equal(t, 0, IndexOfRow(lines, 0))
	assert.Equal(t, 1, IndexOfRow(lines, 2))
	assert.Equal(t, 1, IndexOfRow(lines, 3))
	assert.Equal(t, 2, IndexOfRow(lines, 4))
	assert.Equal(t, 2, IndexOfRow(lines, 9))
	assert.Equal(t, 0, IndexOfRow(lines, -1))
	assert.Equal(t, -1, IndexOfRow(nil, 0))
}

func TestRuneWidth(t *testing.T) {
	assert.Equal(t, 1, RuneWidth('a'))
	assert.Equal(t, 1, RuneWidth('⋯'))
	assert.Equal(t, 2, RuneWidth('世'))
	assert.Equal(t, 2, RuneWidth('Ａ'))
}

// View tests

func newSimView(t *testing.T, w, h int, opts ...ViewOption) (*View, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	term := backend.NewTerminalWithScreen(screen)
	require.NoError(t, term.Init())
	screen.SetSize(w, h)
	t.Cleanup(term.Shutdown)
	return NewView(term, opts...), screen
}

// screenRow returns the text of row y with trailing spaces removed.
// The second column of a wide rune is skipped.
func screenRow(screen tcell.SimulationScreen, y int) string {
	cells, w, _ := screen.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		runes := cells[y*w+x].Runes
		if len(runes) == 0 {
			continue
		}
		sb.WriteRune(runes[0])
		if RuneWidth(runes[0]) == 2 {
			x++
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestViewRedraw(t *testing.T) {
	v, screen := newSimView(t, 20, 5)
	v.SetDocument(numberedEngine(10))
	v.Redraw()

	assert.Equal(t, " 1 l1", screenRow(screen, 0))
	assert.Equal(t, " 4 l4", screenRow(screen, 3))
	assert.Equal(t, "1/10", strings.TrimSpace(screenRow(screen, 4)))

	x, y, visible := screen.GetCursor()
	assert.True(t, visible)
	assert.Equal(t, 3, x)
	assert.Equal(t, 0, y)
}

func TestViewWithoutLineNumbers(t *testing.T) {
	v, screen := newSimView(t, 20, 5, WithLineNumbers(false))
	v.SetDocument(numberedEngine(3))
	v.Redraw()

	assert.Equal(t, "l1", screenRow(screen, 0))
	assert.Equal(t, "l3", screenRow(screen, 2))
}

func TestViewScrollsToCursor(t *testing.T) {
	v, screen := newSimView(t, 20, 5)
	e := numberedEngine(10)
	v.SetDocument(e)

	e.SetCursorRow(9)
	v.Redraw()
	assert.Equal(t, 6, v.Top())
	assert.Equal(t, " 7 l7", screenRow(screen, 0))
	assert.Equal(t, "10 l10", screenRow(screen, 3))

	e.SetCursorRow(2)
	v.Redraw()
	assert.Equal(t, 2, v.Top())
	assert.Equal(t, " 3 l3", screenRow(screen, 0))
}

func TestViewReveal(t *testing.T) {
	v, _ := newSimView(t, 20, 5)
	v.Reveal(5)
	assert.Equal(t, 0, v.Top())

	v.SetDocument(numberedEngine(10))
	v.Reveal(5)
	assert.Equal(t, 2, v.Top())
	v.Reveal(0)
	assert.Equal(t, 0, v.Top())
}

func TestViewFoldPlaceholder(t *testing.T) {
	v, screen := newSimView(t, 20, 5)
	v.SetDocument(foldedEngine())
	v.Redraw()

	assert.Equal(t, "1 a", screenRow(screen, 0))
	assert.Equal(t, "2 ///x "+FoldPlaceholder, screenRow(screen, 1))
	assert.Equal(t, "5 c", screenRow(screen, 2))

	cells, w, _ := screen.GetContents()
	styles := DefaultStyles()
	assert.Equal(t, styles.Marker, cells[1*w+2].Style)
	assert.Equal(t, styles.Placeholder, cells[1*w+7].Style)
}

func TestViewStatus(t *testing.T) {
	v, screen := newSimView(t, 30, 4)
	v.SetDocument(numberedEngine(2))

	v.SetStatus("Fold marker(s) missing!", true)
	v.Redraw()
	assert.Equal(t, "Fold marker(s) missing!", v.Status())
	assert.Contains(t, screenRow(screen, 3), "Fold marker(s) missing!")

	cells, w, _ := screen.GetContents()
	assert.Equal(t, DefaultStyles().StatusProblem, cells[3*w].Style)

	v.SetStatus("", false)
	v.Redraw()
	cells, w, _ = screen.GetContents()
	assert.Equal(t, DefaultStyles().Status, cells[3*w].Style)
}

func TestViewWideRunesAndTabs(t *testing.T) {
	v, screen := newSimView(t, 20, 3, WithLineNumbers(false), WithTabWidth(2))
	v.SetDocument(engine.NewFromString("世界x\n\ty"))
	v.Redraw()

	assert.Equal(t, "世界x", screenRow(screen, 0))
	assert.Equal(t, "  y", screenRow(screen, 1))
}

func TestViewNoDocument(t *testing.T) {
	v, screen := newSimView(t, 10, 3)
	v.SetStatus("ready", false)
	v.Redraw()

	assert.Equal(t, "", screenRow(screen, 0))
	assert.Equal(t, " ready", screenRow(screen, 2))
	_, _, visible := screen.GetCursor()
	assert.False(t, visible)
}

// Text renderer tests

func TestRenderText(t *testing.T) {
	lines := Layout(foldedEngine(), defaultMarker)

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, lines, TextOptions{LineNumbers: true}))
	assert.Equal(t, "  1 a\n> 2 ///x "+FoldPlaceholder+" 2\n  5 c\n", buf.String())

	buf.Reset()
	require.NoError(t, RenderText(&buf, lines, TextOptions{}))
	assert.Equal(t, "  a\n> ///x "+FoldPlaceholder+" 2\n  c\n", buf.String())
}

func TestRenderTextColor(t *testing.T) {
	lines := Layout(foldedEngine(), defaultMarker)

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, lines, TextOptions{LineNumbers: true, Color: true}))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "///x")
}

func TestRenderTextWidthAlignment(t *testing.T) {
	lines := Layout(numberedEngine(10), nil)

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, lines, TextOptions{LineNumbers: true}))
	out := strings.Split(buf.String(), "\n")
	assert.Equal(t, ">  1 l1", out[0])
	assert.Equal(t, "  10 l10", out[9])
}
