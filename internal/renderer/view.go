package renderer

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/text/width"

	"github.com/dshills/cubicfold/internal/renderer/backend"
	"github.com/dshills/cubicfold/internal/section"
)

// DefaultTabWidth is the number of columns a tab expands to.
const DefaultTabWidth = 4

// Styles holds the styles the view draws with.
type Styles struct {
	Text          tcell.Style
	Gutter        tcell.Style
	GutterCursor  tcell.Style
	Marker        tcell.Style
	Placeholder   tcell.Style
	Status        tcell.Style
	StatusProblem tcell.Style
}

// DefaultStyles returns the built-in color scheme.
func DefaultStyles() Styles {
	return Styles{
		Text:          tcell.StyleDefault,
		Gutter:        tcell.StyleDefault.Foreground(tcell.ColorGray),
		GutterCursor:  tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
		Marker:        tcell.StyleDefault.Foreground(tcell.ColorTeal),
		Placeholder:   tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true),
		Status:        tcell.StyleDefault.Reverse(true),
		StatusProblem: tcell.StyleDefault.Background(tcell.ColorMaroon).Foreground(tcell.ColorWhite),
	}
}

// ViewOption configures a View.
type ViewOption func(*View)

// WithLineNumbers toggles the line number gutter.
func WithLineNumbers(enabled bool) ViewOption {
	return func(v *View) {
		v.lineNumbers = enabled
	}
}

// WithMarker sets the predicate used to highlight marker rows.
func WithMarker(marker section.MarkerFunc) ViewOption {
	return func(v *View) {
		v.marker = marker
	}
}

// WithStyles replaces the default styles.
func WithStyles(styles Styles) ViewOption {
	return func(v *View) {
		v.styles = styles
	}
}

// WithTabWidth sets the tab expansion width.
func WithTabWidth(n int) ViewOption {
	return func(v *View) {
		if n > 0 {
			v.tabWidth = n
		}
	}
}

// WithViewLogger sets the logger.
func WithViewLogger(logger *zap.Logger) ViewOption {
	return func(v *View) {
		if logger != nil {
			v.logger = logger.Named("view")
		}
	}
}

// View draws a Document onto a backend with a gutter and a status line.
// The bottom row of the screen is the status line.
type View struct {
	mu sync.Mutex

	backend     backend.Backend
	doc         Document
	styles      Styles
	marker      section.MarkerFunc
	lineNumbers bool
	tabWidth    int
	logger      *zap.Logger

	// top is the index of the first drawn line in the layout.
	top int

	status        string
	statusProblem bool
}

// NewView creates a view drawing onto b.
func NewView(b backend.Backend, opts ...ViewOption) *View {
	v := &View{
		backend:     b,
		styles:      DefaultStyles(),
		marker:      section.Substring(section.DefaultMarker),
		lineNumbers: true,
		tabWidth:    DefaultTabWidth,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// SetDocument sets the document to draw and resets scrolling.
func (v *View) SetDocument(doc Document) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.doc = doc
	v.top = 0
}

// SetStatus sets the status line message.
func (v *View) SetStatus(message string, problem bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = message
	v.statusProblem = problem
}

// Status returns the status line message.
func (v *View) Status() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Top returns the index of the first drawn line.
func (v *View) Top() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.top
}

// Reveal scrolls so that the line showing row is on screen.
func (v *View) Reveal(row int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.doc == nil {
		return
	}
	v.reveal(Layout(v.doc, v.marker), row)
}

// Redraw draws the document and status line and flushes the screen.
func (v *View) Redraw() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.backend.Clear()
	w, h := v.backend.Size()
	if w <= 0 || h <= 0 {
		return
	}

	if v.doc == nil {
		v.drawStatus(w, h, "")
		v.backend.HideCursor()
		v.backend.Show()
		return
	}

	lines := Layout(v.doc, v.marker)
	cursorRow := v.doc.CursorRow()
	v.reveal(lines, cursorRow)

	gutter := v.gutterWidth()
	cursorY := -1
	for y := 0; y < v.textHeight(h) && v.top+y < len(lines); y++ {
		line := lines[v.top+y]
		if line.Cursor {
			cursorY = y
		}
		v.drawLine(line, y, w, gutter)
	}

	position := fmt.Sprintf("%d/%d", cursorRow+1, v.doc.LineCount())
	v.drawStatus(w, h, position)

	if cursorY >= 0 {
		v.backend.ShowCursor(gutter, cursorY)
	} else {
		v.backend.HideCursor()
	}
	v.backend.Show()
}

func (v *View) reveal(lines []Line, row int) {
	_, h := v.backend.Size()
	height := v.textHeight(h)
	idx := IndexOfRow(lines, row)
	if idx < 0 || height <= 0 {
		v.top = 0
		return
	}

	top := v.top
	if idx < top {
		top = idx
	}
	if idx >= top+height {
		top = idx - height + 1
	}
	if maxTop := len(lines) - height; top > maxTop {
		top = max(maxTop, 0)
	}
	if top != v.top {
		v.logger.Debug("scrolled", zap.Int("row", row), zap.Int("top", top))
		v.top = top
	}
}

func (v *View) textHeight(h int) int {
	return h - 1
}

func (v *View) gutterWidth() int {
	if !v.lineNumbers || v.doc == nil {
		return 0
	}
	return len(strconv.Itoa(v.doc.LineCount())) + 1
}

func (v *View) drawLine(line Line, y, w, gutter int) {
	if gutter > 0 {
		style := v.styles.Gutter
		if line.Cursor {
			style = v.styles.GutterCursor
		}
		num := fmt.Sprintf("%*d ", gutter-1, line.Row+1)
		v.drawString(0, y, w, num, style)
	}

	style := v.styles.Text
	if line.Marker {
		style = v.styles.Marker
	}
	x := v.drawString(gutter, y, w, v.expandTabs(line.Text), style)

	if line.Folded {
		v.drawString(x, y, w, " "+FoldPlaceholder, v.styles.Placeholder)
	}
}

func (v *View) drawStatus(w, h int, right string) {
	y := h - 1
	style := v.styles.Status
	if v.statusProblem {
		style = v.styles.StatusProblem
	}
	for x := 0; x < w; x++ {
		v.backend.SetCell(x, y, ' ', style)
	}
	v.drawString(1, y, w, v.status, style)
	if right != "" {
		v.drawString(w-len(right)-1, y, w, right, style)
	}
}

// drawString draws s from column x and returns the column after it.
// Drawing stops at the right edge.
func (v *View) drawString(x, y, w int, s string, style tcell.Style) int {
	for _, r := range s {
		rw := RuneWidth(r)
		if x+rw > w {
			break
		}
		v.backend.SetCell(x, y, r, style)
		x += rw
	}
	return x
}

func (v *View) expandTabs(s string) string {
	var out []rune
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := v.tabWidth - col%v.tabWidth
			for i := 0; i < n; i++ {
				out = append(out, ' ')
			}
			col += n
			continue
		}
		out = append(out, r)
		col += RuneWidth(r)
	}
	return string(out)
}

// RuneWidth returns the number of terminal columns r occupies.
func RuneWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}
