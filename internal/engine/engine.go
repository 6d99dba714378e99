package engine

import (
	"fmt"
	"os"

	"github.com/dshills/cubicfold/internal/engine/buffer"
	"github.com/dshills/cubicfold/internal/engine/cursor"
	"github.com/dshills/cubicfold/internal/engine/folds"
)

// Re-export commonly used types for convenience.
type (
	// Point represents a row/column position.
	Point = buffer.Point

	// Selection represents a cursor selection.
	Selection = cursor.Selection

	// Fold is a collapsed row range.
	Fold = folds.Fold
)

// Engine is a foldable text buffer with a primary cursor.
type Engine struct {
	buf    *buffer.Buffer
	cursor *cursor.Cursor
	folds  *folds.Set
	path   string
}

func newEngine(buf *buffer.Buffer, cfg config) *Engine {
	return &Engine{
		buf:    buf,
		cursor: cursor.New(),
		folds:  folds.New(),
		path:   cfg.path,
	}
}

func applyOptions(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// New creates an empty engine.
func New(opts ...Option) *Engine {
	cfg := applyOptions(opts)
	return newEngine(buffer.NewBuffer(cfg.bufferOpts...), cfg)
}

// NewFromString creates an engine holding text.
func NewFromString(text string, opts ...Option) *Engine {
	cfg := applyOptions(opts)
	return newEngine(buffer.NewBufferFromString(text, cfg.bufferOpts...), cfg)
}

// Open reads a file into a new engine.
func Open(path string, opts ...Option) (*Engine, error) {
	cfg := applyOptions(append([]Option{WithPath(path)}, opts...))
	buf, err := buffer.NewBufferFromFile(path, cfg.bufferOpts...)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return newEngine(buf, cfg), nil
}

// Path returns the file the engine was opened from, if any.
func (e *Engine) Path() string {
	return e.path
}

// Buffer returns the underlying buffer.
func (e *Engine) Buffer() *buffer.Buffer {
	return e.buf
}

// Text returns the full buffer content.
func (e *Engine) Text() string {
	return e.buf.Text()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	return e.buf.LineCount()
}

// LineText returns the text of row.
func (e *Engine) LineText(row int) string {
	return e.buf.LineText(row)
}

// Reload replaces the content, keeping folds and the cursor in bounds.
func (e *Engine) Reload(text string) {
	e.buf.SetText(text)
	e.folds.Clamp(e.buf.LineCount())
	e.cursor.MoveTo(e.buf.ClampPoint(e.cursor.Position()))
}

// ReloadFile re-reads the engine's file from disk.
func (e *Engine) ReloadFile() error {
	if e.path == "" {
		return ErrNoPath
	}
	data, err := os.ReadFile(e.path)
	if err != nil {
		return fmt.Errorf("reloading %s: %w", e.path, err)
	}
	e.Reload(string(data))
	return nil
}

// Cursor operations

// CursorRow returns the row of the primary cursor.
func (e *Engine) CursorRow() int {
	return e.cursor.Row()
}

// CursorPosition returns the primary cursor position.
func (e *Engine) CursorPosition() Point {
	return e.cursor.Position()
}

// Selection returns the current selection.
func (e *Engine) Selection() Selection {
	return e.cursor.Selection()
}

// SetCursorRow moves the cursor to column 0 of row and clears the selection.
func (e *Engine) SetCursorRow(row int) {
	e.cursor.MoveTo(e.buf.ClampPoint(Point{Row: row}))
}

// SelectRowRange selects from (startRow, column) to (endRow, column).
// Columns past the end of a line are clamped to the line length.
func (e *Engine) SelectRowRange(startRow, endRow, column int) {
	anchor := e.buf.ClampPoint(Point{Row: startRow, Column: column})
	head := e.buf.ClampPoint(Point{Row: endRow, Column: column})
	e.cursor.Select(anchor, head)
}

// MoveCursorVisible moves the cursor delta visible rows up or down.
func (e *Engine) MoveCursorVisible(delta int) {
	rows := e.VisibleRows()
	if len(rows) == 0 {
		return
	}

	current := 0
	cursorRow := e.cursor.Row()
	for i, row := range rows {
		if row <= cursorRow {
			current = i
		}
	}

	next := current + delta
	if next < 0 {
		next = 0
	}
	if next >= len(rows) {
		next = len(rows) - 1
	}
	e.SetCursorRow(rows[next])
}

// Fold operations

// FoldSelection folds the selected rows, or the indentation block under the
// cursor when the selection is empty. The cursor moves to the fold start.
func (e *Engine) FoldSelection() {
	sel := e.cursor.Selection()
	if sel.IsEmpty() {
		e.FoldRow(sel.Head.Row)
		return
	}

	start, end := sel.Start(), sel.End()
	e.folds.Add(folds.Fold{Start: start.Row, End: end.Row, Column: start.Column})
	e.cursor.MoveTo(start)
}

// FoldRow folds the rows indented deeper than row that follow it.
// Blank rows inside the block are included.
func (e *Engine) FoldRow(row int) {
	if row < 0 || row >= e.buf.LineCount() {
		return
	}

	base := e.buf.Indent(row)
	end := row
	for r := row + 1; r < e.buf.LineCount(); r++ {
		if e.buf.IsBlank(r) {
			continue
		}
		if e.buf.Indent(r) <= base {
			break
		}
		end = r
	}

	if end > row {
		e.folds.Add(folds.Fold{Start: row, End: end, Column: e.buf.LineLen(row)})
	}
}

// UnfoldRow removes every fold covering row.
func (e *Engine) UnfoldRow(row int) {
	e.folds.RemoveAt(row)
}

// IsFoldedAt reports whether row is covered by a fold.
func (e *Engine) IsFoldedAt(row int) bool {
	return e.folds.IsFolded(row)
}

// FoldStartingAt returns the fold whose first row is row.
func (e *Engine) FoldStartingAt(row int) (Fold, bool) {
	return e.folds.StartingAt(row)
}

// Folds returns the current folds in row order.
func (e *Engine) Folds() []Fold {
	return e.folds.All()
}

// UnfoldAll removes every fold.
func (e *Engine) UnfoldAll() {
	e.folds.Clear()
}

// VisibleRows returns the rows not hidden by a fold.
func (e *Engine) VisibleRows() []int {
	return e.folds.VisibleRows(e.buf.LineCount())
}
