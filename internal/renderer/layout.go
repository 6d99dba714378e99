package renderer

import (
	"unicode/utf8"

	"github.com/dshills/cubicfold/internal/engine/folds"
	"github.com/dshills/cubicfold/internal/section"
)

// FoldPlaceholder is drawn after the visible part of a folded row.
const FoldPlaceholder = "⋯"

// Document is the fold-aware text the renderer draws.
// *engine.Engine satisfies it.
type Document interface {
	LineCount() int
	LineText(row int) string
	CursorRow() int
	VisibleRows() []int
	FoldStartingAt(row int) (folds.Fold, bool)
}

// Line is one visible row of a laid out document.
type Line struct {
	// Row is the document row.
	Row int
	// Text is the row text, cut at the fold column when Folded.
	Text string
	// Folded is true when the row starts a fold.
	Folded bool
	// Hidden is the number of rows the fold hides.
	Hidden int
	// Marker is true when the row matches the section marker.
	Marker bool
	// Cursor is true for the cursor row.
	Cursor bool
}

// Layout returns the visible lines of doc in row order. marker may be nil.
func Layout(doc Document, marker section.MarkerFunc) []Line {
	rows := doc.VisibleRows()
	cursorRow := doc.CursorRow()
	lines := make([]Line, 0, len(rows))

	for _, row := range rows {
		text := doc.LineText(row)
		line := Line{
			Row:    row,
			Text:   text,
			Cursor: row == cursorRow,
		}
		if marker != nil {
			line.Marker = marker(text)
		}
		if f, ok := doc.FoldStartingAt(row); ok {
			line.Folded = true
			line.Hidden = f.HiddenRows()
			line.Text = cutAt(text, f.Column)
		}
		lines = append(lines, line)
	}
	return lines
}

// IndexOfRow returns the index of the line showing row. A hidden row maps
// to the fold line that hides it. It returns -1 when lines is empty.
func IndexOfRow(lines []Line, row int) int {
	idx := -1
	for i, l := range lines {
		if l.Row > row {
			break
		}
		idx = i
	}
	if idx < 0 && len(lines) > 0 {
		idx = 0
	}
	return idx
}

// cutAt truncates text to at most column bytes without splitting a rune.
func cutAt(text string, column int) string {
	if column >= len(text) {
		return text
	}
	if column <= 0 {
		return ""
	}
	for column > 0 && !utf8.RuneStart(text[column]) {
		column--
	}
	return text[:column]
}
