package fold

import "github.com/dshills/cubicfold/internal/notify"

// Buffer is the foldable editor buffer the controller operates on.
// Rows are 0-indexed.
type Buffer interface {
	// LineCount returns the number of lines in the buffer.
	LineCount() int

	// LineText returns the text of a row.
	LineText(row int) string

	// CursorRow returns the row of the primary cursor.
	CursorRow() int

	// SetCursorRow moves the primary cursor to a row and clears any selection.
	SetCursorRow(row int)

	// SelectRowRange selects from (startRow, column) to (endRow, column).
	SelectRowRange(startRow, endRow, column int)

	// FoldSelection collapses the current selection.
	FoldSelection()

	// FoldRow collapses the region that starts at row. The controller folds
	// sections through explicit selections and never calls it; buffers use
	// it when FoldSelection runs with an empty selection.
	FoldRow(row int)

	// UnfoldRow expands every fold that covers row.
	UnfoldRow(row int)

	// IsFoldedAt reports whether row lies inside a collapsed region.
	IsFoldedAt(row int) bool
}

// Workspace provides the buffer the user is currently working in.
type Workspace interface {
	// ActiveBuffer returns the focused buffer, or nil if none is open.
	ActiveBuffer() Buffer
}

// WorkspaceFunc adapts a function to Workspace.
type WorkspaceFunc func() Buffer

// ActiveBuffer implements Workspace.
func (f WorkspaceFunc) ActiveBuffer() Buffer {
	return f()
}

// Single returns a Workspace that always reports buf as active.
func Single(buf Buffer) Workspace {
	return WorkspaceFunc(func() Buffer { return buf })
}

// Notifier receives user-facing failure notifications.
type Notifier = notify.Notifier
