package cursor

// Cursor tracks the primary cursor of an editor view.
type Cursor struct {
	sel Selection
}

// New creates a cursor at the start of the document.
func New() *Cursor {
	return &Cursor{}
}

// Selection returns the current selection.
func (c *Cursor) Selection() Selection {
	return c.sel
}

// Set replaces the current selection.
func (c *Cursor) Set(sel Selection) {
	c.sel = sel
}

// HasSelection reports whether the selection has an extent.
func (c *Cursor) HasSelection() bool {
	return !c.sel.IsEmpty()
}

// Position returns the head of the selection.
func (c *Cursor) Position() Point {
	return c.sel.Head
}

// Row returns the row of the cursor head.
func (c *Cursor) Row() int {
	return c.sel.Head.Row
}

// MoveTo moves the cursor to p and clears the selection.
func (c *Cursor) MoveTo(p Point) {
	c.sel = NewCursorSelection(p)
}

// Select sets a selection from anchor to head.
func (c *Cursor) Select(anchor, head Point) {
	c.sel = NewSelection(anchor, head)
}

// ClearSelection collapses the selection to its head.
func (c *Cursor) ClearSelection() {
	c.sel = c.sel.Collapse()
}
