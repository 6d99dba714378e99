package cursor

import "github.com/dshills/cubicfold/internal/engine/buffer"

// Point is an alias for buffer.Point for convenience.
type Point = buffer.Point

// Selection represents a range of selected text.
type Selection struct {
	Anchor Point
	Head   Point
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head Point) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// NewCursorSelection creates a selection representing just a cursor.
func NewCursorSelection(p Point) Selection {
	return Selection{Anchor: p, Head: p}
}

// IsEmpty returns true if the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Start returns the lower bound of the selection.
func (s Selection) Start() Point {
	if s.Anchor.Before(s.Head) {
		return s.Anchor
	}
	return s.Head
}

// End returns the upper bound of the selection.
func (s Selection) End() Point {
	if s.Anchor.After(s.Head) {
		return s.Anchor
	}
	return s.Head
}

// IsForward returns true if the head is at or after the anchor.
func (s Selection) IsForward() bool {
	return !s.Head.Before(s.Anchor)
}

// Rows returns the first and last row touched by the selection.
func (s Selection) Rows() (first, last int) {
	return s.Start().Row, s.End().Row
}

// Collapse returns an empty selection at the head.
func (s Selection) Collapse() Selection {
	return NewCursorSelection(s.Head)
}

// CollapseToStart returns an empty selection at the lower bound.
func (s Selection) CollapseToStart() Selection {
	return NewCursorSelection(s.Start())
}
