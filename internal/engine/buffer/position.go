package buffer

import (
	"cmp"
	"fmt"
	"sync/atomic"
)

// Point is a 0-based row and a byte column within that row.
type Point struct {
	Row    int
	Column int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Row, p.Column)
}

// Compare orders points by row, then column, returning -1, 0 or 1.
func (p Point) Compare(other Point) int {
	if c := cmp.Compare(p.Row, other.Row); c != 0 {
		return c
	}
	return cmp.Compare(p.Column, other.Column)
}

func (p Point) Before(other Point) bool { return p.Compare(other) < 0 }
func (p Point) After(other Point) bool  { return p.Compare(other) > 0 }

// RevisionID identifies one state of a buffer's text. IDs are unique
// across all buffers in the process.
type RevisionID uint64

var lastRevision atomic.Uint64

// NewRevisionID returns a fresh revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(lastRevision.Add(1))
}
