package buffer

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrRowOutOfRange = errors.New("row out of range")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the escaped representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer is a line-oriented text document.
type Buffer struct {
	mu          sync.RWMutex
	lines       []string
	revisionID  RevisionID
	lineEnding  LineEnding
	fixedEnding bool
	tabWidth    int
}

// NewBuffer creates a new buffer holding a single empty line.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lines:      []string{""},
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
		tabWidth:   4,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
// Unless a line ending option is given, the ending is detected from s.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.setText(s)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	// Read everything first so CRLF pairs are never split across reads
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

// NewBufferFromFile reads a file into a new buffer.
func NewBufferFromFile(path string, opts ...Option) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

// splitLines splits text on any line ending.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

func (b *Buffer) setText(s string) {
	if !b.fixedEnding {
		b.lineEnding = DetectLineEnding(s)
	}
	b.lines = splitLines(s)
	b.revisionID = NewRevisionID()
}

// SetText replaces the whole content of the buffer.
func (b *Buffer) SetText(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setText(s)
}

// Text returns the full content joined with the buffer's line ending.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, b.lineEnding.Sequence())
}

// LineCount returns the number of lines. A buffer always has at least one.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// LineText returns the text of row without its line ending.
// Rows outside the buffer return "".
func (b *Buffer) LineText(row int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if row < 0 || row >= len(b.lines) {
		return ""
	}
	return b.lines[row]
}

// LineLen returns the length of row in bytes.
func (b *Buffer) LineLen(row int) int {
	return len(b.LineText(row))
}

// Lines returns a copy of all lines.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// SetLine replaces the text of a single row.
func (b *Buffer) SetLine(row int, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if row < 0 || row >= len(b.lines) {
		return ErrRowOutOfRange
	}
	b.lines[row] = text
	b.revisionID = NewRevisionID()
	return nil
}

// ClampPoint clamps p to a valid position in the buffer.
func (b *Buffer) ClampPoint(p Point) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if p.Row < 0 {
		p.Row = 0
	}
	if p.Row >= len(b.lines) {
		p.Row = len(b.lines) - 1
	}
	if p.Column < 0 {
		p.Column = 0
	}
	if n := len(b.lines[p.Row]); p.Column > n {
		p.Column = n
	}
	return p
}

// Indent returns the indentation width of row, expanding tabs.
func (b *Buffer) Indent(row int) int {
	text := b.LineText(row)
	b.mu.RLock()
	tab := b.tabWidth
	b.mu.RUnlock()

	width := 0
	for _, r := range text {
		switch r {
		case ' ':
			width++
		case '\t':
			width += tab - width%tab
		default:
			return width
		}
	}
	return width
}

// IsBlank reports whether row holds only whitespace.
func (b *Buffer) IsBlank(row int) bool {
	return strings.TrimSpace(b.LineText(row)) == ""
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// TabWidth returns the tab width used for indentation.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// RevisionID returns the current revision.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}
