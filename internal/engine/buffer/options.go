package buffer

import "strings"

// Option configures a Buffer.
type Option func(*Buffer)

// WithLineEnding fixes the line ending instead of detecting it from the
// text.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
		b.fixedEnding = true
	}
}

// WithTabWidth sets how many columns a tab counts for in indentation.
// Non-positive widths are ignored.
func WithTabWidth(width int) Option {
	return func(b *Buffer) {
		if width > 0 {
			b.tabWidth = width
		}
	}
}

// DetectLineEnding returns the line ending used most in text. CRLF wins
// ties, then CR. Text without line breaks is LF.
func DetectLineEnding(text string) LineEnding {
	crlf := strings.Count(text, "\r\n")
	cr := strings.Count(text, "\r") - crlf
	lf := strings.Count(text, "\n") - crlf

	switch {
	case crlf > 0 && crlf >= lf && crlf >= cr:
		return LineEndingCRLF
	case cr > 0 && cr >= lf:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}
