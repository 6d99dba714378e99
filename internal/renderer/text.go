package renderer

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
)

// TextOptions controls RenderText output.
type TextOptions struct {
	LineNumbers bool
	// Color enables ANSI colors.
	Color bool
}

// textPalette holds per-call color printers so that enabling color for one
// writer does not leak into another.
type textPalette struct {
	gutter      *color.Color
	cursor      *color.Color
	marker      *color.Color
	placeholder *color.Color
}

func newTextPalette(enabled bool) textPalette {
	p := textPalette{
		gutter:      color.New(color.FgHiBlack),
		cursor:      color.New(color.FgYellow, color.Bold),
		marker:      color.New(color.FgCyan),
		placeholder: color.New(color.FgMagenta, color.Bold),
	}
	for _, c := range []*color.Color{p.gutter, p.cursor, p.marker, p.placeholder} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// RenderText writes lines as plain text, one per row. Folded rows end with
// the fold placeholder and the number of hidden rows. The cursor row is
// prefixed with ">".
func RenderText(w io.Writer, lines []Line, opts TextOptions) error {
	p := newTextPalette(opts.Color)

	digits := 0
	for _, l := range lines {
		if n := len(strconv.Itoa(l.Row + 1)); n > digits {
			digits = n
		}
	}

	for _, l := range lines {
		prefix := "  "
		if l.Cursor {
			prefix = p.cursor.Sprint("> ")
		}
		if _, err := io.WriteString(w, prefix); err != nil {
			return err
		}

		if opts.LineNumbers {
			num := fmt.Sprintf("%*d ", digits, l.Row+1)
			if l.Cursor {
				num = p.cursor.Sprint(num)
			} else {
				num = p.gutter.Sprint(num)
			}
			if _, err := io.WriteString(w, num); err != nil {
				return err
			}
		}

		text := l.Text
		if l.Marker {
			text = p.marker.Sprint(text)
		}
		if l.Folded {
			text += p.placeholder.Sprintf(" %s %d", FoldPlaceholder, l.Hidden)
		}
		if _, err := io.WriteString(w, text+"\n"); err != nil {
			return err
		}
	}
	return nil
}
