// Package report describes the section structure of a document in text,
// JSON or YAML form.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"

	"github.com/dshills/cubicfold/internal/section"
)

// Format selects the report encoding.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat parses a format name. The empty string selects text.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (use text, json or yaml)", ErrUnknownFormat, name)
	}
}

// Section is a section with 0-based rows.
type Section struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Report is the outcome of scanning one document.
type Report struct {
	File     string    `yaml:"file"`
	Lines    int       `yaml:"lines"`
	Row      int       `yaml:"row"`
	Valid    bool      `yaml:"valid"`
	Current  int       `yaml:"current"`
	Sections []Section `yaml:"sections"`
	Markers  []int     `yaml:"markers"`
}

// New scans doc with scanner, using row as the reference row.
func New(file string, doc section.Lines, scanner *section.Scanner, row int) Report {
	res := scanner.Scan(doc, row)

	r := Report{
		File:     file,
		Lines:    doc.LineCount(),
		Row:      row,
		Valid:    res.Valid,
		Current:  res.Current,
		Sections: make([]Section, 0, len(res.Sections)),
		Markers:  scanner.Markers(doc),
	}
	if r.Markers == nil {
		r.Markers = []int{}
	}
	for _, s := range res.Sections {
		r.Sections = append(r.Sections, Section{Start: s.Start, End: s.End})
	}
	return r
}

// Options control text output.
type Options struct {
	// Color highlights the status in text output.
	Color bool
}

// Write encodes r to w in the given format.
func Write(w io.Writer, r Report, format Format, opts Options) error {
	switch format {
	case FormatText, "":
		return writeText(w, r, opts)
	case FormatJSON:
		return writeJSON(w, r)
	case FormatYAML:
		return writeYAML(w, r)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

func writeText(w io.Writer, r Report, opts Options) error {
	valid := color.New(color.FgGreen, color.Bold)
	invalid := color.New(color.FgRed, color.Bold)
	dim := color.New(color.Faint)
	for _, c := range []*color.Color{valid, invalid, dim} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	status := valid.Sprint("valid")
	if !r.Valid {
		status = invalid.Sprint("invalid")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "file: %s\n", r.File)
	fmt.Fprintf(&b, "lines: %d\n", r.Lines)
	fmt.Fprintf(&b, "status: %s\n", status)
	fmt.Fprintf(&b, "sections: %d", len(r.Sections))
	if r.Current > 0 {
		fmt.Fprintf(&b, " (current %d at row %d)", r.Current, r.Row)
	}
	b.WriteByte('\n')
	for i, s := range r.Sections {
		mark := " "
		if i+1 == r.Current {
			mark = "*"
		}
		fmt.Fprintf(&b, " %s %d: rows %d-%d %s\n", mark, i+1, s.Start, s.End,
			dim.Sprintf("(%d lines)", s.End-s.Start+1))
	}
	fmt.Fprintf(&b, "markers: %s\n", joinInts(r.Markers))

	_, err := io.WriteString(w, b.String())
	return err
}

func joinInts(values []int) string {
	if len(values) == 0 {
		return "none"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}

// writeJSON builds the document field by field so the key order is fixed.
func writeJSON(w io.Writer, r Report) error {
	doc := "{}"
	set := func(path string, value any) error {
		var err error
		doc, err = sjson.Set(doc, path, value)
		return err
	}
	setRaw := func(path, raw string) error {
		var err error
		doc, err = sjson.SetRaw(doc, path, raw)
		return err
	}

	steps := []func() error{
		func() error { return set("file", r.File) },
		func() error { return set("lines", r.Lines) },
		func() error { return set("row", r.Row) },
		func() error { return set("valid", r.Valid) },
		func() error { return set("current", r.Current) },
		func() error { return setRaw("sections", "[]") },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
	}

	for _, s := range r.Sections {
		obj, err := sjson.Set("{}", "start", s.Start)
		if err == nil {
			obj, err = sjson.Set(obj, "end", s.End)
		}
		if err == nil {
			err = setRaw("sections.-1", obj)
		}
		if err != nil {
			return fmt.Errorf("encode section: %w", err)
		}
	}

	if err := setRaw("markers", "[]"); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	for _, row := range r.Markers {
		if err := set("markers.-1", row); err != nil {
			return fmt.Errorf("encode marker: %w", err)
		}
	}

	_, err := w.Write(pretty.Pretty([]byte(doc)))
	return err
}

func writeYAML(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}
