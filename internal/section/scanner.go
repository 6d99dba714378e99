package section

// NoRow is passed as the reference row when no row should be resolved.
const NoRow = -1

// Lines provides read access to a document's lines.
type Lines interface {
	// LineCount returns the number of lines in the document.
	LineCount() int
	// LineText returns the text of a 0-indexed row.
	LineText(row int) string
}

// StringLines adapts a slice of strings to Lines.
type StringLines []string

// LineCount implements Lines.
func (s StringLines) LineCount() int { return len(s) }

// LineText implements Lines.
func (s StringLines) LineText(row int) string {
	if row < 0 || row >= len(s) {
		return ""
	}
	return s[row]
}

// Section is a pair of marker rows bounding a foldable region.
// Start is always less than End.
type Section struct {
	Start int
	End   int
}

// Contains reports whether row lies within the section, bounds included.
func (s Section) Contains(row int) bool {
	return row >= s.Start && row <= s.End
}

// Len returns the number of rows covered by the section.
func (s Section) Len() int {
	return s.End - s.Start + 1
}

// Result is the outcome of a scan.
type Result struct {
	// Valid is false when the markers are missing or unpaired.
	Valid bool

	// Sections holds the discovered sections in ascending row order.
	// It is empty when Valid is false.
	Sections []Section

	// Current is the 1-based index into Sections of the section holding
	// the reference row, or 0 when the row is outside every section.
	Current int
}

// Invalid is the result returned for malformed or marker-free documents.
var Invalid = Result{}

// CurrentSection returns the section holding the reference row.
func (r Result) CurrentSection() (Section, bool) {
	if !r.Valid || r.Current < 1 || r.Current > len(r.Sections) {
		return Section{}, false
	}
	return r.Sections[r.Current-1], true
}

// Starts returns the start row of every section.
func (r Result) Starts() []int {
	rows := make([]int, len(r.Sections))
	for i, s := range r.Sections {
		rows[i] = s.Start
	}
	return rows
}

// Scanner finds fold sections using a marker predicate.
type Scanner struct {
	isMarker MarkerFunc
}

// NewScanner creates a scanner. A nil marker uses Substring(DefaultMarker).
func NewScanner(marker MarkerFunc) *Scanner {
	if marker == nil {
		marker = Substring(DefaultMarker)
	}
	return &Scanner{isMarker: marker}
}

// Scan performs one forward pass over doc and pairs marker lines.
// ref is the row to resolve into Result.Current; pass NoRow to skip it.
func (s *Scanner) Scan(doc Lines, ref int) Result {
	lineCount := doc.LineCount()
	last := lineCount - 1

	var starts, ends []int
	current := 0

	for row := 0; row < lineCount; row++ {
		if !s.isMarker(doc.LineText(row)) {
			continue
		}

		// A marker on the last row cannot open a section, but it is still
		// an unpaired marker.
		if row == last {
			starts = append(starts, row)
			break
		}

		starts = append(starts, row)
		index := len(starts)
		if row == ref {
			current = index
		}

		end, inside := s.seekEnd(doc, row+1, lineCount, ref)
		if end < 0 {
			break
		}
		if inside {
			current = index
		}
		ends = append(ends, end)
		row = end
	}

	if len(starts) == 0 || len(starts) != len(ends) {
		return Invalid
	}

	sections := make([]Section, len(starts))
	for i := range starts {
		sections[i] = Section{Start: starts[i], End: ends[i]}
	}
	return Result{Valid: true, Sections: sections, Current: current}
}

// seekEnd walks forward from row from looking for the closing marker. It
// reports whether ref lies between from and the closing row inclusive, and
// returns -1 when the document ends first.
func (s *Scanner) seekEnd(doc Lines, from, lineCount, ref int) (int, bool) {
	for row := from; row < lineCount; row++ {
		if s.isMarker(doc.LineText(row)) {
			return row, ref >= from && ref <= row
		}
	}
	return -1, false
}

// Markers returns every marker row in doc, paired or not.
func (s *Scanner) Markers(doc Lines) []int {
	var rows []int
	for row := 0; row < doc.LineCount(); row++ {
		if s.isMarker(doc.LineText(row)) {
			rows = append(rows, row)
		}
	}
	return rows
}

// IsMarker reports whether text is a marker line.
func (s *Scanner) IsMarker(text string) bool {
	return s.isMarker(text)
}

// Scan scans doc with the default marker.
func Scan(doc Lines, ref int) Result {
	return NewScanner(nil).Scan(doc, ref)
}
