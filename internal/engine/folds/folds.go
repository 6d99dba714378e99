// Package folds tracks the collapsed regions of a buffer.
//
// A Fold covers rows Start through End. The start row stays visible (cut at
// Column when rendered) and the rows after it are hidden. Folds in a Set
// never overlap: adding a fold that touches existing folds merges them.
package folds

import "sort"

// Fold is a collapsed row range.
type Fold struct {
	Start  int
	End    int
	Column int
}

// Contains reports whether row is covered by the fold.
func (f Fold) Contains(row int) bool {
	return row >= f.Start && row <= f.End
}

// Hides reports whether row is hidden by the fold.
func (f Fold) Hides(row int) bool {
	return row > f.Start && row <= f.End
}

// HiddenRows returns the number of rows the fold hides.
func (f Fold) HiddenRows() int {
	return f.End - f.Start
}

func (f Fold) overlaps(o Fold) bool {
	return f.Start <= o.End && o.Start <= f.End
}

// Set is an ordered collection of non-overlapping folds.
type Set struct {
	folds []Fold
}

// New creates an empty set.
func New() *Set {
	return &Set{}
}

// Add inserts a fold. It reports false when the fold is empty or already
// covered by an existing fold. Overlapping folds are merged into one.
func (s *Set) Add(f Fold) bool {
	if f.End <= f.Start || f.Start < 0 {
		return false
	}
	for _, existing := range s.folds {
		if existing.Start <= f.Start && existing.End >= f.End {
			return false
		}
	}

	merged := f
	kept := s.folds[:0]
	for _, existing := range s.folds {
		if !existing.overlaps(merged) {
			kept = append(kept, existing)
			continue
		}
		if existing.Start < merged.Start {
			merged.Start = existing.Start
			merged.Column = existing.Column
		}
		if existing.End > merged.End {
			merged.End = existing.End
		}
	}
	s.folds = append(kept, merged)
	sort.Slice(s.folds, func(i, j int) bool { return s.folds[i].Start < s.folds[j].Start })
	return true
}

// RemoveAt removes every fold covering row and returns how many were removed.
func (s *Set) RemoveAt(row int) int {
	removed := 0
	kept := s.folds[:0]
	for _, f := range s.folds {
		if f.Contains(row) {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	s.folds = kept
	return removed
}

// IsFolded reports whether row is covered by a fold.
func (s *Set) IsFolded(row int) bool {
	_, ok := s.At(row)
	return ok
}

// At returns the fold covering row.
func (s *Set) At(row int) (Fold, bool) {
	i := sort.Search(len(s.folds), func(i int) bool { return s.folds[i].End >= row })
	if i < len(s.folds) && s.folds[i].Contains(row) {
		return s.folds[i], true
	}
	return Fold{}, false
}

// StartingAt returns the fold whose first row is row.
func (s *Set) StartingAt(row int) (Fold, bool) {
	f, ok := s.At(row)
	if !ok || f.Start != row {
		return Fold{}, false
	}
	return f, true
}

// All returns a copy of the folds in row order.
func (s *Set) All() []Fold {
	out := make([]Fold, len(s.folds))
	copy(out, s.folds)
	return out
}

// Len returns the number of folds.
func (s *Set) Len() int {
	return len(s.folds)
}

// Clear removes every fold.
func (s *Set) Clear() {
	s.folds = nil
}

// Clamp trims folds to a document of lineCount rows, dropping folds that
// no longer hide anything.
func (s *Set) Clamp(lineCount int) {
	kept := s.folds[:0]
	for _, f := range s.folds {
		if f.End >= lineCount {
			f.End = lineCount - 1
		}
		if f.End > f.Start {
			kept = append(kept, f)
		}
	}
	s.folds = kept
}

// VisibleRows returns the rows of a lineCount-row document that are not
// hidden by a fold, in order.
func (s *Set) VisibleRows(lineCount int) []int {
	rows := make([]int, 0, lineCount)
	next := 0
	for row := 0; row < lineCount; row++ {
		for next < len(s.folds) && s.folds[next].End < row {
			next++
		}
		if next < len(s.folds) && s.folds[next].Hides(row) {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
