package folds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdd(t *testing.T) {
	s := New()

	assert.True(t, s.Add(Fold{Start: 5, End: 7}))
	assert.True(t, s.Add(Fold{Start: 1, End: 3, Column: 200}))
	assert.False(t, s.Add(Fold{Start: 1, End: 3}), "duplicate")
	assert.False(t, s.Add(Fold{Start: 2, End: 3}), "covered")
	assert.False(t, s.Add(Fold{Start: 4, End: 4}), "empty")
	assert.False(t, s.Add(Fold{Start: -1, End: 4}), "negative")

	assert.Equal(t, []Fold{{1, 3, 200}, {5, 7, 0}}, s.All())
}

func TestAddMerges(t *testing.T) {
	s := New()
	s.Add(Fold{Start: 2, End: 4, Column: 10})
	s.Add(Fold{Start: 6, End: 8})

	assert.True(t, s.Add(Fold{Start: 0, End: 6, Column: 3}))

	assert.Equal(t, []Fold{{0, 8, 3}}, s.All())
}

func TestAddMergeKeepsEarlierStart(t *testing.T) {
	s := New()
	s.Add(Fold{Start: 1, End: 4, Column: 7})

	assert.True(t, s.Add(Fold{Start: 3, End: 6}))

	assert.Equal(t, []Fold{{1, 6, 7}}, s.All())
}

func TestRemoveAt(t *testing.T) {
	s := New()
	s.Add(Fold{Start: 1, End: 3})
	s.Add(Fold{Start: 5, End: 7})

	assert.Equal(t, 0, s.RemoveAt(4))
	assert.Equal(t, 1, s.RemoveAt(3))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.RemoveAt(5))
	assert.Zero(t, s.Len())
}

func TestIsFolded(t *testing.T) {
	s := New()
	s.Add(Fold{Start: 1, End: 3})
	s.Add(Fold{Start: 6, End: 9})

	want := map[int]bool{0: false, 1: true, 2: true, 3: true, 4: false, 5: false, 6: true, 9: true, 10: false}
	for row, folded := range want {
		assert.Equal(t, folded, s.IsFolded(row), "row %d", row)
	}

	f, ok := s.StartingAt(6)
	assert.True(t, ok)
	assert.Equal(t, 9, f.End)
	_, ok = s.StartingAt(7)
	assert.False(t, ok)
}

func TestVisibleRows(t *testing.T) {
	s := New()
	s.Add(Fold{Start: 1, End: 3})
	s.Add(Fold{Start: 5, End: 6})

	assert.Equal(t, []int{0, 1, 4, 5, 7}, s.VisibleRows(8))
	assert.Equal(t, []int{0, 1}, s.VisibleRows(2))
}

func TestClamp(t *testing.T) {
	s := New()
	s.Add(Fold{Start: 1, End: 3})
	s.Add(Fold{Start: 5, End: 9})
	s.Add(Fold{Start: 12, End: 14})

	s.Clamp(7)

	assert.Equal(t, []Fold{{1, 3, 0}, {5, 6, 0}}, s.All())

	s.Clear()
	assert.Zero(t, s.Len())
}

func TestFoldHelpers(t *testing.T) {
	f := Fold{Start: 2, End: 5}

	assert.True(t, f.Contains(2))
	assert.False(t, f.Hides(2))
	assert.True(t, f.Hides(5))
	assert.Equal(t, 3, f.HiddenRows())
}
