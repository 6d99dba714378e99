package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/dshills/cubicfold/internal/section"
)

var (
	sectioned = section.StringLines(strings.Split("intro\n/// one\na\n/// end\n/// two\nb\n/// end", "\n"))
	unpaired  = section.StringLines(strings.Split("a\n///\nb", "\n"))
	scanner   = section.NewScanner(section.Substring(section.DefaultMarker))
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	r := New("doc.txt", sectioned, scanner, 5)

	assert.True(t, r.Valid)
	assert.Equal(t, 7, r.Lines)
	assert.Equal(t, 2, r.Current)
	assert.Equal(t, []Section{{Start: 1, End: 3}, {Start: 4, End: 6}}, r.Sections)
	assert.Equal(t, []int{1, 3, 4, 6}, r.Markers)
}

func TestNewInvalid(t *testing.T) {
	r := New("bad.txt", unpaired, scanner, 0)

	assert.False(t, r.Valid)
	assert.Empty(t, r.Sections)
	assert.NotNil(t, r.Sections)
	assert.Equal(t, []int{1}, r.Markers)

	r = New("empty.txt", section.StringLines{"x"}, scanner, 0)
	assert.NotNil(t, r.Markers)
	assert.Empty(t, r.Markers)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, New("doc.txt", sectioned, scanner, 5), FormatText, Options{}))

	want := "file: doc.txt\n" +
		"lines: 7\n" +
		"status: valid\n" +
		"sections: 2 (current 2 at row 5)\n" +
		"   1: rows 1-3 (3 lines)\n" +
		" * 2: rows 4-6 (3 lines)\n" +
		"markers: 1, 3, 4, 6\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTextInvalid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, New("bad.txt", unpaired, scanner, 0), FormatText, Options{}))

	assert.Contains(t, buf.String(), "status: invalid\n")
	assert.Contains(t, buf.String(), "sections: 0\n")
}

func TestWriteTextColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, New("bad.txt", unpaired, scanner, 0), FormatText, Options{Color: true}))

	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "invalid")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, New("doc.txt", sectioned, scanner, 5), FormatJSON, Options{}))

	out := buf.String()
	require.True(t, gjson.Valid(out), out)
	assert.Equal(t, "doc.txt", gjson.Get(out, "file").String())
	assert.Equal(t, int64(7), gjson.Get(out, "lines").Int())
	assert.True(t, gjson.Get(out, "valid").Bool())
	assert.Equal(t, int64(2), gjson.Get(out, "current").Int())
	assert.Equal(t, int64(2), gjson.Get(out, "sections.#").Int())
	assert.Equal(t, int64(4), gjson.Get(out, "sections.1.start").Int())
	assert.Equal(t, int64(6), gjson.Get(out, "sections.1.end").Int())
	var markers []int64
	for _, m := range gjson.Get(out, "markers").Array() {
		markers = append(markers, m.Int())
	}
	assert.Equal(t, []int64{1, 3, 4, 6}, markers)

	// Keys keep their insertion order.
	var keys []string
	gjson.Parse(out).ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	assert.Equal(t, []string{"file", "lines", "row", "valid", "current", "sections", "markers"}, keys)
}

func TestWriteJSONInvalid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, New("bad.txt", unpaired, scanner, 0), FormatJSON, Options{}))

	out := buf.String()
	require.True(t, gjson.Valid(out), out)
	assert.False(t, gjson.Get(out, "valid").Bool())
	assert.True(t, gjson.Get(out, "sections").IsArray())
	assert.Equal(t, int64(0), gjson.Get(out, "sections.#").Int())
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	want := New("doc.txt", sectioned, scanner, 5)
	require.NoError(t, Write(&buf, want, FormatYAML, Options{}))

	var got Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, want, got)
	assert.True(t, strings.HasPrefix(buf.String(), "file: doc.txt\n"))
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Report{}, Format("xml"), Options{})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
