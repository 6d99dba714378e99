package section

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultMarker is the token that identifies a fold marker line.
const DefaultMarker = "///"

// MarkerFunc reports whether a line of text is a fold marker.
type MarkerFunc func(text string) bool

// Substring returns a MarkerFunc matching lines that contain token anywhere.
// An empty token falls back to DefaultMarker.
func Substring(token string) MarkerFunc {
	if token == "" {
		token = DefaultMarker
	}
	return func(text string) bool {
		return strings.Contains(text, token)
	}
}

// Regexp returns a MarkerFunc matching lines against a regular expression.
func Regexp(pattern string) (MarkerFunc, error) {
	if pattern == "" {
		return nil, fmt.Errorf("marker pattern is empty")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling marker pattern %q: %w", pattern, err)
	}
	return re.MatchString, nil
}
