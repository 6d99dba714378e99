package loader

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format names a configuration file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FileLoader reads one configuration file. A missing file loads as nil.
type FileLoader struct {
	fs     FileSystem
	path   string
	format Format
}

// NewTOMLLoader returns a loader for the TOML file at path.
func NewTOMLLoader(path string) *FileLoader {
	return NewTOMLLoaderWithFS(DefaultFS(), path)
}

// NewTOMLLoaderWithFS is NewTOMLLoader reading through fsys.
func NewTOMLLoaderWithFS(fsys FileSystem, path string) *FileLoader {
	return &FileLoader{fs: fsys, path: path, format: FormatTOML}
}

// NewYAMLLoader returns a loader for the YAML file at path.
func NewYAMLLoader(path string) *FileLoader {
	return NewYAMLLoaderWithFS(DefaultFS(), path)
}

// NewYAMLLoaderWithFS is NewYAMLLoader reading through fsys.
func NewYAMLLoaderWithFS(fsys FileSystem, path string) *FileLoader {
	return &FileLoader{fs: fsys, path: path, format: FormatYAML}
}

// Format returns the syntax the file is parsed with.
func (l *FileLoader) Format() Format { return l.format }

// Path returns the file path.
func (l *FileLoader) Path() string { return l.path }

// Load reads and parses the file.
func (l *FileLoader) Load() (map[string]any, error) {
	data, err := readOptional(l.fs, l.path)
	if err != nil || data == nil {
		return nil, err
	}
	if l.format == FormatYAML {
		return ParseYAML(l.path, data)
	}
	return ParseTOML(l.path, data)
}

// ParseTOML decodes TOML into a map. source names the data in errors.
func ParseTOML(source string, data []byte) (map[string]any, error) {
	var m map[string]any
	err := toml.Unmarshal(data, &m)
	if err == nil {
		return m, nil
	}
	perr := &ParseError{Path: source, Message: err.Error(), Err: err}
	if derr := (*toml.DecodeError)(nil); errors.As(err, &derr) {
		perr.Line, perr.Column = derr.Position()
	}
	return nil, perr
}

// ParseYAML decodes YAML into a map. source names the data in errors. An
// empty document decodes to an empty map.
func ParseYAML(source string, data []byte) (map[string]any, error) {
	m := make(map[string]any)
	err := yaml.Unmarshal(data, &m)
	if err == nil {
		return m, nil
	}
	perr := &ParseError{Path: source, Message: err.Error(), Err: err}
	if terr := (*yaml.TypeError)(nil); errors.As(err, &terr) && len(terr.Errors) > 0 {
		perr.Message = terr.Errors[0]
	}
	return nil, perr
}

// ParseError reports malformed configuration. Line and Column are 1-based
// and zero when the parser gave no position.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	where := e.Path
	switch {
	case e.Line > 0 && e.Column > 0:
		where = fmt.Sprintf("%s:%d:%d", e.Path, e.Line, e.Column)
	case e.Line > 0:
		where = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	return "parse error in " + where + ": " + e.Message
}

func (e *ParseError) Unwrap() error { return e.Err }
