package input

import "maps"

// ActionSource says who asked for an action.
type ActionSource uint8

const (
	SourceKeyboard ActionSource = iota // a key binding in the viewer
	SourceCommand                      // a command name, e.g. from the CLI
	SourcePlugin                       // a Lua script
	SourceStartup                      // the fold scheduled at activation
)

var sourceNames = [...]string{"keyboard", "command", "plugin", "startup"}

func (s ActionSource) String() string {
	if int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return "unknown"
}

// Args are named action arguments. A nil Args is empty.
type Args map[string]any

// Get returns the raw value for key.
func (a Args) Get(key string) (any, bool) {
	v, ok := a[key]
	return v, ok
}

// GetString returns key as a string, or "" when absent or not a string.
func (a Args) GetString(key string) string {
	s, _ := a[key].(string)
	return s
}

// GetBool returns key as a bool, or false.
func (a Args) GetBool(key string) bool {
	b, _ := a[key].(bool)
	return b
}

// GetInt returns key as an int. Lua and JSON numbers arrive as float64
// and are truncated.
func (a Args) GetInt(key string) int {
	switch n := a[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// Action is a named request to the dispatcher, such as "fold.toggle".
type Action struct {
	Name   string
	Args   Args
	Source ActionSource
	Count  int // repeat count; zero means once
}

// NewAction returns an action without arguments.
func NewAction(name string, source ActionSource) Action {
	return Action{Name: name, Source: source}
}

// WithCount returns a copy of a repeated count times.
func (a Action) WithCount(count int) Action {
	a.Count = count
	return a
}

// WithArg returns a copy of a with key set. The receiver's arguments are
// not modified.
func (a Action) WithArg(key string, value any) Action {
	args := maps.Clone(a.Args)
	if args == nil {
		args = make(Args, 1)
	}
	args[key] = value
	a.Args = args
	return a
}
