// Package backend is the terminal seen by the viewer: cells in, key and
// resize events out.
package backend

import "github.com/gdamore/tcell/v2"

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventInterrupt // Data holds the value given to PostInterrupt
	EventClosed    // the backend shut down; no more events follow
)

// Event is a terminal event. Only the fields of its Type are set.
type Event struct {
	Type EventType

	Key  Key
	Rune rune // for KeyRune
	Mod  ModMask

	Width, Height int

	Data any
}

// Key is a key the viewer can bind. Printable keys are KeyRune.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
)

// keyNames are the names keymaps use, indexed by Key.
var keyNames = [...]string{
	KeyEscape:    "Esc",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PgUp",
	KeyPageDown:  "PgDn",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyCtrlC:     "Ctrl+C",
}

// ModMask is a set of modifier keys.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether mod is held.
func (m ModMask) Has(mod ModMask) bool { return m&mod != 0 }

// KeyName returns the name a keymap binds ev to: the rune for printable
// keys, or a name such as "Up" or "Esc". It returns "" for anything that
// cannot be bound.
func KeyName(ev Event) string {
	switch {
	case ev.Type != EventKey:
		return ""
	case ev.Key == KeyRune:
		if ev.Rune == 0 {
			return ""
		}
		return string(ev.Rune)
	case ev.Key > KeyNone && int(ev.Key) < len(keyNames):
		return keyNames[ev.Key]
	}
	return ""
}

// Backend is a cell grid with an event queue. Init must be called first
// and Shutdown last. SetCell ignores positions off the grid and nothing
// appears until Show.
type Backend interface {
	Init() error
	Shutdown()

	Size() (width, height int)
	SetCell(x, y int, r rune, style tcell.Style)
	Clear()
	Show()
	ShowCursor(x, y int)
	HideCursor()

	// PollEvent blocks until the next event.
	PollEvent() Event
	// PostInterrupt queues an EventInterrupt carrying data. It is safe to
	// call from any goroutine.
	PostInterrupt(data any) error
}
