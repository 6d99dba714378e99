package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal is the tcell Backend. Drawing calls are serialized; PollEvent
// and PostInterrupt are not, so a poller never blocks a painter.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
}

// NewTerminal opens the controlling terminal. Init must follow.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen), nil
}

// NewTerminalWithScreen wraps screen, typically a tcell.SimulationScreen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Screen exposes the wrapped screen.
func (t *Terminal) Screen() tcell.Screen { return t.screen }

func (t *Terminal) locked(fn func(s tcell.Screen)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.screen)
}

func (t *Terminal) Init() (err error) {
	t.locked(func(s tcell.Screen) {
		if err = s.Init(); err != nil {
			return
		}
		s.SetStyle(tcell.StyleDefault)
		s.Clear()
	})
	return err
}

func (t *Terminal) Shutdown() { t.locked(tcell.Screen.Fini) }
func (t *Terminal) Clear()    { t.locked(tcell.Screen.Clear) }
func (t *Terminal) Show()     { t.locked(tcell.Screen.Show) }

func (t *Terminal) HideCursor() { t.locked(tcell.Screen.HideCursor) }

func (t *Terminal) ShowCursor(x, y int) {
	t.locked(func(s tcell.Screen) { s.ShowCursor(x, y) })
}

func (t *Terminal) Size() (w, h int) {
	t.locked(func(s tcell.Screen) { w, h = s.Size() })
	return w, h
}

func (t *Terminal) SetCell(x, y int, r rune, style tcell.Style) {
	t.locked(func(s tcell.Screen) { s.SetContent(x, y, r, nil, style) })
}

func (t *Terminal) PollEvent() Event {
	return convertEvent(t.screen.PollEvent())
}

func (t *Terminal) PostInterrupt(data any) error {
	return t.screen.PostEvent(tcell.NewEventInterrupt(data))
}

// convertEvent maps a tcell event. A nil event means the screen was
// finalized.
func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case nil:
		return Event{Type: EventClosed}
	case *tcell.EventKey:
		return Event{Type: EventKey, Key: convertKey(e.Key()), Rune: e.Rune(), Mod: convertMod(e.Modifiers())}
	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}
	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt, Data: e.Data()}
	}
	return Event{Type: EventNone}
}

var tcellKeys = map[tcell.Key]Key{
	tcell.KeyRune:       KeyRune,
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyTab:        KeyTab,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyPgUp:       KeyPageUp,
	tcell.KeyPgDn:       KeyPageDown,
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
	tcell.KeyCtrlC:      KeyCtrlC,
}

// convertKey returns KeyNone for keys the viewer does not bind.
func convertKey(k tcell.Key) Key {
	return tcellKeys[k]
}

func convertMod(m tcell.ModMask) ModMask {
	var mod ModMask
	for tm, bm := range map[tcell.ModMask]ModMask{
		tcell.ModShift: ModShift,
		tcell.ModCtrl:  ModCtrl,
		tcell.ModAlt:   ModAlt,
	} {
		if m&tm != 0 {
			mod |= bm
		}
	}
	return mod
}
