package input

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Binding maps a key to an action name.
type Binding struct {
	Key    string
	Action string
}

// Keymap holds key bindings for the viewer.
type Keymap struct {
	mu       sync.RWMutex
	bindings map[string]string
}

// NewKeymap creates an empty keymap.
func NewKeymap() *Keymap {
	return &Keymap{bindings: make(map[string]string)}
}

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() *Keymap {
	km := NewKeymap()
	for _, b := range []Binding{
		{Key: "z", Action: "fold.toggle"},
		{Key: "Z", Action: "fold.toggleAll"},
		{Key: "f", Action: "fold.foldAll"},
		{Key: "u", Action: "fold.unfoldAll"},
		{Key: "j", Action: "cursor.moveDown"},
		{Key: "k", Action: "cursor.moveUp"},
		{Key: "Down", Action: "cursor.moveDown"},
		{Key: "Up", Action: "cursor.moveUp"},
		{Key: "g", Action: "cursor.moveFirstLine"},
		{Key: "G", Action: "cursor.moveLastLine"},
	} {
		km.bindings[b.Key] = b.Action
	}
	return km
}

// Bind maps key to action, replacing any existing binding.
// An empty action removes the binding.
func (k *Keymap) Bind(key, action string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("keymap: empty key for action %q", action)
	}
	if action != "" && !strings.Contains(action, ".") {
		return fmt.Errorf("keymap: action %q for key %q has no namespace", action, key)
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if action == "" {
		delete(k.bindings, key)
		return nil
	}
	k.bindings[key] = action
	return nil
}

// Merge binds every entry of bindings, stopping at the first invalid one.
func (k *Keymap) Merge(bindings map[string]string) error {
	keys := make([]string, 0, len(bindings))
	for key := range bindings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := k.Bind(key, bindings[key]); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the action bound to key.
func (k *Keymap) Lookup(key string) (Action, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	name, ok := k.bindings[key]
	if !ok {
		return Action{}, false
	}
	return NewAction(name, SourceKeyboard), true
}

// Bindings returns every binding sorted by key.
func (k *Keymap) Bindings() []Binding {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := make([]Binding, 0, len(k.bindings))
	for key, action := range k.bindings {
		out = append(out, Binding{Key: key, Action: action})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
