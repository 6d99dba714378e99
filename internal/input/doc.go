// Package input turns key presses and script calls into editor actions.
//
// An Action names a command in "namespace.action" form (for example
// "fold.toggle") and carries optional arguments. A Keymap maps key names,
// as reported by the terminal backend, to action names.
package input
