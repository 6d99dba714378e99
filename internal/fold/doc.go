// Package fold implements the fold commands that operate on marker sections.
//
// The Controller always scans the active buffer with a section.Scanner
// first and only touches fold state when the scan is valid. The one
// exception is the marker fallback used by UnfoldAll and ToggleFoldAll: it
// unfolds every folded marker row regardless of pairing, so a document with
// broken markers can always be returned to a fully unfolded view.
//
// Operations:
//   - FoldAll(quiet): fold every section
//   - UnfoldAll: unfold every section
//   - ToggleFoldAll: unfold everything if anything is folded, else fold all
//   - ToggleFold: unfold the cursor row, or fold the section under the cursor
//
// The controller never owns fold state. It queries and commands it through
// the Buffer interface, and reports failures through a notify.Notifier.
package fold
