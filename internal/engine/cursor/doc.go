// Package cursor provides the primary cursor and its selection.
//
// A Selection is an immutable value with an Anchor (where the selection
// started) and a Head (where the cursor is). An empty selection is a plain
// cursor.
package cursor
