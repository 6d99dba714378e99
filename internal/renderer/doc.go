// Package renderer turns a fold-aware document into screen lines.
//
// Layout computes the visible lines of a document: rows hidden by a fold are
// skipped, and a row that starts a fold is cut at the fold column and flagged
// so the caller can draw the fold placeholder after it. View draws those lines
// onto a terminal backend with a line number gutter and a status line.
// RenderText writes them to any io.Writer.
package renderer
