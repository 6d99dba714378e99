// Package buffer provides the line document behind an editor engine.
//
// A Buffer stores text as a slice of lines with the line ending of the
// source recorded separately, so Text() reproduces the original content.
// Rows are 0-indexed. Every content change produces a new RevisionID.
//
// All methods are safe for concurrent use.
package buffer
