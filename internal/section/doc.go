// Package section discovers marker-delimited fold sections in a document.
//
// A section is a pair of marker lines (by default any line containing "///").
// Markers are not nestable: a start marker always pairs with the next marker
// line. The scan is a single forward pass that alternates between seeking a
// start marker and seeking its end marker, so malformed documents (an odd
// number of markers, a lone marker on the last line, no markers at all) are
// detected by comparing the number of starts against the number of ends.
//
// A scan never returns a partial result. Either every marker is paired and
// the result is valid, or the whole result is invalid.
package section
