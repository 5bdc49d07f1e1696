// Package index builds the indexed view: one depth-first pass over the
// streaming layer producing a flat node array, a phandle map, an alias map,
// a compatible-string inverted index and a path index. Once built, an Index
// is immutable and safe for concurrent read-only use.
package index

import "errors"

var (
	// ErrBadPropertyLength indicates a fixed-width typed view was requested
	// against a property whose raw length does not match.
	ErrBadPropertyLength = errors.New("index: bad property length")
	// ErrNotUTF8 indicates a string view's bytes are not valid UTF-8.
	ErrNotUTF8 = errors.New("index: not valid utf-8")
	// ErrNotNulTerminated indicates a string view's bytes do not end in NUL.
	ErrNotNulTerminated = errors.New("index: not nul-terminated")
	// ErrPathNotFound indicates GetByPath found no matching node.
	ErrPathNotFound = errors.New("index: path not found")
	// ErrPhandleNotFound indicates a phandle value has no associated node.
	ErrPhandleNotFound = errors.New("index: phandle not found")
)
