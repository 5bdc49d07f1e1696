// Package edit implements the mutable device-tree representation and its
// DTB encoder: the only layer in this module that owns every node,
// property and string it holds, rather than borrowing from an input blob.
package edit

import "errors"

var (
	// ErrDuplicateChildName indicates AddChild was called with a name that
	// already names a child of the same parent.
	ErrDuplicateChildName = errors.New("edit: duplicate child name")
	// ErrPathNotFound indicates GetByPath or RemoveByPath found no node at
	// the given path.
	ErrPathNotFound = errors.New("edit: path not found")
	// ErrCycleDetected is reserved for subtree-attach operations that could
	// reparent a node under its own descendant; the current API (AddChild
	// by name, never by existing subtree) cannot trigger it, but callers
	// building on Tree's exported node/child slices directly should still
	// treat it as reachable.
	ErrCycleDetected = errors.New("edit: cycle detected")
	// ErrStringTableOverflow indicates the deduplicated property-name table
	// built during Encode grew past what a 32-bit offset can address.
	ErrStringTableOverflow = errors.New("edit: string table overflow")
)
