// Package blobio provides platform-specific helpers for memory-mapping DTB
// files so callers can decode them without a heap copy.
package blobio
