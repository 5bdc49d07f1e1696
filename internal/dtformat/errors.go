package dtformat

import "errors"

// Sentinel errors returned by the raw layer. Higher layers (pkg/dtb) wrap
// these into typed *dtb.Error values at the package boundary; callers of
// this package match on identity with errors.Is.
var (
	// ErrBadMagic indicates the header's magic field did not match Magic.
	ErrBadMagic = errors.New("dtformat: bad magic")
	// ErrTruncated indicates a structure extends past the available bytes.
	ErrTruncated = errors.New("dtformat: truncated blob")
	// ErrUnalignedOffset indicates a header offset violates its required
	// alignment.
	ErrUnalignedOffset = errors.New("dtformat: unaligned offset")
	// ErrOverlap indicates two declared sub-blocks overlap.
	ErrOverlap = errors.New("dtformat: overlapping blocks")
	// ErrUnsupportedVersion indicates the structure-block version is below
	// MinVersion.
	ErrUnsupportedVersion = errors.New("dtformat: unsupported version")
	// ErrBadToken indicates an unrecognized token code, or a token out of
	// place in the node grammar (no root BEGIN_NODE, or no END after the
	// root). A token whose declared length runs past the structure block is
	// reported as ErrTruncated.
	ErrBadToken = errors.New("dtformat: bad token")
	// ErrBadStringOffset indicates a PROP name offset does not resolve to a
	// NUL-terminated string within the string block.
	ErrBadStringOffset = errors.New("dtformat: bad string offset")
	// ErrTrailing indicates tokens were found after the single END token.
	ErrTrailing = errors.New("dtformat: trailing tokens after end")
	// ErrMissingEnd indicates the structure block ran out before an END
	// token was seen.
	ErrMissingEnd = errors.New("dtformat: missing end token")
	// ErrBadReservation indicates a memory-reservation entry has size 0
	// without being the terminating (0,0) sentinel.
	ErrBadReservation = errors.New("dtformat: malformed reservation entry")
)
