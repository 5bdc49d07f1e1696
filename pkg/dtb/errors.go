package dtb

import (
	"errors"
	"fmt"

	"github.com/dtkit-go/dtkit/dt/binding"
	"github.com/dtkit-go/dtkit/dt/edit"
	"github.com/dtkit-go/dtkit/dt/index"
	"github.com/dtkit-go/dtkit/internal/dtformat"
)

// ErrKind classifies errors so callers can branch on intent rather than
// text, per spec.md §7's error taxonomy.
type ErrKind int

const (
	ErrKindBadMagic ErrKind = iota
	ErrKindTruncated
	ErrKindUnalignedOffset
	ErrKindUnsupportedVersion
	ErrKindBadToken
	ErrKindTrailing
	ErrKindBadStringOffset
	ErrKindBadPropertyLength
	ErrKindNotUTF8
	ErrKindNotNulTerminated
	ErrKindOversizedCell
	ErrKindPathNotFound
	ErrKindPhandleNotFound
	ErrKindNoInterruptParent
	ErrKindMissingCellsProperty
	ErrKindUntranslatableAddress
	ErrKindDuplicateChildName
	ErrKindCycleDetected
	ErrKindStringTableOverflow
	ErrKindOther
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindBadMagic:
		return "BadMagic"
	case ErrKindTruncated:
		return "Truncated"
	case ErrKindUnalignedOffset:
		return "UnalignedOffset"
	case ErrKindUnsupportedVersion:
		return "UnsupportedVersion"
	case ErrKindBadToken:
		return "BadToken"
	case ErrKindTrailing:
		return "Trailing"
	case ErrKindBadStringOffset:
		return "BadStringOffset"
	case ErrKindBadPropertyLength:
		return "BadPropertyLength"
	case ErrKindNotUTF8:
		return "NotUTF8"
	case ErrKindNotNulTerminated:
		return "NotNulTerminated"
	case ErrKindOversizedCell:
		return "OversizedCell"
	case ErrKindPathNotFound:
		return "PathNotFound"
	case ErrKindPhandleNotFound:
		return "PhandleNotFound"
	case ErrKindNoInterruptParent:
		return "NoInterruptParent"
	case ErrKindMissingCellsProperty:
		return "MissingCellsProperty"
	case ErrKindUntranslatableAddress:
		return "UntranslatableAddress"
	case ErrKindDuplicateChildName:
		return "DuplicateChildName"
	case ErrKindCycleDetected:
		return "CycleDetected"
	case ErrKindStringTableOverflow:
		return "StringTableOverflow"
	default:
		return "Other"
	}
}

// Error is the typed error every exported dtb function returns, carrying
// the classification, an optional byte offset, and an optional node path,
// per spec.md §7.
type Error struct {
	Kind   ErrKind
	Msg    string
	Offset *int
	Path   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if e.Path != "" {
		msg = fmt.Sprintf("%s (path %s)", msg, e.Path)
	}
	if e.Offset != nil {
		msg = fmt.Sprintf("%s (offset %#x)", msg, *e.Offset)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// wrapErr classifies err against the sentinel errors of the internal
// layers and returns a *Error carrying the matched Kind, or ErrKindOther
// if err matches none of them.
func wrapErr(msg string, path string, err error) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return existing
	}
	kind := ErrKindOther
	switch {
	case errors.Is(err, dtformat.ErrBadMagic):
		kind = ErrKindBadMagic
	case errors.Is(err, dtformat.ErrTruncated):
		kind = ErrKindTruncated
	case errors.Is(err, dtformat.ErrUnalignedOffset):
		kind = ErrKindUnalignedOffset
	case errors.Is(err, dtformat.ErrUnsupportedVersion):
		kind = ErrKindUnsupportedVersion
	case errors.Is(err, dtformat.ErrBadToken):
		kind = ErrKindBadToken
	case errors.Is(err, dtformat.ErrTrailing):
		kind = ErrKindTrailing
	case errors.Is(err, dtformat.ErrBadStringOffset):
		kind = ErrKindBadStringOffset
	case errors.Is(err, dtformat.ErrMissingEnd):
		kind = ErrKindTruncated
	case errors.Is(err, dtformat.ErrOverlap):
		kind = ErrKindTruncated
	case errors.Is(err, dtformat.ErrBadReservation):
		kind = ErrKindTruncated
	case errors.Is(err, index.ErrBadPropertyLength):
		kind = ErrKindBadPropertyLength
	case errors.Is(err, index.ErrNotUTF8):
		kind = ErrKindNotUTF8
	case errors.Is(err, index.ErrNotNulTerminated):
		kind = ErrKindNotNulTerminated
	case errors.Is(err, index.ErrPathNotFound):
		kind = ErrKindPathNotFound
	case errors.Is(err, index.ErrPhandleNotFound):
		kind = ErrKindPhandleNotFound
	case errors.Is(err, binding.ErrBadPropertyLength):
		kind = ErrKindBadPropertyLength
	case errors.Is(err, binding.ErrOversizedCell):
		kind = ErrKindOversizedCell
	case errors.Is(err, binding.ErrMissingCellsProperty):
		kind = ErrKindMissingCellsProperty
	case errors.Is(err, binding.ErrNoInterruptParent):
		kind = ErrKindNoInterruptParent
	case errors.Is(err, binding.ErrUntranslatableAddress):
		kind = ErrKindUntranslatableAddress
	case errors.Is(err, binding.ErrNotPciHost):
		kind = ErrKindOther
	case errors.Is(err, binding.ErrNoInterruptMapMatch):
		kind = ErrKindOther
	case errors.Is(err, edit.ErrDuplicateChildName):
		kind = ErrKindDuplicateChildName
	case errors.Is(err, edit.ErrPathNotFound):
		kind = ErrKindPathNotFound
	case errors.Is(err, edit.ErrCycleDetected):
		kind = ErrKindCycleDetected
	case errors.Is(err, edit.ErrStringTableOverflow):
		kind = ErrKindStringTableOverflow
	}
	return &Error{Kind: kind, Msg: msg, Path: path, Err: err}
}
