package dtformat

import (
	"fmt"

	"github.com/dtkit-go/dtkit/internal/dtbuf"
)

// Header captures the 40-byte FDT header. The layout below highlights the
// byte offsets we validate and decode.
//
//	Offset  Size  Field
//	------  ----  --------------------
//	 0x00    4    magic (0xd00dfeed)
//	 0x04    4    totalsize
//	 0x08    4    off_dt_struct
//	 0x0C    4    off_dt_strings
//	 0x10    4    off_mem_rsvmap
//	 0x14    4    version
//	 0x18    4    last_comp_version
//	 0x1C    4    boot_cpuid_phys
//	 0x20    4    size_dt_strings
//	 0x24    4    size_dt_struct
//
// Every field is a big-endian 32-bit unsigned integer.
type Header struct {
	Magic            uint32
	TotalSize        uint32
	OffDtStruct      uint32
	OffDtStrings     uint32
	OffMemRsvmap     uint32
	Version          uint32
	LastCompVersion  uint32
	BootCpuidPhys    uint32
	SizeDtStrings    uint32
	SizeDtStruct     uint32
}

// Descriptor gives byte ranges for the three sub-blocks a valid header
// describes, derived once so callers need not recompute end offsets.
type Descriptor struct {
	Header         Header
	ReservationOff int
	StructOff      int
	StructEnd      int
	StringsOff     int
	StringsEnd     int
}

// ParseHeader validates and decodes the 40-byte FDT header, then computes
// the byte ranges of the reservation, structure and string blocks. It
// rejects offsets that overlap, that fall outside totalsize, or that are
// insufficiently aligned.
func ParseHeader(b []byte) (Descriptor, error) {
	if len(b) < HeaderSize {
		return Descriptor{}, fmt.Errorf("header: %w", ErrTruncated)
	}

	magic := dtbuf.U32(b[OffMagic:])
	if magic != Magic {
		return Descriptor{}, fmt.Errorf("header: %w", ErrBadMagic)
	}

	h := Header{
		Magic:           magic,
		TotalSize:       dtbuf.U32(b[OffTotalSize:]),
		OffDtStruct:     dtbuf.U32(b[OffOffDtStruct:]),
		OffDtStrings:    dtbuf.U32(b[OffOffDtStrings:]),
		OffMemRsvmap:    dtbuf.U32(b[OffOffMemRsvmap:]),
		Version:         dtbuf.U32(b[OffVersion:]),
		LastCompVersion: dtbuf.U32(b[OffLastCompVersion:]),
		BootCpuidPhys:   dtbuf.U32(b[OffBootCpuidPhys:]),
		SizeDtStrings:   dtbuf.U32(b[OffSizeDtStrings:]),
		SizeDtStruct:    dtbuf.U32(b[OffSizeDtStruct:]),
	}

	if uint64(h.TotalSize) > uint64(len(b)) {
		return Descriptor{}, fmt.Errorf("header: totalsize %d exceeds buffer length %d: %w", h.TotalSize, len(b), ErrTruncated)
	}
	if h.Version < MinVersion {
		return Descriptor{}, fmt.Errorf("header: version %d: %w", h.Version, ErrUnsupportedVersion)
	}
	if h.OffMemRsvmap%8 != 0 {
		return Descriptor{}, fmt.Errorf("header: off_mem_rsvmap %#x: %w", h.OffMemRsvmap, ErrUnalignedOffset)
	}
	if h.OffDtStruct%4 != 0 {
		return Descriptor{}, fmt.Errorf("header: off_dt_struct %#x: %w", h.OffDtStruct, ErrUnalignedOffset)
	}
	if h.OffDtStrings%4 != 0 {
		return Descriptor{}, fmt.Errorf("header: off_dt_strings %#x: %w", h.OffDtStrings, ErrUnalignedOffset)
	}

	structEnd, ok := dtbuf.AddOverflowSafe(int(h.OffDtStruct), int(h.SizeDtStruct))
	if !ok || structEnd > int(h.TotalSize) {
		return Descriptor{}, fmt.Errorf("header: struct block: %w", ErrTruncated)
	}
	stringsEnd, ok := dtbuf.AddOverflowSafe(int(h.OffDtStrings), int(h.SizeDtStrings))
	if !ok || stringsEnd > int(h.TotalSize) {
		return Descriptor{}, fmt.Errorf("header: strings block: %w", ErrTruncated)
	}
	if int(h.OffMemRsvmap) > int(h.TotalSize) {
		return Descriptor{}, fmt.Errorf("header: mem rsvmap offset: %w", ErrTruncated)
	}

	d := Descriptor{
		Header:         h,
		ReservationOff: int(h.OffMemRsvmap),
		StructOff:      int(h.OffDtStruct),
		StructEnd:      structEnd,
		StringsOff:     int(h.OffDtStrings),
		StringsEnd:     stringsEnd,
	}
	if err := checkNoOverlap(d); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// checkNoOverlap verifies the structure and string blocks do not overlap.
// The reservation block's end is implicit (it runs until its sentinel), so
// it is only checked against the struct block's start in reservation.go
// while iterating.
func checkNoOverlap(d Descriptor) error {
	if d.StructOff < d.StringsEnd && d.StringsOff < d.StructEnd {
		return fmt.Errorf("header: struct/strings blocks: %w", ErrOverlap)
	}
	return nil
}
