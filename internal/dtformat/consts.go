// Package dtformat houses low-level decoders for the Flattened Device Tree
// blob format (Devicetree Specification v0.4). The goal is to keep parsing
// focused, allocation-free where possible, and independent from the public
// API so higher-level packages can orchestrate the data in a more ergonomic
// form.
package dtformat

// Magic is the fixed 32-bit signature at the start of every DTB.
const Magic uint32 = 0xd00dfeed

// HeaderSize is the size in bytes of the fixed FDT header.
const HeaderSize = 40

// Header field offsets, all 32-bit big-endian words.
const (
	OffMagic            = 0x00
	OffTotalSize        = 0x04
	OffOffDtStruct      = 0x08
	OffOffDtStrings     = 0x0C
	OffOffMemRsvmap     = 0x10
	OffVersion          = 0x14
	OffLastCompVersion  = 0x18
	OffBootCpuidPhys    = 0x1C
	OffSizeDtStrings    = 0x20
	OffSizeDtStruct     = 0x24
)

// MinVersion is the lowest structure-block version this decoder accepts.
// The specification requires version >= 17 be accepted; version 16 is
// rejected here at the implementer's discretion, with UnsupportedVersion
// as the dedicated error kind.
const MinVersion = 17

// EncodeVersion and EncodeLastCompVersion are the version fields written by
// the encoder, per the output format contract.
const (
	EncodeVersion         = 17
	EncodeLastCompVersion = 16
)

// Structure-block token codes.
const (
	TokenBeginNode uint32 = 0x1
	TokenEndNode   uint32 = 0x2
	TokenProp      uint32 = 0x3
	TokenNop       uint32 = 0x4
	TokenEnd       uint32 = 0x9
)

// ReservationEntrySize is the byte size of one (address, size) reservation
// pair.
const ReservationEntrySize = 16
