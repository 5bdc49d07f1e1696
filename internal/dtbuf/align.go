package dtbuf

// Align4Mask and Align8Mask are the bitmasks used to round up to the
// structure-token and reservation-block alignments respectively.
const (
	Align4Mask = 4 - 1
	Align8Mask = 8 - 1
)

// Align4 rounds n up to the next 4-byte boundary. Structure-block tokens and
// PROP payloads are padded to this alignment.
func Align4(n int) int {
	return (n + Align4Mask) &^ Align4Mask
}

// Align8 rounds n up to the next 8-byte boundary. The memory-reservation
// block starts on this alignment.
func Align8(n int) int {
	return (n + Align8Mask) &^ Align8Mask
}
