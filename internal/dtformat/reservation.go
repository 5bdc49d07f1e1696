package dtformat

import (
	"fmt"

	"github.com/dtkit-go/dtkit/internal/dtbuf"
)

// Reservation is one (address, size) memory-reservation entry.
type Reservation struct {
	Address uint64
	Size    uint64
}

// ReservationIter is a lazy sequence of Reservation entries starting at a
// descriptor's ReservationOff, stopping at the (0,0) sentinel or at the
// structure block offset, whichever comes first.
type ReservationIter struct {
	data []byte
	off  int
	end  int
	done bool
}

// Reservations returns an iterator over the memory-reservation block
// described by d, reading from blob b.
func Reservations(b []byte, d Descriptor) *ReservationIter {
	return &ReservationIter{data: b, off: d.ReservationOff, end: d.StructOff}
}

// Next returns the next reservation entry, or ok=false once the sentinel or
// the structure block boundary has been reached. err is non-nil only on a
// malformed entry (non-sentinel size 0, or truncation).
func (it *ReservationIter) Next() (entry Reservation, ok bool, err error) {
	if it.done {
		return Reservation{}, false, nil
	}
	if it.off+ReservationEntrySize > it.end {
		it.done = true
		if it.off == it.end {
			return Reservation{}, false, nil
		}
		return Reservation{}, false, fmt.Errorf("reservation at %#x: %w", it.off, ErrTruncated)
	}
	chunk, ok2 := dtbuf.Slice(it.data, it.off, ReservationEntrySize)
	if !ok2 {
		it.done = true
		return Reservation{}, false, fmt.Errorf("reservation at %#x: %w", it.off, ErrTruncated)
	}
	e := Reservation{
		Address: dtbuf.U64(chunk[0:8]),
		Size:    dtbuf.U64(chunk[8:16]),
	}
	it.off += ReservationEntrySize
	if e.Address == 0 && e.Size == 0 {
		it.done = true
		return Reservation{}, false, nil
	}
	if e.Size == 0 {
		it.done = true
		return Reservation{}, false, fmt.Errorf("reservation at %#x: %w", it.off-ReservationEntrySize, ErrBadReservation)
	}
	return e, true, nil
}

// All drains the iterator into a slice. Convenience for callers that do not
// need lazy iteration (the indexed view, the CLI).
func (it *ReservationIter) All() ([]Reservation, error) {
	var out []Reservation
	for {
		e, ok, err := it.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, e)
	}
}
