package dtstream

import (
	"fmt"

	"github.com/dtkit-go/dtkit/internal/dtbuf"
	"github.com/dtkit-go/dtkit/internal/dtformat"
)

// PropertyCursor is a restartable iterator over one node's own PROP tokens,
// seeked to a saved offset rather than replaying the whole tree. It stops
// (ok=false, err=nil) the moment it reaches a BEGIN_NODE or END_NODE token,
// without consuming it — those belong to Walk's own traversal.
type PropertyCursor struct {
	data []byte
	desc dtformat.Descriptor
	pos  int
}

// Next returns the next property as (name, raw value), or ok=false once the
// node's property list is exhausted.
func (c *PropertyCursor) Next() (name string, value []byte, ok bool, err error) {
	for {
		if !dtbuf.Has(c.data, c.pos, 4) {
			return "", nil, false, fmt.Errorf("property cursor at %#x: %w", c.pos, dtformat.ErrTruncated)
		}
		code := dtbuf.U32(c.data[c.pos:])
		switch code {
		case dtformat.TokenNop:
			c.pos += 4
			continue
		case dtformat.TokenProp:
			c.pos += 4
			if !dtbuf.Has(c.data, c.pos, 8) {
				return "", nil, false, fmt.Errorf("property header at %#x: %w", c.pos, dtformat.ErrTruncated)
			}
			length := dtbuf.U32(c.data[c.pos:])
			nameOff := dtbuf.U32(c.data[c.pos+4:])
			c.pos += 8
			propName, err := dtformat.LookupString(c.data, c.desc, nameOff)
			if err != nil {
				return "", nil, false, err
			}
			val, ok := dtbuf.Slice(c.data, c.pos, int(length))
			if !ok {
				return "", nil, false, fmt.Errorf("property value at %#x len %d: %w", c.pos, length, dtformat.ErrTruncated)
			}
			c.pos += dtbuf.Align4(int(length))
			return propName, val, true, nil
		default:
			return "", nil, false, nil
		}
	}
}
