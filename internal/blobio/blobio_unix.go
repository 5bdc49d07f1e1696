//go:build unix

package blobio

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Load maps the file at path read-only into memory and returns its
// contents, along with a cleanup closure that unmaps it. Callers must call
// cleanup exactly once when the returned bytes are no longer needed.
func Load(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close() // safe before return; mapping keeps pages alive

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := info.Size()
	if size == 0 {
		return []byte{}, func() error { return nil }, nil
	}
	if size > int64(^uint(0)>>1) {
		return nil, nil, fmt.Errorf("blobio: file too large to map (%d bytes)", size)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() error {
		if data == nil {
			return nil
		}
		return unix.Munmap(data)
	}
	return data, cleanup, nil
}
