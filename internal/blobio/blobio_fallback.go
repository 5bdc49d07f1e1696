//go:build !unix

package blobio

import "os"

// Load reads the entire file into memory when mmap is not available on the
// current platform.
func Load(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return data, func() error { return nil }, nil
}
