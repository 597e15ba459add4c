//go:build !linux
// +build !linux

// File: region/mmap_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fallback region backing for platforms without the Linux mmap path:
// a heap region padded out to a conservative page alignment.

package region

const fallbackPageSize = 4096

// Mmap falls back to a page-aligned heap region. Options are accepted
// and ignored.
func Mmap(size int, opts ...Option) (*Region, error) {
	var cfg mmapConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return Heap(size, fallbackPageSize)
}

func (r *Region) unmap() error { return nil }
