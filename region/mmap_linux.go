//go:build linux
// +build linux

// File: region/mmap_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Anonymous-mapping region backing for Linux. Mappings are page
// aligned, which satisfies every power-of-two alignment up to the
// page size without extra padding.

package region

import (
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-mempool/api"
)

// Mmap creates a page-aligned region of size bytes via an anonymous
// private mapping.
func Mmap(size int, opts ...Option) (*Region, error) {
	if size <= 0 {
		return nil, api.ErrInvalidSize
	}
	var cfg mmapConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	buf, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, err
	}
	if cfg.hugePages {
		// Advisory; a kernel without THP simply refuses.
		_ = unix.Madvise(buf, unix.MADV_HUGEPAGE)
	}
	return &Region{buf: buf[:size:size], mapped: buf}, nil
}

func (r *Region) unmap() error {
	if r.mapped == nil {
		return nil
	}
	return unix.Munmap(r.mapped)
}
