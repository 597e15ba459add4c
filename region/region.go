// File: region/region.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Caller-owned buffer helpers. The pool engine takes plain []byte
// regions; this package produces regions with the alignment the
// engine demands, from the Go heap or from the platform mmap path.

package region

import (
	"unsafe"

	"github.com/momentics/hioload-mempool/api"
)

// Region is an aligned byte range plus whatever bookkeeping its
// backing needs. Bytes stays valid until Release.
type Region struct {
	buf    []byte
	raw    []byte // heap backing, nil for mapped regions
	mapped []byte // mmap backing, nil for heap regions
}

// Bytes returns the aligned region.
func (r *Region) Bytes() []byte { return r.buf }

// Size returns the usable region length.
func (r *Region) Size() int { return len(r.buf) }

// Release returns the backing storage. Heap regions simply drop their
// reference; mapped regions are unmapped. The Region must not be used
// afterwards.
func (r *Region) Release() error {
	err := r.unmap()
	r.buf = nil
	r.raw = nil
	r.mapped = nil
	return err
}

// Heap carves an alignment-padded region out of a fresh Go slice.
func Heap(size int, alignment uintptr) (*Region, error) {
	if size <= 0 {
		return nil, api.ErrInvalidSize
	}
	if alignment == 0 || alignment&(alignment-1) != 0 {
		return nil, api.ErrAlignment
	}
	raw := make([]byte, size+int(alignment))
	base := uintptr(unsafe.Pointer(&raw[0]))
	off := 0
	if rem := base % alignment; rem != 0 {
		off = int(alignment - rem)
	}
	return &Region{buf: raw[off : off+size : off+size], raw: raw}, nil
}

// Option customizes Mmap.
type Option func(*mmapConfig)

type mmapConfig struct {
	hugePages bool
}

// WithHugePages advises the kernel to back the mapping with huge
// pages where the platform supports it. Advisory only.
func WithHugePages() Option {
	return func(c *mmapConfig) { c.hugePages = true }
}
