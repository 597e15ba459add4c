// File: mempool/layout.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Layout planner. Given the pool-region size, requested block size and
// alignment, computes the block count, bitmap footprint and the offset
// at which blocks begin. The bitmap sits at region offset 0; padding
// lifts the blocks up to the requested alignment.

package mempool

import (
	"math"
	"unsafe"

	"github.com/momentics/hioload-mempool/api"
)

const ptrSize = unsafe.Sizeof(uintptr(0))

// layout is the planner result. blockSize is the requested size rounded
// up to the alignment; blocksOff is relative to the region base.
type layout struct {
	blockSize   uintptr
	alignment   uintptr
	bitmapBytes uintptr
	blocksOff   uintptr
	numBlocks   uint32
}

func isPowerOfTwo(v uintptr) bool { return v != 0 && v&(v-1) == 0 }

func alignUp(v, alignment uintptr) uintptr {
	return (v + alignment - 1) &^ (alignment - 1)
}

// planLayout finds the largest N >= 1 such that the bitmap, its
// alignment padding and N blocks fit the region. The scan is monotone
// descending from the no-bitmap upper bound and terminates in O(N).
func planLayout(regionSize, blockSize, alignment uintptr) (layout, error) {
	if regionSize == 0 || blockSize == 0 {
		return layout{}, api.ErrInvalidSize
	}
	if !isPowerOfTwo(alignment) {
		return layout{}, api.ErrAlignment
	}
	// The free-list link occupies the first word of a free block.
	if blockSize < ptrSize {
		return layout{}, api.ErrInvalidSize
	}
	aligned := alignUp(blockSize, alignment)

	upper := regionSize / aligned
	if upper == 0 {
		return layout{}, api.ErrInvalidSize
	}
	if uint64(upper) > math.MaxUint32 {
		return layout{}, api.ErrInvalidSize
	}
	for n := upper; n >= 1; n-- {
		bitmapBytes := (n + 7) / 8
		blocksOff := alignUp(bitmapBytes, alignment)
		if blocksOff+n*aligned <= regionSize {
			return layout{
				blockSize:   aligned,
				alignment:   alignment,
				bitmapBytes: bitmapBytes,
				blocksOff:   blocksOff,
				numBlocks:   uint32(n),
			}, nil
		}
	}
	return layout{}, api.ErrInvalidSize
}
