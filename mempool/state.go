// File: mempool/state.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Control block layout. The struct is plain old data: scalar fields
// only, so it can be placed into a caller-owned byte region without
// the garbage collector ever seeing a Go pointer inside it.

package mempool

import "unsafe"

// poolMagic marks a control block as initialized. It is written last
// by Init and cleared first by nothing: abandoning the state buffer is
// the only way out of the initialized state.
const poolMagic uint64 = 0x6d656d706f6f6c31 // "mempool1"

// StateBytesMax is the advertised upper bound on the control-block
// footprint. Callers sizing state buffers at compile time may use it
// instead of calling StateSize.
const StateBytesMax = 128

// controlBlock is the persistent pool state living in the caller's
// state region. All region references are stored as raw addresses so
// the block stays free of Go pointers.
type controlBlock struct {
	magic       uint64
	poolBase    uintptr
	poolSize    uintptr
	bitmapBase  uintptr
	bitmapBytes uintptr
	blocksBase  uintptr
	blockSize   uintptr
	alignment   uintptr
	freeHead    uintptr // address of first free block, 0 when exhausted
	totalBlocks uint32
	freeBlocks  uint32
	stats       statsBlock
}

// statsBlock mirrors api.PoolStats field for field. Kept as a nested
// POD record so the whole control block remains copyable.
type statsBlock struct {
	totalBlocks uint32
	usedBlocks  uint32
	freeBlocks  uint32
	peakUsage   uint32
	allocCount  uint32
	freeCount   uint32
	blockSize   uint32
}

// Guard: the control block must fit the advertised upper bound.
var _ [StateBytesMax - unsafe.Sizeof(controlBlock{})]byte

// StateSize returns the number of bytes Init requires in the state
// region. Pure; callable before any pool exists.
func StateSize() int {
	return int(unsafe.Sizeof(controlBlock{}))
}

func (cb *controlBlock) initialized() bool {
	return cb != nil && cb.magic == poolMagic
}

// bit helpers operate on the bitmap at bitmapBase. Bit i of block
// i%8 in byte i/8, LSB-first, matching the persisted layout.

func (cb *controlBlock) bitGet(i uintptr) bool {
	return *(*byte)(unsafe.Pointer(cb.bitmapBase + i/8))&(1<<(i%8)) != 0
}

func (cb *controlBlock) bitSet(i uintptr) {
	*(*byte)(unsafe.Pointer(cb.bitmapBase + i/8)) |= 1 << (i % 8)
}

func (cb *controlBlock) bitClear(i uintptr) {
	*(*byte)(unsafe.Pointer(cb.bitmapBase + i/8)) &^= 1 << (i % 8)
}
