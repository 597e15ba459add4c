// File: mempool/pool_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package mempool_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-mempool/api"
	"github.com/momentics/hioload-mempool/mempool"
)

// alignedBuf returns a size-byte slice whose base address is a
// multiple of align.
func alignedBuf(size int, align uintptr) []byte {
	raw := make([]byte, size+int(align))
	base := uintptr(unsafe.Pointer(&raw[0]))
	off := 0
	if rem := base % align; rem != 0 {
		off = int(align - rem)
	}
	return raw[off : off+size : off+size]
}

func newPool(t *testing.T, regionSize int, blockSize, align uintptr) (*mempool.Pool, []byte) {
	t.Helper()
	state := alignedBuf(mempool.StateSize(), 8)
	region := alignedBuf(regionSize, align)
	p, err := mempool.Init(state, region, blockSize, align)
	require.NoError(t, err)
	return p, region
}

func TestInitRejectsNilRegions(t *testing.T) {
	state := alignedBuf(mempool.StateSize(), 8)
	region := alignedBuf(4096, 8)

	_, err := mempool.Init(nil, region, 64, 8)
	require.Equal(t, api.CodeNullPointer, api.CodeOf(err))

	_, err = mempool.Init(state, nil, 64, 8)
	require.Equal(t, api.CodeNullPointer, api.CodeOf(err))
}

func TestInitRejectsShortStateBuffer(t *testing.T) {
	state := alignedBuf(mempool.StateSize()-1, 8)
	region := alignedBuf(4096, 8)
	_, err := mempool.Init(state, region, 64, 8)
	require.Equal(t, api.CodeInvalidSize, api.CodeOf(err))
}

func TestInitRejectsMisalignedRegion(t *testing.T) {
	state := alignedBuf(mempool.StateSize(), 8)
	region := alignedBuf(4096+64, 64)
	_, err := mempool.Init(state, region[1:], 64, 64)
	require.Equal(t, api.CodeAlignment, api.CodeOf(err))
}

func TestInitRoundsBlockSizeUp(t *testing.T) {
	p, _ := newPool(t, 4096, 24, 16)
	s, err := p.Stats()
	require.NoError(t, err)
	require.Equal(t, uint32(32), s.BlockSize)
}

func TestInitAndExhaust(t *testing.T) {
	p, _ := newPool(t, 4096, 64, 8)
	s, err := p.Stats()
	require.NoError(t, err)
	total := s.TotalBlocks
	require.GreaterOrEqual(t, total, uint32(1))
	require.Equal(t, total, s.FreeBlocks)
	require.Zero(t, s.UsedBlocks)

	blocks := make([]unsafe.Pointer, 0, total)
	for i := uint32(0); i < total; i++ {
		b, err := p.Alloc()
		require.NoError(t, err, "alloc %d of %d", i+1, total)
		blocks = append(blocks, b)
	}
	_, err = p.Alloc()
	require.Equal(t, api.CodeOutOfMemory, api.CodeOf(err))

	s, err = p.Stats()
	require.NoError(t, err)
	require.Zero(t, s.FreeBlocks)
	require.Equal(t, total, s.UsedBlocks)
	require.Equal(t, total, s.PeakUsage)
	require.Equal(t, total, s.AllocCount)

	// The free list is threaded ascending, so the first allocations
	// come back in strictly descending address order.
	for i := 1; i < len(blocks); i++ {
		require.Less(t, uintptr(blocks[i]), uintptr(blocks[i-1]),
			"allocation order not descending at %d", i)
	}
}

func TestAllocFreeRoundTrip(t *testing.T) {
	p, _ := newPool(t, 4096, 64, 8)
	before, _ := p.Stats()

	b, err := p.Alloc()
	require.NoError(t, err)
	require.NoError(t, p.Free(b))

	after, err := p.Stats()
	require.NoError(t, err)
	require.Equal(t, before.UsedBlocks, after.UsedBlocks)
	require.Equal(t, before.FreeBlocks, after.FreeBlocks)
	require.Equal(t, uint32(1), after.AllocCount)
	require.Equal(t, uint32(1), after.FreeCount)
}

func TestLIFOReturnsLastFreedBlock(t *testing.T) {
	p, _ := newPool(t, 4096, 64, 8)
	b, err := p.Alloc()
	require.NoError(t, err)
	require.NoError(t, p.Free(b))
	again, err := p.Alloc()
	require.NoError(t, err)
	require.Equal(t, b, again)
}

func TestDoubleFree(t *testing.T) {
	p, _ := newPool(t, 4096, 64, 8)
	b, err := p.Alloc()
	require.NoError(t, err)

	require.NoError(t, p.Free(b))
	err = p.Free(b)
	require.Equal(t, api.CodeDoubleFree, api.CodeOf(err))

	s, err := p.Stats()
	require.NoError(t, err)
	require.Equal(t, uint32(1), s.FreeCount)
}

func TestFreeRejectsForeignAndOffsetPointers(t *testing.T) {
	p, _ := newPool(t, 4096, 64, 8)

	external := make([]byte, 64)
	err := p.Free(unsafe.Pointer(&external[0]))
	require.Equal(t, api.CodeInvalidBlock, api.CodeOf(err))

	b, err := p.Alloc()
	require.NoError(t, err)
	err = p.Free(unsafe.Pointer(uintptr(b) + 1))
	require.Equal(t, api.CodeInvalidBlock, api.CodeOf(err))

	// One byte past the end of the blocks range.
	s, _ := p.Stats()
	end := uintptr(b) + uintptr(s.BlockSize) // b is the last block
	err = p.Free(unsafe.Pointer(end))
	require.Equal(t, api.CodeInvalidBlock, api.CodeOf(err))

	require.NoError(t, p.Free(b))
}

func TestFreeNilPointer(t *testing.T) {
	p, _ := newPool(t, 4096, 64, 8)
	err := p.Free(nil)
	require.Equal(t, api.CodeNullPointer, api.CodeOf(err))
}

func TestResetInvalidatesOutstandingBlocks(t *testing.T) {
	p, _ := newPool(t, 4096, 64, 8)
	b, err := p.Alloc()
	require.NoError(t, err)

	require.NoError(t, p.Reset())

	err = p.Free(b)
	require.Equal(t, api.CodeDoubleFree, api.CodeOf(err))

	s, err := p.Stats()
	require.NoError(t, err)
	require.Zero(t, s.UsedBlocks)
	require.Equal(t, s.TotalBlocks, s.FreeBlocks)
	require.Zero(t, s.AllocCount)
	require.Zero(t, s.FreeCount)
	require.Zero(t, s.PeakUsage)
}

func TestResetReplaysIdentically(t *testing.T) {
	p, _ := newPool(t, 4096, 64, 8)
	run := func() api.PoolStats {
		require.NoError(t, p.Reset())
		for i := 0; i < 5; i++ {
			b, err := p.Alloc()
			require.NoError(t, err)
			if i%2 == 0 {
				require.NoError(t, p.Free(b))
			}
		}
		s, err := p.Stats()
		require.NoError(t, err)
		return s
	}
	first := run()
	second := run()
	require.Equal(t, first, second)
}

func TestContainsIsPureRangeTest(t *testing.T) {
	p, _ := newPool(t, 4096, 64, 8)
	b, err := p.Alloc()
	require.NoError(t, err)

	require.True(t, p.Contains(b))
	// Interior pointer: in range, misaligned, still contained.
	require.True(t, p.Contains(unsafe.Pointer(uintptr(b)+1)))

	external := make([]byte, 64)
	require.False(t, p.Contains(unsafe.Pointer(&external[0])))
	require.False(t, p.Contains(nil))

	// A freed block is still inside the range.
	require.NoError(t, p.Free(b))
	require.True(t, p.Contains(b))
}

func TestIndependentPools(t *testing.T) {
	p1, _ := newPool(t, 4096, 64, 8)
	p2, _ := newPool(t, 4096, 64, 8)

	b1, err := p1.Alloc()
	require.NoError(t, err)
	b2, err := p2.Alloc()
	require.NoError(t, err)

	require.True(t, p1.Contains(b1))
	require.True(t, p2.Contains(b2))
	require.False(t, p1.Contains(b2))
	require.False(t, p2.Contains(b1))

	err = p1.Free(b2)
	require.Equal(t, api.CodeInvalidBlock, api.CodeOf(err))
	require.NoError(t, p1.Free(b1))
	require.NoError(t, p2.Free(b2))
}

func TestSingleBlockRegion(t *testing.T) {
	// Bitmap byte padded to 8, plus one 64-byte block.
	p, _ := newPool(t, 72, 64, 8)
	require.Equal(t, 1, p.TotalBlocks())

	b, err := p.Alloc()
	require.NoError(t, err)
	_, err = p.Alloc()
	require.Equal(t, api.CodeOutOfMemory, api.CodeOf(err))
	require.NoError(t, p.Free(b))
}

func TestAllocBytesViewsBlockStorage(t *testing.T) {
	p, _ := newPool(t, 4096, 64, 8)
	buf, err := p.AllocBytes()
	require.NoError(t, err)
	require.Len(t, buf, p.BlockSize())

	for i := range buf {
		buf[i] = byte(i)
	}
	require.True(t, p.Contains(unsafe.Pointer(&buf[0])))
	require.NoError(t, p.FreeBytes(buf))

	err = p.FreeBytes(nil)
	require.Equal(t, api.CodeNullPointer, api.CodeOf(err))
}

func TestSetSyncHookWrapsMutatingPaths(t *testing.T) {
	p, _ := newPool(t, 4096, 64, 8)

	locks, unlocks := 0, 0
	require.NoError(t, p.SetSync(func() { locks++ }, func() { unlocks++ }))

	b, err := p.Alloc()
	require.NoError(t, err)
	require.NoError(t, p.Free(b))
	_, err = p.Stats()
	require.NoError(t, err)
	require.NoError(t, p.Reset())

	require.Equal(t, locks, unlocks)
	require.Equal(t, 4, locks)

	// Early-return paths still pair lock with unlock.
	locks, unlocks = 0, 0
	err = p.Free(b) // double free after reset
	require.Equal(t, api.CodeDoubleFree, api.CodeOf(err))
	require.Equal(t, locks, unlocks)
	require.Equal(t, 1, locks)

	// Validation failures never enter the critical section.
	locks, unlocks = 0, 0
	external := make([]byte, 64)
	_ = p.Free(unsafe.Pointer(&external[0]))
	require.Zero(t, locks)

	// Nil side disables the pair.
	require.NoError(t, p.SetSync(nil, nil))
	locks = 0
	_, err = p.Alloc()
	require.NoError(t, err)
	require.Zero(t, locks)
}

func TestNilPoolHandle(t *testing.T) {
	var p *mempool.Pool
	_, err := p.Alloc()
	require.Equal(t, api.CodeNullPointer, api.CodeOf(err))
	require.Equal(t, api.CodeNullPointer, api.CodeOf(p.Reset()))
	require.False(t, p.Contains(unsafe.Pointer(&struct{}{})))
	_, err = p.Stats()
	require.Equal(t, api.CodeNullPointer, api.CodeOf(err))
	require.Equal(t, api.CodeNullPointer, api.CodeOf(p.SetSync(func() {}, func() {})))
	require.Zero(t, p.BlockSize())
	require.Zero(t, p.TotalBlocks())
}

func TestAbandonedStateBufferReadsAsUninitialized(t *testing.T) {
	state := alignedBuf(mempool.StateSize(), 8)
	region := alignedBuf(4096, 8)
	p, err := mempool.Init(state, region, 64, 8)
	require.NoError(t, err)

	// The caller violating ownership and wiping the state region is the
	// implicit Init -> Uninit transition; the handle must notice.
	for i := range state {
		state[i] = 0
	}
	_, err = p.Alloc()
	require.Equal(t, api.CodeNotInitialized, api.CodeOf(err))
	require.Equal(t, api.CodeNotInitialized, api.CodeOf(p.Reset()))
	require.False(t, p.Contains(unsafe.Pointer(&region[0])))
	_, err = p.Stats()
	require.Equal(t, api.CodeNotInitialized, api.CodeOf(err))
}

func TestPeakUsageTracksHighWaterMark(t *testing.T) {
	p, _ := newPool(t, 4096, 64, 8)

	a, err := p.Alloc()
	require.NoError(t, err)
	b, err := p.Alloc()
	require.NoError(t, err)
	require.NoError(t, p.Free(a))
	require.NoError(t, p.Free(b))

	s, err := p.Stats()
	require.NoError(t, err)
	require.Equal(t, uint32(2), s.PeakUsage)
	require.Zero(t, s.UsedBlocks)

	// Peak survives frees and only moves on a new high-water mark.
	c, err := p.Alloc()
	require.NoError(t, err)
	s, _ = p.Stats()
	require.Equal(t, uint32(2), s.PeakUsage)
	require.NoError(t, p.Free(c))
}

func TestAlignmentOneBlocksFollowBitmap(t *testing.T) {
	state := alignedBuf(mempool.StateSize(), 8)
	region := alignedBuf(1024, 8)
	p, err := mempool.Init(state, region, 16, 1)
	require.NoError(t, err)

	n := uintptr(p.TotalBlocks())
	bitmapBytes := (n + 7) / 8
	base := uintptr(unsafe.Pointer(&region[0]))

	// LIFO head is the last block; its address pins the blocks offset.
	b, err := p.Alloc()
	require.NoError(t, err)
	want := base + bitmapBytes + (n-1)*uintptr(p.BlockSize())
	require.Equal(t, want, uintptr(b))
	require.NoError(t, p.Free(b))
}
