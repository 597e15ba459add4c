// File: mempool/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool engine: initialization, the alloc/free/reset state machine,
// pointer validation and double-free detection. Every mutating region
// and the stats snapshot run under the optional caller-installed
// lock/unlock pair; argument validation runs outside it.

package mempool

import (
	"unsafe"

	"github.com/momentics/hioload-mempool/api"
)

// Pool is the handle returned by Init. All pool state lives in the
// caller's state region; the handle itself only pins the two regions
// for the garbage collector and carries the sync hook pair, which is
// made of Go function values and therefore cannot live inside the
// byte-backed control block.
type Pool struct {
	cb     *controlBlock
	state  []byte
	region []byte
	hooks  api.SyncHooks
}

var _ api.FixedPool = (*Pool)(nil)

// Init plans the region layout, writes a fresh control block into the
// state region, zeroes the bitmap and threads the free list through
// the blocks in ascending order, so the list head is the last block
// and the first allocations come back in descending index order.
//
// The state region must be at least StateSize() bytes and aligned for
// the control block; the pool region must be aligned to the requested
// alignment. Neither region may be touched by the caller afterwards,
// except through block pointers returned by Alloc.
func Init(state, region []byte, blockSize, alignment uintptr) (*Pool, error) {
	if state == nil || region == nil {
		return nil, api.ErrNullPointer
	}
	if len(state) < StateSize() {
		return nil, api.ErrInvalidSize
	}
	lay, err := planLayout(uintptr(len(region)), blockSize, alignment)
	if err != nil {
		return nil, err
	}
	base := uintptr(unsafe.Pointer(&region[0]))
	if base%alignment != 0 {
		return nil, api.ErrAlignment
	}
	stateBase := uintptr(unsafe.Pointer(&state[0]))
	if stateBase%unsafe.Alignof(controlBlock{}) != 0 {
		return nil, api.ErrAlignment
	}

	cb := (*controlBlock)(unsafe.Pointer(&state[0]))
	*cb = controlBlock{
		poolBase:    base,
		poolSize:    uintptr(len(region)),
		bitmapBase:  base,
		bitmapBytes: lay.bitmapBytes,
		blocksBase:  base + lay.blocksOff,
		blockSize:   lay.blockSize,
		alignment:   lay.alignment,
		totalBlocks: lay.numBlocks,
	}
	p := &Pool{cb: cb, state: state, region: region}
	p.rethread()
	cb.stats = statsBlock{
		totalBlocks: lay.numBlocks,
		freeBlocks:  lay.numBlocks,
		blockSize:   uint32(lay.blockSize),
	}
	cb.magic = poolMagic
	return p, nil
}

// rethread zeroes the bitmap and rebuilds the free list in canonical
// order. Shared by Init and Reset.
func (p *Pool) rethread() {
	cb := p.cb
	for i := uintptr(0); i < cb.bitmapBytes; i++ {
		p.region[i] = 0
	}
	head := uintptr(0)
	for i := uintptr(0); i < uintptr(cb.totalBlocks); i++ {
		block := cb.blocksBase + i*cb.blockSize
		*(*uintptr)(unsafe.Pointer(block)) = head
		head = block
	}
	cb.freeHead = head
	cb.freeBlocks = cb.totalBlocks
}

func (p *Pool) enter() {
	if p.hooks.Lock != nil {
		p.hooks.Lock()
	}
}

func (p *Pool) leave() {
	if p.hooks.Unlock != nil {
		p.hooks.Unlock()
	}
}

// Alloc pops the free-list head. O(1). On exhaustion every counter and
// the list stay untouched and ErrOutOfMemory is returned.
func (p *Pool) Alloc() (unsafe.Pointer, error) {
	if p == nil {
		return nil, api.ErrNullPointer
	}
	cb := p.cb
	if !cb.initialized() {
		return nil, api.ErrNotInitialized
	}
	p.enter()
	if cb.freeHead == 0 || cb.freeBlocks == 0 {
		p.leave()
		return nil, api.ErrOutOfMemory
	}
	block := cb.freeHead
	cb.freeHead = *(*uintptr)(unsafe.Pointer(block))
	cb.freeBlocks--
	cb.stats.allocCount++
	cb.stats.freeBlocks = cb.freeBlocks
	cb.stats.usedBlocks = cb.stats.totalBlocks - cb.freeBlocks
	if cb.stats.usedBlocks > cb.stats.peakUsage {
		cb.stats.peakUsage = cb.stats.usedBlocks
	}
	cb.bitSet((block - cb.blocksBase) / cb.blockSize)
	p.leave()
	return unsafe.Pointer(block), nil
}

// AllocBytes allocates one block and returns it as a block-sized slice
// over the same storage.
func (p *Pool) AllocBytes() ([]byte, error) {
	ptr, err := p.Alloc()
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(ptr), p.cb.blockSize), nil
}

// checkFree validates a candidate pointer without entering the
// critical section: range first, then block stride.
func (p *Pool) checkFree(block unsafe.Pointer) error {
	if p == nil || block == nil {
		return api.ErrNullPointer
	}
	cb := p.cb
	if !cb.initialized() {
		return api.ErrNotInitialized
	}
	addr := uintptr(block)
	end := cb.blocksBase + uintptr(cb.totalBlocks)*cb.blockSize
	if addr < cb.blocksBase || addr >= end {
		return api.ErrInvalidBlock
	}
	if (addr-cb.blocksBase)%cb.blockSize != 0 {
		return api.ErrInvalidBlock
	}
	return nil
}

// Free returns a block to the pool. A clear bitmap bit means the block
// is already free: ErrDoubleFree, nothing mutated. Stats move only on
// the success path; peak usage never moves here.
func (p *Pool) Free(block unsafe.Pointer) error {
	if err := p.checkFree(block); err != nil {
		return err
	}
	cb := p.cb
	addr := uintptr(block)
	p.enter()
	idx := (addr - cb.blocksBase) / cb.blockSize
	if !cb.bitGet(idx) {
		p.leave()
		return api.ErrDoubleFree
	}
	*(*uintptr)(unsafe.Pointer(addr)) = cb.freeHead
	cb.freeHead = addr
	if cb.freeBlocks < cb.totalBlocks {
		cb.freeBlocks++
	}
	cb.stats.freeCount++
	cb.stats.freeBlocks = cb.freeBlocks
	cb.stats.usedBlocks = cb.stats.totalBlocks - cb.freeBlocks
	cb.bitClear(idx)
	p.leave()
	return nil
}

// FreeBytes frees a slice previously returned by AllocBytes.
func (p *Pool) FreeBytes(block []byte) error {
	if len(block) == 0 {
		return api.ErrNullPointer
	}
	return p.Free(unsafe.Pointer(&block[0]))
}

// Reset revokes every outstanding block: the bitmap is zeroed, the
// free list rebuilt in canonical order, and all counters except the
// structural TotalBlocks and BlockSize return to zero. Pointers handed
// out before Reset are invalid; freeing one afterwards hits a clear
// bit and reports ErrDoubleFree without corrupting the pool.
func (p *Pool) Reset() error {
	if p == nil {
		return api.ErrNullPointer
	}
	cb := p.cb
	if !cb.initialized() {
		return api.ErrNotInitialized
	}
	p.enter()
	p.rethread()
	cb.stats.usedBlocks = 0
	cb.stats.freeBlocks = cb.totalBlocks
	cb.stats.peakUsage = 0
	cb.stats.allocCount = 0
	cb.stats.freeCount = 0
	p.leave()
	return nil
}

// Contains reports whether ptr lies inside the blocks range. Pure
// range test: neither alignment nor the bitmap is consulted, so an
// in-range interior pointer also reports true.
func (p *Pool) Contains(ptr unsafe.Pointer) bool {
	if p == nil || ptr == nil {
		return false
	}
	cb := p.cb
	if !cb.initialized() {
		return false
	}
	addr := uintptr(ptr)
	return addr >= cb.blocksBase && addr < cb.blocksBase+uintptr(cb.totalBlocks)*cb.blockSize
}

// Stats returns a value-copy snapshot, taken under the hook when one
// is installed.
func (p *Pool) Stats() (api.PoolStats, error) {
	if p == nil {
		return api.PoolStats{}, api.ErrNullPointer
	}
	cb := p.cb
	if !cb.initialized() {
		return api.PoolStats{}, api.ErrNotInitialized
	}
	p.enter()
	s := api.PoolStats{
		TotalBlocks: cb.stats.totalBlocks,
		UsedBlocks:  cb.stats.usedBlocks,
		FreeBlocks:  cb.stats.freeBlocks,
		PeakUsage:   cb.stats.peakUsage,
		AllocCount:  cb.stats.allocCount,
		FreeCount:   cb.stats.freeCount,
		BlockSize:   cb.stats.blockSize,
	}
	p.leave()
	return s, nil
}

// SetSync installs the critical-section pair. A nil lock or unlock
// disables synchronization and clears any previously installed pair.
// Install after Init and before the pool is shared; reinstalling while
// concurrent access is in progress is undefined.
func (p *Pool) SetSync(lock, unlock func()) error {
	if p == nil {
		return api.ErrNullPointer
	}
	if !p.cb.initialized() {
		return api.ErrNotInitialized
	}
	if lock == nil || unlock == nil {
		p.hooks = api.SyncHooks{}
		return nil
	}
	p.hooks = api.SyncHooks{Lock: lock, Unlock: unlock}
	return nil
}

// BlockSize returns the effective block stride: the requested size
// rounded up to the alignment.
func (p *Pool) BlockSize() int {
	if p == nil || !p.cb.initialized() {
		return 0
	}
	return int(p.cb.blockSize)
}

// TotalBlocks returns the block capacity chosen by the layout planner.
func (p *Pool) TotalBlocks() int {
	if p == nil || !p.cb.initialized() {
		return 0
	}
	return int(p.cb.totalBlocks)
}
