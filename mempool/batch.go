// File: mempool/batch.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Batch reclaim staging. Producers that must not touch the pool
// directly stage freed blocks into a bounded FIFO; the owning side
// drains the whole batch through a single critical-section entry.

package mempool

import (
	"sync"
	"unsafe"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-mempool/api"
)

const defaultReclaimCapacity = 1024

// BatchReclaimer stages block returns for deferred, batched freeing.
// Stage is safe for concurrent producers; Drain belongs to whichever
// side owns the pool's critical section discipline.
type BatchReclaimer struct {
	pool     *Pool
	capacity int
	onError  func(block unsafe.Pointer, err error)

	mu sync.Mutex
	q  *queue.Queue
}

// ReclaimOption customizes a BatchReclaimer.
type ReclaimOption func(*BatchReclaimer)

// WithCapacity bounds the staging FIFO. A Stage beyond the bound falls
// back to a direct Free.
func WithCapacity(n int) ReclaimOption {
	return func(r *BatchReclaimer) {
		if n > 0 {
			r.capacity = n
		}
	}
}

// WithErrorFunc installs a per-block error callback invoked by Drain
// for blocks the pool rejects.
func WithErrorFunc(fn func(block unsafe.Pointer, err error)) ReclaimOption {
	return func(r *BatchReclaimer) { r.onError = fn }
}

// NewBatchReclaimer wraps pool with a staging FIFO.
func NewBatchReclaimer(pool *Pool, opts ...ReclaimOption) *BatchReclaimer {
	r := &BatchReclaimer{
		pool:     pool,
		capacity: defaultReclaimCapacity,
		q:        queue.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stage queues block for the next Drain. When the FIFO is full the
// block is freed directly instead, so a stalled drainer cannot grow
// the staging area without bound.
func (r *BatchReclaimer) Stage(block unsafe.Pointer) error {
	if block == nil {
		return api.ErrNullPointer
	}
	r.mu.Lock()
	if r.q.Length() >= r.capacity {
		r.mu.Unlock()
		return r.pool.Free(block)
	}
	r.q.Add(uintptr(block))
	r.mu.Unlock()
	return nil
}

// Pending returns the number of staged blocks.
func (r *BatchReclaimer) Pending() int {
	r.mu.Lock()
	n := r.q.Length()
	r.mu.Unlock()
	return n
}

// Drain frees every staged block under one critical-section entry and
// returns the number successfully freed. Rejected blocks are reported
// through the error callback when one is installed.
func (r *BatchReclaimer) Drain() int {
	r.mu.Lock()
	staged := make([]uintptr, 0, r.q.Length())
	for r.q.Length() > 0 {
		staged = append(staged, r.q.Remove().(uintptr))
	}
	r.mu.Unlock()
	if len(staged) == 0 {
		return 0
	}

	// Range and stride checks run outside the pool's critical section,
	// matching the direct Free path.
	freed := 0
	valid := staged[:0]
	for _, addr := range staged {
		block := unsafe.Pointer(addr)
		if err := r.pool.checkFree(block); err != nil {
			if r.onError != nil {
				r.onError(block, err)
			}
			continue
		}
		valid = append(valid, addr)
	}

	// Rejected doubles are reported after the critical section so the
	// callback can touch the pool without self-deadlocking the hook.
	var doubles []uintptr
	cb := r.pool.cb
	r.pool.enter()
	for _, addr := range valid {
		idx := (addr - cb.blocksBase) / cb.blockSize
		if !cb.bitGet(idx) {
			doubles = append(doubles, addr)
			continue
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
		freed++
	}
	r.pool.leave()
	if r.onError != nil {
		for _, addr := range doubles {
			r.onError(unsafe.Pointer(addr), api.ErrDoubleFree)
		}
	}
	return freed
}
