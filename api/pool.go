// File: api/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Contract of the deterministic fixed-size block pool. The engine hands
// out raw block pointers into a caller-owned region; no operation touches
// the Go heap after initialization.

package api

import "unsafe"

// FixedPool is the operation surface of a fixed-size block pool.
//
// Alloc and Free are O(1); Reset re-threads the whole region in O(N).
// Without an installed sync hook the pool must be confined to a single
// goroutine.
type FixedPool interface {
	// Alloc pops one block off the free list. Returns ErrOutOfMemory
	// when the pool is exhausted, leaving all state untouched.
	Alloc() (unsafe.Pointer, error)

	// AllocBytes allocates one block and returns it as a block-sized
	// byte slice over the same storage.
	AllocBytes() ([]byte, error)

	// Free returns a block obtained from Alloc. A pointer outside the
	// blocks range or off the block stride yields ErrInvalidBlock; a
	// block that is already free yields ErrDoubleFree.
	Free(block unsafe.Pointer) error

	// FreeBytes frees a slice previously returned by AllocBytes.
	FreeBytes(block []byte) error

	// Reset revokes all outstanding blocks and restores the freshly
	// initialized state. Structural fields survive; counters do not.
	Reset() error

	// Contains reports whether ptr falls inside the blocks range.
	// Pure range test: alignment and allocation state are not consulted.
	Contains(ptr unsafe.Pointer) bool

	// Stats returns a value-copy snapshot of the pool counters.
	Stats() (PoolStats, error)

	// SetSync installs the critical-section hook pair. Passing a nil
	// lock or unlock disables synchronization and clears any previously
	// installed pair.
	SetSync(lock, unlock func()) error
}

// StatsSource exposes a point-in-time statistics snapshot. Implemented
// by the pool engine and consumed by the control plane.
type StatsSource interface {
	Stats() (PoolStats, error)
}
