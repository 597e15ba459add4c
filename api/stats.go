// File: api/stats.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool statistics snapshot. All fields are 32-bit to keep the record
// layout identical across targets.

package api

// PoolStats aggregates allocation accounting for one pool.
//
// Invariants while a pool is initialized:
//
//	UsedBlocks + FreeBlocks == TotalBlocks
//	AllocCount - FreeCount  == UsedBlocks
//	PeakUsage >= UsedBlocks
type PoolStats struct {
	TotalBlocks uint32
	UsedBlocks  uint32
	FreeBlocks  uint32
	PeakUsage   uint32
	AllocCount  uint32
	FreeCount   uint32
	BlockSize   uint32
}

// InUse reports whether any block is currently handed out.
func (s PoolStats) InUse() bool { return s.UsedBlocks != 0 }
