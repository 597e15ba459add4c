// Package mempool
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Deterministic fixed-size block allocator over two caller-owned byte
// regions. The state region holds the control block; the pool region
// holds the allocation bitmap followed by aligned blocks. Free blocks
// are threaded into an in-place LIFO list through their first
// pointer-sized word.
//
// The engine performs no heap allocation after Init, contains no
// atomics and no locks, and never logs. Concurrent use requires a
// caller-installed lock/unlock pair, see (*Pool).SetSync.
package mempool
