// File: api/sync.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Caller-supplied critical-section hooks. The engine itself contains no
// atomics and no locks; whatever pair is installed here wraps every
// state-mutating region and the stats snapshot.

package api

// SyncHooks carries the lock/unlock pair installed via FixedPool.SetSync.
// Context travels inside the closures, so no separate user pointer is
// needed. A pair with either side nil is considered absent.
type SyncHooks struct {
	Lock   func()
	Unlock func()
}

// Installed reports whether both callbacks are present.
func (h SyncHooks) Installed() bool { return h.Lock != nil && h.Unlock != nil }
