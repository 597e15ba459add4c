// File: api/control.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Control-plane contract. Pools never call into the control plane;
// observation is pull-only through StatsSource snapshots.

package api

// Control manages dynamic config and runtime observability for a set
// of registered pools.
type Control interface {
	GetConfig() map[string]any
	SetConfig(cfg map[string]any) error
	Stats() map[string]any
	OnReload(fn func())
	RegisterDebugProbe(name string, fn func() any)
}
