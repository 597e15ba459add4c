// File: control/registry.go
// Author: momentics <momentics@gmail.com>
//
// Named pool registry. Pools are observed through api.StatsSource, so
// the registry never reaches into engine state; a snapshot is a map of
// value copies taken one pool at a time.

package control

import (
	"sync"

	"github.com/momentics/hioload-mempool/api"
)

// PoolRegistry tracks named stats sources.
type PoolRegistry struct {
	mu    sync.RWMutex
	pools map[string]api.StatsSource
}

// NewPoolRegistry creates an empty registry.
func NewPoolRegistry() *PoolRegistry {
	return &PoolRegistry{pools: make(map[string]api.StatsSource)}
}

// RegisterPool adds or replaces a named source.
func (pr *PoolRegistry) RegisterPool(name string, src api.StatsSource) {
	pr.mu.Lock()
	pr.pools[name] = src
	pr.mu.Unlock()
}

// UnregisterPool removes a named source.
func (pr *PoolRegistry) UnregisterPool(name string) {
	pr.mu.Lock()
	delete(pr.pools, name)
	pr.mu.Unlock()
}

// Names returns the registered pool names.
func (pr *PoolRegistry) Names() []string {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	out := make([]string, 0, len(pr.pools))
	for name := range pr.pools {
		out = append(out, name)
	}
	return out
}

// Snapshot collects a stats copy per pool. Sources that fail to
// snapshot (for example, a pool whose state buffer was abandoned) are
// skipped rather than poisoning the map.
func (pr *PoolRegistry) Snapshot() map[string]api.PoolStats {
	pr.mu.RLock()
	sources := make(map[string]api.StatsSource, len(pr.pools))
	for name, src := range pr.pools {
		sources[name] = src
	}
	pr.mu.RUnlock()

	out := make(map[string]api.PoolStats, len(sources))
	for name, src := range sources {
		if s, err := src.Stats(); err == nil {
			out[name] = s
		}
	}
	return out
}
