// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector. Exposes counters in a thread-safe map
// with dynamic registration, plus a typed publisher for pool stats
// snapshots so the sampler needs no key arithmetic of its own.

package control

import (
	"sync"
	"time"

	"github.com/momentics/hioload-mempool/api"
)

// MetricsRegistry holds mutable and read-only metrics.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// PublishPool flattens one pool snapshot under "pool.<name>.*" keys.
func (mr *MetricsRegistry) PublishPool(name string, s api.PoolStats) {
	prefix := "pool." + name + "."
	mr.mu.Lock()
	mr.metrics[prefix+"total_blocks"] = s.TotalBlocks
	mr.metrics[prefix+"used_blocks"] = s.UsedBlocks
	mr.metrics[prefix+"free_blocks"] = s.FreeBlocks
	mr.metrics[prefix+"peak_usage"] = s.PeakUsage
	mr.metrics[prefix+"alloc_count"] = s.AllocCount
	mr.metrics[prefix+"free_count"] = s.FreeCount
	mr.metrics[prefix+"block_size"] = s.BlockSize
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// GetSnapshot returns the latest metrics.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics))
	for k, v := range mr.metrics {
		out[k] = v
	}
	return out
}

// LastUpdated reports when any metric last changed.
func (mr *MetricsRegistry) LastUpdated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}
