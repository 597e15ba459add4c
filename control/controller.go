// File: control/controller.go
// Author: momentics <momentics@gmail.com>
//
// Controller facade aggregating the config store, metrics registry,
// debug probes and pool registry behind the api.Control contract.

package control

import "github.com/momentics/hioload-mempool/api"

// Controller is the default api.Control implementation.
type Controller struct {
	config  *ConfigStore
	metrics *MetricsRegistry
	probes  *DebugProbes
	pools   *PoolRegistry
}

var _ api.Control = (*Controller)(nil)

// NewController assembles a controller with fresh sub-registries.
func NewController() *Controller {
	c := &Controller{
		config:  NewConfigStore(),
		metrics: NewMetricsRegistry(),
		probes:  NewDebugProbes(),
		pools:   NewPoolRegistry(),
	}
	RegisterPlatformProbes(c.probes)
	c.probes.RegisterProbe("pools", func() any { return c.pools.Snapshot() })
	return c
}

// GetConfig returns a config snapshot.
func (c *Controller) GetConfig() map[string]any { return c.config.GetSnapshot() }

// SetConfig merges new config values and triggers reload listeners.
func (c *Controller) SetConfig(cfg map[string]any) error {
	c.config.SetConfig(cfg)
	return nil
}

// Stats returns the metrics snapshot.
func (c *Controller) Stats() map[string]any { return c.metrics.GetSnapshot() }

// OnReload registers a config reload listener.
func (c *Controller) OnReload(fn func()) { c.config.OnReload(fn) }

// RegisterDebugProbe inserts a named probe.
func (c *Controller) RegisterDebugProbe(name string, fn func() any) {
	c.probes.RegisterProbe(name, fn)
}

// RegisterPool adds a named pool to the observation set.
func (c *Controller) RegisterPool(name string, src api.StatsSource) {
	c.pools.RegisterPool(name, src)
}

// Config exposes the underlying store for sampler wiring.
func (c *Controller) Config() *ConfigStore { return c.config }

// Metrics exposes the underlying metrics registry.
func (c *Controller) Metrics() *MetricsRegistry { return c.metrics }

// Pools exposes the underlying pool registry.
func (c *Controller) Pools() *PoolRegistry { return c.pools }

// DumpState returns the output of every registered probe.
func (c *Controller) DumpState() map[string]any { return c.probes.DumpState() }
