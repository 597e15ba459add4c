// File: control/prometheus.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus export of pool statistics. Snapshots are mirrored into
// per-pool gauges; counters are exported as gauges too, because the
// source of truth is the pool's own snapshot, not this bridge, and a
// pool Reset returns its counters to zero.

package control

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/momentics/hioload-mempool/api"
)

// PrometheusBridge mirrors api.PoolStats snapshots into a Prometheus
// registerer. One metric family per stats field, labeled by pool name.
type PrometheusBridge struct {
	log *zap.Logger

	totalBlocks *prometheus.GaugeVec
	usedBlocks  *prometheus.GaugeVec
	freeBlocks  *prometheus.GaugeVec
	peakUsage   *prometheus.GaugeVec
	allocCount  *prometheus.GaugeVec
	freeCount   *prometheus.GaugeVec
	blockSize   *prometheus.GaugeVec
}

// NewPrometheusBridge registers the metric families with reg. A nil
// logger disables bridge logging.
func NewPrometheusBridge(reg prometheus.Registerer, log *zap.Logger) (*PrometheusBridge, error) {
	if log == nil {
		log = zap.NewNop()
	}
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hioload",
			Subsystem: "mempool",
			Name:      name,
			Help:      help,
		}, []string{"pool"})
	}
	b := &PrometheusBridge{
		log:         log,
		totalBlocks: gauge("total_blocks", "Block capacity chosen by the layout planner."),
		usedBlocks:  gauge("used_blocks", "Blocks currently handed out."),
		freeBlocks:  gauge("free_blocks", "Blocks currently on the free list."),
		peakUsage:   gauge("peak_usage", "High-water mark of simultaneously used blocks."),
		allocCount:  gauge("alloc_count", "Successful allocations since init or reset."),
		freeCount:   gauge("free_count", "Successful frees since init or reset."),
		blockSize:   gauge("block_size_bytes", "Effective block stride in bytes."),
	}
	for _, c := range []prometheus.Collector{
		b.totalBlocks, b.usedBlocks, b.freeBlocks, b.peakUsage,
		b.allocCount, b.freeCount, b.blockSize,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Observe snapshots one source and publishes it under name.
func (b *PrometheusBridge) Observe(name string, src api.StatsSource) error {
	s, err := src.Stats()
	if err != nil {
		b.log.Warn("pool snapshot failed", zap.String("pool", name), zap.Error(err))
		return err
	}
	b.Publish(name, s)
	return nil
}

// Publish mirrors an already-taken snapshot under name.
func (b *PrometheusBridge) Publish(name string, s api.PoolStats) {
	b.totalBlocks.WithLabelValues(name).Set(float64(s.TotalBlocks))
	b.usedBlocks.WithLabelValues(name).Set(float64(s.UsedBlocks))
	b.freeBlocks.WithLabelValues(name).Set(float64(s.FreeBlocks))
	b.peakUsage.WithLabelValues(name).Set(float64(s.PeakUsage))
	b.allocCount.WithLabelValues(name).Set(float64(s.AllocCount))
	b.freeCount.WithLabelValues(name).Set(float64(s.FreeCount))
	b.blockSize.WithLabelValues(name).Set(float64(s.BlockSize))
	b.log.Debug("pool snapshot published",
		zap.String("pool", name),
		zap.Uint32("used", s.UsedBlocks),
		zap.Uint32("free", s.FreeBlocks),
		zap.Uint32("peak", s.PeakUsage))
}

// Remove drops the series for a pool that was unregistered.
func (b *PrometheusBridge) Remove(name string) {
	for _, g := range []*prometheus.GaugeVec{
		b.totalBlocks, b.usedBlocks, b.freeBlocks, b.peakUsage,
		b.allocCount, b.freeCount, b.blockSize,
	} {
		g.DeleteLabelValues(name)
	}
}
