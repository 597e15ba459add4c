// File: control/sampler.go
// Author: momentics <momentics@gmail.com>
//
// Periodic pool sampler. Pulls snapshots from the pool registry on a
// configurable interval and fans them out to the metrics registry and
// the optional Prometheus bridge. The interval is read from the config
// store and picked up on hot reload.

package control

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// ConfigKeySampleInterval names the sampler interval in the config
// store. The value is a time.Duration.
const ConfigKeySampleInterval = "sampler.interval"

const defaultSampleInterval = time.Second

// Sampler drives periodic observation of registered pools.
type Sampler struct {
	registry *PoolRegistry
	metrics  *MetricsRegistry
	bridge   *PrometheusBridge
	config   *ConfigStore
	log      *zap.Logger

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// SamplerOption customizes a Sampler.
type SamplerOption func(*Sampler)

// WithBridge attaches a Prometheus bridge to the fan-out.
func WithBridge(b *PrometheusBridge) SamplerOption {
	return func(s *Sampler) { s.bridge = b }
}

// WithLogger attaches structured logging to the sampling loop.
func WithLogger(log *zap.Logger) SamplerOption {
	return func(s *Sampler) { s.log = log }
}

// WithConfigStore attaches a config store; the sampler reads its
// interval from it and re-reads on every tick so hot reload works
// without restarting the loop.
func WithConfigStore(cs *ConfigStore) SamplerOption {
	return func(s *Sampler) { s.config = cs }
}

// NewSampler wires a sampler over registry and metrics.
func NewSampler(registry *PoolRegistry, metrics *MetricsRegistry, opts ...SamplerOption) *Sampler {
	s := &Sampler{
		registry: registry,
		metrics:  metrics,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sampler) interval() time.Duration {
	if s.config != nil {
		if v, ok := s.config.Duration(ConfigKeySampleInterval); ok && v > 0 {
			return v
		}
	}
	return defaultSampleInterval
}

// SampleOnce performs a single registry sweep.
func (s *Sampler) SampleOnce() {
	snap := s.registry.Snapshot()
	for name, stats := range snap {
		s.metrics.PublishPool(name, stats)
		if s.bridge != nil {
			s.bridge.Publish(name, stats)
		}
	}
	s.log.Debug("pools sampled", zap.Int("pools", len(snap)))
}

// Start launches the sampling loop. Repeated Start calls are no-ops
// until Stop.
func (s *Sampler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.running = true
	go s.run(s.stop, s.done)
}

// Stop halts the loop and waits for it to drain.
func (s *Sampler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	stop, done := s.stop, s.done
	s.running = false
	s.mu.Unlock()
	close(stop)
	<-done
}

func (s *Sampler) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	timer := time.NewTimer(s.interval())
	defer timer.Stop()
	for {
		select {
		case <-stop:
			return
		case <-timer.C:
			s.SampleOnce()
			timer.Reset(s.interval())
		}
	}
}
