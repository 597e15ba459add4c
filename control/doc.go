// Package control
// Author: momentics <momentics@gmail.com>
//
// Observability plane for hioload-mempool. The pool engine itself is
// silent by contract; this package watches pools from the outside
// through value-copy stats snapshots.
//
// Provides concurrent-safe state handling primitives including:
//   - Named pool registration and snapshot aggregation
//   - Immutable snapshot config reads with hot-reload observers
//   - Metrics telemetry and Prometheus export
//   - State export, debug hooks, and probe registration
//
// This package is cross-platform and build-tag-partitioned as needed.
package control
