// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stable public surface of hioload-mempool: error codes, statistics,
// synchronization hooks and the fixed-size pool contract.
//
// The api package contains no implementation. The engine lives in the
// mempool package; observability adapters live in control.
package api
