// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Building blocks for the pool's caller-supplied critical section.
// The engine never synchronizes on its own; integrators pick a hook
// pair from here (spinlock or mutex backed) or bring their own.
package concurrency
