// Package pool
// Author: momentics <momentics@gmail.com>
//
// High-frequency recycling of heavy heap objects and arena-backed byte
// segments. Acquire/release never blocks: exhaustion is absorbed by
// transient fallback allocations, trading memory for latency. See
// bufferpool.go and objpool.go for the two specializations over the
// core slot engine.
package pool
