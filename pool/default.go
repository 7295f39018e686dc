// File: pool/default.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Process-wide segment pool so independent workers share one arena
// without threading a handle through every call site. Initialization
// is explicit and happens exactly once; re-init is refused rather than
// silently reallocating live memory.

package pool

import (
	"sync"

	"github.com/momentics/hioload-pool/api"
)

var (
	defaultMu   sync.Mutex
	defaultPool *BufferPool
)

// Init creates the process-wide segment pool. Must be called once
// before AcquireSegment; a second call fails with AlreadyInitialized.
func Init(count, segmentCapacity int) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultPool != nil {
		return api.NewError(api.ErrCodeAlreadyInitialized, "default pool already initialized")
	}
	p, err := NewBufferPool(count, segmentCapacity)
	if err != nil {
		return err
	}
	defaultPool = p
	return nil
}

// Default returns the process-wide pool, or NotInitialized before
// Init.
func Default() (*BufferPool, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultPool == nil {
		return nil, api.NewError(api.ErrCodeNotInitialized, "default pool is not initialized")
	}
	return defaultPool, nil
}

// AcquireSegment leases a segment from the process-wide pool.
func AcquireSegment() (api.Segment, error) {
	p, err := Default()
	if err != nil {
		return nil, err
	}
	return p.Acquire(), nil
}

// resetDefault tears down the singleton. Test hook.
func resetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultPool != nil {
		defaultPool.Close()
		defaultPool = nil
	}
}
