// File: pool/handle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"sync/atomic"

	"github.com/momentics/hioload-pool/api"
	"github.com/momentics/hioload-pool/core/slots"
)

// Handle is the scoped lease of one pooled object. Release is
// explicit (or via ObjectPool.With); relying on collector timing for
// pool return is unsupported.
type Handle[T any] struct {
	pool  *ObjectPool[T]
	lease slots.Lease[*T]
	done  atomic.Bool
}

// Value returns the leased object. Logically default on acquisition;
// callers must not assume any minimal capacity.
func (h *Handle[T]) Value() *T { return h.lease.Value }

// Origin reports whether the object is pooled or transient.
func (h *Handle[T]) Origin() api.Origin { return h.lease.Origin }

// Release resets the object and returns its slot to the pool. The
// second call reports DoubleRelease and never touches the free-list.
func (h *Handle[T]) Release() error {
	if !h.done.CompareAndSwap(false, true) {
		return api.NewError(api.ErrCodeDoubleRelease, "handle already released")
	}
	return h.pool.eng.Release(h.lease)
}

var _ api.Handle[*struct{}] = (*Handle[struct{}])(nil)
