// File: pool/objpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Generic pooling of heavy heap-resident objects. The payoff is the
// reset contract: values return to their logical default while their
// internal backing storage (grown slices, maps) survives the lease
// cycle, so steady-state traffic stops allocating.

package pool

import (
	"github.com/momentics/hioload-pool/api"
	"github.com/momentics/hioload-pool/core/slots"
)

// ObjectOptions tunes an ObjectPool.
type ObjectOptions[T any] struct {
	// GrowthCap is the maximum total slot count. Defaults to four
	// times the initial count; set to the initial count to disable
	// growth.
	GrowthCap int

	// Shards sets the number of free-list front caches. Defaults to
	// GOMAXPROCS.
	Shards int

	// Reset restores a value to its logical default on release. The
	// default zeroes the whole value; supply a hook that clears
	// fields in place (s = s[:0], clear(m)) to retain their backing
	// storage, which is the entire point of pooling heavy structures.
	Reset func(*T)
}

// ObjectPool recycles heap-resident values of type T.
type ObjectPool[T any] struct {
	eng *slots.Engine[*T]
}

// NewObjectPool eagerly allocates count values. Fails with a Config
// error when count is zero.
func NewObjectPool[T any](count int, opts ObjectOptions[T]) (*ObjectPool[T], error) {
	if opts.GrowthCap == 0 {
		opts.GrowthCap = 4 * count
	}
	reset := opts.Reset
	if reset == nil {
		reset = func(v *T) {
			var zero T
			*v = zero
		}
	}

	eng, err := slots.New(count, func() *T { return new(T) }, slots.Options[*T]{
		GrowthCap: opts.GrowthCap,
		Shards:    opts.Shards,
		Reset:     func(v *T) { reset(v) },
	})
	if err != nil {
		return nil, err
	}
	return &ObjectPool[T]{eng: eng}, nil
}

// Get returns a handle over a logically-default value. Never blocks:
// on exhaustion beyond the growth cap a transient value is handed out.
func (p *ObjectPool[T]) Get() api.Handle[*T] {
	l := p.eng.Acquire()
	return &Handle[T]{pool: p, lease: l}
}

// With leases a value for the duration of fn and releases it on every
// exit path, including panics.
func (p *ObjectPool[T]) With(fn func(*T)) {
	h := p.Get()
	defer h.Release()
	fn(h.Value())
}

// Stats returns a snapshot of the pool counters.
func (p *ObjectPool[T]) Stats() api.PoolStats { return p.eng.Stats() }

var _ api.ObjectPool[*struct{}] = (*ObjectPool[struct{}])(nil)
