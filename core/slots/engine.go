// File: core/slots/engine.go
// Package slots implements the generic slot lease engine behind all
// pools: bounded index bookkeeping, growth policy, transient fallback.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package slots

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/hioload-pool/api"
)

// NoSlot is the index carried by transient leases.
const NoSlot = ^uint32(0)

// Slot control word layout: generation in the high 32 bits, lease
// state in the low bit. Packing both lets lease and release validate
// generation and state in one CAS, closing the window where a stale
// release could observe a matching generation and then free a slot a
// concurrent acquirer had just re-leased.
const (
	ctrlLeased   uint64 = 1
	ctrlGenShift        = 32
)

func ctrlWord(gen uint32, leased bool) uint64 {
	w := uint64(gen) << ctrlGenShift
	if leased {
		w |= ctrlLeased
	}
	return w
}

// Lease identifies one live checkout of a slot. Index and Gen together
// name exactly one lease cycle; Release validates both before touching
// the free-list.
type Lease[T any] struct {
	Index  uint32
	Gen    uint32
	Origin api.Origin
	Value  T
}

// Options tunes an Engine. The zero value disables growth and shards
// the front cache per GOMAXPROCS.
type Options[T any] struct {
	// GrowthCap is the maximum total slot count. Values at or below
	// the initial count disable growth.
	GrowthCap int

	// Shards sets the number of free-list front caches. Defaults to
	// GOMAXPROCS.
	Shards int

	// Reset is applied to a slot value on release, before the index
	// returns to the free-list.
	Reset func(T)

	// Transient builds the fallback value handed out on exhaustion.
	// Defaults to the pool factory.
	Transient func() T

	// RecycleTransient, if set, runs when a transient lease is
	// released, letting the caller hand the storage back to an
	// auxiliary pool. Pooled bookkeeping is never involved.
	RecycleTransient func(T)
}

// slot is one reusable unit. ctrl packs the lease state with the
// cycle generation; both are checked and advanced atomically so stale
// handles cannot corrupt the free-list.
type slot[T any] struct {
	ctrl atomic.Uint64
	val  T
}

// Engine manages a bounded, optionally-growable set of reusable slot
// indices with concurrency-safe acquire/release. Acquire never blocks
// and never fails: exhaustion falls back to a transient value.
type Engine[T any] struct {
	factory          func() T
	reset            func(T)
	transient        func() T
	recycleTransient func(T)

	// slots is sized to the growth cap at construction so slot
	// addresses stay stable for the engine's lifetime. allocated
	// marks how many entries are initialized and in circulation.
	slots     []slot[T]
	allocated atomic.Uint32
	growMu    sync.Mutex

	free freeList

	totalAlloc   atomic.Int64
	totalFree    atomic.Int64
	transientCnt atomic.Int64
	misses       atomic.Int64
}

// New eagerly allocates count slots via factory. Fails with a Config
// error when count is zero or factory is nil.
func New[T any](count int, factory func() T, opts Options[T]) (*Engine[T], error) {
	if count <= 0 {
		return nil, api.NewError(api.ErrCodeConfig, "slot count must be positive").
			WithContext("count", count)
	}
	if factory == nil {
		return nil, api.NewError(api.ErrCodeConfig, "slot factory is required")
	}

	capTotal := opts.GrowthCap
	if capTotal < count {
		capTotal = count
	}

	e := &Engine[T]{
		factory:          factory,
		reset:            opts.Reset,
		transient:        opts.Transient,
		recycleTransient: opts.RecycleTransient,
		slots:            make([]slot[T], capTotal),
	}
	if e.transient == nil {
		e.transient = factory
	}
	e.free.init(opts.Shards, count)

	for i := 0; i < count; i++ {
		e.slots[i].val = factory()
	}
	e.allocated.Store(uint32(count))
	return e, nil
}

// Acquire returns a lease backed by a recycled slot, a freshly grown
// slot, or a transient allocation. It never blocks.
func (e *Engine[T]) Acquire() Lease[T] {
	if idx, ok := e.free.pop(); ok {
		if l, ok := e.lease(idx); ok {
			return l
		}
	}
	e.misses.Add(1)

	if idx, ok := e.grow(); ok {
		if l, ok := e.lease(idx); ok {
			return l
		}
	}

	e.transientCnt.Add(1)
	return Lease[T]{Index: NoSlot, Origin: api.OriginTransient, Value: e.transient()}
}

// TryAcquire returns a pooled (or grown) lease, or ok=false on
// exhaustion instead of a transient fallback.
func (e *Engine[T]) TryAcquire() (Lease[T], bool) {
	if idx, ok := e.free.pop(); ok {
		if l, ok := e.lease(idx); ok {
			return l, true
		}
	}
	e.misses.Add(1)
	if idx, ok := e.grow(); ok {
		if l, ok := e.lease(idx); ok {
			return l, true
		}
	}
	return Lease[T]{}, false
}

// lease transitions one free index to Leased, bumping the generation
// in the same CAS. Indices arriving from the free-list are free by
// construction; finding one leased means a foreign or duplicated
// index, which is dropped rather than double-leased.
func (e *Engine[T]) lease(idx uint32) (Lease[T], bool) {
	s := &e.slots[idx]
	for {
		old := s.ctrl.Load()
		if old&ctrlLeased != 0 {
			return Lease[T]{}, false
		}
		gen := uint32(old>>ctrlGenShift) + 1
		if s.ctrl.CompareAndSwap(old, ctrlWord(gen, true)) {
			e.totalAlloc.Add(1)
			return Lease[T]{Index: idx, Gen: gen, Origin: api.OriginPooled, Value: s.val}, true
		}
	}
}

// Release resets the slot value and returns its index to the free
// pool. Transient leases bypass the bookkeeping entirely. A stale or
// repeated lease is reported as DoubleRelease and leaves the free-list
// untouched.
func (e *Engine[T]) Release(l Lease[T]) error {
	if l.Origin == api.OriginTransient {
		if e.recycleTransient != nil {
			e.recycleTransient(l.Value)
		}
		return nil
	}
	if l.Index >= e.allocated.Load() {
		return api.NewError(api.ErrCodeDoubleRelease, "lease does not map to a live slot").
			WithContext("index", l.Index)
	}

	s := &e.slots[l.Index]
	// One CAS validates generation and state together: a stale lease
	// can never free the slot out from under the current holder, even
	// when it races the re-acquisition that bumped the generation.
	if !s.ctrl.CompareAndSwap(ctrlWord(l.Gen, true), ctrlWord(l.Gen, false)) {
		return api.NewError(api.ErrCodeDoubleRelease, "slot already released").
			WithContext("index", l.Index).
			WithContext("gen", l.Gen)
	}

	if e.reset != nil {
		e.reset(s.val)
	}
	e.totalFree.Add(1)
	e.free.push(l.Index)
	return nil
}

// grow adds slots up to the cap, doubling the current size per step.
// The first new index goes to the caller, the rest to the free-list.
func (e *Engine[T]) grow() (uint32, bool) {
	e.growMu.Lock()
	defer e.growMu.Unlock()

	cur := e.allocated.Load()
	if int(cur) >= len(e.slots) {
		return 0, false
	}
	next := cur * 2
	if int(next) > len(e.slots) {
		next = uint32(len(e.slots))
	}
	for i := cur; i < next; i++ {
		e.slots[i].val = e.factory()
	}
	e.allocated.Store(next)
	for i := cur + 1; i < next; i++ {
		e.free.push(i)
	}
	return cur, true
}

// Allocated reports the number of slots currently in circulation.
func (e *Engine[T]) Allocated() int { return int(e.allocated.Load()) }

// Capacity reports the growth cap.
func (e *Engine[T]) Capacity() int { return len(e.slots) }

// Stats returns a snapshot of the engine counters.
func (e *Engine[T]) Stats() api.PoolStats {
	alloc := e.totalAlloc.Load()
	freed := e.totalFree.Load()
	return api.PoolStats{
		TotalAlloc: alloc,
		TotalFree:  freed,
		InUse:      alloc - freed,
		Transient:  e.transientCnt.Load(),
		Misses:     e.misses.Load(),
	}
}
