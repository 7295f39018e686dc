// File: core/slots/freelist.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Two-tier free-list: small lock-free per-shard front caches over a
// mutex-guarded shared reservoir. The front caches absorb the common
// release-then-acquire cycle without touching the lock; the reservoir
// is the overflow and cold-start store.

package slots

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-pool/core/concurrency"
)

// shardCacheCap bounds each front cache to a couple of indices so hot
// slots rotate between workers instead of pinning to one shard.
const shardCacheCap = 2

type freeList struct {
	shards []*concurrency.LockFreeQueue[uint32]
	cursor atomic.Uint32

	mu      sync.Mutex
	reserve *queue.Queue
}

func (f *freeList) init(shards, count int) {
	if shards <= 0 {
		shards = runtime.GOMAXPROCS(0)
	}
	f.shards = make([]*concurrency.LockFreeQueue[uint32], shards)
	for i := range f.shards {
		f.shards[i] = concurrency.NewLockFreeQueue[uint32](shardCacheCap)
	}
	f.reserve = queue.New()
	for i := 0; i < count; i++ {
		f.reserve.Add(uint32(i))
	}
}

// pop takes a free index: rotating front cache first, then the shared
// reservoir, then a sweep of the remaining caches so indices parked in
// a cold shard are never stranded while callers fall to transients.
func (f *freeList) pop() (uint32, bool) {
	n := len(f.shards)
	start := int(f.cursor.Add(1)) % n
	if idx, ok := f.shards[start].Dequeue(); ok {
		return idx, true
	}

	f.mu.Lock()
	if f.reserve.Length() > 0 {
		idx := f.reserve.Remove().(uint32)
		f.mu.Unlock()
		return idx, true
	}
	f.mu.Unlock()

	for i := 0; i < n; i++ {
		if i == start {
			continue
		}
		if idx, ok := f.shards[i].Dequeue(); ok {
			return idx, true
		}
	}
	return 0, false
}

// push returns an index: its home shard if there is room, otherwise
// the reservoir. Both paths are safe against concurrent pop.
func (f *freeList) push(idx uint32) {
	if f.shards[int(idx)%len(f.shards)].Enqueue(idx) {
		return
	}
	f.mu.Lock()
	f.reserve.Add(idx)
	f.mu.Unlock()
}
