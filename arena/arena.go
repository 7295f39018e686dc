// File: arena/arena.go
// Package arena provides one fixed contiguous memory block partitioned
// into equal-capacity segments. The block is allocated and committed
// eagerly, never resized and never moved, so every segment view issued
// stays valid for the arena's whole lifetime.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package arena

import (
	"math"
	"sync"

	"github.com/momentics/hioload-pool/api"
)

// Arena owns count x segmentCapacity zero-initialized bytes.
type Arena struct {
	mu     sync.Mutex
	block  []byte
	free   func([]byte) error
	count  int
	segCap int
}

// New allocates the backing block. Fails with a Config error when
// either parameter is zero or the product overflows.
func New(count, segmentCapacity int) (*Arena, error) {
	if count <= 0 {
		return nil, api.NewError(api.ErrCodeConfig, "segment count must be positive").
			WithContext("count", count)
	}
	if segmentCapacity <= 0 {
		return nil, api.NewError(api.ErrCodeConfig, "segment capacity must be positive").
			WithContext("segmentCapacity", segmentCapacity)
	}
	if count > math.MaxInt/segmentCapacity {
		return nil, api.NewError(api.ErrCodeConfig, "arena size overflows").
			WithContext("count", count).
			WithContext("segmentCapacity", segmentCapacity)
	}

	block, free := allocBlock(count * segmentCapacity)
	return &Arena{
		block:  block,
		free:   free,
		count:  count,
		segCap: segmentCapacity,
	}, nil
}

// Count returns the number of segments.
func (a *Arena) Count() int { return a.count }

// SegmentCapacity returns the per-segment capacity in bytes.
func (a *Arena) SegmentCapacity() int { return a.segCap }

// Size returns the total block size in bytes.
func (a *Arena) Size() int { return a.count * a.segCap }

// Descriptor maps a segment index to its (offset, length) in the
// block. Pure and O(1); indices originate from the pool's own
// free-list and are in range by construction.
func (a *Arena) Descriptor(index int) (offset, length int) {
	return index * a.segCap, a.segCap
}

// Segment returns the full-capacity view of segment index. The
// three-index slice pins the capacity so writes can never spill into
// the neighbouring segment.
func (a *Arena) Segment(index int) []byte {
	off, n := a.Descriptor(index)
	return a.block[off : off+n : off+n]
}

// Close releases the backing block. Idempotent. Segment views issued
// earlier must not be dereferenced afterwards.
func (a *Arena) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.block == nil {
		return nil
	}
	block := a.block
	a.block = nil
	if a.free != nil {
		return a.free(block)
	}
	return nil
}
