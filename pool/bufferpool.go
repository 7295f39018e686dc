// File: pool/bufferpool.go
// Package pool implements arena-backed segment leasing and generic
// object recycling over the core slot engine.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"github.com/valyala/bytebufferpool"

	"github.com/momentics/hioload-pool/api"
	"github.com/momentics/hioload-pool/arena"
	"github.com/momentics/hioload-pool/core/slots"
)

// BufferPool leases fixed-capacity byte segments out of one contiguous
// arena. Acquisition is O(1) and allocation-free on the pooled path;
// exhaustion falls back to transient segments so callers never block.
// The arena is sized once at construction and never grown: segment
// addresses stay stable for the pool's lifetime.
type BufferPool struct {
	arena  *arena.Arena
	eng    *slots.Engine[*segment]
	segCap int
}

// NewBufferPool allocates an arena of count segments of
// segmentCapacity bytes each and puts every index on the free-list.
func NewBufferPool(count, segmentCapacity int) (*BufferPool, error) {
	ar, err := arena.New(count, segmentCapacity)
	if err != nil {
		return nil, err
	}

	p := &BufferPool{arena: ar, segCap: segmentCapacity}

	// The factory runs exactly count times inside slots.New, binding
	// slot i to arena range i. Growth stays disabled: the arena is
	// fixed, extra demand is served by transients.
	next := 0
	eng, err := slots.New(count, func() *segment {
		s := &segment{data: ar.Segment(next)}
		next++
		return s
	}, slots.Options[*segment]{
		Reset:            resetSegment,
		Transient:        p.newTransient,
		RecycleTransient: recycleTransientSegment,
	})
	if err != nil {
		ar.Close()
		return nil, err
	}
	p.eng = eng
	return p, nil
}

// newTransient builds an off-arena segment on bytebufferpool storage.
func (p *BufferPool) newTransient() *segment {
	bb := bytebufferpool.Get()
	if cap(bb.B) < p.segCap {
		bb.B = make([]byte, p.segCap)
	} else {
		bb.B = bb.B[:p.segCap]
	}
	// Scrub: the backing store is shared with other bytebufferpool
	// users in the process.
	clear(bb.B)
	return &segment{data: bb.B[:p.segCap:p.segCap], bb: bb}
}

// Acquire returns a writable segment. Never blocks: on exhaustion a
// transient segment is returned and counted in Stats().Transient.
func (p *BufferPool) Acquire() api.Segment {
	l := p.eng.Acquire()
	l.Value.mode = segModeWritable
	l.Value.filled = 0
	return &Segment{pool: p, lease: l}
}

// TryAcquire returns a pooled segment, or ok=false when the arena is
// exhausted, for callers that prefer backpressure over a transient.
func (p *BufferPool) TryAcquire() (api.Segment, bool) {
	l, ok := p.eng.TryAcquire()
	if !ok {
		return nil, false
	}
	l.Value.mode = segModeWritable
	l.Value.filled = 0
	return &Segment{pool: p, lease: l}, true
}

// With leases a segment for the duration of fn and releases it on
// every exit path, including panics.
func (p *BufferPool) With(fn func(api.Segment) error) error {
	s := p.Acquire()
	defer s.Release()
	return fn(s)
}

// SegmentCapacity reports the per-segment capacity in bytes.
func (p *BufferPool) SegmentCapacity() int { return p.segCap }

// Count reports the number of arena-backed segments.
func (p *BufferPool) Count() int { return p.arena.Count() }

// Stats returns a snapshot of the pool counters.
func (p *BufferPool) Stats() api.PoolStats { return p.eng.Stats() }

// Close releases the arena. Outstanding segment views must not be
// dereferenced afterwards.
func (p *BufferPool) Close() error { return p.arena.Close() }

var _ api.SegmentPool = (*BufferPool)(nil)
