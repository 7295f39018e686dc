// File: pool/segment.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Segment lease and its write-then-read state machine. Segments are
// reused arena memory, so the machine's single job is to make a read
// of a never-written segment impossible: stale bytes from a previous
// tenant must never reach a new consumer.

package pool

import (
	"sync/atomic"

	"github.com/valyala/bytebufferpool"

	"github.com/momentics/hioload-pool/api"
	"github.com/momentics/hioload-pool/core/slots"
)

type segMode uint8

const (
	segModeFree segMode = iota
	segModeWritable
	segModeReadable
)

// segment is the per-slot record: a full-capacity byte view plus the
// current machine state. Pooled segments view the arena; transient
// ones borrow from bytebufferpool. No internal locking: the slot
// engine guarantees a single live lease per segment.
type segment struct {
	data   []byte
	bb     *bytebufferpool.ByteBuffer
	mode   segMode
	filled int
}

func resetSegment(s *segment) {
	s.mode = segModeFree
	s.filled = 0
}

func recycleTransientSegment(s *segment) {
	if s.bb == nil {
		return
	}
	s.data = nil
	bytebufferpool.Put(s.bb)
	s.bb = nil
}

// Segment is the scoped lease handed to callers. Release returns the
// underlying range to the pool; the handle is dead afterwards.
type Segment struct {
	pool  *BufferPool
	lease slots.Lease[*segment]
	done  atomic.Bool
}

// Writable returns the full-capacity mutable view. Valid only before
// a fill has been recorded.
func (s *Segment) Writable() ([]byte, error) {
	if s.done.Load() || s.lease.Value.mode != segModeWritable {
		return nil, api.NewError(api.ErrCodeWrongState, "segment is not writable")
	}
	return s.lease.Value.data, nil
}

// Write copies p into the segment and records len(p) as the fill
// length, making the segment readable.
func (s *Segment) Write(p []byte) error {
	seg := s.lease.Value
	if s.done.Load() || seg.mode != segModeWritable {
		return api.NewError(api.ErrCodeWrongState, "segment is not writable")
	}
	if len(p) > len(seg.data) {
		return api.NewError(api.ErrCodeOverCapacity, "write exceeds segment capacity").
			WithContext("n", len(p)).
			WithContext("capacity", len(seg.data))
	}
	copy(seg.data, p)
	seg.filled = len(p)
	seg.mode = segModeReadable
	return nil
}

// MarkFilled records n bytes written through the Writable view and
// makes the segment readable.
func (s *Segment) MarkFilled(n int) error {
	seg := s.lease.Value
	if s.done.Load() || seg.mode != segModeWritable {
		return api.NewError(api.ErrCodeWrongState, "segment is not writable")
	}
	if n < 0 || n > len(seg.data) {
		return api.NewError(api.ErrCodeOverCapacity, "fill length out of range").
			WithContext("n", n).
			WithContext("capacity", len(seg.data))
	}
	seg.filled = n
	seg.mode = segModeReadable
	return nil
}

// Readable returns the filled prefix. Fails until a fill has been
// recorded, never exposing unwritten arena memory.
func (s *Segment) Readable() ([]byte, error) {
	seg := s.lease.Value
	if s.done.Load() || seg.mode != segModeReadable {
		return nil, api.NewError(api.ErrCodeWrongState, "segment has no recorded fill")
	}
	return seg.data[:seg.filled], nil
}

// Len reports the recorded fill length.
func (s *Segment) Len() int {
	if s.done.Load() {
		return 0
	}
	return s.lease.Value.filled
}

// Cap reports the segment capacity.
func (s *Segment) Cap() int {
	if s.done.Load() {
		return 0
	}
	return len(s.lease.Value.data)
}

// Origin reports whether the segment is arena-backed or transient.
func (s *Segment) Origin() api.Origin { return s.lease.Origin }

// Release resets the segment and returns it to the pool. Valid from
// any state; the second call reports DoubleRelease and changes
// nothing.
func (s *Segment) Release() error {
	if !s.done.CompareAndSwap(false, true) {
		return api.NewError(api.ErrCodeDoubleRelease, "segment already released")
	}
	return s.pool.eng.Release(s.lease)
}

var _ api.Segment = (*Segment)(nil)
