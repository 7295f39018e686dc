// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

// Package fake provides trivial, allocation-backed stand-ins for the
// api pool interfaces, for use in consumers' unit tests.
package fake

import "github.com/momentics/hioload-pool/api"

// FakeSegmentPool hands out independent heap segments; nothing is
// recycled.
type FakeSegmentPool struct {
	SegCap int
}

func (f *FakeSegmentPool) Acquire() api.Segment {
	return &FakeSegment{Buf: make([]byte, f.capOrDefault())}
}

func (f *FakeSegmentPool) TryAcquire() (api.Segment, bool) {
	return f.Acquire(), true
}

func (f *FakeSegmentPool) Stats() api.PoolStats { return api.PoolStats{} }

func (f *FakeSegmentPool) capOrDefault() int {
	if f.SegCap > 0 {
		return f.SegCap
	}
	return 4096
}

// FakeSegment implements the segment contract over a plain slice.
type FakeSegment struct {
	Buf      []byte
	Filled   int
	Ready    bool
	Released bool
}

func (s *FakeSegment) Writable() ([]byte, error) {
	if s.Released || s.Ready {
		return nil, api.NewError(api.ErrCodeWrongState, "segment is not writable")
	}
	return s.Buf, nil
}

func (s *FakeSegment) Write(p []byte) error {
	if s.Released || s.Ready {
		return api.NewError(api.ErrCodeWrongState, "segment is not writable")
	}
	if len(p) > len(s.Buf) {
		return api.NewError(api.ErrCodeOverCapacity, "write exceeds segment capacity")
	}
	copy(s.Buf, p)
	s.Filled = len(p)
	s.Ready = true
	return nil
}

func (s *FakeSegment) MarkFilled(n int) error {
	if s.Released || s.Ready {
		return api.NewError(api.ErrCodeWrongState, "segment is not writable")
	}
	if n < 0 || n > len(s.Buf) {
		return api.NewError(api.ErrCodeOverCapacity, "fill length out of range")
	}
	s.Filled = n
	s.Ready = true
	return nil
}

func (s *FakeSegment) Readable() ([]byte, error) {
	if s.Released || !s.Ready {
		return nil, api.NewError(api.ErrCodeWrongState, "segment has no recorded fill")
	}
	return s.Buf[:s.Filled], nil
}

func (s *FakeSegment) Len() int           { return s.Filled }
func (s *FakeSegment) Cap() int           { return len(s.Buf) }
func (s *FakeSegment) Origin() api.Origin { return api.OriginTransient }

func (s *FakeSegment) Release() error {
	if s.Released {
		return api.NewError(api.ErrCodeDoubleRelease, "segment already released")
	}
	s.Released = true
	return nil
}

// FakeObjectPool hands out independent heap values; nothing is
// recycled.
type FakeObjectPool[T any] struct{}

func (f *FakeObjectPool[T]) Get() api.Handle[*T] {
	return &FakeHandle[T]{Val: new(T)}
}

func (f *FakeObjectPool[T]) Stats() api.PoolStats { return api.PoolStats{} }

// FakeHandle wraps one value with the release contract.
type FakeHandle[T any] struct {
	Val      *T
	Released bool
}

func (h *FakeHandle[T]) Value() *T          { return h.Val }
func (h *FakeHandle[T]) Origin() api.Origin { return api.OriginTransient }

func (h *FakeHandle[T]) Release() error {
	if h.Released {
		return api.NewError(api.ErrCodeDoubleRelease, "handle already released")
	}
	h.Released = true
	return nil
}

var (
	_ api.SegmentPool           = (*FakeSegmentPool)(nil)
	_ api.Segment               = (*FakeSegment)(nil)
	_ api.ObjectPool[*struct{}] = (*FakeObjectPool[struct{}])(nil)
	_ api.Handle[*struct{}]     = (*FakeHandle[struct{}])(nil)
)
