// Package api
// Author: momentics
//
// Arena-backed byte segment leasing for zero-allocation IO hot paths.
//
// Segments are fixed-capacity views into one contiguous, pre-allocated
// block. A leased segment walks a strict write-then-read state machine
// so reused arena memory can never leak a previous tenant's bytes.

package api

// Segment is a leased, fixed-capacity byte range.
//
// Lifecycle: a fresh lease is writable with a zero fill length. A call
// to Write or MarkFilled transitions it to readable. Release returns
// the range to its pool from any state.
type Segment interface {
	// Writable returns the full-capacity mutable view. Valid only
	// before a fill has been recorded; returns ErrWrongState after.
	// The caller tracks how many bytes it actually wrote and records
	// them via MarkFilled.
	Writable() ([]byte, error)

	// Write copies p into the segment and records len(p) as the fill
	// length. Returns ErrOverCapacity if p exceeds the segment
	// capacity, ErrWrongState if a fill was already recorded.
	Write(p []byte) error

	// MarkFilled records n bytes as valid payload and makes the
	// segment readable. Returns ErrOverCapacity if n exceeds the
	// capacity, ErrWrongState outside the writable state.
	MarkFilled(n int) error

	// Readable returns the filled prefix of the segment. Returns
	// ErrWrongState until a fill has been recorded: handing out
	// reused arena memory before a write would expose stale bytes.
	Readable() ([]byte, error)

	// Len reports the recorded fill length.
	Len() int

	// Cap reports the segment capacity.
	Cap() int

	// Origin reports whether the segment is arena-backed or a
	// transient fallback.
	Origin() Origin

	// Release resets the segment and returns it to the pool. Valid
	// from any state; a second call reports ErrDoubleRelease.
	Release() error
}

// SegmentPool hands out leased byte segments backed by a fixed arena.
type SegmentPool interface {
	// Acquire returns a writable segment. It never blocks: when the
	// arena is exhausted a transient segment is returned instead.
	Acquire() Segment

	// TryAcquire returns a pooled segment or ok=false when the arena
	// is exhausted, for callers that prefer backpressure over a
	// transient allocation.
	TryAcquire() (Segment, bool)

	// Stats exposes resource/accounting metrics for observability.
	Stats() PoolStats
}
