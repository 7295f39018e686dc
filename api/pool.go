// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Defines abstract pooling APIs: recycling of heavy heap objects and
// arena-backed byte segments for high-intensity IO paths.

package api

// Origin tags a leased resource with where its storage came from, so
// release logic dispatches without identity checks against pool memory.
type Origin uint8

const (
	// OriginPooled marks a resource backed by a recycled pool slot.
	OriginPooled Origin = iota

	// OriginTransient marks a one-off fallback allocation handed out
	// when the pool was exhausted and could not grow.
	OriginTransient
)

// String returns a human-readable origin tag.
func (o Origin) String() string {
	if o == OriginTransient {
		return "transient"
	}
	return "pooled"
}

// Handle is a scoped lease of a pooled value. The resource returns to
// its pool on Release; the handle must not be used afterwards.
type Handle[T any] interface {
	// Value returns the leased value. The value is logically default
	// on acquisition; callers must not assume any minimal capacity.
	Value() T

	// Origin reports whether the value is pooled or transient.
	Origin() Origin

	// Release returns the value to the pool. Releasing twice is
	// detected and reported as ErrDoubleRelease; it never corrupts
	// the pool.
	Release() error
}

// ObjectPool provides generic pooling of heap-resident Go objects.
// Acquisition never blocks: on exhaustion a transient value is handed
// out instead.
type ObjectPool[T any] interface {
	// Get returns a handle over a logically-default instance.
	Get() Handle[T]

	// Stats exposes resource/accounting metrics for observability.
	Stats() PoolStats
}

// PoolStats aggregates slot allocation/reuse counters.
type PoolStats struct {
	// TotalAlloc counts pooled slots ever handed out.
	TotalAlloc int64
	// TotalFree counts pooled slots returned.
	TotalFree int64
	// InUse is TotalAlloc - TotalFree.
	InUse int64
	// Transient counts exhaustion fallbacks. Not an error condition;
	// only the pooling benefit was temporarily lost.
	Transient int64
	// Misses counts acquire attempts that found the free-list empty.
	Misses int64
}
