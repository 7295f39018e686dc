package pool_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-pool/api"
	"github.com/momentics/hioload-pool/pool"
)

func TestBufferPool_RejectsBadConfig(t *testing.T) {
	_, err := pool.NewBufferPool(0, 16)
	assert.ErrorIs(t, err, api.ErrConfig)
	_, err = pool.NewBufferPool(8, 0)
	assert.ErrorIs(t, err, api.ErrConfig)
}

// The concrete lifecycle scenario: init(10, 3), write, read back,
// release, re-acquire, read-before-write must fail.
func TestBufferPool_WriteReadCycle(t *testing.T) {
	p, err := pool.NewBufferPool(10, 3)
	require.NoError(t, err)
	defer p.Close()

	s := p.Acquire()
	require.Equal(t, api.OriginPooled, s.Origin())
	require.NoError(t, s.Write([]byte{5, 5, 5}))

	got, err := s.Readable()
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 5, 5}, got)
	assert.Equal(t, 3, s.Len())
	require.NoError(t, s.Release())

	s2 := p.Acquire()
	_, err = s2.Readable()
	assert.ErrorIs(t, err, api.ErrWrongState,
		"reading a freshly leased segment must fail, not expose stale bytes")
	require.NoError(t, s2.Release())
}

func TestBufferPool_WritableThenMarkFilled(t *testing.T) {
	p, err := pool.NewBufferPool(2, 8)
	require.NoError(t, err)
	defer p.Close()

	s := p.Acquire()
	buf, err := s.Writable()
	require.NoError(t, err)
	require.Len(t, buf, 8)
	copy(buf, "abc")
	require.NoError(t, s.MarkFilled(3))

	// Once readable, the write surface is closed.
	_, err = s.Writable()
	assert.ErrorIs(t, err, api.ErrWrongState)
	assert.ErrorIs(t, s.MarkFilled(1), api.ErrWrongState)
	assert.ErrorIs(t, s.Write([]byte{1}), api.ErrWrongState)

	got, err := s.Readable()
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
	require.NoError(t, s.Release())
}

func TestBufferPool_OverCapacity(t *testing.T) {
	p, err := pool.NewBufferPool(1, 4)
	require.NoError(t, err)
	defer p.Close()

	s := p.Acquire()
	assert.ErrorIs(t, s.Write([]byte{1, 2, 3, 4, 5}), api.ErrOverCapacity)
	assert.ErrorIs(t, s.MarkFilled(5), api.ErrOverCapacity)
	assert.ErrorIs(t, s.MarkFilled(-1), api.ErrOverCapacity)

	// The failed write left the segment writable.
	require.NoError(t, s.Write([]byte{1, 2, 3, 4}))
	require.NoError(t, s.Release())
}

func TestBufferPool_TransientFallback(t *testing.T) {
	p, err := pool.NewBufferPool(1, 16)
	require.NoError(t, err)
	defer p.Close()

	first := p.Acquire()
	require.Equal(t, api.OriginPooled, first.Origin())

	second := p.Acquire()
	require.Equal(t, api.OriginTransient, second.Origin(),
		"exhausted pool must fall back, not block")
	assert.Equal(t, 16, second.Cap())

	// Transient segments obey the same state machine.
	_, err = second.Readable()
	assert.ErrorIs(t, err, api.ErrWrongState)
	require.NoError(t, second.Write([]byte("hello")))
	got, err := second.Readable()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	require.NoError(t, second.Release())
	require.NoError(t, first.Release())

	st := p.Stats()
	assert.Equal(t, int64(1), st.Transient)
	assert.Equal(t, int64(0), st.InUse)
}

func TestBufferPool_TryAcquireBackpressure(t *testing.T) {
	p, err := pool.NewBufferPool(1, 8)
	require.NoError(t, err)
	defer p.Close()

	s, ok := p.TryAcquire()
	require.True(t, ok)
	_, ok = p.TryAcquire()
	assert.False(t, ok, "TryAcquire must report exhaustion instead of going transient")
	require.NoError(t, s.Release())
}

func TestBufferPool_DoubleRelease(t *testing.T) {
	p, err := pool.NewBufferPool(2, 8)
	require.NoError(t, err)
	defer p.Close()

	s := p.Acquire()
	require.NoError(t, s.Release())
	assert.ErrorIs(t, s.Release(), api.ErrDoubleRelease)

	// Free-list intact: both segments still individually leasable.
	a, b := p.Acquire(), p.Acquire()
	assert.Equal(t, api.OriginPooled, a.Origin())
	assert.Equal(t, api.OriginPooled, b.Origin())
	require.NoError(t, a.Release())
	require.NoError(t, b.Release())
}

func TestBufferPool_UseAfterReleaseRejected(t *testing.T) {
	p, err := pool.NewBufferPool(1, 8)
	require.NoError(t, err)
	defer p.Close()

	s := p.Acquire()
	require.NoError(t, s.Write([]byte{1}))
	require.NoError(t, s.Release())

	_, err = s.Writable()
	assert.ErrorIs(t, err, api.ErrWrongState)
	_, err = s.Readable()
	assert.ErrorIs(t, err, api.ErrWrongState)
	assert.ErrorIs(t, s.Write([]byte{1}), api.ErrWrongState)
}

func TestBufferPool_NoAliasingAcrossLiveLeases(t *testing.T) {
	const count = 8
	p, err := pool.NewBufferPool(count, 4)
	require.NoError(t, err)
	defer p.Close()

	segs := make([]api.Segment, count)
	for i := range segs {
		segs[i] = p.Acquire()
		require.Equal(t, api.OriginPooled, segs[i].Origin())
		buf, err := segs[i].Writable()
		require.NoError(t, err)
		for j := range buf {
			buf[j] = byte(i + 1)
		}
		require.NoError(t, segs[i].MarkFilled(4))
	}
	for i, s := range segs {
		got, err := s.Readable()
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(i + 1), byte(i + 1), byte(i + 1), byte(i + 1)}, got,
			"live leases must never overlap")
		require.NoError(t, s.Release())
	}
}

func TestBufferPool_With(t *testing.T) {
	p, err := pool.NewBufferPool(1, 8)
	require.NoError(t, err)
	defer p.Close()

	err = p.With(func(s api.Segment) error {
		return s.Write([]byte("x"))
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Stats().InUse, "With must release on exit")

	// Release runs on the panic path too.
	func() {
		defer func() { recover() }()
		p.With(func(api.Segment) error { panic("boom") })
	}()
	assert.Equal(t, int64(0), p.Stats().InUse)
}

func TestBufferPool_Stress(t *testing.T) {
	const (
		workers = 16
		cycles  = 10000
	)
	p, err := pool.NewBufferPool(4, 32)
	require.NoError(t, err)
	defer p.Close()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			payload := []byte{byte(id), byte(id), byte(id)}
			for i := 0; i < cycles; i++ {
				s := p.Acquire()
				if err := s.Write(payload); err != nil {
					t.Error(err)
					return
				}
				got, err := s.Readable()
				if err != nil {
					t.Error(err)
					return
				}
				if got[0] != byte(id) || got[1] != byte(id) || got[2] != byte(id) {
					t.Errorf("worker %d read foreign bytes %v", id, got)
					return
				}
				if err := s.Release(); err != nil {
					t.Error(err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	st := p.Stats()
	assert.Equal(t, int64(0), st.InUse)
	assert.Equal(t, st.TotalAlloc, st.TotalFree)
}
