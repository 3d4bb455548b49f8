// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counting(calls *int32, val string) LoadFunc[string] {
	return func(context.Context) (string, error) {
		atomic.AddInt32(calls, 1)
		return val, nil
	}
}

func TestGet_LoadsOnce(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	c, err := New[string](4, m)
	require.NoError(t, err)

	var calls int32
	for i := 0; i < 3; i++ {
		v, err := c.Get(context.Background(), 6455, counting(&calls, "websocket"))
		require.NoError(t, err)
		assert.Equal(t, "websocket", v)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Misses))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Hits))
}

func TestGet_ConcurrentMissesShareLoad(t *testing.T) {
	c, err := New[string](4, nil)
	require.NoError(t, err)

	var calls int32
	release := make(chan struct{})
	load := func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "quic", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get(context.Background(), 9000, load)
			assert.NoError(t, err)
			results[i] = v
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, "quic", v)
	}
}

func TestGet_ErrorsNotCached(t *testing.T) {
	m := NewMetrics(nil)
	c, err := New[string](4, m)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = c.Get(context.Background(), 1, func(context.Context) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoadErrors))

	var calls int32
	v, err := c.Get(context.Background(), 1, counting(&calls, "ok"))
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, int32(1), calls)
}

func TestEviction(t *testing.T) {
	m := NewMetrics(nil)
	c, err := New[string](2, m)
	require.NoError(t, err)

	var calls int32
	for _, k := range []int{1, 2, 3} {
		_, err := c.Get(context.Background(), k, counting(&calls, "v"))
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.Len())
	_, ok := c.Peek(1)
	assert.False(t, ok, "least recently used entry evicted")
	_, ok = c.Peek(3)
	assert.True(t, ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evictions))
}

func TestPurge_StartsNewEpoch(t *testing.T) {
	c, err := New[string](0, nil)
	require.NoError(t, err)

	var calls int32
	_, _ = c.Get(context.Background(), 7, counting(&calls, "v"))
	c.Purge()
	assert.Equal(t, 0, c.Len())
	_, _ = c.Get(context.Background(), 7, counting(&calls, "v"))
	assert.Equal(t, int32(2), calls)
}

func TestGet_ContextCancelledWhileWaiting(t *testing.T) {
	c, err := New[string](4, nil)
	require.NoError(t, err)

	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Get(ctx, 42, func(context.Context) (string, error) {
		<-release
		return "late", nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
