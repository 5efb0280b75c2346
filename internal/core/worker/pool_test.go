package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPoolRunsJobs(t *testing.T) {
	p := NewPool(2, 8, zap.NewNop())
	var n int32
	for i := 0; i < 5; i++ {
		require.NoError(t, p.TrySubmit(func(context.Context) error {
			atomic.AddInt32(&n, 1)
			return nil
		}))
	}
	require.NoError(t, p.Stop(context.Background()))
	assert.Equal(t, int32(5), atomic.LoadInt32(&n))
}

func TestPoolDropsWhenFull(t *testing.T) {
	p := NewPool(1, 1, zap.NewNop())
	block := make(chan struct{})
	started := make(chan struct{})

	require.NoError(t, p.TrySubmit(func(context.Context) error {
		close(started)
		<-block
		return nil
	}))
	<-started
	require.NoError(t, p.TrySubmit(func(context.Context) error { return nil }))
	require.ErrorIs(t, p.TrySubmit(func(context.Context) error { return nil }), ErrQueueFull)

	close(block)
	require.NoError(t, p.Stop(context.Background()))
	require.ErrorIs(t, p.TrySubmit(func(context.Context) error { return nil }), ErrStopped)
}

func TestPoolSurvivesPanicAndErrors(t *testing.T) {
	p := NewPool(1, 4, zap.NewNop())
	var ran int32
	require.NoError(t, p.TrySubmit(func(context.Context) error { panic("boom") }))
	require.NoError(t, p.TrySubmit(func(context.Context) error { return errors.New("fail") }))
	require.NoError(t, p.TrySubmit(func(context.Context) error {
		atomic.StoreInt32(&ran, 1)
		return nil
	}))
	require.NoError(t, p.Stop(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
}

func TestStopHonoursDeadline(t *testing.T) {
	p := NewPool(1, 1, zap.NewNop())
	block := make(chan struct{})
	defer close(block)
	require.NoError(t, p.TrySubmit(func(context.Context) error {
		<-block
		return nil
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, p.Stop(ctx), context.DeadlineExceeded)
}
