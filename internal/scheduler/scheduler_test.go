package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRun_SkipsTicksWhileTaskInFlight(t *testing.T) {
	var starts atomic.Int32
	release := make(chan struct{})

	s := New(10*time.Millisecond, func(ctx context.Context) {
		starts.Add(1)
		<-release
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	// Many ticks elapse while the first run blocks; only one task may be
	// in flight.
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, int32(1), starts.Load())

	close(release)

	require.Eventually(t, func() bool {
		return starts.Load() >= 2
	}, time.Second, 10*time.Millisecond, "ticks should resume once the task returns")
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	s := New(5*time.Millisecond, func(ctx context.Context) {}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}
