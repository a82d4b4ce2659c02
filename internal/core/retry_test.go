package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type scriptedGenerator struct {
	errs     []error
	category Category
	reply    string
	calls    int
}

func (g *scriptedGenerator) Categorize(ctx context.Context, content string) (Category, error) {
	g.calls++
	if g.calls <= len(g.errs) {
		return CategoryUnknown, g.errs[g.calls-1]
	}
	return g.category, nil
}

func (g *scriptedGenerator) GenerateReply(ctx context.Context, category Category, message string) (string, error) {
	g.calls++
	if g.calls <= len(g.errs) {
		return "", g.errs[g.calls-1]
	}
	return g.reply, nil
}

func throttled() error {
	return fmt.Errorf("provider: %w: http 429", ErrThrottled)
}

func newRetryFixture(inner TextGenerator) (*RetryingGenerator, *[]time.Duration) {
	delays := &[]time.Duration{}
	g := NewRetryingGenerator(inner, 0, zap.NewNop())
	g.sleep = func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return g, delays
}

func TestCategorize_ExponentialBackoffThenRateLimit(t *testing.T) {
	inner := &scriptedGenerator{errs: []error{
		throttled(), throttled(), throttled(), throttled(), throttled(), throttled(),
	}}
	g, delays := newRetryFixture(inner)

	_, err := g.Categorize(context.Background(), "hello")

	require.ErrorIs(t, err, ErrRateLimitExceeded)
	assert.Equal(t, 6, inner.calls)
	assert.Equal(t, []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
	}, *delays)
}

func TestCategorize_RecoversAfterThrottling(t *testing.T) {
	inner := &scriptedGenerator{
		errs:     []error{throttled(), throttled()},
		category: CategoryInterested,
	}
	g, delays := newRetryFixture(inner)

	category, err := g.Categorize(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, CategoryInterested, category)
	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *delays)
}

func TestCategorize_NonThrottleErrorIsNotRetried(t *testing.T) {
	boom := errors.New("model unavailable")
	inner := &scriptedGenerator{errs: []error{boom}}
	g, delays := newRetryFixture(inner)

	_, err := g.Categorize(context.Background(), "hello")

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, inner.calls)
	assert.Empty(t, *delays)
}

func TestGenerateReply_UnknownCategoryFailsWithoutProviderCall(t *testing.T) {
	inner := &scriptedGenerator{reply: "hi"}
	g, _ := newRetryFixture(inner)

	_, err := g.GenerateReply(context.Background(), CategoryUnknown, "hello")

	var catErr *CategoryError
	require.ErrorAs(t, err, &catErr)
	assert.Equal(t, CategoryUnknown, catErr.Category)
	assert.Zero(t, inner.calls)
}

func TestGenerateReply_RetriesThrottledCalls(t *testing.T) {
	inner := &scriptedGenerator{
		errs:  []error{throttled()},
		reply: "Thanks for your interest!",
	}
	g, delays := newRetryFixture(inner)

	reply, err := g.GenerateReply(context.Background(), CategoryInterested, "hello")

	require.NoError(t, err)
	assert.Equal(t, "Thanks for your interest!", reply)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, []time.Duration{1 * time.Second}, *delays)
}

func TestWithRetry_BackoffStopsOnContextCancel(t *testing.T) {
	inner := &scriptedGenerator{errs: []error{
		throttled(), throttled(), throttled(), throttled(), throttled(), throttled(),
	}}
	g := NewRetryingGenerator(inner, 0, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Categorize(ctx, "hello")

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, inner.calls)
}
