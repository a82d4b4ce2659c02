package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// maxThrottleRetries is how many times a throttled call is retried before
// it fails with ErrRateLimitExceeded. Backoff is 2^attempt seconds, so the
// waits are 1s, 2s, 4s, 8s, 16s.
const maxThrottleRetries = 5

// RetryingGenerator decorates a TextGenerator with bounded retry on
// provider throttling. Non-throttling errors propagate immediately. Each
// underlying attempt runs under its own deadline when attemptTimeout is
// set, and the backoff sleep is interruptible by context cancellation.
type RetryingGenerator struct {
	inner          TextGenerator
	attemptTimeout time.Duration
	logger         *zap.Logger

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryingGenerator wraps inner with the throttle retry policy.
func NewRetryingGenerator(inner TextGenerator, attemptTimeout time.Duration, logger *zap.Logger) *RetryingGenerator {
	return &RetryingGenerator{
		inner:          inner,
		attemptTimeout: attemptTimeout,
		logger:         logger,
		sleep:          sleepContext,
	}
}

// Categorize implements TextGenerator.
func (g *RetryingGenerator) Categorize(ctx context.Context, content string) (Category, error) {
	var category Category
	err := g.withRetry(ctx, "categorize", func(ctx context.Context) error {
		var err error
		category, err = g.inner.Categorize(ctx, content)
		return err
	})
	if err != nil {
		return CategoryUnknown, err
	}
	return category, nil
}

// GenerateReply implements TextGenerator. A category outside the known
// set fails fast with a CategoryError before any provider call.
func (g *RetryingGenerator) GenerateReply(ctx context.Context, category Category, message string) (string, error) {
	switch category {
	case CategoryInterested, CategoryNotInterested, CategoryMoreInformation:
	default:
		return "", &CategoryError{Category: category}
	}

	var reply string
	err := g.withRetry(ctx, "generate reply", func(ctx context.Context) error {
		var err error
		reply, err = g.inner.GenerateReply(ctx, category, message)
		return err
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}

func (g *RetryingGenerator) withRetry(ctx context.Context, op string, call func(ctx context.Context) error) error {
	for attempt := 0; ; attempt++ {
		var err error
		if g.attemptTimeout > 0 {
			attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
			err = call(attemptCtx)
			cancel()
		} else {
			err = call(ctx)
		}
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrThrottled) {
			return err
		}
		if attempt >= maxThrottleRetries {
			return fmt.Errorf("%s: %w", op, ErrRateLimitExceeded)
		}

		delay := time.Duration(1<<uint(attempt)) * time.Second
		g.logger.Warn("Provider throttled, backing off",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay))
		if err := g.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// Close closes the wrapped client when it holds resources.
func (g *RetryingGenerator) Close() error {
	if closer, ok := g.inner.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// sleepContext waits for d without blocking other goroutines and returns
// early if the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
