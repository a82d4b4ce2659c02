package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	blockTimeout = 5 * time.Second
	ackTimeout   = 5 * time.Second
)

// Handler processes one dequeued job. A non-nil error triggers the
// queue's redelivery policy.
type Handler func(ctx context.Context, job core.ReplyJob) error

// Worker consumes reply jobs one at a time. Jobs sit on a processing list
// between dequeue and acknowledgment, failed jobs are pushed back to the
// topic until their attempts run out, then dead-lettered with the error
// attached.
type Worker struct {
	queue       *Queue
	handler     Handler
	logger      *zap.Logger
	onCompleted func(job core.ReplyJob)
	onFailed    func(job core.ReplyJob, err error)
}

// NewWorker creates a new worker for the queue.
func NewWorker(q *Queue, handler Handler, logger *zap.Logger) *Worker {
	return &Worker{queue: q, handler: handler, logger: logger}
}

// OnCompleted registers a hook fired after a job is acknowledged.
func (w *Worker) OnCompleted(fn func(job core.ReplyJob)) { w.onCompleted = fn }

// OnFailed registers a hook fired on every failed attempt.
func (w *Worker) OnFailed(fn func(job core.ReplyJob, err error)) { w.onFailed = fn }

// Run pulls jobs until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("Delivery worker started", zap.String("topic", w.queue.topic))
	for {
		if ctx.Err() != nil {
			w.logger.Info("Delivery worker stopped")
			return
		}

		payload, err := w.queue.rdb.BLMove(ctx, w.queue.key(), w.queue.processingKey(), "RIGHT", "LEFT", blockTimeout).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				w.logger.Info("Delivery worker stopped")
				return
			}
			w.logger.Error("Failed to dequeue job", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		w.process(ctx, payload)
	}
}

func (w *Worker) process(ctx context.Context, payload string) {
	// The payload leaves the processing list whatever happens next;
	// failures are explicitly re-queued or dead-lettered below.
	defer w.ack(payload)

	var job core.ReplyJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		w.logger.Error("Dead-lettering malformed job payload", zap.Error(err))
		w.push(w.queue.deadKey(), []byte(payload))
		return
	}

	if err := w.handler(ctx, job); err != nil {
		w.fail(job, err)
		return
	}

	if w.onCompleted != nil {
		w.onCompleted(job)
	}
}

func (w *Worker) fail(job core.ReplyJob, err error) {
	if w.onFailed != nil {
		w.onFailed(job, err)
	}

	job.Attempt++
	if job.Attempt < job.MaxAttempts {
		payload, merr := json.Marshal(job)
		if merr != nil {
			w.logger.Error("Failed to marshal job for redelivery", zap.String("job_id", job.ID), zap.Error(merr))
			return
		}
		w.push(w.queue.key(), payload)
		w.logger.Warn("Job failed, redelivering",
			zap.String("job_id", job.ID),
			zap.Int("attempt", job.Attempt),
			zap.Error(err))
		return
	}

	dl := deadLetter{ReplyJob: job, Error: err.Error(), FailedAt: time.Now().Unix()}
	payload, merr := json.Marshal(dl)
	if merr != nil {
		w.logger.Error("Failed to marshal dead letter", zap.String("job_id", job.ID), zap.Error(merr))
		return
	}
	w.push(w.queue.deadKey(), payload)
	w.logger.Error("Job dead-lettered after exhausting attempts",
		zap.String("job_id", job.ID),
		zap.Int("attempts", job.Attempt),
		zap.Error(err))
}

// ack and push run on a background context so a shutdown mid-job does not
// strand or drop the payload.
func (w *Worker) ack(payload string) {
	ctx, cancel := context.WithTimeout(context.Background(), ackTimeout)
	defer cancel()
	if err := w.queue.rdb.LRem(ctx, w.queue.processingKey(), 1, payload).Err(); err != nil {
		w.logger.Error("Failed to acknowledge job", zap.Error(err))
	}
}

func (w *Worker) push(key string, payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), ackTimeout)
	defer cancel()
	if err := w.queue.rdb.RPush(ctx, key, payload).Err(); err != nil {
		w.logger.Error("Failed to push job", zap.String("key", key), zap.Error(err))
	}
}
