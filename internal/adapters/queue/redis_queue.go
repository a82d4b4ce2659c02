package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/core"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "reachinbox:queue:"

// Queue is a durable, at-least-once reply queue over redis lists. Jobs
// wait on the topic list, move to a processing list while a worker holds
// them, and land on the dead list once their attempts are exhausted.
type Queue struct {
	rdb         *redis.Client
	topic       string
	maxAttempts int
	logger      *zap.Logger
}

// New creates a new redis-backed queue for the given topic.
func New(rdb *redis.Client, topic string, maxAttempts int, logger *zap.Logger) *Queue {
	return &Queue{
		rdb:         rdb,
		topic:       topic,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

func (q *Queue) key() string           { return keyPrefix + q.topic }
func (q *Queue) processingKey() string { return keyPrefix + q.topic + ":processing" }
func (q *Queue) deadKey() string       { return keyPrefix + q.topic + ":dead" }

// Enqueue wraps the draft in a job envelope and pushes it onto the topic.
func (q *Queue) Enqueue(ctx context.Context, draft core.DraftReply) (string, error) {
	job := core.ReplyJob{
		ID:          uuid.NewString(),
		MaxAttempts: q.maxAttempts,
		EnqueuedAt:  time.Now().Unix(),
		DraftReply:  draft,
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("marshal job: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.key(), payload).Err(); err != nil {
		return "", fmt.Errorf("enqueue job %s: %w", job.ID, err)
	}
	q.logger.Debug("Job enqueued",
		zap.String("job_id", job.ID),
		zap.String("topic", q.topic))
	return job.ID, nil
}

// deadLetter is the envelope retained on the dead list for operator
// inspection after redelivery attempts are exhausted.
type deadLetter struct {
	core.ReplyJob
	Error    string `json:"error"`
	FailedAt int64  `json:"failed_at"`
}
