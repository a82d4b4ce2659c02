package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// PollService is the scheduled unit of work: read one candidate message,
// dedupe against the progress marker, classify, draft a reply, enqueue it
// for delivery, then advance the marker. It never lets an error escape to
// the scheduler; every outcome is logged.
type PollService struct {
	reader    MailboxReader
	generator TextGenerator
	queue     ReplyQueue
	progress  ProgressStore
	logger    *zap.Logger
	// callTimeout bounds each mailbox/store/queue call. Text generation
	// carries its own per-attempt deadline inside the generator.
	callTimeout time.Duration
}

// NewPollService creates a new poll cycle orchestrator.
func NewPollService(
	reader MailboxReader,
	generator TextGenerator,
	queue ReplyQueue,
	progress ProgressStore,
	logger *zap.Logger,
	callTimeout time.Duration,
) *PollService {
	return &PollService{
		reader:      reader,
		generator:   generator,
		queue:       queue,
		progress:    progress,
		logger:      logger,
		callTimeout: callTimeout,
	}
}

// RunCycle executes one poll cycle. Safe to call when no new mail exists;
// errors are logged here and never propagate past this boundary.
func (s *PollService) RunCycle(ctx context.Context) {
	if err := s.runCycle(ctx); err != nil {
		s.logger.Error("Poll cycle failed", zap.Error(err))
	}
}

func (s *PollService) runCycle(ctx context.Context) error {
	msg, err := s.fetchNext(ctx)
	if err != nil {
		return err
	}
	if msg == nil {
		s.logger.Info("No new email found")
		return nil
	}

	last, err := s.lastMessageID(ctx)
	if err != nil {
		return fmt.Errorf("read progress marker: %w", err)
	}
	if msg.ID == last {
		// Sole dedup guard. Best effort: overlapping cycles could both
		// pass it, which is why the scheduler is single-flight.
		s.logger.Info("No new email to process", zap.String("message_id", msg.ID))
		return nil
	}

	category, err := s.generator.Categorize(ctx, msg.Snippet)
	if err != nil {
		return fmt.Errorf("categorize message %s: %w", msg.ID, err)
	}
	if category == CategoryUnknown {
		return fmt.Errorf("categorize message %s: %w", msg.ID, &CategoryError{Category: category})
	}

	reply, err := s.generator.GenerateReply(ctx, category, msg.Snippet)
	if err != nil {
		return fmt.Errorf("generate reply for message %s: %w", msg.ID, err)
	}

	jobID, err := s.enqueue(ctx, DraftReply{Reply: reply, SenderEmail: msg.From})
	if err != nil {
		return fmt.Errorf("enqueue reply for message %s: %w", msg.ID, err)
	}

	// Marker moves only after the job is durably enqueued. A crash in
	// between re-surfaces the marker comparison, not the message itself;
	// the provider already marked it read.
	if err := s.setLastMessageID(ctx, msg.ID); err != nil {
		return fmt.Errorf("update progress marker to %s: %w", msg.ID, err)
	}

	s.logger.Info("New email enqueued successfully",
		zap.String("message_id", msg.ID),
		zap.String("job_id", jobID),
		zap.String("category", string(category)))
	return nil
}

func (s *PollService) fetchNext(ctx context.Context) (*InboundMessage, error) {
	ctx, cancel := s.withCallTimeout(ctx)
	defer cancel()
	return s.reader.FetchNextUnread(ctx)
}

func (s *PollService) lastMessageID(ctx context.Context) (string, error) {
	ctx, cancel := s.withCallTimeout(ctx)
	defer cancel()
	return s.progress.LastMessageID(ctx)
}

func (s *PollService) setLastMessageID(ctx context.Context, id string) error {
	ctx, cancel := s.withCallTimeout(ctx)
	defer cancel()
	return s.progress.SetLastMessageID(ctx, id)
}

func (s *PollService) enqueue(ctx context.Context, draft DraftReply) (string, error) {
	ctx, cancel := s.withCallTimeout(ctx)
	defer cancel()
	return s.queue.Enqueue(ctx, draft)
}

func (s *PollService) withCallTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.callTimeout)
}
