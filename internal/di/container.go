package di

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/adapters/gmail"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/adapters/mailer"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/adapters/queue"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/config"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/core"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/factory"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/logging"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/scheduler"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/server"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
// for the daemon. Every external client is constructed exactly once here
// and injected; nothing is package-level state.
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register the shared OAuth2 token source (Gmail API + SMTP)
	if err := container.Provide(func(cfg *config.Config) oauth2.TokenSource {
		g := cfg.GetGmail()
		return gmail.NewTokenSource(context.Background(), g.ClientID, g.ClientSecret, g.RedirectURI, g.RefreshToken)
	}); err != nil {
		return nil, err
	}

	// Register the Gmail client and its port views
	if err := container.Provide(func(tokens oauth2.TokenSource, logger *zap.Logger) (*gmail.Client, error) {
		return gmail.NewClient(context.Background(), tokens, logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(c *gmail.Client) core.MailboxReader { return c }); err != nil {
		return nil, err
	}
	if err := container.Provide(func(c *gmail.Client) server.RawMailReader { return c }); err != nil {
		return nil, err
	}

	// Register the text generator
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.LLMFactory) (core.TextGenerator, error) {
		return f.CreateTextGenerator(context.Background())
	}); err != nil {
		return nil, err
	}

	// Register the shared redis client
	if err := container.Provide(func(cfg *config.Config) *redis.Client {
		r := cfg.GetRedis()
		return redis.NewClient(&redis.Options{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
		})
	}); err != nil {
		return nil, err
	}

	// Register the progress store
	if err := container.Provide(factory.NewProgressFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.ProgressFactory) (core.ProgressStore, error) {
		return f.CreateProgressStore()
	}); err != nil {
		return nil, err
	}

	// Register the reply queue
	if err := container.Provide(func(cfg *config.Config, rdb *redis.Client, logger *zap.Logger) *queue.Queue {
		q := cfg.GetQueue()
		return queue.New(rdb, q.Topic, q.MaxAttempts, logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(q *queue.Queue) core.ReplyQueue { return q }); err != nil {
		return nil, err
	}

	// Register the outbound sender
	if err := container.Provide(func(cfg *config.Config, tokens oauth2.TokenSource, logger *zap.Logger) *mailer.Sender {
		return mailer.NewSender(cfg.GetString("smtp.addr"), cfg.GetGmail().Address, tokens, logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(s *mailer.Sender) core.MailSender { return s }); err != nil {
		return nil, err
	}

	// Register the delivery service
	if err := container.Provide(func(cfg *config.Config, sender core.MailSender, logger *zap.Logger) (*core.DeliveryService, error) {
		sendTimeout, err := cfg.GetDuration("smtp.send_timeout")
		if err != nil {
			return nil, fmt.Errorf("invalid smtp send timeout: %w", err)
		}
		return core.NewDeliveryService(sender, logger, sendTimeout), nil
	}); err != nil {
		return nil, err
	}

	// Register the delivery worker with its completion hooks
	if err := container.Provide(func(q *queue.Queue, delivery *core.DeliveryService, logger *zap.Logger) *queue.Worker {
		w := queue.NewWorker(q, delivery.Deliver, logger)
		w.OnCompleted(func(job core.ReplyJob) {
			logger.Info("Email send completed", zap.String("job_id", job.ID))
		})
		w.OnFailed(func(job core.ReplyJob, err error) {
			logger.Warn("Email send failed", zap.String("job_id", job.ID), zap.Error(err))
		})
		return w
	}); err != nil {
		return nil, err
	}

	// Register the poll cycle orchestrator
	if err := container.Provide(func(
		cfg *config.Config,
		reader core.MailboxReader,
		generator core.TextGenerator,
		replyQueue core.ReplyQueue,
		progress core.ProgressStore,
		logger *zap.Logger,
	) (*core.PollService, error) {
		callTimeout, err := cfg.GetDuration("poller.call_timeout")
		if err != nil {
			return nil, fmt.Errorf("invalid poller call timeout: %w", err)
		}
		return core.NewPollService(reader, generator, replyQueue, progress, logger, callTimeout), nil
	}); err != nil {
		return nil, err
	}

	// Register the scheduler
	if err := container.Provide(func(cfg *config.Config, poller *core.PollService, logger *zap.Logger) (*scheduler.Scheduler, error) {
		interval, err := cfg.GetDuration("poller.interval")
		if err != nil {
			return nil, fmt.Errorf("invalid poller interval: %w", err)
		}
		return scheduler.New(interval, poller.RunCycle, logger), nil
	}); err != nil {
		return nil, err
	}

	// Register the HTTP server
	if err := container.Provide(server.New); err != nil {
		return nil, err
	}

	return container, nil
}
