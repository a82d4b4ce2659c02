package core

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"
)

// ReplySubject is the fixed subject line on every outbound reply.
const ReplySubject = "Email from ReachInBox"

// addressPattern extracts the address inside angle brackets from a
// display-name-and-address header ("Jane Doe <jane@example.com>").
var addressPattern = regexp.MustCompile(`<([^>]+)>`)

// ExtractAddress pulls the bare address out of a raw sender header.
// Headers without an angle-bracket segment fail with an AddressParseError;
// bare addresses are deliberately not accepted, matching the upstream
// header contract.
func ExtractAddress(raw string) (string, error) {
	m := addressPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", &AddressParseError{Raw: raw}
	}
	return m[1], nil
}

// DeliveryService turns a queued ReplyJob into an outbound send. It is
// invoked by the queue worker; a returned error hands the job to the
// queue's redelivery policy.
type DeliveryService struct {
	sender      MailSender
	logger      *zap.Logger
	sendTimeout time.Duration
}

// NewDeliveryService creates a new delivery service.
func NewDeliveryService(sender MailSender, logger *zap.Logger, sendTimeout time.Duration) *DeliveryService {
	return &DeliveryService{
		sender:      sender,
		logger:      logger,
		sendTimeout: sendTimeout,
	}
}

// Deliver sends the drafted reply back to the original sender.
func (s *DeliveryService) Deliver(ctx context.Context, job ReplyJob) error {
	to, err := ExtractAddress(job.SenderEmail)
	if err != nil {
		return fmt.Errorf("job %s: %w", job.ID, err)
	}

	if s.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.sendTimeout)
		defer cancel()
	}

	if err := s.sender.Send(ctx, to, ReplySubject, job.Reply); err != nil {
		return fmt.Errorf("send reply for job %s to %s: %w", job.ID, to, err)
	}

	s.logger.Info("Email sent successfully",
		zap.String("job_id", job.ID),
		zap.String("to", to))
	return nil
}
