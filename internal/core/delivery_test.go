package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	to      string
	subject string
	body    string
	calls   int
	err     error
}

func (f *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	f.calls++
	f.to = to
	f.subject = subject
	f.body = body
	return f.err
}

func TestExtractAddress(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "display name and address", raw: "Jane Doe <jane@example.com>", want: "jane@example.com"},
		{name: "angle brackets only", raw: "<bob@example.com>", want: "bob@example.com"},
		{name: "bare address is rejected", raw: "jane@example.com", wantErr: true},
		{name: "missing header fallback", raw: "Unknown sender", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractAddress(tt.raw)
			if tt.wantErr {
				var parseErr *AddressParseError
				require.ErrorAs(t, err, &parseErr)
				assert.Equal(t, tt.raw, parseErr.Raw)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeliver_SendsWithFixedSubject(t *testing.T) {
	sender := &fakeSender{}
	svc := NewDeliveryService(sender, zap.NewNop(), 0)

	job := ReplyJob{
		ID: "job-1",
		DraftReply: DraftReply{
			Reply:       "Sure, here are more details...",
			SenderEmail: "Jane Doe <jane@example.com>",
		},
	}

	require.NoError(t, svc.Deliver(context.Background(), job))

	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, "jane@example.com", sender.to)
	assert.Equal(t, ReplySubject, sender.subject)
	assert.Equal(t, "Sure, here are more details...", sender.body)
}

func TestDeliver_UnparsableSenderNeverReachesTransport(t *testing.T) {
	sender := &fakeSender{}
	svc := NewDeliveryService(sender, zap.NewNop(), 0)

	job := ReplyJob{
		ID:         "job-2",
		DraftReply: DraftReply{Reply: "hi", SenderEmail: "nobody"},
	}

	err := svc.Deliver(context.Background(), job)

	var parseErr *AddressParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Zero(t, sender.calls)
}

func TestDeliver_TransportErrorPropagates(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	svc := NewDeliveryService(sender, zap.NewNop(), 0)

	job := ReplyJob{
		ID:         "job-3",
		DraftReply: DraftReply{Reply: "hi", SenderEmail: "<jane@example.com>"},
	}

	err := svc.Deliver(context.Background(), job)

	require.Error(t, err)
	assert.ErrorIs(t, err, sender.err)
}
