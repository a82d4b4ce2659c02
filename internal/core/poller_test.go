package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReader struct {
	msg *InboundMessage
	err error
}

func (f *fakeReader) FetchNextUnread(ctx context.Context) (*InboundMessage, error) {
	return f.msg, f.err
}

type fakeGenerator struct {
	category        Category
	categorizeErr   error
	reply           string
	replyErr        error
	categorizeCalls int
	replyCalls      int
}

func (f *fakeGenerator) Categorize(ctx context.Context, content string) (Category, error) {
	f.categorizeCalls++
	return f.category, f.categorizeErr
}

func (f *fakeGenerator) GenerateReply(ctx context.Context, category Category, message string) (string, error) {
	f.replyCalls++
	return f.reply, f.replyErr
}

type fakeQueue struct {
	drafts []DraftReply
	err    error
	events *[]string
}

func (f *fakeQueue) Enqueue(ctx context.Context, draft DraftReply) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.drafts = append(f.drafts, draft)
	*f.events = append(*f.events, "enqueue")
	return "job-1", nil
}

type fakeProgress struct {
	last   string
	sets   []string
	events *[]string
}

func (f *fakeProgress) LastMessageID(ctx context.Context) (string, error) {
	return f.last, nil
}

func (f *fakeProgress) SetLastMessageID(ctx context.Context, id string) error {
	f.sets = append(f.sets, id)
	*f.events = append(*f.events, "set-marker")
	return nil
}

func newPollFixture(msg *InboundMessage, gen *fakeGenerator, last string) (*PollService, *fakeQueue, *fakeProgress, *[]string) {
	events := &[]string{}
	q := &fakeQueue{events: events}
	p := &fakeProgress{last: last, events: events}
	s := NewPollService(&fakeReader{msg: msg}, gen, q, p, zap.NewNop(), 0)
	return s, q, p, events
}

func TestRunCycle_NoNewMail(t *testing.T) {
	gen := &fakeGenerator{}
	s, q, p, _ := newPollFixture(nil, gen, "")

	s.RunCycle(context.Background())

	assert.Zero(t, gen.categorizeCalls)
	assert.Empty(t, q.drafts)
	assert.Empty(t, p.sets)
}

func TestRunCycle_AlreadyProcessed(t *testing.T) {
	msg := &InboundMessage{ID: "42", From: "Jane <jane@x.com>", Snippet: "hello"}
	gen := &fakeGenerator{category: CategoryInterested, reply: "hi"}
	s, q, p, _ := newPollFixture(msg, gen, "42")

	s.RunCycle(context.Background())

	assert.Zero(t, gen.categorizeCalls)
	assert.Zero(t, gen.replyCalls)
	assert.Empty(t, q.drafts)
	assert.Empty(t, p.sets)
}

func TestRunCycle_EnqueuesThenAdvancesMarker(t *testing.T) {
	msg := &InboundMessage{ID: "42", From: "Jane <jane@x.com>", Snippet: "I'd love to learn more"}
	gen := &fakeGenerator{category: CategoryMoreInformation, reply: "Sure, here are more details..."}
	s, q, p, events := newPollFixture(msg, gen, "41")

	require.NoError(t, s.runCycle(context.Background()))

	require.Len(t, q.drafts, 1)
	assert.Equal(t, DraftReply{Reply: "Sure, here are more details...", SenderEmail: "Jane <jane@x.com>"}, q.drafts[0])
	require.Len(t, p.sets, 1)
	assert.Equal(t, "42", p.sets[0])
	assert.Equal(t, []string{"enqueue", "set-marker"}, *events)
}

func TestRunCycle_UnknownCategoryAbortsCycle(t *testing.T) {
	msg := &InboundMessage{ID: "42", From: "Jane <jane@x.com>", Snippet: "???"}
	gen := &fakeGenerator{category: CategoryUnknown}
	s, q, p, _ := newPollFixture(msg, gen, "")

	err := s.runCycle(context.Background())

	var catErr *CategoryError
	require.ErrorAs(t, err, &catErr)
	assert.Zero(t, gen.replyCalls)
	assert.Empty(t, q.drafts)
	assert.Empty(t, p.sets)
}

func TestRunCycle_CategorizeErrorLeavesMarkerAlone(t *testing.T) {
	msg := &InboundMessage{ID: "42", From: "Jane <jane@x.com>", Snippet: "hello"}
	gen := &fakeGenerator{categorizeErr: ErrRateLimitExceeded}
	s, q, p, _ := newPollFixture(msg, gen, "")

	err := s.runCycle(context.Background())

	require.ErrorIs(t, err, ErrRateLimitExceeded)
	assert.Empty(t, q.drafts)
	assert.Empty(t, p.sets)
}

func TestRunCycle_EnqueueFailureLeavesMarkerAlone(t *testing.T) {
	msg := &InboundMessage{ID: "42", From: "Jane <jane@x.com>", Snippet: "hello"}
	gen := &fakeGenerator{category: CategoryInterested, reply: "hi"}
	s, q, p, _ := newPollFixture(msg, gen, "")
	q.err = errors.New("redis down")

	err := s.runCycle(context.Background())

	require.Error(t, err)
	assert.Empty(t, p.sets)
}

func TestRunCycle_ReaderErrorDoesNotPanic(t *testing.T) {
	events := &[]string{}
	q := &fakeQueue{events: events}
	p := &fakeProgress{events: events}
	reader := &fakeReader{err: &ProviderError{Op: "list unread messages", Err: errors.New("auth failed")}}
	s := NewPollService(reader, &fakeGenerator{}, q, p, zap.NewNop(), 0)

	s.RunCycle(context.Background())

	assert.Empty(t, q.drafts)
	assert.Empty(t, p.sets)
}
