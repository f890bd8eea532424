package claims

import (
	"context"
	stdErrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/messaging/kafka"
	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
	"github.com/milo0914/ChemPatent-Pro/pkg/types/patent"
)

type publishedEvent struct {
	topic, eventType, correlationID string
	payload                         interface{}
}

type capturePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *capturePublisher) PublishEvent(_ context.Context, topic, eventType, correlationID string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{topic, eventType, correlationID, payload})
	return nil
}

type fakeLease struct {
	released, extended bool
	ttl                time.Duration
}

func (l *fakeLease) Release(context.Context) error { l.released = true; return nil }

func (l *fakeLease) Extend(_ context.Context, ttl time.Duration) error {
	l.extended, l.ttl = true, ttl
	return nil
}

type fakeLocker struct {
	held   map[string]bool
	leases []*fakeLease
}

func (f *fakeLocker) Lock(_ context.Context, key string) (EventLease, error) {
	if f.held[key] {
		return nil, errors.New(errors.ErrCodeConflict, "held")
	}
	f.held[key] = true
	l := &fakeLease{}
	f.leases = append(f.leases, l)
	return l, nil
}

type failingService struct {
	Service
	err error
}

func (f failingService) Analyze(context.Context, patent.AnalyzeRequest) (*patent.AnalysisResult, error) {
	return nil, f.err
}

func requestMessage(t *testing.T, text, correlationID string) *kafka.Message {
	t.Helper()
	ev := patent.NewAnalysisRequestedEvent(correlationID, patent.AnalyzeRequest{Text: text, Language: "en"})
	env, err := kafka.NewEventEnvelope(patent.EventAnalysisRequested, "test", ev)
	require.NoError(t, err)
	env.CorrelationID = correlationID
	pm, err := env.ToMessage(kafka.TopicAnalysisRequested)
	require.NoError(t, err)
	return &kafka.Message{Topic: pm.Topic, Key: pm.Key, Value: pm.Value, Headers: pm.Headers}
}

func TestHandleAnalysisRequested_PublishesCompleted(t *testing.T) {
	pub := &capturePublisher{}
	locker := &fakeLocker{held: map[string]bool{}}
	h := NewEventHandler(newTestService(t), pub, locker, "", nil)

	require.NoError(t, h.HandleAnalysisRequested(context.Background(), requestMessage(t, compoundClaims, "corr-1")))

	require.Len(t, pub.events, 1)
	got := pub.events[0]
	assert.Equal(t, kafka.TopicAnalysisCompleted, got.topic)
	assert.Equal(t, patent.EventAnalysisCompleted, got.eventType)
	assert.Equal(t, "corr-1", got.correlationID)
	ev := got.payload.(patent.AnalysisCompletedEvent)
	assert.Equal(t, 2, ev.TotalClaims)
	assert.Nil(t, ev.Error)

	require.Len(t, locker.leases, 1)
	assert.True(t, locker.leases[0].extended)
	assert.Equal(t, DefaultDedupeWindow, locker.leases[0].ttl)
}

func TestHandleAnalysisRequested_SkipsDuplicates(t *testing.T) {
	pub := &capturePublisher{}
	locker := &fakeLocker{held: map[string]bool{}}
	h := NewEventHandler(newTestService(t), pub, locker, "done", nil)
	msg := requestMessage(t, compoundClaims, "corr-1")

	require.NoError(t, h.HandleAnalysisRequested(context.Background(), msg))
	require.NoError(t, h.HandleAnalysisRequested(context.Background(), msg))
	assert.Len(t, pub.events, 1)
	assert.Equal(t, "done", pub.events[0].topic)
}

func TestHandleAnalysisRequested_RejectedRequestPublishesFailure(t *testing.T) {
	pub := &capturePublisher{}
	h := NewEventHandler(newTestService(t), pub, nil, "", nil)

	require.NoError(t, h.HandleAnalysisRequested(context.Background(), requestMessage(t, "   ", "corr-2")))
	require.Len(t, pub.events, 1)
	ev := pub.events[0].payload.(patent.AnalysisCompletedEvent)
	require.NotNil(t, ev.Error)
	assert.Equal(t, string(errors.ErrCodeClaimTextEmpty), ev.Error.Code)
}

func TestHandleAnalysisRequested_InfrastructureErrorIsRetried(t *testing.T) {
	pub := &capturePublisher{}
	locker := &fakeLocker{held: map[string]bool{}}
	svc := failingService{err: errors.New(errors.ErrCodeDatabaseError, "db down")}
	h := NewEventHandler(svc, pub, locker, "", nil)

	err := h.HandleAnalysisRequested(context.Background(), requestMessage(t, compoundClaims, "c"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatabaseError))
	assert.Empty(t, pub.events)
	require.Len(t, locker.leases, 1)
	assert.True(t, locker.leases[0].released)
}

func TestHandleAnalysisRequested_PublishErrorReleasesLease(t *testing.T) {
	pub := &capturePublisher{err: stdErrors.New("broker down")}
	locker := &fakeLocker{held: map[string]bool{}}
	h := NewEventHandler(newTestService(t), pub, locker, "", nil)

	err := h.HandleAnalysisRequested(context.Background(), requestMessage(t, compoundClaims, "c"))
	assert.Error(t, err)
	assert.True(t, locker.leases[0].released)
}

func TestHandleAnalysisRequested_MalformedMessage(t *testing.T) {
	h := NewEventHandler(newTestService(t), &capturePublisher{}, nil, "", nil)
	err := h.HandleAnalysisRequested(context.Background(), &kafka.Message{Value: []byte("not json")})
	assert.True(t, errors.IsCode(err, errors.ErrCodeSerialization))
}

func TestHandleAnalysisRequested_FallsBackToAggregateID(t *testing.T) {
	pub := &capturePublisher{}
	h := NewEventHandler(newTestService(t), pub, nil, "", nil)
	msg := requestMessage(t, compoundClaims, "")

	require.NoError(t, h.HandleAnalysisRequested(context.Background(), msg))
	require.Len(t, pub.events, 1)
	assert.NotEmpty(t, pub.events[0].correlationID)
}

func TestHandleAnalysisRequested_MissingEventIDUsesRecordPosition(t *testing.T) {
	pub := &capturePublisher{}
	locker := &fakeLocker{held: map[string]bool{}}
	h := NewEventHandler(newTestService(t), pub, locker, "", nil)

	first := requestMessage(t, compoundClaims, "corr-a")
	second := requestMessage(t, compoundClaims, "corr-b")
	for i, msg := range []*kafka.Message{first, second} {
		env, err := kafka.MessageToEventEnvelope(msg)
		require.NoError(t, err)
		env.EventID = ""
		pm, err := env.ToMessage(kafka.TopicAnalysisRequested)
		require.NoError(t, err)
		msg.Value, msg.Offset = pm.Value, int64(i+10)
	}

	require.NoError(t, h.HandleAnalysisRequested(context.Background(), first))
	require.NoError(t, h.HandleAnalysisRequested(context.Background(), second))
	require.Len(t, pub.events, 2)
	assert.Equal(t, "corr-a", pub.events[0].correlationID)
	assert.Equal(t, "corr-b", pub.events[1].correlationID)
	assert.True(t, locker.held["record:"+kafka.TopicAnalysisRequested+"/0/10"])

	require.NoError(t, h.HandleAnalysisRequested(context.Background(), first))
	assert.Len(t, pub.events, 2)
}

//Personal.AI order the ending
