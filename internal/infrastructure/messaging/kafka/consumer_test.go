package kafka

import (
	"context"
	stdErrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/monitoring/logging"
)

// mockKafkaReader replays msgs then blocks until ctx ends.
type mockKafkaReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	committed []kafka.Message
	closed    bool
}

func (m *mockKafkaReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	m.mu.Lock()
	if len(m.msgs) > 0 {
		msg := m.msgs[0]
		m.msgs = m.msgs[1:]
		m.mu.Unlock()
		return msg, nil
	}
	m.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (m *mockKafkaReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed = append(m.committed, msgs...)
	return nil
}

func (m *mockKafkaReader) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockKafkaReader) commitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.committed)
}

type capturePublisher struct {
	mu   sync.Mutex
	msgs []*ProducerMessage
	err  error
}

func (p *capturePublisher) Publish(_ context.Context, msg *ProducerMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *capturePublisher) published() []*ProducerMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*ProducerMessage(nil), p.msgs...)
}

func newTestConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		Brokers: []string{"localhost:9092"},
		GroupID: "test-group",
		Topics:  []string{TopicAnalysisRequested},
		RetryConfig: RetryConfig{
			MaxRetries:      2,
			RetryBackoff:    time.Millisecond,
			MaxRetryBackoff: 2 * time.Millisecond,
			DeadLetterTopic: TopicDeadLetterClaims,
		},
	}
}

func TestValidateConsumerConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConsumerConfig)
		ok     bool
	}{
		{"valid", func(*ConsumerConfig) {}, true},
		{"no brokers", func(c *ConsumerConfig) { c.Brokers = nil }, false},
		{"no group", func(c *ConsumerConfig) { c.GroupID = "" }, false},
		{"no topics", func(c *ConsumerConfig) { c.Topics = nil }, false},
		{"negative retries", func(c *ConsumerConfig) { c.RetryConfig.MaxRetries = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConsumerConfig()
			tt.mutate(&cfg)
			err := ValidateConsumerConfig(cfg)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestConsumer_DispatchesAndCommits(t *testing.T) {
	reader := &mockKafkaReader{msgs: []kafka.Message{
		{Topic: TopicAnalysisRequested, Offset: 1, Value: []byte(`{}`),
			Headers: []kafka.Header{{Key: HeaderEventType, Value: []byte("x")}}},
	}}
	c := newConsumerWithReader(reader, newTestConsumerConfig(), nil, logging.NewNopLogger(), nil)

	got := make(chan *Message, 1)
	c.Subscribe(TopicAnalysisRequested, func(_ context.Context, msg *Message) error {
		got <- msg
		return nil
	})
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	select {
	case msg := <-got:
		assert.Equal(t, int64(1), msg.Offset)
		assert.Equal(t, "x", msg.Headers[HeaderEventType])
	case <-time.After(time.Second):
		t.Fatal("handler not called")
	}
	assert.Eventually(t, func() bool { return reader.commitCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), c.Stats().Processed)
}

func TestConsumer_StartTwice(t *testing.T) {
	c := newConsumerWithReader(&mockKafkaReader{}, newTestConsumerConfig(), nil, nil, nil)
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()
	assert.ErrorIs(t, c.Start(context.Background()), ErrAlreadyRunning)
}

func TestConsumer_UnknownTopicIsCommitted(t *testing.T) {
	reader := &mockKafkaReader{msgs: []kafka.Message{{Topic: "other", Value: []byte("v")}}}
	c := newConsumerWithReader(reader, newTestConsumerConfig(), nil, nil, nil)
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	assert.Eventually(t, func() bool { return reader.commitCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestProcessMessage_RetriesThenSucceeds(t *testing.T) {
	c := newConsumerWithReader(&mockKafkaReader{}, newTestConsumerConfig(), nil, nil, nil)
	calls := 0
	handler := func(context.Context, *Message) error {
		calls++
		if calls < 3 {
			return stdErrors.New("transient")
		}
		return nil
	}
	err := c.processMessage(context.Background(), &Message{Topic: "t"}, handler)
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, int64(2), c.Stats().Retried)
	assert.Equal(t, int64(1), c.Stats().Processed)
}

func TestProcessMessage_DeadLettersAfterRetries(t *testing.T) {
	dl := &capturePublisher{}
	c := newConsumerWithReader(&mockKafkaReader{}, newTestConsumerConfig(), dl, nil, nil)
	msg := &Message{Topic: TopicAnalysisRequested, Key: []byte("k"), Value: []byte("v"),
		Headers: map[string]string{HeaderCorrelationID: "c1"}}

	err := c.processMessage(context.Background(), msg, func(context.Context, *Message) error {
		return stdErrors.New("boom")
	})
	require.NoError(t, err)

	out := dl.published()
	require.Len(t, out, 1)
	assert.Equal(t, TopicDeadLetterClaims, out[0].Topic)
	assert.Equal(t, TopicAnalysisRequested, out[0].Headers[HeaderOriginalTopic])
	assert.Equal(t, "boom", out[0].Headers[HeaderErrorMessage])
	assert.Equal(t, "3", out[0].Headers[HeaderAttempts])
	assert.Equal(t, "c1", out[0].Headers[HeaderCorrelationID])
	_, mutated := msg.Headers[HeaderOriginalTopic]
	assert.False(t, mutated)
	assert.Equal(t, int64(1), c.Stats().DeadLettered)
}

func TestProcessMessage_DropsWhenDeadLetterFails(t *testing.T) {
	dl := &capturePublisher{err: stdErrors.New("down")}
	cfg := newTestConsumerConfig()
	cfg.RetryConfig.MaxRetries = 0
	c := newConsumerWithReader(&mockKafkaReader{}, cfg, dl, nil, nil)

	err := c.processMessage(context.Background(), &Message{Topic: "t"}, func(context.Context, *Message) error {
		return stdErrors.New("boom")
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), c.Stats().Dropped)
}

func TestProcessMessage_CancelledDuringBackoff(t *testing.T) {
	cfg := newTestConsumerConfig()
	cfg.RetryConfig.RetryBackoff = time.Hour
	c := newConsumerWithReader(&mockKafkaReader{}, cfg, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.processMessage(ctx, &Message{}, func(context.Context, *Message) error {
		return stdErrors.New("boom")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConsumer_CloseClosesReader(t *testing.T) {
	reader := &mockKafkaReader{}
	c := newConsumerWithReader(reader, newTestConsumerConfig(), nil, nil, nil)
	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.Close())
	assert.True(t, reader.closed)
}

//Personal.AI order the ending
