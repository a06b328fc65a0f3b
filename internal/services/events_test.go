package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackhellowin/portfolio-api/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &fakeWriter{}
	pub := &KafkaPublisher{writer: writer}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	err := pub.Publish(context.Background(), AuthEvent{Type: EventUserLogin, UserID: 42, Username: "alice", OccurredAt: at})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "42", string(msg.Key))
	assert.Equal(t, at, msg.Time)

	var decoded AuthEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, EventUserLogin, decoded.Type)
	assert.Equal(t, uint(42), decoded.UserID)
	assert.Equal(t, "alice", decoded.Username)

	require.NoError(t, pub.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	pub := &KafkaPublisher{writer: &fakeWriter{err: errors.New("broker down")}}

	err := pub.Publish(context.Background(), AuthEvent{Type: EventUserLogout, UserID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), EventUserLogout)
}

func TestPublishEvent_SwallowsFailures(t *testing.T) {
	pub := &KafkaPublisher{writer: &fakeWriter{err: errors.New("broker down")}}

	assert.NotPanics(t, func() {
		publishEvent(context.Background(), pub, AuthEvent{Type: EventUserCreated, UserID: 3})
		publishEvent(context.Background(), nil, AuthEvent{Type: EventUserCreated, UserID: 3})
	})
}

func TestPublishEvent_SetsOccurredAt(t *testing.T) {
	rec := &recordingPublisher{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	publishEvent(ctx, rec, AuthEvent{Type: EventUserDeleted, UserID: 9})

	require.Len(t, rec.events, 1)
	assert.False(t, rec.events[0].OccurredAt.IsZero())
}

func TestNewKafkaPublisher_DoesNotBlockCallers(t *testing.T) {
	pub := NewKafkaPublisher([]string{"127.0.0.1:1"}, "auth-events")
	t.Cleanup(func() { pub.Close() })
	writer, ok := pub.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.True(t, writer.Async)
	assert.NotNil(t, writer.Completion)
}

func TestLogDeliveryFailure(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter("info", &buf)
	t.Cleanup(func() { logger.Init("info") })

	logDeliveryFailure([]kafka.Message{{Key: []byte("7"), Topic: "auth-events"}}, nil)
	assert.Empty(t, buf.String())

	logDeliveryFailure([]kafka.Message{{Key: []byte("7"), Topic: "auth-events"}}, errors.New("broker down"))
	assert.Contains(t, buf.String(), "broker down")
	assert.Contains(t, buf.String(), `"key":"7"`)
}
