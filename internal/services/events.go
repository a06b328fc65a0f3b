package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jackhellowin/portfolio-api/pkg/logger"
	"github.com/segmentio/kafka-go"
)

const (
	EventUserLogin           = "user.login"
	EventUserLogout          = "user.logout"
	EventUserCreated         = "user.created"
	EventUserDeleted         = "user.deleted"
	EventUserSessionsRevoked = "user.sessions_revoked"
)

const publishTimeout = 3 * time.Second

// AuthEvent is published for account and session changes.
type AuthEvent struct {
	Type       string    `json:"type"`
	UserID     uint      `json:"userId"`
	Username   string    `json:"username,omitempty"`
	EnvAdmin   bool      `json:"envAdmin,omitempty"`
	ActorID    *uint     `json:"actorId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventPublisher delivers auth events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event AuthEvent) error
	Close() error
}

// NopPublisher drops every event. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, AuthEvent) error { return nil }
func (NopPublisher) Close() error                             { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON keyed by user id, so one user's
// events stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher returns an asynchronous publisher: Publish only queues
// the message, delivery errors are logged by logDeliveryFailure, and Close
// flushes what is still queued.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion:             logDeliveryFailure,
	}}
}

func logDeliveryFailure(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, msg := range messages {
		logger.Warn().Err(err).Str("key", string(msg.Key)).Str("topic", msg.Topic).Msg("Failed to deliver auth event")
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event AuthEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.UserID), 10)),
		Value: data,
		Time:  event.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write %s: %w", event.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// publishEvent delivers event with a bounded wait. Failures are logged, never returned.
func publishEvent(ctx context.Context, publisher EventPublisher, event AuthEvent) {
	if publisher == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn().Err(err).Str("event", event.Type).Uint("user_id", event.UserID).Msg("Failed to publish auth event")
	}
}
