package event

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshare/internal/config"
	"github.com/khoahotran/vidshare/internal/domain/video"
	"github.com/khoahotran/vidshare/pkg/logger"
)

const (
	ReconcilerGroupID     = "vidshare-reconciler"
	defaultHandleAttempts = 3
	defaultRetryBackoff   = 2 * time.Second
)

// MessageReader is the subset of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type EventHandler func(ctx context.Context, ev video.Event) error

type VideoEventConsumer struct {
	reader   MessageReader
	handle   EventHandler
	logger   logger.Logger
	attempts int
	backoff  time.Duration
}

func NewVideoEventReader(cfg config.Config) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    TopicVideoEvents,
		GroupID:  ReconcilerGroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

func NewVideoEventConsumer(reader MessageReader, handle EventHandler, log logger.Logger) *VideoEventConsumer {
	return &VideoEventConsumer{
		reader:   reader,
		handle:   handle,
		logger:   log,
		attempts: defaultHandleAttempts,
		backoff:  defaultRetryBackoff,
	}
}

// Run consumes until ctx is cancelled. A fetched message is committed once
// handled or once it exhausted its attempts. A message interrupted by
// shutdown is left uncommitted so the group redelivers it.
func (c *VideoEventConsumer) Run(ctx context.Context) error {
	c.logger.Info("Worker listening", zap.String("topic", TopicVideoEvents), zap.String("group", ReconcilerGroupID))

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			c.logger.Error("Failed to read message from Kafka", err)
			continue
		}

		if !c.process(ctx, msg) {
			c.logger.Info("Shutting down before event was settled, leaving it uncommitted", zap.Int64("offset", msg.Offset))
			return nil
		}

		if err := c.reader.CommitMessages(context.WithoutCancel(ctx), msg); err != nil {
			c.logger.Error("Failed to commit message", err, zap.Int64("offset", msg.Offset))
		}
	}
}

// process reports whether msg is settled: handled, malformed, or out of
// attempts. It returns false only when ctx ended first.
func (c *VideoEventConsumer) process(ctx context.Context, msg kafka.Message) bool {
	var ev video.Event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		c.logger.Warn("Skipping malformed event", zap.Int64("offset", msg.Offset), zap.Error(err))
		return true
	}

	l := c.logger.With(zap.String("event_type", string(ev.EventType)), zap.String("locator", ev.Locator))

	for attempt := 1; attempt <= c.attempts; attempt++ {
		err := c.handle(ctx, ev)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		if attempt == c.attempts {
			l.Error("Giving up on event, manual cleanup needed", err, zap.Int("attempts", attempt))
			return true
		}
		l.Warn("Event handling failed, retrying", zap.Int("attempt", attempt), zap.Error(err))

		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.backoff * time.Duration(attempt)):
		}
	}
	return true
}
