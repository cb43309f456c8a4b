package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshare/internal/config"
	"github.com/khoahotran/vidshare/internal/domain/video"
	"github.com/khoahotran/vidshare/pkg/logger"
)

const (
	TopicVideoEvents = "video.events"
	TopicViewEvents  = "view.events"
)

type KafkaProducerClient struct {
	VideoEventsWriter *kafka.Writer
	ViewEventsWriter  *kafka.Writer
	logger            logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	c := &KafkaProducerClient{logger: log}

	// writer 'video.events'
	c.VideoEventsWriter = c.newWriter(brokers, TopicVideoEvents)

	// writer 'view.events'
	c.ViewEventsWriter = c.newWriter(brokers, TopicViewEvents)

	log.Info("Initialize Kafka Producers successfully.", zap.Strings("brokers", brokers))
	return c, nil
}

// newWriter returns an async writer so request handlers never wait on the
// broker; delivery failures surface through Completion.
func (c *KafkaProducerClient) newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				c.logger.Error("Kafka delivery failed", err, zap.String("topic", topic), zap.Int("messages", len(messages)))
			}
		},
	}
}

func (c *KafkaProducerClient) PublishVideoEvent(ctx context.Context, ev video.Event) error {
	return c.write(ctx, c.VideoEventsWriter, ev)
}

func (c *KafkaProducerClient) PublishViewEvent(ctx context.Context, ev video.Event) error {
	return c.write(ctx, c.ViewEventsWriter, ev)
}

func (c *KafkaProducerClient) write(ctx context.Context, w *kafka.Writer, ev video.Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	key := ev.VideoID
	if key == "" {
		key = ev.Locator
	}

	if err := w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		return fmt.Errorf("write %s to %s: %w", ev.EventType, w.Topic, err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.VideoEventsWriter != nil {
		c.VideoEventsWriter.Close()
	}
	if c.ViewEventsWriter != nil {
		c.ViewEventsWriter.Close()
	}
	c.logger.Info("Closed Kafka Producers")
}
