package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/vidshare/internal/application/service"
	"github.com/khoahotran/vidshare/internal/domain/video"
	"github.com/khoahotran/vidshare/pkg/logger"
)

type logPublisher struct {
	logger logger.Logger
}

// NewLogPublisher writes events to the log. Used when no Kafka brokers are
// configured.
func NewLogPublisher(log logger.Logger) service.EventPublisher {
	return &logPublisher{logger: log}
}

func (p *logPublisher) PublishVideoEvent(ctx context.Context, ev video.Event) error {
	p.log(TopicVideoEvents, ev)
	return nil
}

func (p *logPublisher) PublishViewEvent(ctx context.Context, ev video.Event) error {
	p.log(TopicViewEvents, ev)
	return nil
}

func (p *logPublisher) log(topic string, ev video.Event) {
	fields := []zap.Field{
		zap.String("topic", topic),
		zap.String("event_type", string(ev.EventType)),
		zap.String("video_id", ev.VideoID),
		zap.String("locator", ev.Locator),
	}
	if ev.EventType == video.EventMediaOrphaned {
		p.logger.Warn("Media orphaned, needs reconciliation", append(fields, zap.String("reason", ev.Reason))...)
		return
	}
	p.logger.Info("Video event", fields...)
}
