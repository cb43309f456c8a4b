package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khoahotran/vidshare/internal/domain/video"
	"github.com/khoahotran/vidshare/pkg/logger"
)

func TestLogPublisherNeverFails(t *testing.T) {
	p := NewLogPublisher(logger.NewNopLogger())

	assert.NoError(t, p.PublishVideoEvent(context.Background(), video.NewOrphanEvent("videos/1-a.mp4", "u1", "insert failed")))
	assert.NoError(t, p.PublishViewEvent(context.Background(), video.NewEvent(video.EventViewed, &video.Video{ID: "v1"})))
}
