package video

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/vidshare/internal/domain/video"
	"github.com/khoahotran/vidshare/pkg/logger"
	"github.com/khoahotran/vidshare/pkg/metrics"
)

type ListVideosUseCase struct {
	videoRepo video.Repository
	cache     video.FeedCache
	logger    logger.Logger
}

func NewListVideosUseCase(r video.Repository, c video.FeedCache, log logger.Logger) *ListVideosUseCase {
	return &ListVideosUseCase{videoRepo: r, cache: c, logger: log}
}

type ListVideosOutput struct {
	Videos []*video.Video
}

// Execute returns every record, newest first. An empty catalog yields an
// empty, non-nil slice.
func (uc *ListVideosUseCase) Execute(ctx context.Context) (*ListVideosOutput, error) {
	ctx, span := tracer.Start(ctx, "ListVideos")
	defer span.End()

	cached, ok, err := uc.cache.GetFeed(ctx)
	if err != nil {
		metrics.FeedCache.WithLabelValues("error").Inc()
		uc.logger.Warn("Feed cache read failed, falling back to store", zap.Error(err))
	} else if ok {
		metrics.FeedCache.WithLabelValues("hit").Inc()
		return &ListVideosOutput{Videos: nonNil(cached)}, nil
	} else {
		metrics.FeedCache.WithLabelValues("miss").Inc()
	}

	// Read before listing so a write landing in between marks the snapshot stale.
	gen, genErr := uc.cache.Generation(ctx)

	videos, err := uc.videoRepo.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	videos = nonNil(videos)

	if genErr != nil {
		uc.logger.Warn("Feed cache generation read failed, not caching", zap.Error(genErr))
		return &ListVideosOutput{Videos: videos}, nil
	}
	stored, err := uc.cache.SetFeed(ctx, gen, videos)
	if err != nil {
		uc.logger.Warn("Feed cache write failed", zap.Error(err))
	} else if !stored {
		metrics.FeedCache.WithLabelValues("write_skipped").Inc()
	}
	return &ListVideosOutput{Videos: videos}, nil
}

func nonNil(videos []*video.Video) []*video.Video {
	if videos == nil {
		return make([]*video.Video, 0)
	}
	return videos
}
