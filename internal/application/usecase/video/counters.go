package video

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/vidshare/internal/application/service"
	"github.com/khoahotran/vidshare/internal/domain/video"
	"github.com/khoahotran/vidshare/pkg/apperror"
	"github.com/khoahotran/vidshare/pkg/logger"
)

// Record view

type RecordViewUseCase struct {
	videoRepo video.Repository
	events    service.EventPublisher
	logger    logger.Logger
}

func NewRecordViewUseCase(r video.Repository, e service.EventPublisher, log logger.Logger) *RecordViewUseCase {
	return &RecordViewUseCase{videoRepo: r, events: e, logger: log}
}

func (uc *RecordViewUseCase) Execute(ctx context.Context, videoID string) (*video.Video, error) {
	ctx, span := tracer.Start(ctx, "RecordView")
	defer span.End()

	v, err := uc.videoRepo.IncrementViews(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if err := uc.events.PublishViewEvent(context.WithoutCancel(ctx), video.NewEvent(video.EventViewed, v)); err != nil {
		uc.logger.Warn("Failed to publish view event", zap.String("video_id", v.ID), zap.Error(err))
	}
	return v, nil
}

// Like

type LikeVideoUseCase struct {
	videoRepo video.Repository
	events    service.EventPublisher
	logger    logger.Logger
}

func NewLikeVideoUseCase(r video.Repository, e service.EventPublisher, log logger.Logger) *LikeVideoUseCase {
	return &LikeVideoUseCase{videoRepo: r, events: e, logger: log}
}

type LikeVideoInput struct {
	OwnerID string
	VideoID string
}

func (uc *LikeVideoUseCase) Execute(ctx context.Context, input LikeVideoInput) (*video.Video, error) {
	ctx, span := tracer.Start(ctx, "LikeVideo")
	defer span.End()

	if input.OwnerID == "" {
		return nil, apperror.NewUnauthorized("liking a video requires a session", nil)
	}

	v, err := uc.videoRepo.IncrementLikes(ctx, input.VideoID)
	if err != nil {
		return nil, err
	}

	ev := video.NewEvent(video.EventLiked, v)
	ev.OwnerID = input.OwnerID
	if err := uc.events.PublishViewEvent(context.WithoutCancel(ctx), ev); err != nil {
		uc.logger.Warn("Failed to publish like event", zap.String("video_id", v.ID), zap.Error(err))
	}
	return v, nil
}
