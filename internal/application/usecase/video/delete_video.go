package video

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshare/internal/application/service"
	"github.com/khoahotran/vidshare/internal/domain/video"
	"github.com/khoahotran/vidshare/pkg/apperror"
	"github.com/khoahotran/vidshare/pkg/logger"
	"github.com/khoahotran/vidshare/pkg/metrics"
)

// DeleteVideoUseCase runs the two-step delete: best-effort media removal,
// then the authoritative catalog delete. A crash between the steps leaves a
// record whose media may already be gone, never media with no record.
type DeleteVideoUseCase struct {
	videoRepo video.Repository
	media     service.MediaStore
	cache     video.FeedCache
	events    service.EventPublisher
	logger    logger.Logger
}

func NewDeleteVideoUseCase(
	r video.Repository,
	m service.MediaStore,
	c video.FeedCache,
	e service.EventPublisher,
	log logger.Logger,
) *DeleteVideoUseCase {
	return &DeleteVideoUseCase{videoRepo: r, media: m, cache: c, events: e, logger: log}
}

type DeleteVideoInput struct {
	OwnerID string
	VideoID string
}

func (uc *DeleteVideoUseCase) Execute(ctx context.Context, input DeleteVideoInput) error {
	ctx, span := tracer.Start(ctx, "DeleteVideo")
	defer span.End()
	span.SetAttributes(attribute.String("video.id", input.VideoID))

	if input.OwnerID == "" {
		return apperror.NewUnauthorized("delete video requires a session", nil)
	}

	v, err := uc.videoRepo.FindByID(ctx, input.VideoID)
	if err != nil {
		metrics.Deletes.WithLabelValues("lookup_failed").Inc()
		return err
	}

	if !v.OwnedBy(input.OwnerID) {
		metrics.Deletes.WithLabelValues("forbidden").Inc()
		return apperror.NewPermissionDenied("only the owner may delete this video")
	}

	l := uc.logger.With(zap.String("video_id", v.ID), zap.String("locator", v.VideoURL))

	var mediaErr error
	if v.VideoURL != "" {
		if mediaErr = uc.media.Delete(ctx, v.VideoURL); mediaErr != nil {
			span.RecordError(mediaErr)
			l.Warn("Media delete failed, continuing with catalog delete", zap.Error(mediaErr))
		}
	} else {
		l.Warn("Video has no media locator, skipping media delete")
	}

	deleted, err := uc.videoRepo.DeleteByID(ctx, v.ID)
	if err != nil {
		metrics.Deletes.WithLabelValues("store_failed").Inc()
		span.RecordError(err)
		l.Error("Catalog delete failed", err)
		return err
	}
	if !deleted {
		// Lost a race with a concurrent delete of the same record.
		metrics.Deletes.WithLabelValues("not_found").Inc()
		return apperror.NewNotFound("video", v.ID)
	}

	if mediaErr != nil {
		metrics.MediaOrphans.WithLabelValues("delete").Inc()
		orphan := video.NewOrphanEvent(v.VideoURL, v.UserID, "media delete failed: "+mediaErr.Error())
		orphan.VideoID = v.ID
		uc.publish(ctx, orphan)
	}

	if err := uc.cache.Invalidate(ctx); err != nil {
		l.Warn("Failed to invalidate feed cache", zap.Error(err))
	}
	uc.publish(ctx, video.NewEvent(video.EventDeleted, v))

	metrics.Deletes.WithLabelValues("ok").Inc()
	l.Info("Video deleted", zap.Bool("media_deleted", mediaErr == nil))
	return nil
}

func (uc *DeleteVideoUseCase) publish(ctx context.Context, ev video.Event) {
	if err := uc.events.PublishVideoEvent(context.WithoutCancel(ctx), ev); err != nil {
		uc.logger.Error("Failed to publish video event", err, zap.String("event_type", string(ev.EventType)), zap.String("locator", ev.Locator))
	}
}
