package video

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshare/internal/application/service"
	"github.com/khoahotran/vidshare/internal/domain/video"
	"github.com/khoahotran/vidshare/pkg/apperror"
	"github.com/khoahotran/vidshare/pkg/logger"
	"github.com/khoahotran/vidshare/pkg/metrics"
)

var tracer = otel.Tracer("video_usecase")

type CreateVideoUseCase struct {
	videoRepo      video.Repository
	media          service.MediaStore
	cache          video.FeedCache
	events         service.EventPublisher
	logger         logger.Logger
	maxUploadBytes int64
}

func NewCreateVideoUseCase(
	r video.Repository,
	m service.MediaStore,
	c video.FeedCache,
	e service.EventPublisher,
	log logger.Logger,
	maxUploadBytes int64,
) *CreateVideoUseCase {
	return &CreateVideoUseCase{
		videoRepo:      r,
		media:          m,
		cache:          c,
		events:         e,
		logger:         log,
		maxUploadBytes: maxUploadBytes,
	}
}

type VideoFile struct {
	Name        string
	Size        int64
	ContentType string
	Content     []byte
}

type CreateVideoInput struct {
	OwnerID     string
	Title       string
	Description string
	File        *VideoFile
}

type CreateVideoOutput struct {
	Video *video.Video
}

// validate reports the first failing field, in form order.
func (in CreateVideoInput) validate(maxBytes int64) error {
	if strings.TrimSpace(in.Title) == "" {
		return apperror.NewInvalidField("title", "is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return apperror.NewInvalidField("description", "is required")
	}
	if in.File == nil || len(in.File.Content) == 0 {
		return apperror.NewInvalidField("video", "file is required")
	}
	if !video.IsVideoType(in.File.ContentType) {
		return apperror.NewInvalidField("fileType", fmt.Sprintf("must start with '%s', got '%s'", video.MimePrefix, in.File.ContentType))
	}
	if maxBytes > 0 && in.File.Size > maxBytes {
		return apperror.NewInvalidField("video", fmt.Sprintf("must be smaller than %s", humanize.Bytes(uint64(maxBytes))))
	}
	return nil
}

func (uc *CreateVideoUseCase) Execute(ctx context.Context, input CreateVideoInput) (*CreateVideoOutput, error) {
	ctx, span := tracer.Start(ctx, "CreateVideo")
	defer span.End()

	if input.OwnerID == "" {
		return nil, apperror.NewUnauthorized("create video requires a session", nil)
	}
	if err := input.validate(uc.maxUploadBytes); err != nil {
		metrics.Uploads.WithLabelValues("invalid").Inc()
		return nil, err
	}

	l := uc.logger.With(zap.String("owner_id", input.OwnerID), zap.String("file_name", input.File.Name))

	locator, err := uc.media.Upload(ctx, input.File.Content, input.File.Name, input.File.ContentType)
	if err != nil {
		metrics.Uploads.WithLabelValues("upload_failed").Inc()
		span.RecordError(err)
		l.Error("Media upload failed, no catalog record created", err)
		if errors.Is(err, apperror.ErrUploadFailed) {
			return nil, err
		}
		return nil, apperror.NewUploadFailed("media store upload failed", err)
	}
	span.SetAttributes(attribute.String("media.locator", locator))

	now := time.Now().UTC()
	newVideo := &video.Video{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		VideoURL:    locator,
		UserID:      input.OwnerID,
		FileName:    input.File.Name,
		FileSize:    input.File.Size,
		FileType:    input.File.ContentType,
		Views:       0,
		Likes:       0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	id, err := uc.videoRepo.Insert(ctx, newVideo)
	if err != nil {
		// The uploaded object now has no record pointing at it.
		metrics.Uploads.WithLabelValues("store_failed").Inc()
		metrics.MediaOrphans.WithLabelValues("create").Inc()
		span.RecordError(err)
		l.Error("Catalog insert failed after upload, media object orphaned", err, zap.String("locator", locator))
		uc.publish(ctx, video.NewOrphanEvent(locator, input.OwnerID, "catalog insert failed"))
		return nil, err
	}
	newVideo.ID = id

	if err := uc.cache.Invalidate(ctx); err != nil {
		l.Warn("Failed to invalidate feed cache", zap.Error(err))
	}
	uc.publish(ctx, video.NewEvent(video.EventCreated, newVideo))

	metrics.Uploads.WithLabelValues("ok").Inc()
	l.Info("Video created", zap.String("video_id", id), zap.String("locator", locator))
	return &CreateVideoOutput{Video: newVideo}, nil
}

// publish is fire-and-forget; it outlives a cancelled request.
func (uc *CreateVideoUseCase) publish(ctx context.Context, ev video.Event) {
	if err := uc.events.PublishVideoEvent(context.WithoutCancel(ctx), ev); err != nil {
		uc.logger.Error("Failed to publish video event", err, zap.String("event_type", string(ev.EventType)), zap.String("locator", ev.Locator))
	}
}
