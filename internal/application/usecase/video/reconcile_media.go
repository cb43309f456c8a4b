package video

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/vidshare/internal/application/service"
	"github.com/khoahotran/vidshare/internal/domain/video"
	"github.com/khoahotran/vidshare/pkg/apperror"
	"github.com/khoahotran/vidshare/pkg/logger"
)

// ReconcileMediaUseCase runs out of band in the worker. It removes media
// objects reported as orphaned; every other event type is ignored.
type ReconcileMediaUseCase struct {
	media  service.MediaStore
	logger logger.Logger
}

func NewReconcileMediaUseCase(m service.MediaStore, log logger.Logger) *ReconcileMediaUseCase {
	return &ReconcileMediaUseCase{media: m, logger: log}
}

func (uc *ReconcileMediaUseCase) Execute(ctx context.Context, ev video.Event) error {
	if ev.EventType != video.EventMediaOrphaned {
		return nil
	}

	l := uc.logger.With(zap.String("locator", ev.Locator), zap.String("reason", ev.Reason))
	if ev.Locator == "" {
		l.Warn("Orphan event without locator, skipping")
		return nil
	}

	ctx, span := tracer.Start(ctx, "ReconcileMedia")
	defer span.End()

	if err := uc.media.Delete(ctx, ev.Locator); err != nil {
		span.RecordError(err)
		return apperror.NewInternal("orphaned media cleanup failed", err)
	}

	l.Info("Orphaned media removed")
	return nil
}
