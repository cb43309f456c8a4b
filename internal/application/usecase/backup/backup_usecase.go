package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshare/internal/application/service"
	"github.com/khoahotran/vidshare/internal/domain/video"
	"github.com/khoahotran/vidshare/pkg/logger"
)

const backupFolder = "backups/catalog"

var tracer = otel.Tracer("backup_usecase")

// Snapshot is the stored backup document.
type Snapshot struct {
	TakenAt time.Time      `json:"taken_at"`
	Count   int            `json:"count"`
	Videos  []*video.Video `json:"videos"`
}

type BackupUseCase struct {
	videoRepo video.Repository
	store     service.ObjectStore
	logger    logger.Logger
	now       func() time.Time
}

func NewBackupUseCase(r video.Repository, store service.ObjectStore, log logger.Logger) *BackupUseCase {
	return &BackupUseCase{
		videoRepo: r,
		store:     store,
		logger:    log,
		now:       time.Now,
	}
}

// Execute writes a JSON snapshot of the catalog to the object store and
// returns its key.
func (uc *BackupUseCase) Execute(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "CatalogBackup")
	defer span.End()

	uc.logger.Info("Starting catalog backup...")

	videos, err := uc.videoRepo.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Catalog backup failed to list videos", err)
		return "", err
	}

	takenAt := uc.now().UTC()
	payload, err := json.Marshal(Snapshot{TakenAt: takenAt, Count: len(videos), Videos: videos})
	if err != nil {
		return "", fmt.Errorf("marshal catalog snapshot: %w", err)
	}

	key := fmt.Sprintf("%s/backup-%s.json", backupFolder, takenAt.Format("2006-01-02_15-04-05"))
	if err := uc.store.Put(ctx, key, bytes.NewReader(payload), int64(len(payload)), "application/json"); err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to upload catalog backup", err, zap.String("key", key))
		return "", fmt.Errorf("upload catalog backup: %w", err)
	}

	uc.logger.Info("Catalog backup completed and uploaded successfully",
		zap.String("key", key),
		zap.Int("video_count", len(videos)),
		zap.Int("bytes", len(payload)),
	)
	return key, nil
}

// RunEvery calls Execute on each tick until ctx is cancelled.
func (uc *BackupUseCase) RunEvery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = uc.Execute(ctx)
		}
	}
}
