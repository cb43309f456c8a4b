package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/khoahotran/vidshare/adapters/event"
	"github.com/khoahotran/vidshare/adapters/media_storage"
	"github.com/khoahotran/vidshare/adapters/persistence"
	backupUC "github.com/khoahotran/vidshare/internal/application/usecase/backup"
	videoUC "github.com/khoahotran/vidshare/internal/application/usecase/video"
	"github.com/khoahotran/vidshare/internal/config"
	"github.com/khoahotran/vidshare/pkg/logger"
	"github.com/khoahotran/vidshare/pkg/tracing"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, cfg.Log.Level)
	defer appLogger.Sync()
	appLogger.Info("Starting vidshare Worker...")

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("worker needs Kafka brokers", nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.OTLPEndpoint != "" {
		tp, err := tracing.NewTracerProvider(cfg, appLogger, "vidshare-worker")
		if err != nil {
			appLogger.Fatal("cannot init tracing", err)
		}
		defer tp.Shutdown(context.Background())
	}

	// Media store
	store, endpoint, err := media_storage.NewObjectStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init media store", err)
	}
	media := media_storage.NewMediaGateway(store, endpoint, cfg, appLogger)

	// Scheduled catalog backup
	if cfg.Backup.Interval > 0 {
		repos, err := persistence.NewRepositories(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Fatal("cannot init repositories", err)
		}
		defer repos.Close()

		backup := backupUC.NewBackupUseCase(repos.Videos, store, appLogger)
		go backup.RunEvery(ctx, cfg.Backup.Interval)
		appLogger.Info("Catalog backup scheduled", zap.Duration("interval", cfg.Backup.Interval))
	}

	// Worker Use Case
	reconcileUC := videoUC.NewReconcileMediaUseCase(media, appLogger)

	// Kafka Consumer
	reader := event.NewVideoEventReader(cfg)
	defer reader.Close()

	consumer := event.NewVideoEventConsumer(reader, reconcileUC.Execute, appLogger)
	if err := consumer.Run(ctx); err != nil {
		appLogger.Error("Worker stopped with error", err)
	}
	appLogger.Info("Worker stopped", zap.Strings("brokers", cfg.Kafka.Brokers))
}
