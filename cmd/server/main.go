package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshare/adapters/event"
	httpAdapter "github.com/khoahotran/vidshare/adapters/http"
	"github.com/khoahotran/vidshare/adapters/media_storage"
	"github.com/khoahotran/vidshare/adapters/persistence"
	"github.com/khoahotran/vidshare/internal/application/service"
	authUC "github.com/khoahotran/vidshare/internal/application/usecase/auth"
	videoUC "github.com/khoahotran/vidshare/internal/application/usecase/video"
	"github.com/khoahotran/vidshare/internal/config"
	"github.com/khoahotran/vidshare/pkg/auth"
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
	appLogger.Info("Start vidshare API Server...", zap.String("env", cfg.App.Env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tracing
	if cfg.Tracing.OTLPEndpoint != "" {
		tp, err := tracing.NewTracerProvider(cfg, appLogger, "vidshare-api")
		if err != nil {
			appLogger.Fatal("cannot init tracing", err)
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				appLogger.Error("Failed to shutdown tracer provider", err)
			}
		}()
	}

	// Stores
	repos, err := persistence.NewRepositories(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init repositories", err)
	}
	defer repos.Close()

	media, err := media_storage.NewMediaStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init media store", err)
	}

	var publisher service.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		publisher = kafkaClient
	} else {
		appLogger.Warn("No Kafka brokers configured, video events go to the log")
		publisher = event.NewLogPublisher(appLogger)
	}

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	// Use Cases
	videoUseCases := httpAdapter.VideoUseCases{
		Create: videoUC.NewCreateVideoUseCase(repos.Videos, media, repos.FeedCache, publisher, appLogger, cfg.Media.MaxUploadBytes),
		Delete: videoUC.NewDeleteVideoUseCase(repos.Videos, media, repos.FeedCache, publisher, appLogger),
		List:   videoUC.NewListVideosUseCase(repos.Videos, repos.FeedCache, appLogger),
		Get:    videoUC.NewGetVideoUseCase(repos.Videos),
		View:   videoUC.NewRecordViewUseCase(repos.Videos, publisher, appLogger),
		Like:   videoUC.NewLikeVideoUseCase(repos.Videos, publisher, appLogger),
		RSS:    videoUC.NewRSSUseCase(repos.Videos, media, cfg.App.PublicURL, appLogger),
	}
	loginUseCase := authUC.NewLoginUseCase(repos.Users, jwtSvc, appLogger)
	registerUseCase := authUC.NewRegisterUseCase(repos.Users, jwtSvc, appLogger)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		VideoHandler:      httpAdapter.NewVideoHandler(videoUseCases, media, cfg.Media.MaxUploadBytes, appLogger),
		AuthHandler:       httpAdapter.NewAuthHandler(loginUseCase, registerUseCase, appLogger),
		JWTService:        jwtSvc,
		Logger:            appLogger,
		RateLimitRPS:      cfg.HTTP.RateLimitRPS,
		RateLimitBurst:    cfg.HTTP.RateLimitBurst,
		TrustProxyHeaders: cfg.HTTP.TrustProxyHeaders,
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.HTTP.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}
