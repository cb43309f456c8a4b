package media_storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/vidshare/internal/application/service"
	"github.com/khoahotran/vidshare/internal/config"
	"github.com/khoahotran/vidshare/pkg/logger"
)

// NewObjectStore returns the configured provider and its default delivery
// prefix.
func NewObjectStore(ctx context.Context, cfg config.Config, log logger.Logger) (service.ObjectStore, string, error) {
	switch cfg.Media.Provider {
	case config.ProviderCloudinary:
		store, err := NewCloudinaryAdapter(cfg, log)
		return store, cloudinaryPlaybackEndpoint(cfg.Cloudinary.CloudName), err
	case config.ProviderS3:
		store, err := NewS3Adapter(ctx, cfg, log)
		return store, s3PlaybackEndpoint(cfg.S3.Bucket, cfg.S3.Region), err
	default:
		return nil, "", fmt.Errorf("unsupported media provider %q", cfg.Media.Provider)
	}
}

// NewMediaStore builds the gateway over the configured provider. An explicit
// media.url_endpoint overrides the provider's default delivery prefix.
func NewMediaStore(ctx context.Context, cfg config.Config, log logger.Logger) (*service.MediaGateway, error) {
	store, endpoint, err := NewObjectStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return NewMediaGateway(store, endpoint, cfg, log), nil
}

func NewMediaGateway(store service.ObjectStore, defaultEndpoint string, cfg config.Config, log logger.Logger) *service.MediaGateway {
	endpoint := defaultEndpoint
	if cfg.Media.URLEndpoint != "" {
		endpoint = cfg.Media.URLEndpoint
	}

	log.Info("Media store ready", zap.String("provider", cfg.Media.Provider), zap.String("url_endpoint", endpoint))
	return service.NewMediaGateway(store, endpoint)
}
