package media_storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/khoahotran/vidshare/internal/application/service"
	"github.com/khoahotran/vidshare/internal/config"
	"github.com/khoahotran/vidshare/internal/domain/video"
	"github.com/khoahotran/vidshare/pkg/logger"
)

const (
	cloudinaryVideoResource = "video"
	cloudinaryRawResource   = "raw"
)

type cloudinaryAdapter struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.ObjectStore, error) {
	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}

	log.Info("Connect Cloudinary successfully.")
	return &cloudinaryAdapter{cld: cld}, nil
}

// cloudinaryPlaybackEndpoint is the delivery prefix a locator is appended to.
func cloudinaryPlaybackEndpoint(cloudName string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/%s/upload", cloudName, cloudinaryVideoResource)
}

// cloudinaryVideoPublicID drops the extension from a video key. Cloudinary
// reads the extension of a delivery URL as the output format, so the locator
// "videos/1-clip.mp4" is served from public ID "videos/1-clip".
func cloudinaryVideoPublicID(key string) string {
	return strings.TrimSuffix(key, path.Ext(key))
}

// cloudinaryUploadParams stores videos as video resources and everything
// else (catalog backups) as raw files keeping the full key.
func cloudinaryUploadParams(key, contentType string) uploader.UploadParams {
	params := uploader.UploadParams{
		PublicID:       key,
		ResourceType:   cloudinaryRawResource,
		UseFilename:    api.Bool(false),
		UniqueFilename: api.Bool(false),
		Overwrite:      api.Bool(false),
	}
	if video.IsVideoType(contentType) {
		params.PublicID = cloudinaryVideoPublicID(key)
		params.ResourceType = cloudinaryVideoResource
	}
	return params
}

func (a *cloudinaryAdapter) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	result, err := a.cld.Upload.Upload(ctx, body, cloudinaryUploadParams(key, contentType))
	if err != nil {
		return fmt.Errorf("failed to upload cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}
	return nil
}

// Delete removes a video locator. Only video objects are ever deleted.
func (a *cloudinaryAdapter) Delete(ctx context.Context, key string) error {
	result, err := a.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     cloudinaryVideoPublicID(key),
		ResourceType: cloudinaryVideoResource,
		Invalidate:   api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to delete cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return fmt.Errorf("cloudinary rejected delete: %s", result.Error.Message)
	}
	if result.Result != "ok" {
		return fmt.Errorf("cloudinary delete of '%s' returned %q", key, result.Result)
	}
	return nil
}
