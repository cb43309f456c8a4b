package service

import (
	"context"
	"io"

	"github.com/khoahotran/vidshare/internal/domain/video"
)

// ObjectStore is a provider-level blob store (Cloudinary, S3). Keys are
// stored verbatim; providers must not rename them.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
}

// MediaStore is the application-level gateway the lifecycle use cases depend on.
type MediaStore interface {
	Upload(ctx context.Context, content []byte, originalName, contentType string) (string, error)
	Delete(ctx context.Context, locator string) error
	PlaybackURL(locator string) string
}

type EventPublisher interface {
	PublishVideoEvent(ctx context.Context, ev video.Event) error
	PublishViewEvent(ctx context.Context, ev video.Event) error
}
