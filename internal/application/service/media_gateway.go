package service

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/khoahotran/vidshare/pkg/apperror"
)

// VideoFolder is the logical folder every upload lands in.
const VideoFolder = "videos"

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.]`)

type MediaGateway struct {
	store       ObjectStore
	urlEndpoint string
	now         func() time.Time
	lastPrefix  atomic.Int64
}

func NewMediaGateway(store ObjectStore, urlEndpoint string) *MediaGateway {
	return &MediaGateway{
		store:       store,
		urlEndpoint: strings.TrimRight(urlEndpoint, "/"),
		now:         time.Now,
	}
}

// Upload stores content under videos/<millis>-<sanitized name> and returns
// that path as the locator.
func (g *MediaGateway) Upload(ctx context.Context, content []byte, originalName, contentType string) (string, error) {
	if len(content) == 0 {
		return "", apperror.NewUploadFailed("refusing to upload empty content", nil)
	}

	locator := fmt.Sprintf("%s/%d-%s", VideoFolder, g.nextPrefix(), SanitizeFileName(originalName))

	if err := g.store.Put(ctx, locator, bytes.NewReader(content), int64(len(content)), contentType); err != nil {
		return "", apperror.NewUploadFailed(fmt.Sprintf("media store rejected '%s'", locator), err)
	}
	return locator, nil
}

func (g *MediaGateway) Delete(ctx context.Context, locator string) error {
	key := LocatorFromReference(locator, g.urlEndpoint)
	if key == "" {
		return apperror.NewInvalidInput("media locator is empty", nil)
	}
	if err := g.store.Delete(ctx, key); err != nil {
		return apperror.NewInternal(fmt.Sprintf("media store delete of '%s' failed", key), err)
	}
	return nil
}

func (g *MediaGateway) PlaybackURL(locator string) string {
	if g.urlEndpoint == "" || strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		return locator
	}
	return g.urlEndpoint + "/" + strings.TrimPrefix(locator, "/")
}

// nextPrefix returns the current unix millis, bumped past the previous value
// when two uploads land in the same millisecond.
func (g *MediaGateway) nextPrefix() int64 {
	for {
		last := g.lastPrefix.Load()
		next := g.now().UnixMilli()
		if next <= last {
			next = last + 1
		}
		if g.lastPrefix.CompareAndSwap(last, next) {
			return next
		}
	}
}

func SanitizeFileName(name string) string {
	return strings.ToLower(unsafeNameChars.ReplaceAllString(name, "_"))
}

// LocatorFromReference turns a stored media reference (full URL or path) into
// the store's internal key.
func LocatorFromReference(ref, urlEndpoint string) string {
	ref = strings.TrimSpace(ref)
	if endpoint := strings.TrimRight(urlEndpoint, "/"); endpoint != "" {
		ref = strings.TrimPrefix(ref, endpoint)
	}
	return strings.TrimPrefix(ref, "/")
}
