package video

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshare/internal/application/service"
	"github.com/khoahotran/vidshare/internal/domain/video"
	"github.com/khoahotran/vidshare/pkg/logger"
)

const rssItemLimit = 20

type RSSUseCase struct {
	videoRepo video.Repository
	media     service.MediaStore
	publicURL string
	logger    logger.Logger
}

func NewRSSUseCase(r video.Repository, m service.MediaStore, publicURL string, log logger.Logger) *RSSUseCase {
	return &RSSUseCase{
		videoRepo: r,
		media:     m,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    log,
	}
}

func (uc *RSSUseCase) Execute(ctx context.Context) (*feeds.Feed, error) {
	ctx, span := tracer.Start(ctx, "VideoRSS")
	defer span.End()

	videos, err := uc.videoRepo.ListAll(ctx)
	if err != nil {
		uc.logger.Error("Failed to list videos for RSS", err)
		return nil, err
	}

	feed := &feeds.Feed{
		Title:       "vidshare - latest videos",
		Link:        &feeds.Link{Href: uc.publicURL + "/api/video"},
		Description: "Newest uploads.",
		Created:     time.Now(),
	}

	if len(videos) > rssItemLimit {
		videos = videos[:rssItemLimit]
	}

	feed.Items = make([]*feeds.Item, 0, len(videos))
	for _, v := range videos {
		playback := uc.media.PlaybackURL(v.VideoURL)
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          fmt.Sprintf("%s/api/video/%s", uc.publicURL, v.ID),
			Title:       v.Title,
			Link:        &feeds.Link{Href: playback},
			Description: v.Description,
			Enclosure:   &feeds.Enclosure{Url: playback, Length: fmt.Sprintf("%d", v.FileSize), Type: v.FileType},
			Created:     v.CreatedAt,
			Updated:     v.UpdatedAt,
		})
	}

	uc.logger.Info("RSS feed generated successfully", zap.Int("item_count", len(feed.Items)))
	return feed, nil
}
