package video

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/vidshare/internal/domain/video"
	"github.com/khoahotran/vidshare/pkg/logger"
)

func TestRSS_LimitsItemsAndLinksPlayback(t *testing.T) {
	repo := new(mockVideoRepo)
	now := time.Now().UTC()
	var videos []*video.Video
	for i := 0; i < 25; i++ {
		videos = append(videos, &video.Video{
			ID:        fmt.Sprintf("vid-%d", i),
			Title:     fmt.Sprintf("Video %d", i),
			VideoURL:  fmt.Sprintf("videos/%d-clip.mp4", i),
			FileType:  "video/mp4",
			FileSize:  2048,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	repo.On("ListAll").Return(videos, nil).Once()

	uc := NewRSSUseCase(repo, new(mockMediaStore), "http://localhost:8080/", logger.NewNopLogger())
	feed, err := uc.Execute(context.Background())

	require.NoError(t, err)
	require.Len(t, feed.Items, rssItemLimit)
	first := feed.Items[0]
	assert.Equal(t, "http://localhost:8080/api/video/vid-0", first.Id)
	assert.Equal(t, "https://media.example.com/videos/0-clip.mp4", first.Link.Href)
	assert.Equal(t, "2048", first.Enclosure.Length)
	assert.Equal(t, "video/mp4", first.Enclosure.Type)

	rss, err := feed.ToRss()
	require.NoError(t, err)
	assert.Contains(t, rss, "<title>Video 0</title>")
}
