package video

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/vidshare/adapters/event"
	"github.com/khoahotran/vidshare/adapters/persistence"
	"github.com/khoahotran/vidshare/pkg/apperror"
	"github.com/khoahotran/vidshare/pkg/logger"
)

// Create, list, delete and delete again against the in-memory catalog.
func TestVideoLifecycle(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNopLogger()
	repo := persistence.NewMemoryVideoRepo()
	cache := persistence.NewNopFeedCache()
	events := event.NewLogPublisher(log)
	media := new(mockMediaStore)
	media.On("Upload", mock.Anything, "clip.mp4", "video/mp4").Return("videos/1700000000000-clip.mp4", nil).Once()
	media.On("Delete", "videos/1700000000000-clip.mp4").Return(nil).Once()

	create := NewCreateVideoUseCase(repo, media, cache, events, log, 100<<20)
	list := NewListVideosUseCase(repo, cache, log)
	del := NewDeleteVideoUseCase(repo, media, cache, events, log)

	empty, err := list.Execute(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Videos)

	created, err := create.Execute(ctx, CreateVideoInput{OwnerID: "u1", Title: "Demo", Description: "Demo video", File: demoFile()})
	require.NoError(t, err)
	id := created.Video.ID
	require.NotEmpty(t, id)

	listed, err := list.Execute(ctx)
	require.NoError(t, err)
	require.Len(t, listed.Videos, 1)
	assert.Equal(t, id, listed.Videos[0].ID)

	err = del.Execute(ctx, DeleteVideoInput{OwnerID: "u2", VideoID: id})
	assert.ErrorIs(t, err, apperror.ErrPermission)

	require.NoError(t, del.Execute(ctx, DeleteVideoInput{OwnerID: "u1", VideoID: id}))

	err = del.Execute(ctx, DeleteVideoInput{OwnerID: "u1", VideoID: id})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	after, err := list.Execute(ctx)
	require.NoError(t, err)
	assert.Empty(t, after.Videos)
	media.AssertExpectations(t)
}
