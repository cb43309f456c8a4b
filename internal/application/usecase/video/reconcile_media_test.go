package video

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khoahotran/vidshare/internal/domain/video"
	"github.com/khoahotran/vidshare/pkg/apperror"
	"github.com/khoahotran/vidshare/pkg/logger"
)

func TestReconcileMedia(t *testing.T) {
	t.Run("deletes orphaned locator", func(t *testing.T) {
		media := new(mockMediaStore)
		media.On("Delete", "videos/1-clip.mp4").Return(nil).Once()
		uc := NewReconcileMediaUseCase(media, logger.NewNopLogger())

		err := uc.Execute(context.Background(), video.NewOrphanEvent("videos/1-clip.mp4", "u1", "catalog insert failed"))

		assert.NoError(t, err)
		media.AssertExpectations(t)
	})

	t.Run("ignores other events", func(t *testing.T) {
		media := new(mockMediaStore)
		uc := NewReconcileMediaUseCase(media, logger.NewNopLogger())

		err := uc.Execute(context.Background(), video.NewEvent(video.EventDeleted, &video.Video{ID: "vid-1", VideoURL: "videos/1-clip.mp4"}))

		assert.NoError(t, err)
		media.AssertNumberOfCalls(t, "Delete", 0)
	})

	t.Run("skips empty locator", func(t *testing.T) {
		media := new(mockMediaStore)
		uc := NewReconcileMediaUseCase(media, logger.NewNopLogger())

		err := uc.Execute(context.Background(), video.NewOrphanEvent("", "u1", "unknown"))

		assert.NoError(t, err)
		media.AssertNumberOfCalls(t, "Delete", 0)
	})

	t.Run("reports delete failure for retry", func(t *testing.T) {
		media := new(mockMediaStore)
		media.On("Delete", "videos/1-clip.mp4").Return(errors.New("503")).Once()
		uc := NewReconcileMediaUseCase(media, logger.NewNopLogger())

		err := uc.Execute(context.Background(), video.NewOrphanEvent("videos/1-clip.mp4", "u1", "media delete failed"))

		assert.ErrorIs(t, err, apperror.ErrInternal)
	})
}
