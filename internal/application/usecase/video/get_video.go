package video

import (
	"context"

	"github.com/khoahotran/vidshare/internal/domain/video"
)

type GetVideoUseCase struct {
	videoRepo video.Repository
}

func NewGetVideoUseCase(r video.Repository) *GetVideoUseCase {
	return &GetVideoUseCase{videoRepo: r}
}

func (uc *GetVideoUseCase) Execute(ctx context.Context, videoID string) (*video.Video, error) {
	ctx, span := tracer.Start(ctx, "GetVideo")
	defer span.End()

	return uc.videoRepo.FindByID(ctx, videoID)
}
