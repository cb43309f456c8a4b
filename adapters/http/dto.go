package http

import (
	"time"

	"github.com/khoahotran/vidshare/internal/application/service"
	"github.com/khoahotran/vidshare/internal/domain/user"
	"github.com/khoahotran/vidshare/internal/domain/video"
)

// Video DTOs

type VideoDTO struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoURL    string    `json:"videoUrl"`
	PlaybackURL string    `json:"playbackUrl,omitempty"`
	UserID      string    `json:"userId"`
	FileName    string    `json:"fileName"`
	FileSize    int64     `json:"fileSize"`
	FileType    string    `json:"fileType"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ToVideoDTO(v *video.Video, media service.MediaStore) VideoDTO {
	dto := VideoDTO{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		VideoURL:    v.VideoURL,
		UserID:      v.UserID,
		FileName:    v.FileName,
		FileSize:    v.FileSize,
		FileType:    v.FileType,
		Views:       v.Views,
		Likes:       v.Likes,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
	if media != nil && v.VideoURL != "" {
		dto.PlaybackURL = media.PlaybackURL(v.VideoURL)
	}
	return dto
}

func ToVideoDTOs(videos []*video.Video, media service.MediaStore) []VideoDTO {
	dtos := make([]VideoDTO, 0, len(videos))
	for _, v := range videos {
		dtos = append(dtos, ToVideoDTO(v, media))
	}
	return dtos
}

// Auth DTOs

type CredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func ToUserDTO(u *user.User) UserDTO {
	return UserDTO{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}
