package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshare/internal/application/service"
	videoUC "github.com/khoahotran/vidshare/internal/application/usecase/video"
	"github.com/khoahotran/vidshare/pkg/apperror"
	"github.com/khoahotran/vidshare/pkg/logger"
)

// multipartOverhead leaves room for the text fields and part headers.
const multipartOverhead = 1 << 20

type VideoHandler struct {
	createVideoUC  *videoUC.CreateVideoUseCase
	deleteVideoUC  *videoUC.DeleteVideoUseCase
	listVideosUC   *videoUC.ListVideosUseCase
	getVideoUC     *videoUC.GetVideoUseCase
	recordViewUC   *videoUC.RecordViewUseCase
	likeVideoUC    *videoUC.LikeVideoUseCase
	rssUC          *videoUC.RSSUseCase
	media          service.MediaStore
	maxUploadBytes int64
	logger         logger.Logger
}

type VideoUseCases struct {
	Create *videoUC.CreateVideoUseCase
	Delete *videoUC.DeleteVideoUseCase
	List   *videoUC.ListVideosUseCase
	Get    *videoUC.GetVideoUseCase
	View   *videoUC.RecordViewUseCase
	Like   *videoUC.LikeVideoUseCase
	RSS    *videoUC.RSSUseCase
}

func NewVideoHandler(uc VideoUseCases, media service.MediaStore, maxUploadBytes int64, log logger.Logger) *VideoHandler {
	return &VideoHandler{
		createVideoUC:  uc.Create,
		deleteVideoUC:  uc.Delete,
		listVideosUC:   uc.List,
		getVideoUC:     uc.Get,
		recordViewUC:   uc.View,
		likeVideoUC:    uc.Like,
		rssUC:          uc.RSS,
		media:          media,
		maxUploadBytes: maxUploadBytes,
		logger:         log,
	}
}

func (h *VideoHandler) ListVideos(c *gin.Context) {
	output, err := h.listVideosUC.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToVideoDTOs(output.Videos, h.media))
}

func (h *VideoHandler) GetVideo(c *gin.Context) {
	v, err := h.getVideoUC.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToVideoDTO(v, h.media))
}

func (h *VideoHandler) CreateVideo(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("ownerID not found in context", nil))
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}

	file, err := h.readVideoFile(c)
	if err != nil {
		c.Error(err)
		return
	}

	input := videoUC.CreateVideoInput{
		OwnerID:     ownerID,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		File:        file,
	}

	output, err := h.createVideoUC.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToVideoDTO(output.Video, h.media))
}

// readVideoFile returns nil without error when no file part was sent, so the
// use case reports the missing field in form order.
func (h *VideoHandler) readVideoFile(c *gin.Context) (*videoUC.VideoFile, error) {
	fileHeader, err := c.FormFile("video")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, apperror.NewInvalidField("video", "exceeds the upload size limit")
		}
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperror.NewInvalidInput("request must be multipart/form-data", err)
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, apperror.NewInternal("failed to open file", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, apperror.NewInternal("failed to read file", err)
	}

	contentType := strings.TrimSpace(fileHeader.Header.Get("Content-Type"))
	if contentType == "" || contentType == "application/octet-stream" {
		detected := mimetype.Detect(content)
		h.logger.Debug("Sniffed upload content type",
			zap.String("file_name", fileHeader.Filename),
			zap.String("declared", contentType),
			zap.String("detected", detected.String()),
		)
		contentType = detected.String()
	}

	return &videoUC.VideoFile{
		Name:        fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: contentType,
		Content:     content,
	}, nil
}

func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("ownerID not found in context", nil))
		return
	}

	input := videoUC.DeleteVideoInput{
		OwnerID: ownerID,
		VideoID: c.Param("id"),
	}
	if err := h.deleteVideoUC.Execute(c.Request.Context(), input); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Video deleted successfully"})
}

func (h *VideoHandler) RecordView(c *gin.Context) {
	v, err := h.recordViewUC.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToVideoDTO(v, h.media))
}

func (h *VideoHandler) LikeVideo(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("ownerID not found in context", nil))
		return
	}

	v, err := h.likeVideoUC.Execute(c.Request.Context(), videoUC.LikeVideoInput{OwnerID: ownerID, VideoID: c.Param("id")})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToVideoDTO(v, h.media))
}

func (h *VideoHandler) GenerateRSS(c *gin.Context) {
	feed, err := h.rssUC.Execute(c.Request.Context())
	if err != nil {
		c.Error(apperror.NewInternal("failed to generate RSS feed", err))
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")

	if err := feed.WriteRss(c.Writer); err != nil {
		h.logger.Error("Failed to write RSS feed to response", err)
	}
}
