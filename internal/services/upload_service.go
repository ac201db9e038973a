package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/grvbrk/vidhook_server/internal/errs"
	"github.com/grvbrk/vidhook_server/internal/models"
	"github.com/grvbrk/vidhook_server/internal/muxclient"
)

const (
	titleMaxLength = 200
	publicPlayback = "public"
)

type MediaUploader interface {
	CreateUpload(ctx context.Context, req muxclient.UploadRequest) (*muxclient.Upload, error)
}

type UploadVideoStore interface {
	CreateVideo(ctx context.Context, video *models.Video) error
	MarkVideoErrored(ctx context.Context, videoID uuid.UUID) error
}

type UploadSession struct {
	Video    *models.Video
	UploadID string
	URL      string
}

type UploadService struct {
	videos     UploadVideoStore
	uploader   MediaUploader
	corsOrigin string
	logger     *log.Logger
}

func NewUploadService(videos UploadVideoStore, uploader MediaUploader, corsOrigin string, logger *log.Logger) *UploadService {
	return &UploadService{
		videos:     videos,
		uploader:   uploader,
		corsOrigin: corsOrigin,
		logger:     logger,
	}
}

// CreateUploadSession creates an UPLOADING video owned by owner and asks Mux
// for a direct upload URL carrying the video id as passthrough. If Mux
// refuses, the video is marked ERRORED before the error is returned.
func (s *UploadService) CreateUploadSession(ctx context.Context, title string, owner uuid.UUID) (*UploadSession, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errs.Errorf(errs.EINVALID, "Title is required")
	}
	if utf8.RuneCountInString(title) > titleMaxLength {
		return nil, errs.Errorf(errs.EINVALID, "Title max length is %d characters", titleMaxLength)
	}

	video := &models.Video{
		ID:     uuid.New(),
		Title:  title,
		UserID: owner,
		Status: models.VideoStatusUploading,
	}

	if err := s.videos.CreateVideo(ctx, video); err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}

	upload, err := s.uploader.CreateUpload(ctx, muxclient.UploadRequest{
		Passthrough:    video.ID.String(),
		PlaybackPolicy: publicPlayback,
		CorsOrigin:     s.corsOrigin,
	})
	if err != nil {
		// The request context may already be gone; the compensation must still land.
		if markErr := s.videos.MarkVideoErrored(context.WithoutCancel(ctx), video.ID); markErr != nil {
			s.logger.Println("Error marking video errored", video.ID, markErr)
		} else {
			video.Status = models.VideoStatusErrored
		}
		return nil, fmt.Errorf("create mux upload for video %s: %w", video.ID, err)
	}

	return &UploadSession{
		Video:    video,
		UploadID: upload.ID,
		URL:      upload.URL,
	}, nil
}
