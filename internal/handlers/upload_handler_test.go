package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grvbrk/vidhook_server/internal/auth"
	"github.com/grvbrk/vidhook_server/internal/handlers"
	"github.com/grvbrk/vidhook_server/internal/models"
	"github.com/grvbrk/vidhook_server/internal/muxclient"
	"github.com/grvbrk/vidhook_server/internal/services"
)

type memoryUploadVideos struct {
	videos map[uuid.UUID]*models.Video
}

func (m *memoryUploadVideos) CreateVideo(_ context.Context, v *models.Video) error {
	m.videos[v.ID] = v
	return nil
}

func (m *memoryUploadVideos) MarkVideoErrored(_ context.Context, id uuid.UUID) error {
	m.videos[id].Status = models.VideoStatusErrored
	return nil
}

type stubUploader struct {
	err error
}

func (s stubUploader) CreateUpload(_ context.Context, req muxclient.UploadRequest) (*muxclient.Upload, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &muxclient.Upload{ID: "up_1", URL: "https://storage.example/up_1"}, nil
}

func newUploadHandler(uploader stubUploader) (*handlers.UploadHandler, *memoryUploadVideos) {
	videos := &memoryUploadVideos{videos: map[uuid.UUID]*models.Video{}}
	svc := services.NewUploadService(videos, uploader, "*", testLogger())
	return handlers.NewUploadHandler(svc, testLogger()), videos
}

func TestCreateVideoReturnsUploadSession(t *testing.T) {
	h, videos := newUploadHandler(stubUploader{})
	principal := auth.Principal{ID: uuid.New(), Email: "u@example.com"}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/video", strings.NewReader(`{"title":"My clip"}`))
	rec := httptest.NewRecorder()
	h.HandlerCreateVideo(rec, req, principal)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "up_1", body["uploadId"])
	assert.Equal(t, "https://storage.example/up_1", body["url"])

	video := body["video"].(map[string]interface{})
	assert.Equal(t, "UPLOADING", video["status"])
	assert.Equal(t, principal.ID.String(), video["user_id"])
	assert.Nil(t, video["mux_asset_id"])
	assert.Len(t, videos.videos, 1)
}

func TestCreateVideoRequiresTitle(t *testing.T) {
	h, videos := newUploadHandler(stubUploader{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/video", strings.NewReader(`{"title":""}`))
	rec := httptest.NewRecorder()
	h.HandlerCreateVideo(rec, req, auth.Principal{ID: uuid.New()})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, videos.videos)
}

func TestCreateVideoMuxFailure(t *testing.T) {
	h, videos := newUploadHandler(stubUploader{err: errors.New("mux down")})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/video", strings.NewReader(`{"title":"clip"}`))
	rec := httptest.NewRecorder()
	h.HandlerCreateVideo(rec, req, auth.Principal{ID: uuid.New()})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "mux down")
	require.Len(t, videos.videos, 1)
	for _, v := range videos.videos {
		assert.Equal(t, models.VideoStatusErrored, v.Status)
	}
}
