package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grvbrk/vidhook_server/internal/errs"
	"github.com/grvbrk/vidhook_server/internal/handlers"
	"github.com/grvbrk/vidhook_server/internal/models"
	"github.com/grvbrk/vidhook_server/internal/store"
)

type stubVideoStore struct {
	store.VideoStore
	video  *models.Video
	params store.GetVideosParams
}

func (s *stubVideoStore) GetVideoByID(_ context.Context, id uuid.UUID) (*models.Video, error) {
	if s.video == nil || s.video.ID != id {
		return nil, errs.Errorf(errs.ENOTFOUND, "Video not found")
	}
	return s.video, nil
}

func (s *stubVideoStore) GetReadyVideos(_ context.Context, params store.GetVideosParams) (*store.VideosResponse, error) {
	s.params = params
	return &store.VideosResponse{Videos: []models.Video{}, Page: params.Page, Limit: params.Limit}, nil
}

func newVideoRouter(s *stubVideoStore) http.Handler {
	h := handlers.NewVideoHandler(s, testLogger())
	r := chi.NewRouter()
	r.Get("/videos", h.HandlerGetVideos)
	r.Get("/videos/{id}", h.HandlerGetVideoByID)
	return r
}

func TestGetVideoByID(t *testing.T) {
	video := &models.Video{ID: uuid.New(), Title: "clip", Status: models.VideoStatusReady}
	r := newVideoRouter(&stubVideoStore{video: video})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos/"+video.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "READY", data["status"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos/not-an-id", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetVideosPagination(t *testing.T) {
	s := &stubVideoStore{}
	r := newVideoRouter(s)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, store.GetVideosParams{Page: 1, Limit: 20}, s.params)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos?page=3&limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, store.GetVideosParams{Page: 3, Limit: 5}, s.params)

	for _, q := range []string{"?page=0", "?limit=101", "?page=x"} {
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}
