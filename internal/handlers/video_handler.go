package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/grvbrk/vidhook_server/internal/auth"
	"github.com/grvbrk/vidhook_server/internal/errs"
	"github.com/grvbrk/vidhook_server/internal/store"
	"github.com/grvbrk/vidhook_server/internal/utils"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type VideoHandler struct {
	VideoStore store.VideoStore
	Logger     *log.Logger
}

func NewVideoHandler(videoStore store.VideoStore, logger *log.Logger) *VideoHandler {
	return &VideoHandler{
		VideoStore: videoStore,
		Logger:     logger,
	}
}

func readVideoIDParam(r *http.Request) (uuid.UUID, error) {
	id := chi.URLParam(r, "id")
	if id == "" {
		return uuid.Nil, errs.Errorf(errs.EINVALID, "Video id is required")
	}

	videoID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, errs.Errorf(errs.EINVALID, "Video id must be a valid id")
	}
	return videoID, nil
}

func readPositiveInt(r *http.Request, name string, fallback, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || (max > 0 && n > max) {
		return 0, errs.Errorf(errs.EINVALID, "Invalid %s parameter", name)
	}
	return n, nil
}

func (vh *VideoHandler) HandlerGetVideos(w http.ResponseWriter, r *http.Request) {
	page, err := readPositiveInt(r, "page", 1, 0)
	if err != nil {
		utils.WriteError(w, vh.Logger, err)
		return
	}

	limit, err := readPositiveInt(r, "limit", defaultPageLimit, maxPageLimit)
	if err != nil {
		utils.WriteError(w, vh.Logger, err)
		return
	}

	response, err := vh.VideoStore.GetReadyVideos(r.Context(), store.GetVideosParams{Page: page, Limit: limit})
	if err != nil {
		vh.Logger.Printf("Error getting videos from store: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": response})
}

func (vh *VideoHandler) HandlerGetVideosByUserID(w http.ResponseWriter, r *http.Request, principal auth.Principal) {
	videos, err := vh.VideoStore.GetVideosByUserID(r.Context(), principal.ID)
	if err != nil {
		vh.Logger.Println("Error getting videos from store", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": videos})
}

func (vh *VideoHandler) HandlerGetVideoByID(w http.ResponseWriter, r *http.Request) {
	videoID, err := readVideoIDParam(r)
	if err != nil {
		utils.WriteError(w, vh.Logger, err)
		return
	}

	video, err := vh.VideoStore.GetVideoByID(r.Context(), videoID)
	if err != nil {
		utils.WriteError(w, vh.Logger, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": video})
}
