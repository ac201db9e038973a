package handlers

import (
	"log"
	"net/http"

	"github.com/grvbrk/vidhook_server/internal/auth"
	"github.com/grvbrk/vidhook_server/internal/store"
	"github.com/grvbrk/vidhook_server/internal/utils"
)

type LikeHandler struct {
	LikeStore store.LikeStore
	Logger    *log.Logger
}

func NewLikeHandler(likeStore store.LikeStore, logger *log.Logger) *LikeHandler {
	return &LikeHandler{
		LikeStore: likeStore,
		Logger:    logger,
	}
}

func (lh *LikeHandler) HandlerCreateLike(w http.ResponseWriter, r *http.Request, principal auth.Principal) {
	videoID, err := utils.ReadUUIDQuery(r, "videoId")
	if err != nil {
		utils.WriteError(w, lh.Logger, err)
		return
	}

	like, err := lh.LikeStore.CreateLike(r.Context(), videoID, principal.ID)
	if err != nil {
		utils.WriteError(w, lh.Logger, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"message": "Liked the video", "data": like})
}

func (lh *LikeHandler) HandlerDeleteLike(w http.ResponseWriter, r *http.Request, principal auth.Principal) {
	videoID, err := utils.ReadUUIDQuery(r, "videoId")
	if err != nil {
		utils.WriteError(w, lh.Logger, err)
		return
	}

	err = lh.LikeStore.DeleteLike(r.Context(), videoID, principal.ID)
	if err != nil {
		utils.WriteError(w, lh.Logger, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"message": "Unliked the video"})
}
