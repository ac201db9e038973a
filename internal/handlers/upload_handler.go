package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/grvbrk/vidhook_server/internal/auth"
	"github.com/grvbrk/vidhook_server/internal/errs"
	"github.com/grvbrk/vidhook_server/internal/services"
	"github.com/grvbrk/vidhook_server/internal/utils"
)

type UploadSessionCreator interface {
	CreateUploadSession(ctx context.Context, title string, owner uuid.UUID) (*services.UploadSession, error)
}

type UploadHandler struct {
	Uploads UploadSessionCreator
	Logger  *log.Logger
}

func NewUploadHandler(uploads UploadSessionCreator, logger *log.Logger) *UploadHandler {
	return &UploadHandler{
		Uploads: uploads,
		Logger:  logger,
	}
}

type createVideoRequest struct {
	Title string `json:"title"`
}

func (uh *UploadHandler) HandlerCreateVideo(w http.ResponseWriter, r *http.Request, principal auth.Principal) {
	var req createVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uh.Logger.Println("Error decoding create video request", err)
		utils.WriteError(w, uh.Logger, errs.Errorf(errs.EINVALID, "Invalid request body"))
		return
	}

	session, err := uh.Uploads.CreateUploadSession(r.Context(), req.Title, principal.ID)
	if err != nil {
		utils.WriteError(w, uh.Logger, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{
		"video":    session.Video,
		"uploadId": session.UploadID,
		"url":      session.URL,
	})
}
