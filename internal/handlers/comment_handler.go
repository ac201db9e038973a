package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/grvbrk/vidhook_server/internal/auth"
	"github.com/grvbrk/vidhook_server/internal/errs"
	"github.com/grvbrk/vidhook_server/internal/models"
	"github.com/grvbrk/vidhook_server/internal/store"
	"github.com/grvbrk/vidhook_server/internal/utils"
)

const commentMaxLength = 1000

type CommentHandler struct {
	CommentStore store.CommentStore
	Logger       *log.Logger
}

func NewCommentHandler(commentStore store.CommentStore, logger *log.Logger) *CommentHandler {
	return &CommentHandler{
		CommentStore: commentStore,
		Logger:       logger,
	}
}

type commentRequest struct {
	Comment string `json:"comment"`
}

func readComment(r *http.Request) (string, error) {
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", errs.Errorf(errs.EINVALID, "Invalid request body")
	}

	text := strings.TrimSpace(req.Comment)
	if text == "" {
		return "", errs.Errorf(errs.EINVALID, "Comment must not be empty")
	}
	if utf8.RuneCountInString(text) > commentMaxLength {
		return "", errs.Errorf(errs.EINVALID, "Comment max length is %d characters", commentMaxLength)
	}
	return text, nil
}

func (ch *CommentHandler) HandlerCreateComment(w http.ResponseWriter, r *http.Request, principal auth.Principal) {
	videoID, err := utils.ReadUUIDQuery(r, "videoId")
	if err != nil {
		utils.WriteError(w, ch.Logger, err)
		return
	}

	text, err := readComment(r)
	if err != nil {
		utils.WriteError(w, ch.Logger, err)
		return
	}

	comment := &models.Comment{UserID: principal.ID, VideoID: videoID, Comment: text}
	if err := ch.CommentStore.CreateComment(r.Context(), comment); err != nil {
		utils.WriteError(w, ch.Logger, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"message": "Comment added", "data": comment})
}

func (ch *CommentHandler) HandlerUpdateComment(w http.ResponseWriter, r *http.Request, principal auth.Principal) {
	commentID, err := utils.ReadUUIDQuery(r, "commentId")
	if err != nil {
		utils.WriteError(w, ch.Logger, err)
		return
	}

	text, err := readComment(r)
	if err != nil {
		utils.WriteError(w, ch.Logger, err)
		return
	}

	comment := &models.Comment{ID: commentID, UserID: principal.ID, Comment: text}
	if err := ch.CommentStore.UpdateComment(r.Context(), comment); err != nil {
		utils.WriteError(w, ch.Logger, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"message": "Comment updated", "data": comment})
}

func (ch *CommentHandler) HandlerDeleteComment(w http.ResponseWriter, r *http.Request, principal auth.Principal) {
	commentID, err := utils.ReadUUIDQuery(r, "commentId")
	if err != nil {
		utils.WriteError(w, ch.Logger, err)
		return
	}

	if err := ch.CommentStore.DeleteComment(r.Context(), commentID, principal.ID); err != nil {
		utils.WriteError(w, ch.Logger, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"message": "Comment deleted"})
}

func (ch *CommentHandler) HandlerGetVideoComments(w http.ResponseWriter, r *http.Request) {
	videoID, err := readVideoIDParam(r)
	if err != nil {
		utils.WriteError(w, ch.Logger, err)
		return
	}

	comments, err := ch.CommentStore.GetCommentsByVideoID(r.Context(), videoID)
	if err != nil {
		utils.WriteError(w, ch.Logger, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": comments})
}
