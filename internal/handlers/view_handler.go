package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/grvbrk/vidhook_server/internal/auth"
	"github.com/grvbrk/vidhook_server/internal/models"
	"github.com/grvbrk/vidhook_server/internal/store"
	"github.com/grvbrk/vidhook_server/internal/utils"
)

type ViewRecorder interface {
	RecordView(ctx context.Context, view *models.VideoView) error
}

type ViewHandler struct {
	ViewStore store.ViewStore
	Analytics ViewRecorder
	Logger    *log.Logger
}

// NewViewHandler builds the view endpoint. analytics may be nil.
func NewViewHandler(viewStore store.ViewStore, analytics ViewRecorder, logger *log.Logger) *ViewHandler {
	return &ViewHandler{
		ViewStore: viewStore,
		Analytics: analytics,
		Logger:    logger,
	}
}

func (vh *ViewHandler) HandlerCreateView(w http.ResponseWriter, r *http.Request, principal auth.Principal) {
	videoID, err := utils.ReadUUIDQuery(r, "videoId")
	if err != nil {
		utils.WriteError(w, vh.Logger, err)
		return
	}

	view, err := vh.ViewStore.CreateView(r.Context(), videoID, principal.ID)
	if err != nil {
		utils.WriteError(w, vh.Logger, err)
		return
	}

	if vh.Analytics != nil {
		if err := vh.Analytics.RecordView(r.Context(), view); err != nil {
			vh.Logger.Println("Error mirroring view to analytics", err)
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"message": "View recorded"})
}
