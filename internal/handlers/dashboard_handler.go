package handlers

import (
	"log"
	"net/http"

	"github.com/grvbrk/vidhook_server/internal/auth"
	"github.com/grvbrk/vidhook_server/internal/store"
	"github.com/grvbrk/vidhook_server/internal/utils"
)

type DashboardHandler struct {
	dashboardStore store.DashboardStore
	Logger         *log.Logger
}

func NewDashboardHandler(dashboardStore store.DashboardStore, logger *log.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardStore: dashboardStore,
		Logger:         logger,
	}
}

func (dh *DashboardHandler) HandlerGetDashboardMetrics(w http.ResponseWriter, r *http.Request, principal auth.Principal) {
	dashboard, err := dh.dashboardStore.GetDashboardMetricsByUserID(r.Context(), principal.ID)
	if err != nil {
		dh.Logger.Println("error getting dashboard metrics", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": dashboard})
}
