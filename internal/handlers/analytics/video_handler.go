package analytics

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/grvbrk/vidhook_server/internal/store/analytics"
	"github.com/grvbrk/vidhook_server/internal/utils"
)

const (
	defaultDays = 30
	maxDays     = 365
)

type AnalyticsVideoHandler struct {
	AnalyticsViewStore analytics.AnalyticsViewStore
	Logger             *log.Logger
}

func NewAnalyticsVideoHandler(analyticsViewStore analytics.AnalyticsViewStore, logger *log.Logger) *AnalyticsVideoHandler {
	return &AnalyticsVideoHandler{
		AnalyticsViewStore: analyticsViewStore,
		Logger:             logger,
	}
}

func (ah *AnalyticsVideoHandler) HandlerGetVideoAnalyticsByID(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		ah.Logger.Println("Error parsing video id", err)
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"message": "Bad Request"})
		return
	}

	days := defaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 1 || days > maxDays {
			ah.Logger.Printf("Error: invalid days parameter '%s'", raw)
			utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"message": "Bad Request"})
			return
		}
	}

	response, err := ah.AnalyticsViewStore.GetDailyViewsByVideoID(r.Context(), videoID, days)
	if err != nil {
		ah.Logger.Println("Error getting video analytics from store", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": response})
}
