package handlers

import (
	"log"
	"net/http"

	"github.com/grvbrk/vidhook_server/internal/auth"
	"github.com/grvbrk/vidhook_server/internal/store"
	"github.com/grvbrk/vidhook_server/internal/utils"
)

type SubscriptionHandler struct {
	SubscriptionStore store.SubscriptionStore
	Logger            *log.Logger
}

func NewSubscriptionHandler(subscriptionStore store.SubscriptionStore, logger *log.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		SubscriptionStore: subscriptionStore,
		Logger:            logger,
	}
}

func (sh *SubscriptionHandler) HandlerSubscribe(w http.ResponseWriter, r *http.Request, principal auth.Principal) {
	subscribedToID, err := utils.ReadUUIDQuery(r, "subscribedToId")
	if err != nil {
		utils.WriteError(w, sh.Logger, err)
		return
	}

	sub, err := sh.SubscriptionStore.CreateSubscription(r.Context(), principal.ID, subscribedToID)
	if err != nil {
		utils.WriteError(w, sh.Logger, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"message": "Subscribed", "data": sub})
}

// HandlerUnsubscribe serves both PUT and DELETE.
func (sh *SubscriptionHandler) HandlerUnsubscribe(w http.ResponseWriter, r *http.Request, principal auth.Principal) {
	subscribedToID, err := utils.ReadUUIDQuery(r, "subscribedToId")
	if err != nil {
		utils.WriteError(w, sh.Logger, err)
		return
	}

	err = sh.SubscriptionStore.DeleteSubscription(r.Context(), principal.ID, subscribedToID)
	if err != nil {
		utils.WriteError(w, sh.Logger, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"message": "Unsubscribed"})
}
