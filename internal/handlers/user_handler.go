package handlers

import (
	"log"
	"net/http"

	"github.com/grvbrk/vidhook_server/internal/auth"
	"github.com/grvbrk/vidhook_server/internal/models"
	"github.com/grvbrk/vidhook_server/internal/store"
	"github.com/grvbrk/vidhook_server/internal/utils"
)

type UserHandler struct {
	UserStore store.UserStore
	Logger    *log.Logger
}

func NewUserHandler(userStore store.UserStore, logger *log.Logger) *UserHandler {
	return &UserHandler{
		UserStore: userStore,
		Logger:    logger,
	}
}

// HandlerSyncUser makes sure the caller has a user row.
func (uh *UserHandler) HandlerSyncUser(w http.ResponseWriter, r *http.Request, principal auth.Principal) {
	created, err := uh.UserStore.SyncUser(r.Context(), &models.User{
		ID:       principal.ID,
		Name:     principal.Name,
		Email:    principal.Email,
		ImageSrc: principal.Image,
	})
	if err != nil {
		utils.WriteError(w, uh.Logger, err)
		return
	}

	message := "User already exists"
	if created {
		message = "User created"
	}
	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"message": message})
}
