package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/grvbrk/vidhook_server/internal/errs"
	"github.com/grvbrk/vidhook_server/internal/models"
	"github.com/grvbrk/vidhook_server/internal/store"
	"github.com/grvbrk/vidhook_server/internal/utils"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type Oauth interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Callback(w http.ResponseWriter, r *http.Request)
}

type GoogleOauth struct {
	Logger      *log.Logger
	Config      *oauth2.Config
	Store       sessions.Store
	UserStore   store.UserStore
	FrontendURL string
}

func NewGoogleOauth(logger *log.Logger, sessionStore sessions.Store, userStore store.UserStore, clientID, clientSecret, backendURL, frontendURL string) *GoogleOauth {
	return &GoogleOauth{
		Logger: logger,
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  fmt.Sprintf("%s/auth/google/callback", backendURL),
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.profile", "https://www.googleapis.com/auth/userinfo.email"},
			Endpoint:     google.Endpoint,
		},
		Store:       sessionStore,
		UserStore:   userStore,
		FrontendURL: frontendURL,
	}
}

func (g *GoogleOauth) Login(w http.ResponseWriter, r *http.Request) {
	session, _ := g.Store.Get(r, SessionName)

	state := base64.RawURLEncoding.EncodeToString(securecookie.GenerateRandomKey(24))
	session.Values[sessionState] = state

	if err := session.Save(r, w); err != nil {
		g.Logger.Println("Error saving oauth state", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	url := g.Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (g *GoogleOauth) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := g.Store.Get(r, SessionName)

	for key := range session.Values {
		delete(session.Values, key)
	}

	session.Options.MaxAge = -1

	err := session.Save(r, w)
	if err != nil {
		g.Logger.Println("Error clearing session", err)
	}

	http.Redirect(w, r, g.FrontendURL, http.StatusSeeOther)
}

func (g *GoogleOauth) Callback(w http.ResponseWriter, r *http.Request) {
	session, _ := g.Store.Get(r, SessionName)

	expected, _ := session.Values[sessionState].(string)
	delete(session.Values, sessionState)
	if expected == "" || r.URL.Query().Get("state") != expected {
		g.Logger.Println("OAuth state mismatch")
		utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"message": "Invalid OAuth state"})
		return
	}

	code := r.URL.Query().Get("code")
	token, err := g.Config.Exchange(r.Context(), code)
	if err != nil {
		g.Logger.Println("Error exchanging user token", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	client := g.Config.Client(r.Context(), token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		g.Logger.Println("Error getting user info", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	defer resp.Body.Close()

	var userInfo struct {
		GoogleID string `json:"id"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		Image    string `json:"picture"`
	}
	err = json.NewDecoder(resp.Body).Decode(&userInfo)
	if err != nil || userInfo.GoogleID == "" {
		g.Logger.Println("Error decoding user info", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	user, err := g.UserStore.GetUserByGoogleID(r.Context(), userInfo.GoogleID)
	if errs.ErrorCode(err) == errs.ENOTFOUND {
		googleID := userInfo.GoogleID
		user = &models.User{
			GoogleID: &googleID,
			Name:     userInfo.Name,
			Email:    userInfo.Email,
			ImageSrc: userInfo.Image,
		}
		err = g.UserStore.CreateUser(r.Context(), user)
	}
	if err != nil {
		g.Logger.Println("Error resolving user by google id", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	SetPrincipal(session, Principal{
		ID:    user.ID,
		Email: userInfo.Email,
		Name:  userInfo.Name,
		Image: userInfo.Image,
	})

	err = session.Save(r, w)
	if err != nil {
		g.Logger.Println("Error saving session", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	http.Redirect(w, r, g.FrontendURL+"/dashboard", http.StatusSeeOther)
}

func (g *GoogleOauth) AuthUser(w http.ResponseWriter, r *http.Request) {
	session, err := g.Store.Get(r, SessionName)
	if err != nil {
		g.Logger.Println("Error getting session", err)
		utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"message": "Not Authenticated"})
		return
	}

	principal, ok := PrincipalFromSession(session)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"message": "Not Authenticated"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": principal})
}
