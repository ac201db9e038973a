package auth

import (
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const SessionName = "vidhook_session"

const (
	sessionUserID    = "user_id"
	sessionUserEmail = "user_email"
	sessionUserName  = "user_name"
	sessionUserImage = "user_image"
	sessionState     = "oauth_state"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Image string    `json:"image"`
}

// PrincipalFromSession reads the principal stored by the OAuth callback.
func PrincipalFromSession(session *sessions.Session) (Principal, bool) {
	if session == nil || session.IsNew {
		return Principal{}, false
	}

	email, emailOk := session.Values[sessionUserEmail].(string)
	rawID, idOk := session.Values[sessionUserID].(string)
	if !emailOk || !idOk || email == "" || rawID == "" {
		return Principal{}, false
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return Principal{}, false
	}

	name, _ := session.Values[sessionUserName].(string)
	image, _ := session.Values[sessionUserImage].(string)

	return Principal{ID: id, Email: email, Name: name, Image: image}, true
}

// SetPrincipal stores p in session. The caller saves the session.
func SetPrincipal(session *sessions.Session, p Principal) {
	session.Values[sessionUserID] = p.ID.String()
	session.Values[sessionUserEmail] = p.Email
	session.Values[sessionUserName] = p.Name
	session.Values[sessionUserImage] = p.Image
}
