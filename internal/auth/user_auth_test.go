package auth_test

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grvbrk/vidhook_server/internal/auth"
)

func newOauth(t *testing.T) *auth.GoogleOauth {
	t.Helper()
	sessionStore := sessions.NewCookieStore(securecookie.GenerateRandomKey(32))
	logger := log.New(io.Discard, "", 0)
	return auth.NewGoogleOauth(logger, sessionStore, nil, "client", "secret", "http://api.test", "http://app.test")
}

func withCookies(r *http.Request, rec *httptest.ResponseRecorder) *http.Request {
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestLoginStoresStateAndRedirects(t *testing.T) {
	g := newOauth(t)

	rec := httptest.NewRecorder()
	g.Login(rec, httptest.NewRequest(http.MethodGet, "/auth/google/login", nil))

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.NotEmpty(t, loc.Query().Get("state"))
	assert.Equal(t, "http://api.test/auth/google/callback", loc.Query().Get("redirect_uri"))
	assert.NotEmpty(t, rec.Result().Cookies())
}

func TestCallbackRejectsStateMismatch(t *testing.T) {
	g := newOauth(t)

	login := httptest.NewRecorder()
	g.Login(login, httptest.NewRequest(http.MethodGet, "/auth/google/login", nil))

	req := withCookies(httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=forged&code=x", nil), login)
	rec := httptest.NewRecorder()
	g.Callback(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	g.Callback(rec, httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=x", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthUser(t *testing.T) {
	g := newOauth(t)

	rec := httptest.NewRecorder()
	g.AuthUser(rec, httptest.NewRequest(http.MethodGet, "/auth/user", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	seed := httptest.NewRequest(http.MethodGet, "/", nil)
	session, err := g.Store.Get(seed, auth.SessionName)
	require.NoError(t, err)
	id := uuid.New()
	auth.SetPrincipal(session, auth.Principal{ID: id, Email: "a@example.com", Name: "A"})
	saved := httptest.NewRecorder()
	require.NoError(t, session.Save(seed, saved))

	rec = httptest.NewRecorder()
	g.AuthUser(rec, withCookies(httptest.NewRequest(http.MethodGet, "/auth/user", nil), saved))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), id.String())
}
