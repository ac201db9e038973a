package middlewares

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/sessions"
	"github.com/grvbrk/vidhook_server/internal/auth"
	"github.com/grvbrk/vidhook_server/internal/utils"
)

type contextKey string

const PrincipalContextKey contextKey = "principal"

// PrincipalHandlerFunc is a handler that runs only for an authenticated
// caller and receives it explicitly.
type PrincipalHandlerFunc func(w http.ResponseWriter, r *http.Request, principal auth.Principal)

type MiddlewareHandler struct {
	Logger         *log.Logger
	SessionStore   sessions.Store
	AllowedOrigins []string
}

func NewMiddlewareHandler(logger *log.Logger, store sessions.Store, allowedOrigins []string) *MiddlewareHandler {
	return &MiddlewareHandler{
		Logger:         logger,
		SessionStore:   store,
		AllowedOrigins: allowedOrigins,
	}
}

// Authenticate resolves the session principal once per request. Requests
// without one pass through unauthenticated.
func (mh *MiddlewareHandler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		session, err := mh.SessionStore.Get(r, auth.SessionName)
		if err != nil {
			mh.Logger.Println("Error decoding session in auth middleware:", err)
			next.ServeHTTP(w, r)
			return
		}

		principal, ok := auth.PrincipalFromSession(session)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), PrincipalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePrincipal answers 403 when Authenticate found no principal.
func (mh *MiddlewareHandler) RequirePrincipal(next PrincipalHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := GetPrincipalFromContext(r)
		if !ok {
			utils.WriteJSON(w, http.StatusForbidden, utils.Envelope{"message": "You must be logged in"})
			return
		}
		next(w, r, principal)
	}
}

func (mh *MiddlewareHandler) Cors(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   mh.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           86400,
	})(next)
}

func (mh *MiddlewareHandler) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		mh.Logger.Printf("Request: %s %s | Status: %d | Origin: %s | %s",
			r.Method, r.URL.Path, ww.Status(), r.Header.Get("Origin"), time.Since(start))
	})
}

func (mh *MiddlewareHandler) Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

func GetPrincipalFromContext(r *http.Request) (auth.Principal, bool) {
	principal, ok := r.Context().Value(PrincipalContextKey).(auth.Principal)
	return principal, ok
}
