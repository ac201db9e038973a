package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/grvbrk/vidhook_server/internal/app"
)

func SetupRoutes(app *app.Application) *chi.Mux {
	r := chi.NewRouter()
	mh := app.MiddlewareHandler

	r.Use(httprate.LimitAll(600, time.Minute))
	r.Use(mh.RequestLogger)
	r.Use(mh.Security)

	// Mux calls this directly: no CORS, no session.
	r.With(httprate.LimitByIP(300, time.Minute)).Post("/api/mux/webhook", app.WebhookHandler.HandlerMuxWebhook)

	r.Route("/auth", func(r chi.Router) {

		r.Use(httprate.LimitByIP(100, time.Minute))

		r.Get("/google/login", app.Oauth.Login)
		r.Get("/google/logout", app.Oauth.Logout)
		r.Get("/google/callback", app.Oauth.Callback)

		r.Group(func(r chi.Router) {
			r.Use(mh.Cors)
			r.Get("/user", app.Oauth.AuthUser)
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(100, time.Minute))
		r.Use(mh.Cors)
		r.Use(mh.Authenticate)

		// public routes
		r.Route("/public", func(r chi.Router) {
			r.Get("/videos", app.VideoHandler.HandlerGetVideos)
			r.Get("/videos/{id}", app.VideoHandler.HandlerGetVideoByID)
			r.Get("/videos/{id}/comments", app.CommentHandler.HandlerGetVideoComments)
			if app.AnalyticsVideoHandler != nil {
				r.Get("/videos/{id}/analytics", app.AnalyticsVideoHandler.HandlerGetVideoAnalyticsByID)
			}
		})

		// principal routes
		r.Post("/user", mh.RequirePrincipal(app.UserHandler.HandlerSyncUser))
		r.Get("/dashboard/metrics", mh.RequirePrincipal(app.DashboardHandler.HandlerGetDashboardMetrics))

		r.Post("/video", mh.RequirePrincipal(app.UploadHandler.HandlerCreateVideo))
		r.Get("/videos", mh.RequirePrincipal(app.VideoHandler.HandlerGetVideosByUserID))

		r.Post("/like", mh.RequirePrincipal(app.LikeHandler.HandlerCreateLike))
		r.Delete("/like", mh.RequirePrincipal(app.LikeHandler.HandlerDeleteLike))

		r.Post("/comment", mh.RequirePrincipal(app.CommentHandler.HandlerCreateComment))
		r.Put("/comment", mh.RequirePrincipal(app.CommentHandler.HandlerUpdateComment))
		r.Delete("/comment", mh.RequirePrincipal(app.CommentHandler.HandlerDeleteComment))

		r.Post("/subscribe", mh.RequirePrincipal(app.SubscriptionHandler.HandlerSubscribe))
		r.Put("/subscribe", mh.RequirePrincipal(app.SubscriptionHandler.HandlerUnsubscribe))
		r.Delete("/subscribe", mh.RequirePrincipal(app.SubscriptionHandler.HandlerUnsubscribe))

		r.Post("/view", mh.RequirePrincipal(app.ViewHandler.HandlerCreateView))
	})

	return r
}
