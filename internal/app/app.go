package app

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/grvbrk/vidhook_server/internal/auth"
	"github.com/grvbrk/vidhook_server/internal/config"
	"github.com/grvbrk/vidhook_server/internal/handlers"
	handler_analytics "github.com/grvbrk/vidhook_server/internal/handlers/analytics"
	"github.com/grvbrk/vidhook_server/internal/middlewares"
	"github.com/grvbrk/vidhook_server/internal/muxclient"
	"github.com/grvbrk/vidhook_server/internal/services"
	"github.com/grvbrk/vidhook_server/internal/store"
	"github.com/grvbrk/vidhook_server/internal/store/analytics"
	"github.com/grvbrk/vidhook_server/internal/webhook"
	"github.com/grvbrk/vidhook_server/migrations"
	"github.com/redis/go-redis/v9"
)

type Application struct {
	Config                *config.Config
	Logger                *log.Logger
	Oauth                 *auth.GoogleOauth
	SessionStore          *sessions.CookieStore
	db                    *sql.DB
	RedisClient           *redis.Client
	DBConn                driver.Conn
	MiddlewareHandler     *middlewares.MiddlewareHandler
	WebhookHandler        *handlers.WebhookHandler
	UploadHandler         *handlers.UploadHandler
	VideoHandler          *handlers.VideoHandler
	LikeHandler           *handlers.LikeHandler
	CommentHandler        *handlers.CommentHandler
	SubscriptionHandler   *handlers.SubscriptionHandler
	ViewHandler           *handlers.ViewHandler
	UserHandler           *handlers.UserHandler
	DashboardHandler      *handlers.DashboardHandler
	AnalyticsVideoHandler *handler_analytics.AnalyticsVideoHandler
}

func NewApplication(cfg *config.Config) (*Application, error) {
	logger := log.New(os.Stdout, "LOGGING: ", log.Ldate|log.Ltime)

	pgDB, err := store.ConnectPGDB(cfg.DatabaseURL)
	if err != nil {
		logger.Println("Error connecting to db")
		return nil, err
	}

	err = store.MigrateFS(pgDB, migrations.FS, migrations.PostgresDir)
	if err != nil {
		logger.Println("PANIC: Postgresql migration failed, exiting...")
		pgDB.Close()
		return nil, err
	}

	logger.Println("Database migrated...")

	app := &Application{
		Config: cfg,
		Logger: logger,
		db:     pgDB,
	}

	var deliveries webhook.DeliveryLog
	if cfg.RedisURL != "" {
		redisClient, err := store.ConnectRedis(cfg.RedisURL)
		if err != nil {
			logger.Println("Error connecting to redis")
			app.Close()
			return nil, err
		}
		app.RedisClient = redisClient
		deliveries = store.NewRedisDeliveryStore(redisClient, store.DefaultDeliveryTTL)
	} else {
		logger.Println("REDIS_URL not set, webhook deliveries are not deduplicated")
	}

	var viewRecorder handlers.ViewRecorder
	if cfg.ClickhouseURL != "" {
		chOpts := store.ClickhouseOptions{
			Addr:     cfg.ClickhouseURL,
			Database: cfg.ClickhouseDatabase,
			Username: cfg.ClickhouseUsername,
			Password: cfg.ClickhousePassword,
		}

		dbConn, err := store.ConnectClickhouse(chOpts)
		if err != nil {
			logger.Println("Error connecting to clickhouse")
			app.Close()
			return nil, err
		}
		app.DBConn = dbConn

		err = store.MigrateClickhouse(chOpts, migrations.FS, migrations.AnalyticsDir)
		if err != nil {
			logger.Println("PANIC: Clickhouse migration failed, exiting...")
			app.Close()
			return nil, err
		}

		analyticsViewStore := analytics.NewClickhouseViewStore(dbConn)
		viewRecorder = analyticsViewStore
		app.AnalyticsVideoHandler = handler_analytics.NewAnalyticsVideoHandler(analyticsViewStore, logger)
	} else {
		logger.Println("CLICKHOUSE_URL not set, view analytics disabled")
	}

	if cfg.MuxWebhookSecret == "" {
		logger.Println("MUX_WEBHOOK_SECRET not set, webhook deliveries will be refused")
	}

	app.SessionStore = newSessionStore(cfg, logger)

	userStore := store.NewPostgresUserStore(pgDB)
	dashboardStore := store.NewPostgresDashboardStore(pgDB)
	videoStore := store.NewPostgresVideoStore(pgDB)
	likeStore := store.NewPostgresLikeStore(pgDB)
	commentStore := store.NewPostgresCommentStore(pgDB)
	subscriptionStore := store.NewPostgresSubscriptionStore(pgDB)
	viewStore := store.NewPostgresViewStore(pgDB)

	muxClient := muxclient.NewClient(cfg.MuxAPIURL, cfg.MuxTokenID, cfg.MuxTokenSecret)
	uploadService := services.NewUploadService(videoStore, muxClient, cfg.UploadCorsOrigin, logger)
	processor := webhook.NewProcessor(videoStore, deliveries, logger)

	app.Oauth = auth.NewGoogleOauth(logger, app.SessionStore, userStore,
		cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.BackendURL, cfg.FrontendURL)

	app.MiddlewareHandler = middlewares.NewMiddlewareHandler(logger, app.SessionStore, cfg.AllowedOrigins)
	app.WebhookHandler = handlers.NewWebhookHandler(cfg.MuxWebhookSecret, processor, logger,
		webhook.WithTolerance(cfg.MuxWebhookTolerance))
	app.UploadHandler = handlers.NewUploadHandler(uploadService, logger)
	app.VideoHandler = handlers.NewVideoHandler(videoStore, logger)
	app.LikeHandler = handlers.NewLikeHandler(likeStore, logger)
	app.CommentHandler = handlers.NewCommentHandler(commentStore, logger)
	app.SubscriptionHandler = handlers.NewSubscriptionHandler(subscriptionStore, logger)
	app.ViewHandler = handlers.NewViewHandler(viewStore, viewRecorder, logger)
	app.UserHandler = handlers.NewUserHandler(userStore, logger)
	app.DashboardHandler = handlers.NewDashboardHandler(dashboardStore, logger)

	return app, nil
}

func newSessionStore(cfg *config.Config, logger *log.Logger) *sessions.CookieStore {
	authKey := []byte(cfg.SessionAuthKey)
	encryptionKey := []byte(cfg.SessionEncryptionKey)
	if len(authKey) == 0 {
		logger.Println("SESSION_AUTH_KEY not set, sessions will not survive a restart")
		authKey = securecookie.GenerateRandomKey(64)
		encryptionKey = securecookie.GenerateRandomKey(32)
	}

	options := &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
	}

	if cfg.IsProduction() {
		options.Secure = true
		options.SameSite = http.SameSiteNoneMode
	} else {
		options.Secure = false
		options.SameSite = http.SameSiteLaxMode
	}

	var sessionStore *sessions.CookieStore
	if len(encryptionKey) > 0 {
		sessionStore = sessions.NewCookieStore(authKey, encryptionKey)
	} else {
		sessionStore = sessions.NewCookieStore(authKey)
	}
	sessionStore.Options = options

	return sessionStore
}

// Close releases every connection the application opened.
func (a *Application) Close() {
	if a.DBConn != nil {
		if err := a.DBConn.Close(); err != nil {
			a.Logger.Println("Error closing clickhouse", err)
		}
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Logger.Println("Error closing redis", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Logger.Println("Error closing db", err)
		}
	}
}
