package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort     = "8080"
	defaultMuxAPI   = "https://api.mux.com"
	defaultUploadCO = "*"

	defaultWebhookTolerance = 5 * time.Minute
)

type Config struct {
	Env  string
	Port string

	DatabaseURL string
	RedisURL    string

	ClickhouseURL      string
	ClickhouseDatabase string
	ClickhouseUsername string
	ClickhousePassword string

	MuxTokenID       string
	MuxTokenSecret   string
	MuxWebhookSecret string
	MuxAPIURL        string
	UploadCorsOrigin string

	// MuxWebhookTolerance is the maximum age of a signed delivery.
	MuxWebhookTolerance time.Duration

	AllowedOrigins []string

	SessionAuthKey       string
	SessionEncryptionKey string

	GoogleClientID     string
	GoogleClientSecret string
	BackendURL         string
	FrontendURL        string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:  os.Getenv("ENV"),
		Port: getEnv("PORT", defaultPort),

		DatabaseURL: os.Getenv("DB_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		ClickhouseURL:      os.Getenv("CLICKHOUSE_URL"),
		ClickhouseDatabase: getEnv("CLICKHOUSE_DATABASE", "default"),
		ClickhouseUsername: os.Getenv("CLICKHOUSE_USERNAME"),
		ClickhousePassword: os.Getenv("CLICKHOUSE_PASSWORD"),

		MuxTokenID:       os.Getenv("MUX_TOKEN_ID"),
		MuxTokenSecret:   os.Getenv("MUX_TOKEN_SECRET"),
		MuxWebhookSecret: os.Getenv("MUX_WEBHOOK_SECRET"),
		MuxAPIURL:        getEnv("MUX_API_URL", defaultMuxAPI),
		UploadCorsOrigin: getEnv("UPLOAD_CORS_ORIGIN", defaultUploadCO),

		MuxWebhookTolerance: getDuration("MUX_WEBHOOK_TOLERANCE", defaultWebhookTolerance),

		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),

		SessionAuthKey:       os.Getenv("SESSION_AUTH_KEY"),
		SessionEncryptionKey: os.Getenv("SESSION_ENCRYPTION_KEY"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID_USER"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET_USER"),
		BackendURL:         getEnv("BACKEND_URL", "http://localhost:"+defaultPort),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// getDuration parses values like "5m" or "90s". Unparsable or non-positive
// values fall back.
func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
