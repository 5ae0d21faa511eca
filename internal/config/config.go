package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env                  string
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	ServiceTokenSecret string

	RedisURL    string
	RedisStream string

	// BotUserID and LocalGuilds seed the in-process platform.
	BotUserID   string
	LocalGuilds []string

	PlatformTimeout  time.Duration
	PresenceInterval time.Duration
	SnowflakeNode    int64

	OTel OTelConfig
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) RedisEnabled() bool {
	return c.RedisURL != ""
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:                  getenv("APP_ENV", "development"),
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          mustGetenv("DATABASE_URL"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		RedisURL:             getenv("REDIS_URL", ""),
		RedisStream:          getenv("REDIS_STREAM", "tabot_question_events"),
		BotUserID:            getenv("BOT_USER_ID", "0"),
		PlatformTimeout:      getenvDuration("PLATFORM_TIMEOUT", 15*time.Second),
		PresenceInterval:     getenvDuration("PRESENCE_INTERVAL", time.Minute),
		SnowflakeNode:        getenvInt64("SNOWFLAKE_NODE", 1),
		OTel: OTelConfig{
			Endpoint:       getenv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getenv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getenv("OTEL_SERVICE_NAME", "tabot"),
			ServiceVersion: getenv("OTEL_SERVICE_VERSION", "dev"),
		},
	}

	cfg.CORSAllowedOrigins = splitList(getenv("CORS_ALLOWED_ORIGINS", ""))
	cfg.LocalGuilds = splitList(getenv("LOCAL_GUILDS", ""))

	cfg.ServiceTokenSecret = LoadTokenSecret()
	return cfg, nil
}

// LoadTokenSecret reads only the service token secret, for commands that
// sign tokens without running the server.
func LoadTokenSecret() string {
	_ = godotenv.Load()
	return mustGetenv("SERVICE_TOKEN_SECRET")
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func mustGetenv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(getenv(key, "")); err == nil && d > 0 {
		return d
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	if i, err := strconv.ParseInt(getenv(key, ""), 10, 64); err == nil {
		return i
	}
	return def
}
