package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Token store backends.
const (
	TokenStoreMemory = "memory"
	TokenStoreRedis  = "redis"
)

// Auth token modes. In "store" mode the confirm step mints an opaque one-time
// token; in "stateless" mode the identity itself travels as a base64url token.
const (
	AuthTokenModeStore     = "store"
	AuthTokenModeStateless = "stateless"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string

	// Telegram
	BotToken      string
	ChatID        string
	BotName       string
	BotAPIURL     string
	ParseMode     string
	BotAPITimeout time.Duration
	// SiteURL is the public origin the login flow redirects back to.
	SiteURL string

	TokenStore      string
	RedisURL        string
	AuthTokenMode   string
	RequireInitData bool
	DeliveryWorkers int
	MaxUploadBytes  int64
	MaxUploadFiles  int
	// AllowedOrigins controls HTTP CORS.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error — .env is optional

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "pretty"),
		BotToken:        os.Getenv("TELEGRAM_BOT_TOKEN"),
		ChatID:          os.Getenv("TELEGRAM_CHAT_ID"),
		BotName:         os.Getenv("TELEGRAM_BOT_NAME"),
		BotAPIURL:       strings.TrimRight(getEnv("TELEGRAM_API_URL", "https://api.telegram.org"), "/"),
		ParseMode:       getEnv("TELEGRAM_PARSE_MODE", "HTML"),
		BotAPITimeout:   time.Duration(getEnvInt("BOT_API_TIMEOUT_SECONDS", 20)) * time.Second,
		SiteURL:         strings.TrimRight(os.Getenv("SITE_URL"), "/"),
		TokenStore:      getEnv("TOKEN_STORE", TokenStoreMemory),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		AuthTokenMode:   getEnv("AUTH_TOKEN_MODE", AuthTokenModeStore),
		RequireInitData: getEnvBool("REQUIRE_INIT_DATA", false),
		DeliveryWorkers: getEnvInt("DELIVERY_CONCURRENCY", 4),
		MaxUploadBytes:  int64(getEnvInt("MAX_UPLOAD_SIZE_MB", 20)) * 1024 * 1024,
		MaxUploadFiles:  getEnvInt("MAX_UPLOAD_FILES", 10),
		AllowedOrigins:  parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

// StatelessTokens reports whether identities are carried as self-contained tokens.
func (c *Config) StatelessTokens() bool {
	return c.AuthTokenMode == AuthTokenModeStateless
}

// TelegramConfigured reports whether outbound delivery has its credentials.
func (c *Config) TelegramConfigured() bool {
	return c.BotToken != "" && c.ChatID != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
