package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	KVBackendFile     = "file"
	KVBackendMemory   = "memory"
	KVBackendPostgres = "postgres"
	KVBackendRedis    = "redis"

	VideoBackendVeo       = "veo"
	VideoBackendSynthetic = "synthetic"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv        string
	GeminiAPIKey  string
	GeminiBaseURL string
	VeoModel      string
	VeoFastModel  string
	VideoBackend  string
	PollInterval  time.Duration
	PollTimeout   time.Duration
	HTTPTimeout   time.Duration
	PreferIPv4    bool
	KVBackend     string
	KVPath        string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StoragePath   string
	HistoryLimit  int
}

// LoadConfig loads configuration from .env files and environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env", ".env.local")

	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		GeminiAPIKey:  strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		VeoModel:      getEnv("VEO_MODEL", "veo-3.1-generate-preview"),
		VeoFastModel:  getEnv("VEO_FAST_MODEL", "veo-3.1-fast-generate-preview"),
		VideoBackend:  strings.ToLower(getEnv("VEO_BACKEND", VideoBackendVeo)),
		PollInterval:  getEnvSeconds("POLL_INTERVAL_SECONDS", 5),
		PollTimeout:   getEnvSeconds("POLL_TIMEOUT_SECONDS", 0),
		HTTPTimeout:   getEnvSeconds("HTTP_TIMEOUT_SECONDS", 60),
		PreferIPv4:    getEnvBool("PREFER_IPV4", false),
		KVBackend:     strings.ToLower(getEnv("KV_BACKEND", KVBackendFile)),
		KVPath:        getEnv("KV_PATH", "./data"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		StoragePath:   getEnv("STORAGE_PATH", "./storage"),
		HistoryLimit:  getEnvInt("HISTORY_LIMIT", 20),
	}

	switch cfg.KVBackend {
	case KVBackendFile, KVBackendMemory:
	case KVBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for KV_BACKEND=postgres")
		}
	case KVBackendRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required for KV_BACKEND=redis")
		}
	default:
		return nil, fmt.Errorf("unsupported KV_BACKEND %q", cfg.KVBackend)
	}

	switch cfg.VideoBackend {
	case VideoBackendVeo, VideoBackendSynthetic:
	default:
		return nil, fmt.Errorf("unsupported VEO_BACKEND %q", cfg.VideoBackend)
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.PollTimeout < 0 {
		cfg.PollTimeout = 0
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 60 * time.Second
	}
	if cfg.HistoryLimit < 1 {
		cfg.HistoryLimit = 20
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
