package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    string

	JWTSecret string
	JWTTTL    time.Duration

	// Transcript analysis
	LLMProvider      string
	OpenRouterAPIKey string
	LLMBaseURL       string
	LLMModel         string
	GeminiAPIKey     string
	GeminiModel      string
	LLMTimeout       time.Duration

	AllowedOrigins []string
	IsDemo         bool
	UserCacheTTL   time.Duration
}

func Load() (Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := Config{
		Port:        getEnv("PORT", "3001"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    getEnvAsDuration("JWT_TTL", 24*time.Hour),

		LLMProvider:      strings.ToLower(getEnv("LLM_PROVIDER", "openrouter")),
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		LLMBaseURL:       getEnv("LLM_BASE_URL", "https://openrouter.ai/api/v1"),
		LLMModel:         getEnv("LLM_MODEL", "google/gemini-2.5-pro-exp-03-25:free"),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		LLMTimeout:       getEnvAsDuration("LLM_TIMEOUT", 20*time.Second),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		IsDemo:         getEnvAsBool("DEMO_MODE", false),
		UserCacheTTL:   getEnvAsDuration("USER_CACHE_TTL", 5*time.Minute),
	}

	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET is required")
	}
	if cfg.LLMProvider != "openrouter" && cfg.LLMProvider != "gemini" {
		return cfg, errors.New("LLM_PROVIDER must be one of: openrouter, gemini")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
