package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"voicepay-server/src/api"
	"voicepay-server/src/config"
	"voicepay-server/src/db"
	store "voicepay-server/src/db/sql"
	"voicepay-server/src/intent"
	"voicepay-server/src/llm"
	"voicepay-server/src/logger"
	"voicepay-server/src/util"
)

func main() {
	cfg, err := config.Load()
	log := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	ctx := context.Background()

	// Connect to database
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("DB connection failed")
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("DB migration failed")
	}

	userCache, err := db.NewUserCache(cfg.UserCacheTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create user cache")
	}
	defer userCache.Close()

	classifier := intent.NewClassifier(newCompleter(ctx, cfg, log), cfg.LLMTimeout)
	tokens := util.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	router := api.NewRouter(log, store.NewStore(pool, userCache), classifier, tokens, api.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		IsDemo:         cfg.IsDemo,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Bool("demo", cfg.IsDemo).Msg("API server running")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server stopped")
}

// newCompleter returns the configured LLM backend, or nil when it cannot be
// built. A nil completer sends every transcript to the keyword classifier.
func newCompleter(ctx context.Context, cfg config.Config, log zerolog.Logger) intent.Completer {
	switch cfg.LLMProvider {
	case "gemini":
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Warn().Err(err).Msg("Gemini unavailable, using keyword classification only")
			return nil
		}
		log.Info().Str("model", cfg.GeminiModel).Msg("Using Gemini for transcript analysis")
		return client
	default:
		if cfg.OpenRouterAPIKey == "" {
			log.Warn().Msg("OPENROUTER_API_KEY not set, using keyword classification only")
			return nil
		}
		log.Info().Str("model", cfg.LLMModel).Str("base_url", cfg.LLMBaseURL).Msg("Using OpenRouter for transcript analysis")
		return llm.NewOpenRouterClient(cfg.OpenRouterAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
	}
}
