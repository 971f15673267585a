package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/intake-backend/internal/config"
	"github.com/stemsi/intake-backend/internal/database"
	"github.com/stemsi/intake-backend/internal/handler"
	"github.com/stemsi/intake-backend/internal/logger"
	"github.com/stemsi/intake-backend/internal/questionnaire"
	"github.com/stemsi/intake-backend/internal/router"
	"github.com/stemsi/intake-backend/internal/service"
	"github.com/stemsi/intake-backend/internal/telegram"
	"github.com/stemsi/intake-backend/internal/tokenstore"
	"github.com/stemsi/intake-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("token_store", cfg.TokenStore).
		Str("auth_token_mode", cfg.AuthTokenMode).
		Msg("Starting intake backend")

	if !cfg.TelegramConfigured() {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not set, submissions will fail")
	}

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Token Store ───────────────────────────────────────────────────
	var store tokenstore.Store
	switch cfg.TokenStore {
	case config.TokenStoreRedis:
		rdb, err := database.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		store = tokenstore.NewRedisStore(rdb)
	default:
		store = tokenstore.NewMemoryStore()
	}

	// ─── Questionnaire Schemas ─────────────────────────────────────────
	registry, err := questionnaire.LoadEmbedded()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load questionnaire schemas")
	}
	log.Info().Interface("types", registry.Types()).Msg("Questionnaire schemas loaded")

	// ─── Bot API Client ────────────────────────────────────────────────
	bot := telegram.NewClient(telegram.Options{
		BaseURL:   cfg.BotAPIURL,
		Token:     cfg.BotToken,
		ChatID:    cfg.ChatID,
		ParseMode: cfg.ParseMode,
		Timeout:   cfg.BotAPITimeout,
	})

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, store, log)
	questionnaireService := service.NewQuestionnaireService(registry)
	submissionService := service.NewSubmissionService(bot, questionnaireService, service.SubmissionOptions{
		Workers:    cfg.DeliveryWorkers,
		EscapeHTML: strings.EqualFold(cfg.ParseMode, "HTML"),
	}, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		Questionnaire: handler.NewQuestionnaireHandler(questionnaireService),
		Submission:    handler.NewSubmissionHandler(submissionService, cfg.MaxUploadFiles, cfg.MaxUploadBytes),
		System:        handler.NewSystemHandler(store, bot.Configured, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// In-flight submissions may still be uploading attachments.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.BotAPITimeout+5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
