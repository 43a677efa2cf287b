// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"mindmate-chat/internal/config"
	"mindmate-chat/internal/domain/ports/adapter"
	aiAdapters "mindmate-chat/internal/infra/adapters/ai"
	speechAdapters "mindmate-chat/internal/infra/adapters/speech"
	"mindmate-chat/internal/infra/corpus"
	pg "mindmate-chat/internal/infra/db/postgres"
	"mindmate-chat/internal/infra/logging"
	"mindmate-chat/internal/infra/metrics"
	red "mindmate-chat/internal/infra/redis"
	"mindmate-chat/internal/infra/web"
	"mindmate-chat/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema")
	}
	msgRepo := pg.NewMessageRepo(pool)

	// ---- Redis (optional: only backs the chat rate limiter) ----
	var limiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		limiter = red.NewRateLimiter(redisClient)
	} else {
		logger.Warn().Msg("redis.url not set; chat rate limiting disabled")
	}

	// ---- Corpus ----
	store := corpus.Load(cfg.Corpus.Path, logger)
	retriever := corpus.NewRetriever(store)
	logger.Info().Int("lines", store.Len()).Str("path", cfg.Corpus.Path).Msg("corpus loaded")

	// ---- AI adapter (Gemini -> OpenAI -> noop in dev) ----
	var ai adapter.AIServiceAdapter
	switch {
	case cfg.AI.GeminiKey != "":
		ai, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: gemini")
	case cfg.AI.OpenAIKey != "":
		ai, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: openai")
	case cfg.Runtime.Dev:
		ai = aiAdapters.NewNoopAIAdapter()
		logger.Warn().Msg("AI adapter: noop (dev mode, no provider key)")
	default:
		logger.Fatal().Msgf("no AI provider configured: set ai.gemini_key or ai.openai_key in %s", *cfgPath)
	}

	// ---- Use cases ----
	registry := usecase.NewSessionRegistry(msgRepo)
	chatUC := usecase.NewChatUseCase(registry, msgRepo, ai, retriever, cfg.AI.Timeout, logger)

	stt := speechAdapters.NewGoogleRecognizer(cfg.Speech.RecognizerURL, cfg.Speech.RecognizerKey, cfg.Speech.Language)
	tts := speechAdapters.NewGoogleSynthesizer(cfg.Speech.SynthesizerURL, cfg.Speech.Language)
	speechUC := usecase.NewSpeechUseCase(stt, tts, logger)

	// ---- Web server ----
	secret := cfg.Server.SessionSecret
	if secret == "" {
		logger.Warn().Msg("server.session_secret not set; falling back to dev secret (INSECURE)")
		secret = "dev-session-secret-do-not-use"
	}
	auth := web.NewSessionAuth(secret, cfg.Server.SessionTTL, !cfg.Runtime.Dev, uuid.NewString)
	srv := web.NewServer(chatUC, speechUC, auth, limiter, cfg.Server.RateLimitPerMinute, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Routes(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
