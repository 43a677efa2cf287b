package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"mindmate-chat/internal/infra/redis"
	"mindmate-chat/internal/usecase"
)

// Server wires the chat and speech endpoints to their use cases.
type Server struct {
	chatUC    usecase.ChatUseCase
	speechUC  usecase.SpeechUseCase
	auth      *SessionAuth
	limiter   *redis.RateLimiter // nil disables rate limiting
	rateLimit int                // chat calls per session per minute
	log       *zerolog.Logger
}

func NewServer(
	chatUC usecase.ChatUseCase,
	speechUC usecase.SpeechUseCase,
	auth *SessionAuth,
	limiter *redis.RateLimiter,
	rateLimit int,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		chatUC:    chatUC,
		speechUC:  speechUC,
		auth:      auth,
		limiter:   limiter,
		rateLimit: rateLimit,
		log:       logger,
	}
}

// Routes builds the router. /api/history doubles as the session entrypoint:
// it mints the cookie when the client arrives without one, the way the
// original index page did.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/history", s.handleHistory)
		r.Post("/speech-to-text", s.handleSpeechToText)
		r.Post("/text-to-speech", s.handleTextToSpeech)
	})
	return r
}
