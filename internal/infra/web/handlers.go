package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"mindmate-chat/internal/domain"
	"mindmate-chat/internal/domain/model"
	"mindmate-chat/internal/infra/logging"
	"mindmate-chat/internal/infra/redis"
	"mindmate-chat/internal/usecase"
)

// sessionRequiredMsg matches the body the original UI expected when the
// session cookie is missing or unverifiable.
const sessionRequiredMsg = "Please refresh the page to start a new session."

type chatRequest struct {
	Message  string `json:"message"`
	ChatType string `json:"chat_type"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, err := s.auth.TokenFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Response: sessionRequiredMsg})
		return
	}
	ctx = logging.WithSessID(logging.WithTraceID(ctx, middleware.GetReqID(ctx)), token)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	if s.limiter != nil {
		allowed, lerr := s.limiter.Allow(ctx, redis.SessionChatKey(token), s.rateLimit, time.Minute)
		if lerr != nil {
			// Rate limiting is advisory; a broken limiter must not take
			// the chat path down with it.
			s.log.Warn().Err(lerr).Msg("rate limiter unavailable")
		} else if !allowed {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Too many requests"})
			return
		}
	}

	reply, err := s.chatUC.SendMessage(ctx, token, req.Message, model.ParseChatMode(req.ChatType))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, chatResponse{Response: reply})
	case errors.Is(err, domain.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Message must not be empty"})
	case errors.Is(err, domain.ErrRemoteUnavailable),
		errors.Is(err, domain.ErrMalformedReply),
		errors.Is(err, domain.ErrInternal):
		// reply already carries the matching fallback text.
		writeJSON(w, http.StatusInternalServerError, chatResponse{Response: reply})
	default:
		s.log.Error().Err(err).Msg("chat turn failed")
		writeJSON(w, http.StatusInternalServerError, chatResponse{Response: usecase.FallbackInternal})
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, err := s.auth.TokenFromRequest(r)
	if err != nil {
		// First contact: create the session and hand out its cookie.
		token, err = s.auth.Mint(w)
		if err != nil {
			s.log.Error().Err(err).Msg("session mint failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to start session"})
			return
		}
	}
	ctx = logging.WithSessID(ctx, token)

	turns, err := s.chatUC.History(ctx, token)
	if err != nil {
		s.log.Error().Err(err).Msg("history load failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to load history"})
		return
	}

	type turnDTO struct {
		Role string `json:"role"`
		Text string `json:"text"`
	}
	out := make([]turnDTO, 0, len(turns))
	for _, t := range turns {
		out = append(out, turnDTO{Role: t.Role, Text: t.Text})
	}
	writeJSON(w, http.StatusOK, struct {
		History []turnDTO `json:"history"`
	}{History: out})
}

func (s *Server) handleSpeechToText(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No audio file provided"})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to read audio"})
		return
	}

	text, err := s.speechUC.Transcribe(ctx, audio, header.Header.Get("Content-Type"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, struct {
			Text string `json:"text"`
		}{Text: text})
	case errors.Is(err, domain.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No audio file provided"})
	case errors.Is(err, domain.ErrAudioUnintelligible):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Could not understand audio"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Could not request results from speech recognition service"})
	}
}

func (s *Server) handleTextToSpeech(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No text provided"})
		return
	}

	audio, contentType, err := s.speechUC.Synthesize(ctx, req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No text provided"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to convert text to speech."})
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}
