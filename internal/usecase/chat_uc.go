// File: internal/usecase/chat_uc.go
package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"mindmate-chat/internal/domain"
	"mindmate-chat/internal/domain/model"
	"mindmate-chat/internal/domain/ports/adapter"
	"mindmate-chat/internal/domain/ports/repository"
	"mindmate-chat/internal/infra/logging"
	"mindmate-chat/internal/infra/metrics"
)

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

type ChatUseCase interface {
	// SendMessage runs one full turn: resolve history, retrieve context in
	// study mode, compose the prompt, call the model, classify the outcome,
	// append both sides and persist. On a classified failure the returned
	// string is the user-facing fallback and err is the matching domain
	// error; the fallback is still recorded durably.
	SendMessage(ctx context.Context, token, message string, mode model.ChatMode) (string, error)
	History(ctx context.Context, token string) ([]model.Turn, error)
}

// ContextRetriever supplies keyword-matched corpus snippets for study mode.
type ContextRetriever interface {
	TopMatches(query string) string
}

type chatUC struct {
	registry  *SessionRegistry
	repo      repository.MessageRepository
	ai        adapter.AIServiceAdapter
	retriever ContextRetriever
	timeout   time.Duration
	log       *zerolog.Logger
}

func NewChatUseCase(
	registry *SessionRegistry,
	repo repository.MessageRepository,
	ai adapter.AIServiceAdapter,
	retriever ContextRetriever,
	timeout time.Duration,
	logger *zerolog.Logger,
) *chatUC {
	return &chatUC{
		registry:  registry,
		repo:      repo,
		ai:        ai,
		retriever: retriever,
		timeout:   timeout,
		log:       logger,
	}
}

func (c *chatUC) SendMessage(ctx context.Context, token, message string, mode model.ChatMode) (string, error) {
	log := logging.With(ctx, c.log)
	defer logging.TraceDuration(log, "ChatUC.SendMessage")()

	message = strings.TrimSpace(message)
	if message == "" {
		return "", domain.ErrInvalidArgument
	}

	sess, release, err := c.registry.Acquire(ctx, token)
	if err != nil {
		return "", err
	}
	defer release()

	retrieved := ""
	if mode == model.ModeStudyBuddy && c.retriever != nil {
		retrieved = c.retriever.TopMatches(message)
		metrics.RetrievalResult(retrieved != "")
	}

	// The composed text becomes the user turn in memory before the remote
	// call, so the persona/instruction travels with the history exactly once.
	prompt := ComposePrompt(mode, message, retrieved, sess.TurnCount())
	sess.Append(model.RoleUser, prompt)

	outbound := make([]adapter.Message, 0, len(sess.Turns))
	for _, t := range sess.Turns {
		outbound = append(outbound, adapter.Message{Role: t.Role, Content: t.Text})
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	raw, callErr := c.ai.Generate(callCtx, outbound)

	var reply string
	var failure error
	if callErr != nil {
		// Transport-level failure, including deadline expiry.
		failure = domain.ErrRemoteUnavailable
		log.Warn().Err(callErr).Msg("remote chat call failed")
	} else {
		reply, failure = extractReply(raw)
		if failure != nil {
			log.Warn().Err(failure).Msg("remote reply unusable")
		}
	}
	metrics.ObserveAICall(c.ai.Name(), failure == nil, time.Since(start))

	if failure != nil {
		reply = Fallback(failure)
	}

	// The model turn and the durable record are written even on failure so
	// the session history stays complete. The record holds the raw user
	// message, not the composed prompt.
	sess.Append(model.RoleModel, reply)
	rec := &model.MessageRecord{SessionID: token, UserText: message, ModelText: reply}
	if saveErr := c.repo.SaveTurn(ctx, rec); saveErr != nil {
		log.Error().Err(saveErr).Msg("durable write skipped; reply still returned")
	}

	metrics.ObserveChat(string(mode), failure == nil)
	return reply, failure
}

func (c *chatUC) History(ctx context.Context, token string) ([]model.Turn, error) {
	sess, release, err := c.registry.Acquire(ctx, token)
	if err != nil {
		return nil, err
	}
	defer release()

	out := make([]model.Turn, len(sess.Turns))
	copy(out, sess.Turns)
	return out, nil
}
