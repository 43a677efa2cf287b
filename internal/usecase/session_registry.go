// File: internal/usecase/session_registry.go
package usecase

import (
	"context"
	"fmt"
	"sync"

	"mindmate-chat/internal/domain/model"
	"mindmate-chat/internal/domain/ports/repository"
)

// sessionEntry pairs a session with its own lock so that requests for
// different tokens never block each other. backfilled flips once the
// durable history has been replayed into memory; it stays false after a
// failed load so the next request can retry without risking duplicates
// (a failed backfill appended nothing).
type sessionEntry struct {
	mu         sync.Mutex
	sess       *model.ChatSession
	backfilled bool
}

// SessionRegistry is the process-wide map of live sessions, keyed by token.
// It reconciles in-memory state with durable records exactly once per
// (token, process): durable history outlives restarts, memory does not.
type SessionRegistry struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	repo    repository.MessageRepository
}

func NewSessionRegistry(repo repository.MessageRepository) *SessionRegistry {
	return &SessionRegistry{
		entries: make(map[string]*sessionEntry),
		repo:    repo,
	}
}

// Acquire resolves a token to its session with the per-session lock held.
// The caller must invoke the returned release func when done mutating the
// session. An unknown token is still valid: its entry starts empty and is
// backfilled from durable records in ascending chronological order, each
// record expanding to a user turn then a model turn.
func (r *SessionRegistry) Acquire(ctx context.Context, token string) (*model.ChatSession, func(), error) {
	r.mu.Lock()
	e, ok := r.entries[token]
	if !ok {
		e = &sessionEntry{sess: model.NewChatSession(token)}
		r.entries[token] = e
	}
	r.mu.Unlock()

	e.mu.Lock()
	if !e.backfilled {
		recs, err := r.repo.ListBySession(ctx, token)
		if err != nil {
			e.mu.Unlock()
			return nil, nil, fmt.Errorf("backfill session %s: %w", token, err)
		}
		for _, rec := range recs {
			e.sess.AppendExchange(rec.UserText, rec.ModelText)
		}
		e.backfilled = true
	}
	return e.sess, e.mu.Unlock, nil
}
