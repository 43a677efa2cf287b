// File: internal/infra/adapters/ai/noop_ai.go
package ai

import (
	"context"
	"fmt"
	"time"

	"mindmate-chat/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*NoopAIAdapter)(nil)

// NoopAIAdapter implements the AI port for local/dev runs without a key.
// It echoes the last user message back inside a canned reply.
type NoopAIAdapter struct{}

func NewNoopAIAdapter() *NoopAIAdapter {
	return &NoopAIAdapter{}
}

func (a *NoopAIAdapter) Name() string { return "noop" }

func (a *NoopAIAdapter) Generate(ctx context.Context, messages []adapter.Message) (*adapter.Reply, error) {
	select {
	case <-time.After(50 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	last := messages[len(messages)-1]
	return &adapter.Reply{
		Candidates: []adapter.Candidate{{
			Parts: []adapter.Part{{Text: fmt.Sprintf("[noop-ai] I heard: %s", last.Content)}},
		}},
	}, nil
}
