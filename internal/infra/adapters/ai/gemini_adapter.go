// File: internal/infra/adapters/ai/gemini_adapter.go
package ai

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"mindmate-chat/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*GeminiAdapter)(nil)

type GeminiAdapter struct {
	client *genai.Client
	model  string
}

// NewGeminiAdapter creates a Gemini adapter using the official SDK.
func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, model string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, model: model}, nil
}

func (g *GeminiAdapter) Name() string { return "gemini" }

// Generate sends the whole turn sequence and maps the SDK response into the
// neutral Reply shape. Missing candidates or partless content come back as
// an empty Reply rather than an error: shape classification belongs to the
// response handler.
func (g *GeminiAdapter) Generate(ctx context.Context, messages []adapter.Message) (*adapter.Reply, error) {
	if len(messages) == 0 {
		return nil, errors.New("gemini: no messages")
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, toGenAIContents(messages), nil)
	if err != nil {
		return nil, err
	}

	reply := &adapter.Reply{}
	if resp == nil {
		return reply, nil
	}
	for _, cand := range resp.Candidates {
		c := adapter.Candidate{}
		if cand != nil && cand.Content != nil {
			for _, p := range cand.Content.Parts {
				if p == nil {
					continue
				}
				c.Parts = append(c.Parts, adapter.Part{Text: p.Text})
			}
		}
		reply.Candidates = append(reply.Candidates, c)
	}
	return reply, nil
}

func toGenAIContents(msgs []adapter.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := genai.RoleUser
		switch strings.ToLower(m.Role) {
		case "assistant", "model":
			role = genai.RoleModel
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return out
}
