package adapter

import "context"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "user" | "model"
	Content string `json:"content"`
}

// Part is one text-bearing fragment of a candidate reply. Providers may
// return non-text parts; those surface here with an empty Text.
type Part struct {
	Text string
}

// Candidate is one alternative completion returned by the provider.
type Candidate struct {
	Parts []Part
}

// Reply is the provider-neutral raw reply shape. Adapters translate their
// SDK's response into this without judging it: missing candidates or empty
// parts are preserved so the response handler can classify them.
type Reply struct {
	Candidates []Candidate
}

// AIServiceAdapter is the port for LLM chat. Generate returns an error only
// for transport-level failures (network, timeout, non-2xx from the
// provider); shape problems live in the Reply.
type AIServiceAdapter interface {
	Name() string
	Generate(ctx context.Context, messages []Message) (*Reply, error)
}
