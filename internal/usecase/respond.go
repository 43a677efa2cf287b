// File: internal/usecase/respond.go
package usecase

import (
	"strings"

	"mindmate-chat/internal/domain"
	"mindmate-chat/internal/domain/ports/adapter"
)

// User-facing fallback texts, one per failure kind. They must stay distinct
// strings: callers and tests tell failure kinds apart by the body.
const (
	FallbackRemoteUnavailable = "Sorry, I'm having trouble communicating with the AI service right now. Please try again later."
	FallbackMalformedReply    = "Sorry, I received an unexpected response from the AI. This might be a temporary issue."
	FallbackInternal          = "An unexpected error occurred. Please try again."
)

// Fallback returns the user-facing substitute text for a classified chat
// failure.
func Fallback(err error) string {
	switch err {
	case domain.ErrRemoteUnavailable:
		return FallbackRemoteUnavailable
	case domain.ErrMalformedReply:
		return FallbackMalformedReply
	default:
		return FallbackInternal
	}
}

// extractReply pulls the assistant text out of a raw reply by concatenating
// every text-bearing part of the first candidate, in returned order.
// Classification:
//   - no candidates, or a candidate with no parts -> ErrMalformedReply
//   - parts present but no text at all            -> ErrInternal
func extractReply(r *adapter.Reply) (string, error) {
	if r == nil || len(r.Candidates) == 0 {
		return "", domain.ErrMalformedReply
	}
	first := r.Candidates[0]
	if len(first.Parts) == 0 {
		return "", domain.ErrMalformedReply
	}
	var b strings.Builder
	for _, p := range first.Parts {
		b.WriteString(p.Text)
	}
	if b.Len() == 0 {
		return "", domain.ErrInternal
	}
	return b.String(), nil
}
