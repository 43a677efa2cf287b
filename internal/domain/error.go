package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")

	// Chat path failures. Each maps to its own user-facing fallback text
	// in the response handler.
	ErrRemoteUnavailable = errors.New("ai service unreachable")
	ErrMalformedReply    = errors.New("ai reply missing expected structure")
	ErrInternal          = errors.New("unexpected internal failure")

	// Session identity
	ErrSessionInvalid = errors.New("missing or invalid session token")

	// Speech path failures. These never produce a durable record.
	ErrAudioUnintelligible = errors.New("audio could not be understood")
	ErrAudioService        = errors.New("speech service unavailable")
)
