package adapter

import "context"

// Transcriber converts one audio blob to text. Implementations return
// domain.ErrAudioUnintelligible when the audio carries no recognizable
// speech and domain.ErrAudioService (wrapped) for transport failures.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// Synthesizer converts text to an audio byte stream, returning the bytes
// and their MIME content type.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, string, error)
}
