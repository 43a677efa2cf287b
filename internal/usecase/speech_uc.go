// File: internal/usecase/speech_uc.go
package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"mindmate-chat/internal/domain"
	"mindmate-chat/internal/domain/ports/adapter"
	"mindmate-chat/internal/infra/metrics"
)

var _ SpeechUseCase = (*speechUC)(nil)

// SpeechUseCase fronts the speech collaborators. Failures here never touch
// the durable store: no turn was formed.
type SpeechUseCase interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
	Synthesize(ctx context.Context, text string) ([]byte, string, error)
}

type speechUC struct {
	stt adapter.Transcriber
	tts adapter.Synthesizer
	log *zerolog.Logger
}

func NewSpeechUseCase(stt adapter.Transcriber, tts adapter.Synthesizer, logger *zerolog.Logger) *speechUC {
	return &speechUC{stt: stt, tts: tts, log: logger}
}

func (s *speechUC) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", domain.ErrInvalidArgument
	}
	text, err := s.stt.Transcribe(ctx, audio, mimeType)
	metrics.ObserveSpeech("stt", err == nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("transcription failed")
		return "", err
	}
	return text, nil
}

func (s *speechUC) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, "", domain.ErrInvalidArgument
	}
	audio, contentType, err := s.tts.Synthesize(ctx, text)
	metrics.ObserveSpeech("tts", err == nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("synthesis failed")
		return nil, "", err
	}
	return audio, contentType, nil
}
