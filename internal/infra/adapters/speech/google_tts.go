// File: internal/infra/adapters/speech/google_tts.go
package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mindmate-chat/internal/domain"
	"mindmate-chat/internal/domain/ports/adapter"
)

var _ adapter.Synthesizer = (*GoogleSynthesizer)(nil)

// GoogleSynthesizer turns text into MP3 audio via the Google Translate TTS
// endpoint. Same deal as the recognizer: no SDK, plain HTTP gateway.
type GoogleSynthesizer struct {
	base   string
	lang   string
	client *http.Client
}

func NewGoogleSynthesizer(baseURL, lang string) *GoogleSynthesizer {
	if baseURL == "" {
		baseURL = "https://translate.google.com/translate_tts"
	}
	if lang == "" {
		lang = "en"
	}
	// The endpoint expects a short language code ("en"), not a locale.
	if i := strings.IndexByte(lang, '-'); i > 0 {
		lang = lang[:i]
	}
	return &GoogleSynthesizer{
		base:   baseURL,
		lang:   lang,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", g.lang)
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+"?"+q.Encode(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: build request: %v", domain.ErrAudioService, err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrAudioService, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("%w: http %d", domain.ErrAudioService, resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: read response: %v", domain.ErrAudioService, err)
	}
	return audio, "audio/mpeg", nil
}
