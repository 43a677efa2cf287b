// File: internal/infra/adapters/speech/google_stt.go
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mindmate-chat/internal/domain"
	"mindmate-chat/internal/domain/ports/adapter"
)

var _ adapter.Transcriber = (*GoogleRecognizer)(nil)

// GoogleRecognizer transcribes audio through the Google web speech API.
// There is no official Go SDK for this endpoint, so it is a plain HTTP
// gateway adapter. Decoding and recognition happen entirely on the remote
// side; this adapter only moves bytes and classifies the outcome.
type GoogleRecognizer struct {
	base   string
	key    string
	lang   string
	client *http.Client
}

func NewGoogleRecognizer(baseURL, key, lang string) *GoogleRecognizer {
	if baseURL == "" {
		baseURL = "http://www.google.com/speech-api/v2/recognize"
	}
	if lang == "" {
		lang = "en-US"
	}
	return &GoogleRecognizer{
		base:   baseURL,
		key:    key,
		lang:   lang,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// recognizeResponse mirrors the line-delimited JSON the endpoint streams
// back: an empty result line first, then the final hypothesis.
type recognizeResponse struct {
	Result []struct {
		Alternative []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternative"`
	} `json:"result"`
}

func (g *GoogleRecognizer) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	q := url.Values{}
	q.Set("client", "chromium")
	q.Set("lang", g.lang)
	if g.key != "" {
		q.Set("key", g.key)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.base+"?"+q.Encode(), bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", domain.ErrAudioService, err)
	}
	if mimeType == "" {
		mimeType = "audio/x-flac; rate=16000"
	}
	req.Header.Set("Content-Type", mimeType)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAudioService, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: http %d", domain.ErrAudioService, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domain.ErrAudioService, err)
	}

	// The endpoint emits one JSON object per line; the first line is
	// usually an empty result. Take the first non-empty transcript.
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var rr recognizeResponse
		if err := json.Unmarshal([]byte(line), &rr); err != nil {
			continue
		}
		for _, res := range rr.Result {
			for _, alt := range res.Alternative {
				if alt.Transcript != "" {
					return alt.Transcript, nil
				}
			}
		}
	}
	return "", domain.ErrAudioUnintelligible
}
