// Package tts generates speech for Karen's responses through the Hugging
// Face inference API.
package tts

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultModelURL = "https://api-inference.huggingface.co/models/microsoft/speecht5_tts"

// placeholderTokens are values left behind by .env templates; any of them
// means the speech collaborator is disabled, not misconfigured.
var placeholderTokens = map[string]struct{}{
	"":                   {},
	"hf_xxx":             {},
	"your_hf_token_here": {},
	"seu_token_aqui":     {},
}

// IsPlaceholder reports whether token is absent or a known template value.
func IsPlaceholder(token string) bool {
	_, ok := placeholderTokens[strings.ToLower(strings.TrimSpace(token))]
	return ok
}

// Service handles speech synthesis. A nil Service means audio is disabled.
type Service struct {
	token    string
	modelURL string
	http     *http.Client
}

// New creates a speech Service, or nil when the token is a placeholder so
// interactions degrade to text-only.
func New(token, modelURL string) *Service {
	if IsPlaceholder(token) {
		return nil
	}
	if strings.TrimSpace(modelURL) == "" {
		modelURL = DefaultModelURL
	}
	return &Service{
		token:    strings.TrimSpace(token),
		modelURL: modelURL,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

// Enabled reports whether synthesis is available.
func (s *Service) Enabled() bool {
	return s != nil
}

type synthesisRequest struct {
	Inputs  string `json:"inputs"`
	Options struct {
		WaitForModel bool `json:"wait_for_model"`
	} `json:"options"`
}

// Synthesize returns raw audio bytes for the given text.
func (s *Service) Synthesize(text string) ([]byte, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("speech synthesis not configured")
	}

	reqBody := synthesisRequest{Inputs: text}
	reqBody.Options.WaitForModel = true

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", s.modelURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts error (status %d): %s", resp.StatusCode, string(audio))
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio response")
	}
	return audio, nil
}

// DataURI encodes raw audio into the data URI carried by the interact
// response payload.
func DataURI(audio []byte) string {
	return "data:audio/wav;base64," + base64.StdEncoding.EncodeToString(audio)
}
