// Package httpserver provides a synthesizer backed by a local TTS server
// that follows the Coqui TTS REST convention: synthesis via GET /api/tts with
// URL query parameters and voice discovery via GET /details.
//
// Running a local server keeps drills usable offline in a classroom with no
// cloud access.
//
// Usage:
//
//	s, err := httpserver.New("http://localhost:5002",
//	    httpserver.WithTimeout(15*time.Second),
//	)
//	wav, err := s.Synthesize(ctx, "Can you ride a bike?", tts.SpeechOptions{})
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/hqnguyen/speakdrill/pkg/provider/tts"
)

const (
	defaultTimeout  = 30 * time.Second
	ttsEndpoint     = "/api/tts"
	detailsEndpoint = "/details"
)

// Compile-time interface assertion.
var _ tts.Synthesizer = (*Synthesizer)(nil)

// Option is a functional option for configuring a Synthesizer.
type Option func(*Synthesizer)

// WithTimeout sets the per-request HTTP timeout for calls to the TTS server.
// Defaults to 30 s if not set.
func WithTimeout(d time.Duration) Option {
	return func(s *Synthesizer) {
		s.httpClient.Timeout = d
	}
}

// WithLanguage sets the language_id query parameter sent with every synthesis
// request. Leave empty for single-language models.
func WithLanguage(lang string) Option {
	return func(s *Synthesizer) {
		s.language = lang
	}
}

// Synthesizer implements tts.Synthesizer backed by a locally-running TTS
// server. It is safe for concurrent use; multiple Synthesize calls may run in
// parallel.
type Synthesizer struct {
	serverURL  string
	language   string
	httpClient *http.Client
}

// New creates a Synthesizer that targets the TTS server at serverURL
// (e.g., "http://localhost:5002"). serverURL must be non-empty.
func New(serverURL string, opts ...Option) (*Synthesizer, error) {
	if serverURL == "" {
		return nil, errors.New("httpserver: serverURL must not be empty")
	}
	s := &Synthesizer{
		serverURL: strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// detailsResponse is the JSON body returned by GET /details.
// Speakers is nil for single-speaker models and non-nil for multi-speaker models.
type detailsResponse struct {
	ModelName string   `json:"model_name"`
	Language  string   `json:"language"`
	Speakers  []string `json:"speakers"`
}

// Name returns "httpserver".
func (s *Synthesizer) Name() string { return "httpserver" }

// Voices retrieves model info via GET /details. For multi-speaker models it
// returns one Voice per speaker; for single-speaker models it returns a
// single Voice identified by the model name.
func (s *Synthesizer) Voices(ctx context.Context) ([]tts.Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.serverURL+detailsEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("httpserver: create list-voices request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpserver: GET %s: %w", detailsEndpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpserver: GET %s returned status %d", detailsEndpoint, resp.StatusCode)
	}

	var details detailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("httpserver: decode details response: %w", err)
	}

	language := details.Language
	if language == "" {
		language = "en-US"
	}

	// Multi-speaker model: return one voice per speaker, sorted for
	// deterministic output.
	if len(details.Speakers) > 0 {
		speakers := make([]string, len(details.Speakers))
		copy(speakers, details.Speakers)
		sort.Strings(speakers)

		voices := make([]tts.Voice, 0, len(speakers))
		for _, spk := range speakers {
			voices = append(voices, tts.Voice{
				ID:       spk,
				Name:     spk,
				Language: language,
				Provider: s.Name(),
			})
		}
		return voices, nil
	}

	// Single-speaker model: one voice identified by the model name.
	name := details.ModelName
	if name == "" {
		name = "default"
	}
	return []tts.Voice{{
		ID:       name,
		Name:     name,
		Language: language,
		Provider: s.Name(),
	}}, nil
}

// Synthesize performs a GET /api/tts request and returns the WAV response
// unchanged. The server has no rate parameter; opts.Rate is ignored.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, opts tts.SpeechOptions) ([]byte, error) {
	params := url.Values{}
	params.Set("text", text)
	if opts.Voice != "" {
		params.Set("speaker_id", opts.Voice)
	}
	if s.language != "" {
		params.Set("language_id", s.language)
	}

	reqURL := s.serverURL + ttsEndpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("httpserver: create tts request: %w", err)
	}
	req.Header.Set("Accept", "audio/wav")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpserver: GET %s: %w", ttsEndpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpserver: GET %s returned status %d", ttsEndpoint, resp.StatusCode)
	}

	wav, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpserver: read WAV response: %w", err)
	}
	return wav, nil
}

// Close is a no-op; requests use short-lived connections.
func (s *Synthesizer) Close() error { return nil }
