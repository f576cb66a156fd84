// Package openai provides a synthesizer backed by the OpenAI speech endpoint.
package openai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"github.com/hqnguyen/speakdrill/pkg/provider/tts"
)

// DefaultModel is the default OpenAI speech model.
const DefaultModel = oai.SpeechModelTTS1

// voiceNames is the fixed voice catalogue of the speech endpoint. The API has
// no list-voices call; the set is documented and changes only with API
// releases. All voices are multilingual; they are surfaced as American
// English for the accent picker.
var voiceNames = []string{"alloy", "ash", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer"}

// Ensure Synthesizer implements the tts.Synthesizer interface.
var _ tts.Synthesizer = (*Synthesizer)(nil)

// Synthesizer implements tts.Synthesizer using the OpenAI speech endpoint.
type Synthesizer struct {
	client oai.Client
	model  string
}

// config holds optional configuration for the synthesizer.
type config struct {
	baseURL string
	timeout time.Duration
}

// Option is a functional option for Synthesizer.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// New constructs a new OpenAI speech Synthesizer.
// If model is empty, DefaultModel (tts-1) is used.
func New(apiKey string, model string, opts ...Option) (*Synthesizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai tts: apiKey must not be empty")
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.timeout,
		}))
	}

	client := oai.NewClient(reqOpts...)
	return &Synthesizer{client: client, model: model}, nil
}

// Name returns "openai".
func (s *Synthesizer) Name() string { return "openai" }

// Voices returns the endpoint's fixed voice catalogue.
func (s *Synthesizer) Voices(ctx context.Context) ([]tts.Voice, error) {
	voices := make([]tts.Voice, 0, len(voiceNames))
	for _, name := range voiceNames {
		voices = append(voices, tts.Voice{
			ID:       name,
			Name:     name,
			Language: "en-US",
			Provider: s.Name(),
		})
	}
	return voices, nil
}

// Synthesize requests WAV output for text from the speech endpoint.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, opts tts.SpeechOptions) ([]byte, error) {
	params := oai.AudioSpeechNewParams{
		Model:          s.model,
		Input:          text,
		Voice:          oai.AudioSpeechNewParamsVoiceAlloy,
		ResponseFormat: oai.AudioSpeechNewParamsResponseFormatWAV,
	}
	if opts.Voice != "" {
		params.Voice = oai.AudioSpeechNewParamsVoice(opts.Voice)
	}
	if opts.Rate != 0 {
		params.Speed = param.NewOpt(opts.Rate)
	}

	resp, err := s.client.Audio.Speech.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai tts: synthesize %q: %w", text, err)
	}
	defer resp.Body.Close()

	wav, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai tts: read speech response: %w", err)
	}
	return wav, nil
}

// Close is a no-op; the client holds no persistent connections.
func (s *Synthesizer) Close() error { return nil }
