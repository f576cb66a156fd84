// Package openai provides a recognizer backed by the OpenAI transcription
// endpoint. Each drill attempt is wrapped as a WAV file and submitted as one
// batch transcription request; drill hints are forwarded through the prompt
// field, which biases decoding towards the expected vocabulary.
package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"github.com/hqnguyen/speakdrill/pkg/audio"
	"github.com/hqnguyen/speakdrill/pkg/provider/stt"
)

// DefaultModel is the default OpenAI transcription model.
const DefaultModel = oai.AudioModelWhisper1

// Ensure Recognizer implements the stt.Recognizer interface.
var _ stt.Recognizer = (*Recognizer)(nil)

// Recognizer implements stt.Recognizer using the OpenAI transcription endpoint.
type Recognizer struct {
	client oai.Client
	model  string
}

// config holds optional configuration for the recognizer.
type config struct {
	baseURL string
	timeout time.Duration
}

// Option is a functional option for Recognizer.
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

// New constructs a new OpenAI transcription Recognizer.
// If model is empty, DefaultModel (whisper-1) is used.
func New(apiKey string, model string, opts ...Option) (*Recognizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai stt: apiKey must not be empty")
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
	return &Recognizer{client: client, model: model}, nil
}

// Name returns "openai".
func (r *Recognizer) Name() string { return "openai" }

// Recognize encodes the utterance as WAV and submits it for transcription.
// Stereo input is downmixed to mono before upload.
func (r *Recognizer) Recognize(ctx context.Context, a stt.Audio) (stt.Transcript, error) {
	if len(a.PCM) == 0 {
		return stt.Transcript{}, errors.New("openai stt: audio must not be empty")
	}
	if a.SampleRate <= 0 {
		return stt.Transcript{}, fmt.Errorf("openai stt: invalid sample rate %d", a.SampleRate)
	}

	pcm := a.PCM
	if a.Channels == 2 {
		pcm = audio.DownmixStereo16(pcm)
	}
	wav := audio.EncodeWAV(pcm, a.SampleRate, 1)

	params := oai.AudioTranscriptionNewParams{
		File:  oai.File(bytes.NewReader(wav), "attempt.wav", "audio/wav"),
		Model: r.model,
	}
	if a.Language != "" {
		// The endpoint expects an ISO 639-1 code, not a full BCP-47 tag.
		lang, _, _ := strings.Cut(a.Language, "-")
		params.Language = param.NewOpt(lang)
	}
	if len(a.Hints) > 0 {
		params.Prompt = param.NewOpt(strings.Join(a.Hints, ", "))
	}

	resp, err := r.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return stt.Transcript{}, fmt.Errorf("openai stt: transcribe: %w", err)
	}

	return stt.Transcript{Text: strings.TrimSpace(resp.Text)}, nil
}

// Close is a no-op; the client holds no persistent connections.
func (r *Recognizer) Close() error { return nil }
