// Package gcloud provides a Google Cloud Text-to-Speech backed synthesizer.
//
// It uses the Cloud client library with application-default credentials (or a
// service-account key via GOOGLE_APPLICATION_CREDENTIALS) and requests
// LINEAR16 output, which arrives as a complete WAV file ready to serve.
//
// Usage:
//
//	s, err := gcloud.New(ctx,
//	    gcloud.WithLanguage("en-GB"),
//	    gcloud.WithVoice("en-GB-Standard-A"),
//	)
//	wav, err := s.Synthesize(ctx, "Where are you from?", tts.SpeechOptions{Rate: 0.95})
package gcloud

import (
	"context"
	"fmt"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"

	"github.com/hqnguyen/speakdrill/pkg/provider/tts"
)

const (
	defaultLanguage   = "en-US"
	defaultSampleRate = 24000
)

// Compile-time interface assertion.
var _ tts.Synthesizer = (*Synthesizer)(nil)

// Option is a functional option for configuring a Synthesizer.
type Option func(*Synthesizer)

// WithLanguage sets the default BCP-47 language code (e.g., "en-GB").
// Defaults to "en-US".
func WithLanguage(lang string) Option {
	return func(s *Synthesizer) {
		s.language = lang
	}
}

// WithVoice sets the default voice name (e.g., "en-GB-Standard-A"). When
// empty the service picks a voice matching the language.
func WithVoice(voice string) Option {
	return func(s *Synthesizer) {
		s.voice = voice
	}
}

// WithSampleRate sets the output sample rate in Hz. Defaults to 24000.
func WithSampleRate(rate int) Option {
	return func(s *Synthesizer) {
		if rate > 0 {
			s.sampleRate = rate
		}
	}
}

// Synthesizer implements tts.Synthesizer backed by Google Cloud
// Text-to-Speech. Safe for concurrent use.
type Synthesizer struct {
	client     *texttospeech.Client
	language   string
	voice      string
	sampleRate int
}

// New creates a Synthesizer using application-default credentials.
func New(ctx context.Context, opts ...Option) (*Synthesizer, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcloud: create texttospeech client: %w", err)
	}
	s := &Synthesizer{
		client:     client,
		language:   defaultLanguage,
		sampleRate: defaultSampleRate,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Name returns "gcloud".
func (s *Synthesizer) Name() string { return "gcloud" }

// Voices lists the English voices offered by the service.
func (s *Synthesizer) Voices(ctx context.Context) ([]tts.Voice, error) {
	resp, err := s.client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{
		LanguageCode: "en",
	})
	if err != nil {
		return nil, fmt.Errorf("gcloud: list voices: %w", err)
	}

	voices := make([]tts.Voice, 0, len(resp.Voices))
	for _, v := range resp.Voices {
		lang := ""
		if len(v.LanguageCodes) > 0 {
			lang = v.LanguageCodes[0]
		}
		voices = append(voices, tts.Voice{
			ID:       v.Name,
			Name:     v.Name,
			Language: lang,
			Provider: s.Name(),
		})
	}
	return voices, nil
}

// Synthesize renders text as LINEAR16 audio, which the service returns as a
// complete WAV file.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, opts tts.SpeechOptions) ([]byte, error) {
	language := s.language
	if opts.Language != "" {
		language = opts.Language
	}
	voice := s.voice
	if opts.Voice != "" {
		voice = opts.Voice
	}
	rate := 1.0
	if opts.Rate != 0 {
		rate = opts.Rate
	}

	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: language,
			Name:         voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding:   texttospeechpb.AudioEncoding_LINEAR16,
			SampleRateHertz: int32(s.sampleRate),
			SpeakingRate:    rate,
		},
	}

	resp, err := s.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("gcloud: synthesize %q: %w", text, err)
	}
	return resp.AudioContent, nil
}

// Close releases the underlying gRPC connection.
func (s *Synthesizer) Close() error {
	return s.client.Close()
}
