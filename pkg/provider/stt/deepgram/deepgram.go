// Package deepgram provides a Deepgram-backed recognizer using the Deepgram
// streaming WebSocket API. Each drill attempt opens one short-lived socket:
// the utterance is written in chunks, the stream is closed, and the final
// results are collected into a single transcript. Drill hints are forwarded
// as Deepgram keyword boosts.
package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/coder/websocket"

	"github.com/hqnguyen/speakdrill/pkg/provider/stt"
)

const (
	defaultEndpoint = "wss://api.deepgram.com/v1/listen"
	defaultModel    = "nova-3"
	defaultLanguage = "en"

	// hintBoost is the keyword boost applied to drill hints. Deepgram's
	// recommended range is 1-10; learner speech is short and close to the
	// target, so a modest boost avoids false positives.
	hintBoost = 3.0

	// chunkSize is the size of each binary audio message. Deepgram recommends
	// chunks in the 20-250 ms range; 8 KiB is 256 ms of 16 kHz mono PCM.
	chunkSize = 8192
)

// Compile-time assertion that Recognizer implements stt.Recognizer.
var _ stt.Recognizer = (*Recognizer)(nil)

// Option is a functional option for configuring the Recognizer.
type Option func(*Recognizer)

// WithModel sets the Deepgram model to use (e.g., "nova-3", "base").
func WithModel(model string) Option {
	return func(r *Recognizer) {
		r.model = model
	}
}

// WithLanguage sets the language code for recognition (e.g., "en", "en-GB").
func WithLanguage(language string) Option {
	return func(r *Recognizer) {
		r.language = language
	}
}

// WithEndpoint overrides the Deepgram streaming endpoint. Used in tests to
// point at a local WebSocket server.
func WithEndpoint(endpoint string) Option {
	return func(r *Recognizer) {
		r.endpoint = endpoint
	}
}

// Recognizer implements stt.Recognizer backed by the Deepgram streaming API.
type Recognizer struct {
	apiKey   string
	model    string
	language string
	endpoint string
}

// New creates a new Deepgram Recognizer. apiKey must be non-empty.
func New(apiKey string, opts ...Option) (*Recognizer, error) {
	if apiKey == "" {
		return nil, errors.New("deepgram: apiKey must not be empty")
	}
	r := &Recognizer{
		apiKey:   apiKey,
		model:    defaultModel,
		language: defaultLanguage,
		endpoint: defaultEndpoint,
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// Name returns "deepgram".
func (r *Recognizer) Name() string { return "deepgram" }

// deepgramResponse is the JSON structure returned by Deepgram for a Results event.
type deepgramResponse struct {
	Type    string `json:"type"`
	IsFinal bool   `json:"is_final"`
	Channel struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"channel"`
}

// Recognize streams the utterance over a fresh WebSocket connection and
// returns the combined final transcript. The connection is closed before
// returning.
func (r *Recognizer) Recognize(ctx context.Context, a stt.Audio) (stt.Transcript, error) {
	if len(a.PCM) == 0 {
		return stt.Transcript{}, errors.New("deepgram: audio must not be empty")
	}
	if a.SampleRate <= 0 {
		return stt.Transcript{}, fmt.Errorf("deepgram: invalid sample rate %d", a.SampleRate)
	}

	wsURL, err := r.buildURL(a)
	if err != nil {
		return stt.Transcript{}, fmt.Errorf("deepgram: build URL: %w", err)
	}

	headers := http.Header{}
	headers.Set("Authorization", "Token "+r.apiKey)

	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		HTTPHeader: headers,
	})
	if err != nil {
		return stt.Transcript{}, fmt.Errorf("deepgram: dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "attempt recognised")

	// Write the utterance in chunks, then tell Deepgram the stream is done so
	// it flushes its final results and closes the socket.
	pcm := a.PCM
	for len(pcm) > 0 {
		end := min(chunkSize, len(pcm))
		if err := conn.Write(ctx, websocket.MessageBinary, pcm[:end]); err != nil {
			return stt.Transcript{}, fmt.Errorf("deepgram: write audio: %w", err)
		}
		pcm = pcm[end:]
	}
	if err := conn.Write(ctx, websocket.MessageText, []byte(`{"type":"CloseStream"}`)); err != nil {
		return stt.Transcript{}, fmt.Errorf("deepgram: close stream: %w", err)
	}

	// Collect final results until the server closes the connection.
	var (
		parts      []string
		confidence float64
		finals     int
	)
	for {
		_, msg, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return stt.Transcript{}, fmt.Errorf("deepgram: read results: %w", ctx.Err())
			}
			// Normal close: the server has flushed everything it will send.
			break
		}

		var resp deepgramResponse
		if err := json.Unmarshal(msg, &resp); err != nil {
			continue
		}
		if resp.Type != "Results" || !resp.IsFinal || len(resp.Channel.Alternatives) == 0 {
			continue
		}
		alt := resp.Channel.Alternatives[0]
		if alt.Transcript == "" {
			continue
		}
		parts = append(parts, alt.Transcript)
		confidence += alt.Confidence
		finals++
	}

	if finals == 0 {
		return stt.Transcript{}, nil
	}
	return stt.Transcript{
		Text:       strings.Join(parts, " "),
		Confidence: confidence / float64(finals),
	}, nil
}

// buildURL constructs the streaming endpoint URL for the given utterance.
func (r *Recognizer) buildURL(a stt.Audio) (string, error) {
	u, err := url.Parse(r.endpoint)
	if err != nil {
		return "", err
	}

	lang := a.Language
	if lang == "" {
		lang = r.language
	}
	channels := a.Channels
	if channels <= 0 {
		channels = 1
	}

	q := u.Query()
	q.Set("model", r.model)
	q.Set("language", lang)
	q.Set("punctuate", "true")
	q.Set("interim_results", "false")
	q.Set("encoding", "linear16")
	q.Set("sample_rate", strconv.Itoa(a.SampleRate))
	q.Set("channels", strconv.Itoa(channels))

	for _, hint := range a.Hints {
		// Deepgram keyword format: word:boost (e.g., "breakfast:3")
		q.Add("keywords", fmt.Sprintf("%s:%g", hint, hintBoost))
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Close is a no-op; each Recognize call owns its own connection.
func (r *Recognizer) Close() error { return nil }
