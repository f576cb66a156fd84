// Package tts defines the Synthesizer interface for Text-to-Speech backends.
//
// A TTS synthesizer wraps a speech synthesis service (e.g., Google Cloud
// Text-to-Speech, the OpenAI speech endpoint, or a local TTS server) and
// presents a uniform batch interface: one call produces one complete WAV
// utterance. Drill utterances are a few words long, so batch synthesis keeps
// latency low without the complexity of a streaming protocol.
//
// Implementations must be safe for concurrent use.
package tts

import "context"

// Voice describes a single selectable voice from a synthesis backend.
type Voice struct {
	// ID is the provider-specific voice identifier (e.g., "en-GB-Standard-A").
	ID string

	// Name is the human-readable display name.
	Name string

	// Language is the BCP-47 language tag of the voice (e.g., "en-US").
	Language string

	// Provider is the name of the backend that owns this voice.
	Provider string
}

// SpeechOptions carries per-request synthesis parameters. Zero values mean
// the provider's defaults.
type SpeechOptions struct {
	// Voice is the provider-specific voice ID. Empty selects the provider's
	// default voice.
	Voice string

	// Language is the BCP-47 language tag. Empty means the provider default
	// (typically "en-US").
	Language string

	// Rate adjusts speaking rate in the range [0.5, 2.0]. 0 means default.
	// Drills use a slightly slowed rate so young learners can follow.
	Rate float64
}

// Synthesizer is the abstraction over any TTS backend.
//
// Implementations must be safe for concurrent use; the question, model answer,
// and feedback utterances of one attempt may be synthesised in parallel.
type Synthesizer interface {
	// Name returns the provider's registry name (e.g., "gcloud").
	Name() string

	// Voices returns all voices available from this backend. The list reflects
	// the backend's current catalogue and may change between calls.
	Voices(ctx context.Context) ([]Voice, error)

	// Synthesize renders text as a complete WAV file (16-bit PCM) and returns
	// its bytes. Returns an error if the backend cannot be reached, rejects
	// the request, or ctx is cancelled.
	Synthesize(ctx context.Context, text string, opts SpeechOptions) ([]byte, error)

	// Close releases any connections held by the backend. Calling Close more
	// than once is safe.
	Close() error
}
