// Package stt defines the Recognizer interface for Speech-to-Text backends.
//
// An STT recognizer wraps a transcription service (e.g., a local whisper
// server, Deepgram, or the OpenAI transcription endpoint) and exposes a
// uniform one-shot interface: a drill attempt is a single short utterance,
// recorded in full and then recognised, so the contract is a batch call
// rather than a streaming session. Recognition stops after the first result —
// one attempt yields at most one transcript.
//
// Implementations must be safe for concurrent use.
package stt

import "context"

// Audio is one complete recorded utterance handed to a recognizer.
type Audio struct {
	// PCM is raw 16-bit signed little-endian PCM sample data.
	PCM []byte

	// SampleRate is the sample rate in Hz (e.g., 16000, 48000).
	SampleRate int

	// Channels is the number of audio channels. Most backends require mono;
	// implementations may downmix internally.
	Channels int

	// Language is the BCP-47 language tag for recognition (e.g., "en-US").
	// Empty lets the backend auto-detect, if supported.
	Language string

	// Hints lists vocabulary the utterance is likely to contain — the target
	// word or sentence of the current drill. Backends that support keyword
	// boosting use these to improve recognition of short learner speech.
	Hints []string
}

// Transcript is the recognition result for one utterance.
type Transcript struct {
	// Text is the transcribed speech content.
	Text string

	// Confidence is the overall confidence score (0.0–1.0). May be zero if
	// the backend does not report confidence.
	Confidence float64
}

// Recognizer is the abstraction over any STT backend.
//
// Implementations must be safe for concurrent use. One drill session issues
// at most one Recognize call at a time, but multiple sessions may recognise
// in parallel.
type Recognizer interface {
	// Name returns the provider's registry name (e.g., "whisper").
	Name() string

	// Recognize transcribes a complete utterance. Returns the first (and
	// only) recognition result, or an error if the backend cannot be reached,
	// rejects the audio, or ctx is cancelled.
	Recognize(ctx context.Context, audio Audio) (Transcript, error)

	// Close releases any connections held by the backend. Calling Close more
	// than once is safe.
	Close() error
}
