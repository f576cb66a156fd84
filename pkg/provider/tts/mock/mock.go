// Package mock provides a test double for the tts.Synthesizer interface.
//
// Use Synthesizer to return controlled WAV bytes and voice lists and inspect
// which texts were synthesised.
package mock

import (
	"context"
	"sync"

	"github.com/hqnguyen/speakdrill/pkg/provider/tts"
)

// SynthesizeCall records a single invocation of Synthesizer.Synthesize.
type SynthesizeCall struct {
	// Ctx is the context passed to Synthesize.
	Ctx context.Context
	// Text is the utterance text passed to Synthesize.
	Text string
	// Opts are the speech options passed to Synthesize.
	Opts tts.SpeechOptions
}

// Synthesizer is a mock implementation of tts.Synthesizer.
type Synthesizer struct {
	mu sync.Mutex

	// WAV is returned by Synthesize when SynthesizeErr is nil.
	WAV []byte

	// SynthesizeErr, if non-nil, is returned as the error from Synthesize.
	SynthesizeErr error

	// VoiceList is returned by Voices when VoicesErr is nil.
	VoiceList []tts.Voice

	// VoicesErr, if non-nil, is returned as the error from Voices.
	VoicesErr error

	// SynthesizeCalls records every call to Synthesize.
	SynthesizeCalls []SynthesizeCall

	// VoicesCalls counts calls to Voices.
	VoicesCalls int

	// Closed reports whether Close has been called.
	Closed bool
}

// Name returns "mock".
func (s *Synthesizer) Name() string { return "mock" }

// Voices records the call and returns VoiceList, VoicesErr.
func (s *Synthesizer) Voices(ctx context.Context) ([]tts.Voice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.VoicesCalls++
	if s.VoicesErr != nil {
		return nil, s.VoicesErr
	}
	return s.VoiceList, nil
}

// Synthesize records the call and returns WAV, SynthesizeErr.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, opts tts.SpeechOptions) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SynthesizeCalls = append(s.SynthesizeCalls, SynthesizeCall{Ctx: ctx, Text: text, Opts: opts})
	if s.SynthesizeErr != nil {
		return nil, s.SynthesizeErr
	}
	return s.WAV, nil
}

// Close marks the synthesizer closed. Always returns nil.
func (s *Synthesizer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

// Reset clears all recorded calls. Thread-safe.
func (s *Synthesizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SynthesizeCalls = nil
	s.VoicesCalls = 0
}

// Ensure Synthesizer implements tts.Synthesizer at compile time.
var _ tts.Synthesizer = (*Synthesizer)(nil)
