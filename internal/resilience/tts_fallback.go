package resilience

import (
	"context"
	"errors"

	"github.com/hqnguyen/speakdrill/pkg/provider/tts"
)

// SynthesizerFallback implements [tts.Synthesizer] with automatic failover
// across multiple synthesis backends. Each backend has its own circuit breaker.
//
// Voice identifiers are provider-specific, so a failover synthesis may fall
// back to the secondary's default voice rather than the requested one.
type SynthesizerFallback struct {
	name    string
	group   *FallbackGroup[tts.Synthesizer]
	closers []func() error
}

// Compile-time interface assertion.
var _ tts.Synthesizer = (*SynthesizerFallback)(nil)

// NewSynthesizerFallback creates a [SynthesizerFallback] with primary as the
// preferred backend.
func NewSynthesizerFallback(primary tts.Synthesizer, primaryName string, cfg FallbackConfig) *SynthesizerFallback {
	return &SynthesizerFallback{
		name:    primaryName,
		group:   NewFallbackGroup(primary, primaryName, cfg),
		closers: []func() error{primary.Close},
	}
}

// AddFallback registers an additional synthesizer. Fallbacks are tried in the
// order they are added, after the primary.
func (f *SynthesizerFallback) AddFallback(name string, s tts.Synthesizer) {
	f.group.AddFallback(name, s)
	f.closers = append(f.closers, s.Close)
}

// Name returns the primary backend's name.
func (f *SynthesizerFallback) Name() string { return f.name }

// Voices lists available voices from the first healthy backend.
func (f *SynthesizerFallback) Voices(ctx context.Context) ([]tts.Voice, error) {
	return ExecuteWithResult(f.group, func(s tts.Synthesizer) ([]tts.Voice, error) {
		return s.Voices(ctx)
	})
}

// Synthesize renders text using the first healthy backend.
func (f *SynthesizerFallback) Synthesize(ctx context.Context, text string, opts tts.SpeechOptions) ([]byte, error) {
	return ExecuteWithResult(f.group, func(s tts.Synthesizer) ([]byte, error) {
		return s.Synthesize(ctx, text, opts)
	})
}

// Close closes every backend, primary included.
func (f *SynthesizerFallback) Close() error {
	var errs []error
	for _, c := range f.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
