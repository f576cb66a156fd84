package resilience

import (
	"context"
	"errors"

	"github.com/hqnguyen/speakdrill/pkg/provider/stt"
)

// RecognizerFallback implements [stt.Recognizer] with automatic failover across
// multiple recognition backends. Each backend has its own circuit breaker.
type RecognizerFallback struct {
	name    string
	group   *FallbackGroup[stt.Recognizer]
	closers []func() error
}

// Compile-time interface assertion.
var _ stt.Recognizer = (*RecognizerFallback)(nil)

// NewRecognizerFallback creates a [RecognizerFallback] with primary as the
// preferred backend.
func NewRecognizerFallback(primary stt.Recognizer, primaryName string, cfg FallbackConfig) *RecognizerFallback {
	return &RecognizerFallback{
		name:    primaryName,
		group:   NewFallbackGroup(primary, primaryName, cfg),
		closers: []func() error{primary.Close},
	}
}

// AddFallback registers an additional recognizer. Fallbacks are tried in the
// order they are added, after the primary.
func (f *RecognizerFallback) AddFallback(name string, rec stt.Recognizer) {
	f.group.AddFallback(name, rec)
	f.closers = append(f.closers, rec.Close)
}

// Name returns the primary backend's name.
func (f *RecognizerFallback) Name() string { return f.name }

// Recognize transcribes audio using the first healthy backend. A backend whose
// circuit breaker is open is skipped without being called.
func (f *RecognizerFallback) Recognize(ctx context.Context, audio stt.Audio) (stt.Transcript, error) {
	return ExecuteWithResult(f.group, func(r stt.Recognizer) (stt.Transcript, error) {
		return r.Recognize(ctx, audio)
	})
}

// Close closes every backend, primary included.
func (f *RecognizerFallback) Close() error {
	var errs []error
	for _, c := range f.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
