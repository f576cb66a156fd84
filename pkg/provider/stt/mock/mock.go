// Package mock provides a test double for the stt.Recognizer interface.
//
// Use Recognizer to return controlled Transcript values and inspect which
// audio was delivered.
//
// Example:
//
//	r := &mock.Recognizer{Transcript: stt.Transcript{Text: "get up", Confidence: 0.93}}
//	got, _ := r.Recognize(ctx, audio)
package mock

import (
	"context"
	"sync"

	"github.com/hqnguyen/speakdrill/pkg/provider/stt"
)

// RecognizeCall records a single invocation of Recognizer.Recognize.
type RecognizeCall struct {
	// Ctx is the context passed to Recognize.
	Ctx context.Context
	// Audio is the utterance passed to Recognize.
	Audio stt.Audio
}

// Recognizer is a mock implementation of stt.Recognizer.
type Recognizer struct {
	mu sync.Mutex

	// Transcript is returned by Recognize when RecognizeErr is nil.
	Transcript stt.Transcript

	// RecognizeErr, if non-nil, is returned as the error from Recognize.
	RecognizeErr error

	// Delay, if set via BlockUntil, makes Recognize wait for the channel to
	// close (or ctx cancellation) before returning. Used to test the
	// single-recording guard and cancellation paths.
	blockCh <-chan struct{}

	// RecognizeCalls records every call to Recognize.
	RecognizeCalls []RecognizeCall

	// Closed reports whether Close has been called.
	Closed bool
}

// BlockUntil makes subsequent Recognize calls block until ch closes or the
// call's context is cancelled.
func (r *Recognizer) BlockUntil(ch <-chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blockCh = ch
}

// Name returns "mock".
func (r *Recognizer) Name() string { return "mock" }

// Recognize records the call and returns Transcript, RecognizeErr.
func (r *Recognizer) Recognize(ctx context.Context, audio stt.Audio) (stt.Transcript, error) {
	r.mu.Lock()
	r.RecognizeCalls = append(r.RecognizeCalls, RecognizeCall{Ctx: ctx, Audio: audio})
	block := r.blockCh
	transcript := r.Transcript
	err := r.RecognizeErr
	r.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return stt.Transcript{}, ctx.Err()
		}
	}
	if err != nil {
		return stt.Transcript{}, err
	}
	return transcript, nil
}

// Close marks the recognizer closed. Always returns nil.
func (r *Recognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Closed = true
	return nil
}

// Reset clears all recorded calls. Thread-safe.
func (r *Recognizer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.RecognizeCalls = nil
}

// Ensure Recognizer implements stt.Recognizer at compile time.
var _ stt.Recognizer = (*Recognizer)(nil)
