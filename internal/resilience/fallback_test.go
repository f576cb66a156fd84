package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hqnguyen/speakdrill/pkg/provider/stt"
	sttmock "github.com/hqnguyen/speakdrill/pkg/provider/stt/mock"
	"github.com/hqnguyen/speakdrill/pkg/provider/tts"
	ttsmock "github.com/hqnguyen/speakdrill/pkg/provider/tts/mock"
)

func TestFallbackGroup_PrimaryHandlesCall(t *testing.T) {
	primary := &sttmock.Recognizer{Transcript: stt.Transcript{Text: "wash face"}}
	secondary := &sttmock.Recognizer{}

	fg := NewFallbackGroup[stt.Recognizer](primary, "whisper", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fg.AddFallback("deepgram", secondary)

	err := fg.Execute(func(r stt.Recognizer) error {
		_, err := r.Recognize(context.Background(), stt.Audio{SampleRate: 16000, Channels: 1})
		return err
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(primary.RecognizeCalls) != 1 {
		t.Fatalf("primary called %d times, want 1", len(primary.RecognizeCalls))
	}
	if len(secondary.RecognizeCalls) != 0 {
		t.Fatalf("secondary called %d times, want 0", len(secondary.RecognizeCalls))
	}
}

func TestFallbackGroup_PrimaryFailureFallsThrough(t *testing.T) {
	primary := &sttmock.Recognizer{RecognizeErr: errBackendDown}
	secondary := &sttmock.Recognizer{Transcript: stt.Transcript{Text: "wash face"}}

	fg := NewFallbackGroup[stt.Recognizer](primary, "whisper", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fg.AddFallback("deepgram", secondary)

	err := fg.Execute(func(r stt.Recognizer) error {
		_, err := r.Recognize(context.Background(), stt.Audio{SampleRate: 16000, Channels: 1})
		return err
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(secondary.RecognizeCalls) != 1 {
		t.Fatalf("secondary called %d times, want 1", len(secondary.RecognizeCalls))
	}
}

func TestFallbackGroup_AllBackendsFail(t *testing.T) {
	primary := &sttmock.Recognizer{RecognizeErr: errBackendDown}
	secondary := &sttmock.Recognizer{RecognizeErr: errBackendDown}

	fg := NewFallbackGroup[stt.Recognizer](primary, "whisper", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fg.AddFallback("deepgram", secondary)

	err := fg.Execute(func(r stt.Recognizer) error {
		_, err := r.Recognize(context.Background(), stt.Audio{})
		return err
	})
	if !errors.Is(err, ErrAllFailed) {
		t.Fatalf("err = %v, want ErrAllFailed", err)
	}
}

func TestFallbackGroup_OpenBreakerSkipsBackend(t *testing.T) {
	primary := &sttmock.Recognizer{RecognizeErr: errBackendDown}
	secondary := &sttmock.Recognizer{Transcript: stt.Transcript{Text: "wash face"}}

	fg := NewFallbackGroup[stt.Recognizer](primary, "whisper", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{
			MaxFailures:  2,
			ResetTimeout: time.Hour,
		},
	})
	fg.AddFallback("deepgram", secondary)

	run := func() error {
		return fg.Execute(func(r stt.Recognizer) error {
			_, err := r.Recognize(context.Background(), stt.Audio{SampleRate: 16000, Channels: 1})
			return err
		})
	}

	// Fail the primary enough to trip its breaker.
	for range 2 {
		if err := run(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	primaryCalls := len(primary.RecognizeCalls)

	// With the primary's circuit open, only the secondary may be dialled.
	if err := run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(primary.RecognizeCalls) != primaryCalls {
		t.Fatal("primary was dialled while its circuit was open")
	}
	if len(secondary.RecognizeCalls) != 3 {
		t.Fatalf("secondary called %d times, want 3", len(secondary.RecognizeCalls))
	}
}

func TestExecuteWithResult_ReturnsPrimaryAudio(t *testing.T) {
	primary := &ttsmock.Synthesizer{WAV: []byte("riff-primary")}
	secondary := &ttsmock.Synthesizer{WAV: []byte("riff-secondary")}

	fg := NewFallbackGroup[tts.Synthesizer](primary, "gcloud", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fg.AddFallback("openai", secondary)

	wav, err := ExecuteWithResult(fg, func(s tts.Synthesizer) ([]byte, error) {
		return s.Synthesize(context.Background(), "I get up at six o'clock.", tts.SpeechOptions{})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(wav) != "riff-primary" {
		t.Fatalf("wav = %q, want riff-primary", wav)
	}
}

func TestExecuteWithResult_Failover(t *testing.T) {
	primary := &ttsmock.Synthesizer{SynthesizeErr: errBackendDown}
	secondary := &ttsmock.Synthesizer{WAV: []byte("riff-secondary")}

	fg := NewFallbackGroup[tts.Synthesizer](primary, "gcloud", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fg.AddFallback("openai", secondary)

	wav, err := ExecuteWithResult(fg, func(s tts.Synthesizer) ([]byte, error) {
		return s.Synthesize(context.Background(), "I get up at six o'clock.", tts.SpeechOptions{})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(wav) != "riff-secondary" {
		t.Fatalf("wav = %q, want riff-secondary", wav)
	}
}

func TestExecuteWithResult_AllFail(t *testing.T) {
	primary := &ttsmock.Synthesizer{SynthesizeErr: errBackendDown}

	fg := NewFallbackGroup[tts.Synthesizer](primary, "gcloud", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})

	_, err := ExecuteWithResult(fg, func(s tts.Synthesizer) ([]byte, error) {
		return s.Synthesize(context.Background(), "hello", tts.SpeechOptions{})
	})
	if !errors.Is(err, ErrAllFailed) {
		t.Fatalf("err = %v, want ErrAllFailed", err)
	}
}
