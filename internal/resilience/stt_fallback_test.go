package resilience

import (
	"context"
	"errors"
	"testing"

	"github.com/hqnguyen/speakdrill/pkg/provider/stt"
	sttmock "github.com/hqnguyen/speakdrill/pkg/provider/stt/mock"
)

func TestRecognizerFallback_PrimarySuccess(t *testing.T) {
	primary := &sttmock.Recognizer{Transcript: stt.Transcript{Text: "hello"}}
	secondary := &sttmock.Recognizer{Transcript: stt.Transcript{Text: "wrong"}}

	fb := NewRecognizerFallback(primary, "primary", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fb.AddFallback("secondary", secondary)

	tr, err := fb.Recognize(context.Background(), stt.Audio{SampleRate: 16000, Channels: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Text != "hello" {
		t.Fatalf("text = %q, want hello", tr.Text)
	}
	if len(secondary.RecognizeCalls) != 0 {
		t.Fatalf("secondary called %d times, want 0", len(secondary.RecognizeCalls))
	}
}

func TestRecognizerFallback_Failover(t *testing.T) {
	primary := &sttmock.Recognizer{RecognizeErr: errors.New("primary down")}
	secondary := &sttmock.Recognizer{Transcript: stt.Transcript{Text: "hello"}}

	fb := NewRecognizerFallback(primary, "primary", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fb.AddFallback("secondary", secondary)

	tr, err := fb.Recognize(context.Background(), stt.Audio{SampleRate: 16000, Channels: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Text != "hello" {
		t.Fatalf("text = %q, want hello", tr.Text)
	}
	if len(secondary.RecognizeCalls) != 1 {
		t.Fatalf("secondary called %d times, want 1", len(secondary.RecognizeCalls))
	}
}

func TestRecognizerFallback_AllFail(t *testing.T) {
	primary := &sttmock.Recognizer{RecognizeErr: errors.New("primary down")}
	secondary := &sttmock.Recognizer{RecognizeErr: errors.New("secondary down")}

	fb := NewRecognizerFallback(primary, "primary", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fb.AddFallback("secondary", secondary)

	_, err := fb.Recognize(context.Background(), stt.Audio{})
	if !errors.Is(err, ErrAllFailed) {
		t.Fatalf("err = %v, want ErrAllFailed", err)
	}
}

func TestRecognizerFallback_CloseClosesAll(t *testing.T) {
	primary := &sttmock.Recognizer{}
	secondary := &sttmock.Recognizer{}

	fb := NewRecognizerFallback(primary, "primary", FallbackConfig{})
	fb.AddFallback("secondary", secondary)

	if err := fb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !primary.Closed || !secondary.Closed {
		t.Fatalf("closed = %v/%v, want both true", primary.Closed, secondary.Closed)
	}
}

func TestRecognizerFallback_Name(t *testing.T) {
	fb := NewRecognizerFallback(&sttmock.Recognizer{}, "whisper", FallbackConfig{})
	if got := fb.Name(); got != "whisper" {
		t.Fatalf("Name() = %q, want whisper", got)
	}
}
