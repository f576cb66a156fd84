package openai_test

import (
	"context"
	"testing"

	"github.com/hqnguyen/speakdrill/pkg/provider/stt"
	"github.com/hqnguyen/speakdrill/pkg/provider/stt/openai"
)

func TestNew_EmptyAPIKey(t *testing.T) {
	t.Parallel()

	if _, err := openai.New("", ""); err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	r, err := openai.New("key", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Name() != "openai" {
		t.Errorf("Name = %q", r.Name())
	}
}

func TestRecognize_InvalidAudio(t *testing.T) {
	t.Parallel()

	r, err := openai.New("key", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := r.Recognize(context.Background(), stt.Audio{SampleRate: 16000}); err == nil {
		t.Error("expected error for empty audio")
	}
	if _, err := r.Recognize(context.Background(), stt.Audio{PCM: []byte{0, 0}}); err == nil {
		t.Error("expected error for missing sample rate")
	}
}
