package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hqnguyen/speakdrill/internal/config"
	"github.com/hqnguyen/speakdrill/pkg/provider/stt"
	"github.com/hqnguyen/speakdrill/pkg/provider/tts"
)

type fakeRecognizer struct{ model string }

func (f *fakeRecognizer) Name() string { return "fake" }
func (f *fakeRecognizer) Recognize(ctx context.Context, audio stt.Audio) (stt.Transcript, error) {
	return stt.Transcript{}, nil
}
func (f *fakeRecognizer) Close() error { return nil }

type fakeSynthesizer struct{}

func (f *fakeSynthesizer) Name() string { return "fake" }
func (f *fakeSynthesizer) Voices(ctx context.Context) ([]tts.Voice, error) {
	return nil, nil
}
func (f *fakeSynthesizer) Synthesize(ctx context.Context, text string, opts tts.SpeechOptions) ([]byte, error) {
	return nil, nil
}
func (f *fakeSynthesizer) Close() error { return nil }

func TestRegistry_CreateSTT(t *testing.T) {
	t.Parallel()

	r := config.NewRegistry()
	r.RegisterSTT("fake", func(e config.ProviderEntry) (stt.Recognizer, error) {
		return &fakeRecognizer{model: e.Model}, nil
	})

	p, err := r.CreateSTT(config.ProviderEntry{Name: "fake", Model: "tiny"})
	if err != nil {
		t.Fatalf("CreateSTT: unexpected error: %v", err)
	}
	fr, ok := p.(*fakeRecognizer)
	if !ok {
		t.Fatalf("CreateSTT: unexpected type %T", p)
	}
	if fr.model != "tiny" {
		t.Errorf("factory did not receive entry: model = %q", fr.model)
	}
}

func TestRegistry_CreateTTS(t *testing.T) {
	t.Parallel()

	r := config.NewRegistry()
	r.RegisterTTS("fake", func(e config.ProviderEntry) (tts.Synthesizer, error) {
		return &fakeSynthesizer{}, nil
	})

	if _, err := r.CreateTTS(config.ProviderEntry{Name: "fake"}); err != nil {
		t.Fatalf("CreateTTS: unexpected error: %v", err)
	}
}

func TestRegistry_NotRegistered(t *testing.T) {
	t.Parallel()

	r := config.NewRegistry()
	if _, err := r.CreateSTT(config.ProviderEntry{Name: "ghost"}); !errors.Is(err, config.ErrProviderNotRegistered) {
		t.Errorf("CreateSTT: expected ErrProviderNotRegistered, got %v", err)
	}
	if _, err := r.CreateTTS(config.ProviderEntry{Name: "ghost"}); !errors.Is(err, config.ErrProviderNotRegistered) {
		t.Errorf("CreateTTS: expected ErrProviderNotRegistered, got %v", err)
	}
}

func TestRegistry_Overwrite(t *testing.T) {
	t.Parallel()

	r := config.NewRegistry()
	r.RegisterTTS("fake", func(e config.ProviderEntry) (tts.Synthesizer, error) {
		return nil, errors.New("old factory")
	})
	r.RegisterTTS("fake", func(e config.ProviderEntry) (tts.Synthesizer, error) {
		return &fakeSynthesizer{}, nil
	})

	if _, err := r.CreateTTS(config.ProviderEntry{Name: "fake"}); err != nil {
		t.Fatalf("CreateTTS: expected the newer factory to win, got %v", err)
	}
}
