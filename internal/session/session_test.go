package session_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hqnguyen/speakdrill/internal/catalog"
	"github.com/hqnguyen/speakdrill/internal/config"
	"github.com/hqnguyen/speakdrill/internal/drill"
	"github.com/hqnguyen/speakdrill/internal/session"
	"github.com/hqnguyen/speakdrill/pkg/provider/stt"
	sttmock "github.com/hqnguyen/speakdrill/pkg/provider/stt/mock"
)

func newSession(t *testing.T, rec stt.Recognizer, opts ...session.Option) *session.Session {
	t.Helper()
	s, err := session.New(catalog.BuiltIn(), rec, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNew_StartsOnFirstUnit(t *testing.T) {
	t.Parallel()

	s := newSession(t, &sttmock.Recognizer{})
	snap := s.Snapshot()

	if snap.UnitID != 1 {
		t.Errorf("UnitID = %d, want 1", snap.UnitID)
	}
	if snap.Mode != drill.ModeVocabulary {
		t.Errorf("Mode = %q, want vocabulary", snap.Mode)
	}
	if snap.Word == "" {
		t.Error("expected a current vocabulary word")
	}
	if snap.Question == "" || snap.Answer == "" {
		t.Errorf("expected a sentence pair, got %q / %q", snap.Question, snap.Answer)
	}
	if snap.Rate != 1.0 {
		t.Errorf("Rate = %v, want 1.0", snap.Rate)
	}
}

func TestSetUnit_ResetsSlotState(t *testing.T) {
	t.Parallel()

	s := newSession(t, &sttmock.Recognizer{})
	s.SetSlot("country", "Japan")
	s.NextWord()
	s.NextWord()

	snap, err := s.SetUnit(2)
	if err != nil {
		t.Fatalf("SetUnit: %v", err)
	}
	if snap.UnitID != 2 {
		t.Errorf("UnitID = %d, want 2", snap.UnitID)
	}
	if len(snap.Slots) != 0 {
		t.Errorf("slots leaked across units: %v", snap.Slots)
	}
	if snap.WordIndex != 0 {
		t.Errorf("WordIndex = %d, want 0", snap.WordIndex)
	}
	if snap.LastScore != 0 {
		t.Errorf("LastScore = %d, want 0", snap.LastScore)
	}
}

func TestSetUnit_Unknown(t *testing.T) {
	t.Parallel()

	s := newSession(t, &sttmock.Recognizer{})
	if _, err := s.SetUnit(99); !errors.Is(err, session.ErrUnknownUnit) {
		t.Errorf("err = %v, want ErrUnknownUnit", err)
	}
}

func TestSetMode(t *testing.T) {
	t.Parallel()

	s := newSession(t, &sttmock.Recognizer{})
	snap, err := s.SetMode(drill.ModeSentence)
	if err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if snap.Mode != drill.ModeSentence {
		t.Errorf("Mode = %q, want sentence", snap.Mode)
	}

	if _, err := s.SetMode("karaoke"); !errors.Is(err, session.ErrUnknownMode) {
		t.Errorf("err = %v, want ErrUnknownMode", err)
	}
}

func TestSetSlot_RecomputesSentence(t *testing.T) {
	t.Parallel()

	s := newSession(t, &sttmock.Recognizer{})
	snap := s.SetSlot("country", "Japan")

	if !strings.Contains(snap.Answer, "Japan") {
		t.Errorf("Answer = %q, want it to mention Japan", snap.Answer)
	}
}

func TestWordNavigation_Wraparound(t *testing.T) {
	t.Parallel()

	s := newSession(t, &sttmock.Recognizer{})
	first := s.Snapshot()

	// Back from index 0 wraps to the last word.
	back := s.PrevWord()
	if back.WordIndex != len(wordsOfUnit(t, first.UnitID))-1 {
		t.Errorf("PrevWord from 0: index = %d", back.WordIndex)
	}

	// Forward wraps back to the first word.
	fwd := s.NextWord()
	if fwd.WordIndex != 0 || fwd.Word != first.Word {
		t.Errorf("NextWord after wrap: index = %d, word = %q", fwd.WordIndex, fwd.Word)
	}
}

func wordsOfUnit(t *testing.T, id int) []string {
	t.Helper()
	u, ok := catalog.BuiltIn().Unit(id)
	if !ok {
		t.Fatalf("unit %d missing", id)
	}
	return u.Vocab
}

func TestSetVoice_ClampsRate(t *testing.T) {
	t.Parallel()

	s := newSession(t, &sttmock.Recognizer{})

	snap := s.SetVoice("Google UK English Female", 3.0)
	if snap.Voice != "Google UK English Female" {
		t.Errorf("Voice = %q", snap.Voice)
	}
	if snap.Rate != 1.4 {
		t.Errorf("Rate = %v, want clamp to 1.4", snap.Rate)
	}

	snap = s.SetVoice("", 0.1)
	if snap.Rate != 0.7 {
		t.Errorf("Rate = %v, want clamp to 0.7", snap.Rate)
	}
	if snap.Voice != "Google UK English Female" {
		t.Errorf("empty voice should keep the previous selection, got %q", snap.Voice)
	}
}

func TestAttempt_PerfectMatch(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		toasts []session.Toast
	)
	rec := &sttmock.Recognizer{}
	s := newSession(t, rec, session.WithToastSink(func(to session.Toast) {
		mu.Lock()
		toasts = append(toasts, to)
		mu.Unlock()
	}))

	word := s.Snapshot().Word
	rec.Transcript = stt.Transcript{Text: word, Confidence: 0.95}

	res, err := s.Attempt(context.Background(), stt.Audio{PCM: []byte{0, 0}, SampleRate: 16000})
	if err != nil {
		t.Fatalf("Attempt: %v", err)
	}
	if res.Feedback.Score != drill.MaxScore {
		t.Errorf("Score = %d, want %d", res.Feedback.Score, drill.MaxScore)
	}
	if res.Feedback.Cue != drill.CueApplause {
		t.Errorf("Cue = %q, want applause", res.Feedback.Cue)
	}
	if res.Heard != word {
		t.Errorf("Heard = %q, want %q", res.Heard, word)
	}
	if s.Snapshot().LastScore != drill.MaxScore {
		t.Errorf("LastScore = %d", s.Snapshot().LastScore)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(toasts) != 1 || toasts[0].Kind != drill.ToastOK {
		t.Errorf("toasts = %+v, want one ok toast", toasts)
	}
	if toasts[0].Timeout != session.DefaultToastTimeout {
		t.Errorf("toast timeout = %v", toasts[0].Timeout)
	}
}

func TestAttempt_SentenceModeTargetsAnswer(t *testing.T) {
	t.Parallel()

	rec := &sttmock.Recognizer{}
	s := newSession(t, rec)
	if _, err := s.SetMode(drill.ModeSentence); err != nil {
		t.Fatalf("SetMode: %v", err)
	}

	rec.Transcript = stt.Transcript{Text: s.Snapshot().Answer}
	res, err := s.Attempt(context.Background(), stt.Audio{PCM: []byte{0, 0}, SampleRate: 16000})
	if err != nil {
		t.Fatalf("Attempt: %v", err)
	}
	if res.Feedback.Score != drill.MaxScore {
		t.Errorf("Score = %d, want %d", res.Feedback.Score, drill.MaxScore)
	}
}

func TestAttempt_FillsAudioDefaults(t *testing.T) {
	t.Parallel()

	rec := &sttmock.Recognizer{Transcript: stt.Transcript{Text: "hello"}}
	s := newSession(t, rec, session.WithSpeech(config.SpeechConfig{Language: "en-GB"}))

	if _, err := s.Attempt(context.Background(), stt.Audio{PCM: []byte{0, 0}, SampleRate: 16000}); err != nil {
		t.Fatalf("Attempt: %v", err)
	}

	if len(rec.RecognizeCalls) != 1 {
		t.Fatalf("recognize calls = %d", len(rec.RecognizeCalls))
	}
	got := rec.RecognizeCalls[0].Audio
	if got.Language != "en-GB" {
		t.Errorf("Language = %q, want en-GB", got.Language)
	}
	if len(got.Hints) == 0 {
		t.Error("expected the unit vocabulary as recognition hints")
	}
}

func TestAttempt_SingleRecordingGuard(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	rec := &sttmock.Recognizer{Transcript: stt.Transcript{Text: "hello"}}
	rec.BlockUntil(block)
	s := newSession(t, rec)

	errCh := make(chan error, 1)
	go func() {
		_, err := s.Attempt(context.Background(), stt.Audio{PCM: []byte{0, 0}, SampleRate: 16000})
		errCh <- err
	}()

	// Wait for the first attempt to reach the recognizer.
	deadline := time.After(2 * time.Second)
	for !s.Recording() {
		select {
		case <-deadline:
			t.Fatal("first attempt never started recording")
		case <-time.After(time.Millisecond):
		}
	}

	if _, err := s.Attempt(context.Background(), stt.Audio{PCM: []byte{0, 0}, SampleRate: 16000}); !errors.Is(err, session.ErrRecordingActive) {
		t.Errorf("second attempt err = %v, want ErrRecordingActive", err)
	}

	close(block)
	if err := <-errCh; err != nil {
		t.Errorf("first attempt err = %v", err)
	}
	if s.Recording() {
		t.Error("recording flag still set after attempt finished")
	}
}

func TestAttempt_Cancel(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	defer close(block)
	rec := &sttmock.Recognizer{}
	rec.BlockUntil(block)
	s := newSession(t, rec)

	errCh := make(chan error, 1)
	go func() {
		_, err := s.Attempt(context.Background(), stt.Audio{PCM: []byte{0, 0}, SampleRate: 16000})
		errCh <- err
	}()

	deadline := time.After(2 * time.Second)
	for !s.Recording() {
		select {
		case <-deadline:
			t.Fatal("attempt never started recording")
		case <-time.After(time.Millisecond):
		}
	}

	s.Cancel()

	// Cancel returns only after the attempt has unwound.
	if s.Recording() {
		t.Error("recording still active after Cancel returned")
	}
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("attempt err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("attempt did not return after Cancel")
	}
}

func TestAttempt_RecordWindowTimeout(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	defer close(block)
	rec := &sttmock.Recognizer{}
	rec.BlockUntil(block)
	s := newSession(t, rec, session.WithDrillConfig(config.DrillConfig{RecordWindow: 20 * time.Millisecond}))

	_, err := s.Attempt(context.Background(), stt.Audio{PCM: []byte{0, 0}, SampleRate: 16000})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestAttempt_RecognizerErrorEmitsBadToast(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		toasts []session.Toast
	)
	rec := &sttmock.Recognizer{RecognizeErr: errors.New("mic on fire")}
	s := newSession(t, rec, session.WithToastSink(func(to session.Toast) {
		mu.Lock()
		toasts = append(toasts, to)
		mu.Unlock()
	}))

	if _, err := s.Attempt(context.Background(), stt.Audio{PCM: []byte{0, 0}, SampleRate: 16000}); err == nil {
		t.Fatal("expected error from failing recognizer")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(toasts) != 1 || toasts[0].Kind != drill.ToastBad {
		t.Errorf("toasts = %+v, want one bad toast", toasts)
	}
}

func TestAttempt_SuggestsClosestWord(t *testing.T) {
	t.Parallel()

	rec := &sttmock.Recognizer{}
	s := newSession(t, rec)

	// Unit 2 drills daily routines; aim past the current word at another
	// vocabulary entry with a slightly mangled transcript.
	if _, err := s.SetUnit(2); err != nil {
		t.Fatalf("SetUnit: %v", err)
	}
	vocab := wordsOfUnit(t, 2)
	if len(vocab) < 2 {
		t.Skip("unit 2 needs at least two words")
	}
	target := vocab[len(vocab)-1]
	rec.Transcript = stt.Transcript{Text: target}

	res, err := s.Attempt(context.Background(), stt.Audio{PCM: []byte{0, 0}, SampleRate: 16000})
	if err != nil {
		t.Fatalf("Attempt: %v", err)
	}
	if res.Feedback.Score >= 7 {
		t.Skipf("transcript %q scored %d against %q, no suggestion expected", target, res.Feedback.Score, vocab[0])
	}
	if res.Suggestion != target {
		t.Errorf("Suggestion = %q, want %q", res.Suggestion, target)
	}
}

func TestClose_Idempotent(t *testing.T) {
	t.Parallel()

	s, err := session.New(catalog.BuiltIn(), &sttmock.Recognizer{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
