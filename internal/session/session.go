// Package session tracks one learner's drill state: the active unit, the
// practice mode, the sentence-builder slot selections, the current vocabulary
// word, and the single in-flight recording.
//
// A Session serialises all state access behind a mutex so the WebSocket
// transport can drive it from concurrent reader/writer goroutines. Recording
// is single-shot: at most one recognition attempt runs at a time, a second
// Attempt fails with [ErrRecordingActive], and Cancel aborts the in-flight
// attempt before returning.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hqnguyen/speakdrill/internal/catalog"
	"github.com/hqnguyen/speakdrill/internal/config"
	"github.com/hqnguyen/speakdrill/internal/drill"
	"github.com/hqnguyen/speakdrill/internal/grammar"
	"github.com/hqnguyen/speakdrill/internal/observe"
	"github.com/hqnguyen/speakdrill/pkg/provider/stt"
)

// Sentinel errors returned by session operations.
var (
	// ErrRecordingActive is returned by Attempt when a recognition attempt is
	// already in flight for this session.
	ErrRecordingActive = errors.New("session: a recording is already active")

	// ErrUnknownUnit is returned by SetUnit for a unit id not in the course.
	ErrUnknownUnit = errors.New("session: unknown unit")

	// ErrUnknownMode is returned by SetMode for an unrecognised practice mode.
	ErrUnknownMode = errors.New("session: unknown mode")
)

// DefaultMatchThreshold is the minimum Jaro-Winkler similarity for a
// vocabulary suggestion to be offered on a near-miss.
const DefaultMatchThreshold = 0.84

// DefaultToastTimeout is how long a toast stays on screen before the UI
// auto-dismisses it.
const DefaultToastTimeout = 3500 * time.Millisecond

// recognizeErrToast is shown when the recognizer fails or nothing was heard.
const recognizeErrToast = "🎙️ Không nghe được. Kiểm tra micro rồi thử lại nhé."

// Toast is a transient UI notification with an auto-dismiss timeout.
type Toast struct {
	Kind    drill.ToastKind `json:"kind"`
	Message string          `json:"message"`
	Timeout time.Duration   `json:"timeout"`
}

// Snapshot is a point-in-time view of the session state, safe to hand to the
// transport layer without further locking.
type Snapshot struct {
	UnitID       int             `json:"unit_id"`
	Mode         drill.Mode      `json:"mode"`
	Slots        grammar.Slots   `json:"slots"`
	WordIndex    int             `json:"word_index"`
	Word         string          `json:"word"`
	Illustration string          `json:"illustration"`
	Question     string          `json:"question"`
	Answer       string          `json:"answer"`
	Voice        string          `json:"voice"`
	Rate         float64         `json:"rate"`
	LastScore    int             `json:"last_score"`
}

// AttemptResult is the outcome of one scored recognition attempt.
type AttemptResult struct {
	// Heard is the raw transcript returned by the recognizer.
	Heard string

	// Feedback carries the score, toast copy, cue, and praise utterance.
	Feedback drill.Feedback

	// Suggestion, when non-empty, names the vocabulary entry the attempt was
	// probably aiming at. Only set for low-scoring vocabulary attempts.
	Suggestion string
}

// Option configures a Session.
type Option func(*Session)

// WithDrillConfig applies scoring and recording tunables.
func WithDrillConfig(cfg config.DrillConfig) Option {
	return func(s *Session) {
		if cfg.MatchThreshold > 0 {
			s.matchThreshold = cfg.MatchThreshold
		}
		s.recordWindow = cfg.RecordWindow
	}
}

// WithSpeech applies the default synthesis and recognition parameters.
func WithSpeech(cfg config.SpeechConfig) Option {
	return func(s *Session) {
		if cfg.Language != "" {
			s.language = cfg.Language
		}
		if cfg.Voice != "" {
			s.voice = cfg.Voice
		}
		if cfg.Rate > 0 {
			s.rate = cfg.Rate
		}
	}
}

// WithMetrics overrides the metrics instance. Defaults to
// [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithToastSink registers a callback invoked for every toast the session
// emits. The callback runs synchronously on the attempt goroutine.
func WithToastSink(sink func(Toast)) Option {
	return func(s *Session) {
		s.toast = sink
	}
}

// Session is one learner's drill state. All exported methods are safe for
// concurrent use.
type Session struct {
	course  *catalog.Catalog
	rec     stt.Recognizer
	metrics *observe.Metrics
	toast   func(Toast)

	matchThreshold float64
	recordWindow   time.Duration
	language       string

	mu        sync.Mutex
	unit      catalog.Unit
	mode      drill.Mode
	slots     grammar.Slots
	wordIdx   int
	sentence  grammar.Sentence
	lastScore int
	voice     string
	rate      float64

	recording bool
	cancelRec context.CancelFunc
	recDone   chan struct{}

	closeOnce sync.Once
}

// New creates a session over the given course, starting on the lowest unit in
// vocabulary mode. The recognizer is used for all attempts until Close.
func New(course *catalog.Catalog, rec stt.Recognizer, opts ...Option) (*Session, error) {
	s := &Session{
		course:         course,
		rec:            rec,
		matchThreshold: DefaultMatchThreshold,
		language:       "en-US",
		mode:           drill.ModeVocabulary,
		slots:          grammar.Slots{},
		rate:           1.0,
	}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}

	ids := course.UnitIDs()
	if len(ids) == 0 {
		return nil, errors.New("session: course has no units")
	}
	s.unit, _ = course.Unit(ids[0])
	s.recompute()

	s.metrics.ActiveSessions.Add(context.Background(), 1)
	return s, nil
}

// Close cancels any in-flight attempt and releases the session's gauge slot.
// The recognizer is owned by the caller and is not closed here.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.Cancel()
		s.metrics.ActiveSessions.Add(context.Background(), -1)
	})
	return nil
}

// SetUnit switches to the given unit and resets all per-unit state: slot
// selections, word index, and last score. Slot values never leak between
// units.
func (s *Session) SetUnit(id int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unit, ok := s.course.Unit(id)
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnknownUnit, id)
	}
	s.unit = unit
	s.slots = grammar.Slots{}
	s.wordIdx = 0
	s.lastScore = 0
	s.recompute()
	return s.snapshotLocked(), nil
}

// SetMode switches between vocabulary and sentence practice.
func (s *Session) SetMode(mode drill.Mode) (Snapshot, error) {
	if mode != drill.ModeVocabulary && mode != drill.ModeSentence {
		return Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	return s.snapshotLocked(), nil
}

// SetSlot updates one sentence-builder slot and recomputes the sentence pair.
func (s *Session) SetSlot(name, value string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[name] = value
	s.recompute()
	return s.snapshotLocked()
}

// NextWord advances to the next vocabulary word, wrapping at the end.
func (s *Session) NextWord() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.unit.Vocab); n > 0 {
		s.wordIdx = (s.wordIdx + 1) % n
	}
	return s.snapshotLocked()
}

// PrevWord steps back to the previous vocabulary word, wrapping at the start.
func (s *Session) PrevWord() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.unit.Vocab); n > 0 {
		s.wordIdx = (s.wordIdx - 1 + n) % n
	}
	return s.snapshotLocked()
}

// SetVoice selects the synthesis voice and speaking rate for this session.
// Rate is clamped to [0.7, 1.4]; 0 keeps the current rate.
func (s *Session) SetVoice(voice string, rate float64) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if voice != "" {
		s.voice = voice
	}
	if rate > 0 {
		s.rate = min(max(rate, 0.7), 1.4)
	}
	return s.snapshotLocked()
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Attempt runs one recognition attempt over the given utterance and scores it
// against the current target: the active vocabulary word in vocabulary mode,
// the model answer in sentence mode.
//
// At most one attempt runs per session; a concurrent call fails immediately
// with [ErrRecordingActive]. When a record window is configured the attempt
// is cancelled after that duration.
func (s *Session) Attempt(ctx context.Context, a stt.Audio) (AttemptResult, error) {
	s.mu.Lock()
	if s.recording {
		s.mu.Unlock()
		return AttemptResult{}, ErrRecordingActive
	}
	s.recording = true
	done := make(chan struct{})
	s.recDone = done

	var cancel context.CancelFunc
	if s.recordWindow > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.recordWindow)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	s.cancelRec = cancel

	mode := s.mode
	unitID := s.unit.ID
	vocab := s.unit.Vocab
	target := s.sentence.Answer
	if mode == drill.ModeVocabulary {
		target = s.currentWordLocked()
	}
	threshold := s.matchThreshold
	if a.Language == "" {
		a.Language = s.language
	}
	if len(a.Hints) == 0 {
		a.Hints = vocab
	}
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.recording = false
		s.cancelRec = nil
		s.mu.Unlock()
		close(done)
	}()

	s.metrics.ActiveRecordings.Add(ctx, 1)
	defer s.metrics.ActiveRecordings.Add(context.Background(), -1)

	start := time.Now()
	transcript, err := s.rec.Recognize(ctx, a)
	s.metrics.RecognizeDuration.Record(context.Background(), time.Since(start).Seconds())
	if err != nil {
		s.metrics.RecordProviderError(ctx, s.rec.Name(), "stt")
		s.emitToast(Toast{Kind: drill.ToastBad, Message: recognizeErrToast, Timeout: DefaultToastTimeout})
		return AttemptResult{}, fmt.Errorf("session: recognize: %w", err)
	}

	fb := drill.Evaluate(mode, target, transcript.Text)
	s.metrics.RecordAttempt(context.Background(), unitID, string(mode), fb.Score)

	res := AttemptResult{Heard: transcript.Text, Feedback: fb}
	if mode == drill.ModeVocabulary && fb.Score < 7 {
		// Offer the closest catalog word so the UI can hint what to retry.
		if word, _, ok := drill.ClosestWord(transcript.Text, vocab, threshold); ok && !strings.EqualFold(word, target) {
			res.Suggestion = word
		}
	}

	s.mu.Lock()
	s.lastScore = fb.Score
	s.mu.Unlock()

	s.emitToast(Toast{Kind: fb.Kind, Message: fb.Message, Timeout: DefaultToastTimeout})
	return res, nil
}

// Cancel aborts the in-flight attempt, if any, and returns only once the
// attempt has fully unwound. After Cancel returns no attempt callback or
// result is pending.
func (s *Session) Cancel() {
	s.mu.Lock()
	cancel := s.cancelRec
	done := s.recDone
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Recording reports whether an attempt is currently in flight.
func (s *Session) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// recompute rebuilds the sentence pair from the current unit and slots.
// Callers must hold mu.
func (s *Session) recompute() {
	s.sentence = grammar.Build(s.unit.Builder, s.slots, s.course.Pools())
}

// currentWordLocked returns the active vocabulary word. Callers must hold mu.
func (s *Session) currentWordLocked() string {
	if len(s.unit.Vocab) == 0 {
		return ""
	}
	return s.unit.Vocab[s.wordIdx]
}

// snapshotLocked builds a Snapshot. Callers must hold mu.
func (s *Session) snapshotLocked() Snapshot {
	slots := make(grammar.Slots, len(s.slots))
	for k, v := range s.slots {
		slots[k] = v
	}
	word := s.currentWordLocked()
	return Snapshot{
		UnitID:       s.unit.ID,
		Mode:         s.mode,
		Slots:        slots,
		WordIndex:    s.wordIdx,
		Word:         word,
		Illustration: s.course.Illustration(word),
		Question:     s.sentence.Question,
		Answer:       s.sentence.Answer,
		Voice:        s.voice,
		Rate:         s.rate,
		LastScore:    s.lastScore,
	}
}

// emitToast delivers a toast to the registered sink, if any.
func (s *Session) emitToast(t Toast) {
	if s.toast != nil {
		s.toast(t)
	}
}
