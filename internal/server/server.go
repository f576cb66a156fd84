// Package server exposes the browser-facing HTTP API: the course catalog,
// voice listing, speech synthesis, attempt scoring, audio cues, and the
// WebSocket drill-session transport, plus the operational endpoints
// (/metrics, /healthz, /readyz).
package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hqnguyen/speakdrill/internal/catalog"
	"github.com/hqnguyen/speakdrill/internal/config"
	"github.com/hqnguyen/speakdrill/internal/health"
	"github.com/hqnguyen/speakdrill/internal/observe"
	"github.com/hqnguyen/speakdrill/pkg/provider/stt"
	"github.com/hqnguyen/speakdrill/pkg/provider/tts"
)

// cueSampleRate is the synthesis rate for the beep and applause cues,
// matching the browser's default audio context rate.
const cueSampleRate = 44100

// maxSpeakTextLen bounds /api/speak input. Drill utterances are a sentence
// at most; anything longer is a client bug.
const maxSpeakTextLen = 500

// Option configures the Server.
type Option func(*Server)

// WithMetrics overrides the metrics instance. Defaults to
// [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithSpeech applies default synthesis parameters from config.
func WithSpeech(cfg config.SpeechConfig) Option {
	return func(s *Server) { s.speech = cfg }
}

// WithDrillConfig applies scoring and recording tunables, forwarded to each
// WebSocket session.
func WithDrillConfig(cfg config.DrillConfig) Option {
	return func(s *Server) { s.drillCfg = cfg }
}

// WithVoiceCacheTTL overrides the voice-list cache TTL.
func WithVoiceCacheTTL(ttl time.Duration) Option {
	return func(s *Server) { s.voiceTTL = ttl }
}

// Server holds the handler dependencies. Construct with New, mount with
// Routes.
type Server struct {
	course  func() *catalog.Catalog
	synth   tts.Synthesizer
	rec     stt.Recognizer
	voices  *tts.VoiceCache
	metrics *observe.Metrics

	// mu guards the hot-reloadable settings below.
	mu       sync.RWMutex
	speech   config.SpeechConfig
	drillCfg config.DrillConfig

	voiceTTL time.Duration
}

// SetSpeech swaps the default synthesis parameters at runtime. In-flight
// requests and existing sessions keep the previous values.
func (s *Server) SetSpeech(cfg config.SpeechConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speech = cfg
}

// SetDrill swaps the scoring and recording tunables at runtime. Existing
// sessions keep the previous values.
func (s *Server) SetDrill(cfg config.DrillConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drillCfg = cfg
}

// currentSpeech returns the active speech defaults.
func (s *Server) currentSpeech() config.SpeechConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.speech
}

// currentDrill returns the active drill tunables.
func (s *Server) currentDrill() config.DrillConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.drillCfg
}

// New creates a Server. course is called per request so a hot-reloaded
// catalog takes effect without restarting; synth and rec may be nil, in which
// case the corresponding endpoints return 503.
func New(course func() *catalog.Catalog, synth tts.Synthesizer, rec stt.Recognizer, opts ...Option) *Server {
	s := &Server{
		course: course,
		synth:  synth,
		rec:    rec,
	}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	if synth != nil {
		s.voices = tts.NewVoiceCache(synth, s.voiceTTL)
	}
	return s
}

// Routes builds the full handler tree with observability middleware applied
// to the API surface.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	mux.HandleFunc("GET /api/voices", s.handleVoices)
	mux.HandleFunc("POST /api/speak", s.handleSpeak)
	mux.HandleFunc("POST /api/score", s.handleScore)
	mux.HandleFunc("GET /api/cue/{name}", s.handleCue)
	mux.HandleFunc("GET /ws", s.handleWS)

	h := health.New(
		health.SynthesizerCheck(s.synth),
		health.CourseCheck(s.course),
	)
	h.Register(mux)

	mux.Handle("GET /metrics", promhttp.Handler())

	return observe.Middleware(s.metrics)(mux)
}
