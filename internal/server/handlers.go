package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hqnguyen/speakdrill/internal/catalog"
	"github.com/hqnguyen/speakdrill/internal/drill"
	"github.com/hqnguyen/speakdrill/pkg/audio"
	"github.com/hqnguyen/speakdrill/pkg/provider/tts"
)

// preferredVoiceNames is the default-voice preference order for the picker.
// The first available match wins; otherwise the first English voice is used.
var preferredVoiceNames = []string{
	"Google UK English Female",
	"Microsoft Zira - English (United States)",
	"Google US English",
	"Google UK English Male",
}

// errorBody is the JSON error envelope for all API endpoints.
type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// catalogResponse is the /api/catalog payload: units in id order plus the
// shared pools and the illustration table.
type catalogResponse struct {
	Units         []catalog.Unit    `json:"units"`
	Days          []string          `json:"days"`
	Countries     []string          `json:"countries"`
	Routines      []string          `json:"routines"`
	PartyEat      []string          `json:"party_eat"`
	PartyDrink    []string          `json:"party_drink"`
	Abilities     []string          `json:"abilities"`
	Illustrations map[string]string `json:"illustrations"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	c := s.course()
	resp := catalogResponse{
		Days:          c.Days,
		Countries:     c.Countries,
		Routines:      c.Routines,
		PartyEat:      c.PartyEat,
		PartyDrink:    c.PartyDrink,
		Abilities:     c.Abilities,
		Illustrations: c.Illustrations,
	}
	for _, id := range c.UnitIDs() {
		u, _ := c.Unit(id)
		resp.Units = append(resp.Units, u)
	}
	writeJSON(w, http.StatusOK, resp)
}

// voicesResponse is the /api/voices payload: accent-grouped voices and the
// id of the default selection.
type voicesResponse struct {
	Groups  []voiceGroup `json:"groups"`
	Default string       `json:"default"`
}

type voiceGroup struct {
	Accent string      `json:"accent"`
	Voices []tts.Voice `json:"voices"`
}

func (s *Server) handleVoices(w http.ResponseWriter, r *http.Request) {
	if s.voices == nil {
		writeError(w, http.StatusServiceUnavailable, "no synthesizer configured")
		return
	}

	voices, err := s.voices.Voices(r.Context())
	if err != nil {
		s.metrics.RecordProviderError(r.Context(), s.synth.Name(), "tts")
		writeError(w, http.StatusBadGateway, "list voices: "+err.Error())
		return
	}

	resp := voicesResponse{Default: defaultVoice(voices)}
	for _, g := range tts.GroupByAccent(voices) {
		resp.Groups = append(resp.Groups, voiceGroup{Accent: g.Accent, Voices: g.Voices})
	}
	writeJSON(w, http.StatusOK, resp)
}

// defaultVoice picks the preferred default from the available voices.
func defaultVoice(voices []tts.Voice) string {
	for _, want := range preferredVoiceNames {
		for _, v := range voices {
			if v.Name == want || v.ID == want {
				return v.ID
			}
		}
	}
	for _, v := range voices {
		if strings.HasPrefix(v.Language, "en-") {
			return v.ID
		}
	}
	return ""
}

// speakRequest is the /api/speak request body.
type speakRequest struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice"`
	Rate  float64 `json:"rate"`
}

func (s *Server) handleSpeak(w http.ResponseWriter, r *http.Request) {
	if s.synth == nil {
		writeError(w, http.StatusServiceUnavailable, "no synthesizer configured")
		return
	}

	var req speakRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text must not be empty")
		return
	}
	if len(req.Text) > maxSpeakTextLen {
		writeError(w, http.StatusBadRequest, "text too long")
		return
	}

	speech := s.currentSpeech()
	opts := tts.SpeechOptions{
		Voice:    req.Voice,
		Language: speech.Language,
		Rate:     req.Rate,
	}
	if opts.Voice == "" {
		opts.Voice = speech.Voice
	}
	if opts.Rate == 0 {
		opts.Rate = speech.Rate
	}

	start := time.Now()
	wav, err := s.synth.Synthesize(r.Context(), req.Text, opts)
	s.metrics.SynthesizeDuration.Record(r.Context(), time.Since(start).Seconds())
	if err != nil {
		s.metrics.RecordProviderError(r.Context(), s.synth.Name(), "tts")
		writeError(w, http.StatusBadGateway, "synthesize: "+err.Error())
		return
	}
	s.metrics.RecordProviderRequest(r.Context(), s.synth.Name(), "tts", "ok")

	w.Header().Set("Content-Type", "audio/wav")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(wav)
}

// scoreRequest is the /api/score request body. Mode defaults to sentence.
type scoreRequest struct {
	Target string `json:"target"`
	Spoken string `json:"spoken"`
	Mode   string `json:"mode"`
}

// scoreResponse mirrors drill.Feedback for the UI.
type scoreResponse struct {
	Score     int    `json:"score"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Cue       string `json:"cue,omitempty"`
	Utterance string `json:"utterance,omitempty"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Target == "" {
		writeError(w, http.StatusBadRequest, "target must not be empty")
		return
	}

	mode := drill.ModeSentence
	if req.Mode == string(drill.ModeVocabulary) {
		mode = drill.ModeVocabulary
	}

	fb := drill.Evaluate(mode, req.Target, req.Spoken)
	writeJSON(w, http.StatusOK, scoreResponse{
		Score:     fb.Score,
		Kind:      string(fb.Kind),
		Message:   fb.Message,
		Cue:       string(fb.Cue),
		Utterance: fb.Utterance,
	})
}

func (s *Server) handleCue(w http.ResponseWriter, r *http.Request) {
	var pcm []byte
	switch r.PathValue("name") {
	case "beep":
		pcm = audio.ErrorBeep(cueSampleRate)
	case "applause":
		pcm = audio.Applause(cueSampleRate)
	default:
		writeError(w, http.StatusNotFound, "unknown cue")
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio.EncodeWAV(pcm, cueSampleRate, 1))
}

// decodeJSON reads a JSON request body with unknown fields rejected.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}
