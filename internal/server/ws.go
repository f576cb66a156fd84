package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/hqnguyen/speakdrill/internal/drill"
	"github.com/hqnguyen/speakdrill/internal/session"
	"github.com/hqnguyen/speakdrill/pkg/audio"
	"github.com/hqnguyen/speakdrill/pkg/provider/stt"
)

// Client events arriving as JSON text frames. A binary frame carries one
// complete WAV recording and triggers a scored attempt.
type clientEvent struct {
	Type  string  `json:"type"`
	Unit  int     `json:"unit,omitempty"`
	Mode  string  `json:"mode,omitempty"`
	Name  string  `json:"name,omitempty"`
	Value string  `json:"value,omitempty"`
	Voice string  `json:"voice,omitempty"`
	Rate  float64 `json:"rate,omitempty"`
}

// Server events, discriminated by the "type" field.
type stateEvent struct {
	Type string `json:"type"` // "state"
	session.Snapshot
}

type heardEvent struct {
	Type string `json:"type"` // "heard"
	Text string `json:"text"`
}

type scoreEvent struct {
	Type       string `json:"type"` // "score"
	Score      int    `json:"score"`
	Cue        string `json:"cue,omitempty"`
	Utterance  string `json:"utterance,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

type toastEvent struct {
	Type      string `json:"type"` // "toast"
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	TimeoutMS int64  `json:"timeout_ms"`
}

type errorEvent struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

// handleWS upgrades to a WebSocket and runs one drill session for the life of
// the connection: a writer goroutine drains outbound events while the read
// loop applies client events to the session. Recognition attempts run on
// their own goroutine so a record_cancel can interrupt them.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.rec == nil {
		writeError(w, http.StatusServiceUnavailable, "no recognizer configured")
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept", "err", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "session ended")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	out := make(chan any, 32)
	send := func(ev any) {
		select {
		case out <- ev:
		case <-ctx.Done():
		}
	}

	sess, err := session.New(s.course(), s.rec,
		session.WithMetrics(s.metrics),
		session.WithSpeech(s.currentSpeech()),
		session.WithDrillConfig(s.currentDrill()),
		session.WithToastSink(func(t session.Toast) {
			send(toastEvent{
				Type:      "toast",
				Kind:      string(t.Kind),
				Message:   t.Message,
				TimeoutMS: t.Timeout.Milliseconds(),
			})
		}),
	)
	if err != nil {
		slog.Error("create session", "err", err)
		conn.Close(websocket.StatusInternalError, "session init failed")
		return
	}
	defer sess.Close()

	// Writer: one goroutine owns all conn writes.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-out:
				b, err := json.Marshal(ev)
				if err != nil {
					slog.Warn("marshal event", "err", err)
					continue
				}
				if err := conn.Write(ctx, websocket.MessageText, b); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	send(stateEvent{Type: "state", Snapshot: sess.Snapshot()})

	for {
		typ, msg, err := conn.Read(ctx)
		if err != nil {
			// Acknowledge an orderly client close with a normal status so
			// well-behaved clients don't record an abnormal closure. Other
			// read errors fall through to the deferred error close.
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				conn.Close(websocket.StatusNormalClosure, "")
			}
			return
		}

		if typ == websocket.MessageBinary {
			s.startAttempt(ctx, sess, msg, send)
			continue
		}

		var ev clientEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			send(errorEvent{Type: "error", Message: "invalid event: " + err.Error()})
			continue
		}
		s.applyEvent(sess, ev, send)
	}
}

// applyEvent dispatches one client event to the session and reports the
// resulting state.
func (s *Server) applyEvent(sess *session.Session, ev clientEvent, send func(any)) {
	var (
		snap session.Snapshot
		err  error
	)
	switch ev.Type {
	case "set_unit":
		snap, err = sess.SetUnit(ev.Unit)
	case "set_mode":
		snap, err = sess.SetMode(drill.Mode(ev.Mode))
	case "set_slot":
		snap = sess.SetSlot(ev.Name, ev.Value)
	case "next_word":
		snap = sess.NextWord()
	case "prev_word":
		snap = sess.PrevWord()
	case "set_voice":
		snap = sess.SetVoice(ev.Voice, ev.Rate)
	case "record_cancel":
		sess.Cancel()
		snap = sess.Snapshot()
	default:
		send(errorEvent{Type: "error", Message: "unknown event type " + ev.Type})
		return
	}
	if err != nil {
		send(errorEvent{Type: "error", Message: err.Error()})
		return
	}
	send(stateEvent{Type: "state", Snapshot: snap})
}

// startAttempt parses a recorded WAV frame and runs the recognition attempt
// on its own goroutine, so the read loop stays free to deliver record_cancel.
func (s *Server) startAttempt(ctx context.Context, sess *session.Session, wav []byte, send func(any)) {
	info, err := audio.ParseWAV(wav)
	if err != nil {
		send(errorEvent{Type: "error", Message: "bad recording: " + err.Error()})
		return
	}
	if info.BitDepth != 16 {
		send(errorEvent{Type: "error", Message: "recording must be 16-bit PCM"})
		return
	}
	a := stt.Audio{
		PCM:        audio.PCM(wav, info),
		SampleRate: info.SampleRate,
		Channels:   info.Channels,
	}

	go func() {
		start := time.Now()
		res, err := sess.Attempt(ctx, a)
		if err != nil {
			switch {
			case errors.Is(err, session.ErrRecordingActive):
				send(errorEvent{Type: "error", Message: "a recording is already being scored"})
			case errors.Is(err, context.Canceled):
				// Cancelled by record_cancel or disconnect; nothing to report.
			default:
				send(errorEvent{Type: "error", Message: "recognition failed"})
			}
			return
		}
		slog.Debug("attempt scored",
			"score", res.Feedback.Score,
			"heard", res.Heard,
			"duration", time.Since(start),
		)

		send(heardEvent{Type: "heard", Text: res.Heard})
		send(scoreEvent{
			Type:       "score",
			Score:      res.Feedback.Score,
			Cue:        string(res.Feedback.Cue),
			Utterance:  res.Feedback.Utterance,
			Suggestion: res.Suggestion,
		})
		send(stateEvent{Type: "state", Snapshot: sess.Snapshot()})
	}()
}
