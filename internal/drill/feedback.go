package drill

// ToastKind classifies a feedback notification for the UI.
type ToastKind string

const (
	ToastOK   ToastKind = "ok"
	ToastWarn ToastKind = "warn"
	ToastBad  ToastKind = "bad"
)

// Cue names an audio effect played alongside a score result.
type Cue string

const (
	CueNone     Cue = ""
	CueApplause Cue = "applause"
	CueBeep     Cue = "beep"
)

// Mode distinguishes single-word vocabulary drills from full-sentence drills.
// The feedback copy differs between the two.
type Mode string

const (
	ModeVocabulary Mode = "vocabulary"
	ModeSentence   Mode = "sentence"
)

// Feedback is everything the UI should do in response to a scored attempt:
// show a toast, optionally play a cue, and optionally speak a short praise or
// encouragement line through the synthesizer.
type Feedback struct {
	Score   int
	Kind    ToastKind
	Message string
	Cue     Cue

	// Utterance, when non-empty, is spoken aloud to the learner.
	Utterance string
}

// Score bands and their feedback. The UI copy is Vietnamese, matching the
// course's presentation language.
var (
	vocabMessages = map[ToastKind]string{
		ToastOK:   "👍 Khá tốt! Cố gắng rõ âm hơn nhé.",
		ToastWarn: "🟠 Chưa chuẩn lắm, đọc chậm và nhấn trọng âm.",
		ToastBad:  "❌ Chưa đúng. Nghe mẫu rồi đọc lại nhé.",
	}
	vocabExcellent = "👏 Excellent! Phát âm rất tốt."

	sentenceMessages = map[ToastKind]string{
		ToastOK:   "👍 Khá tốt! Nói liền mạch tự nhiên hơn.",
		ToastWarn: "🟠 Cần rõ ràng hơn từng từ trong câu.",
		ToastBad:  "❌ Phát âm chưa đúng. Nghe lại câu rồi thử lần nữa nhé.",
	}
	sentenceExcellent = "👏 Excellent! Câu rất chuẩn."
)

// Evaluate scores a spoken attempt against target and derives the feedback
// for the given drill mode:
//
//	score ≥ 9 — applause cue, "Excellent!" utterance, ok toast
//	score ≥ 7 — ok toast
//	score ≥ 5 — warn toast
//	otherwise — error beep, "You can do it better." utterance, bad toast
func Evaluate(mode Mode, target, spoken string) Feedback {
	messages := sentenceMessages
	excellent := sentenceExcellent
	if mode == ModeVocabulary {
		messages = vocabMessages
		excellent = vocabExcellent
	}

	score := Score(target, spoken)
	switch {
	case score >= 9:
		return Feedback{Score: score, Kind: ToastOK, Message: excellent, Cue: CueApplause, Utterance: "Excellent!"}
	case score >= 7:
		return Feedback{Score: score, Kind: ToastOK, Message: messages[ToastOK]}
	case score >= 5:
		return Feedback{Score: score, Kind: ToastWarn, Message: messages[ToastWarn]}
	default:
		return Feedback{Score: score, Kind: ToastBad, Message: messages[ToastBad], Cue: CueBeep, Utterance: "You can do it better."}
	}
}
