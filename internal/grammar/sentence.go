package grammar

import "strings"

// Builder selects which sentence-template rules apply to a unit. Exactly five
// variants exist; the template engine handles all of them.
type Builder string

const (
	BuilderCountry Builder = "country"
	BuilderRoutine Builder = "routine"
	BuilderWeek    Builder = "week"
	BuilderParty   Builder = "party"
	BuilderAbility Builder = "ability"
)

// IsValid reports whether b is a recognised builder variant.
func (b Builder) IsValid() bool {
	switch b {
	case BuilderCountry, BuilderRoutine, BuilderWeek, BuilderParty, BuilderAbility:
		return true
	}
	return false
}

// Slots is the user's current slot selections, keyed by slot name ("subj",
// "country", "hour", …). Absent slots resolve to fixed first-option defaults,
// so any Slots value — including nil — produces a well-formed sentence.
type Slots map[string]string

// get returns the slot value or fallback when the slot is absent or empty.
func (s Slots) get(name, fallback string) string {
	if v, ok := s[name]; ok && v != "" {
		return v
	}
	return fallback
}

// Pools holds the shared vocabulary option lists referenced by the templates
// for slot defaults. All lists must be non-empty; the built-in catalog
// guarantees this and the YAML loader validates it.
type Pools struct {
	Countries  []string
	Days       []string
	Routines   []string
	PartyEat   []string
	PartyDrink []string
	Abilities  []string
}

// contractions maps a subject pronoun to its "to be" contraction for the
// country pattern.
var contractions = map[string]string{
	"I":    "I'm",
	"He":   "He's",
	"She":  "She's",
	"We":   "We're",
	"They": "They're",
}

// Sentence is the (question, model answer) pair produced by the template
// engine for one slot state.
type Sentence struct {
	Question string
	Answer   string
}

// placeholder is shown when no template matches; reachable only through an
// unknown builder value, which the catalog validation rejects up front.
const placeholder = "—"

// Build produces the drill sentence pair for the given builder variant, slot
// state, and vocabulary pools. It is pure and never returns empty strings:
// every absent slot falls back to its documented default.
func Build(b Builder, slots Slots, pools Pools) Sentence {
	switch b {
	case BuilderCountry:
		return buildCountry(slots, pools)
	case BuilderRoutine:
		return buildRoutine(slots, pools)
	case BuilderWeek:
		return buildWeek(slots, pools)
	case BuilderParty:
		return buildParty(slots, pools)
	case BuilderAbility:
		return buildAbility(slots, pools)
	}
	return Sentence{Question: placeholder, Answer: placeholder}
}

// buildCountry: "Where are you from?" / "I'm from Viet Nam."
func buildCountry(slots Slots, pools Pools) Sentence {
	subj := slots.get("subj", "I")
	country := slots.get("country", first(pools.Countries))

	be, ok := contractions[subj]
	if !ok {
		be = contractions["I"]
	}

	question := "Where are you from?"
	if subj != "I" {
		question = "Where is " + strings.ToLower(subj) + " from?"
	}
	return Sentence{
		Question: question,
		Answer:   be + " from " + country + ".",
	}
}

// buildRoutine: "What time do you get up?" / "I get up at seven o’clock."
func buildRoutine(slots Slots, pools Pools) Sentence {
	subj := slots.get("subj", "I")
	verb := slots.get("verb", first(pools.Routines))
	hour := slots.get("hour", "1")
	minute := slots.get("min", "0")

	aux, qSubj := "do", "you"
	if subj == "He" || subj == "She" {
		aux, qSubj = "does", strings.ToLower(subj)
	}

	return Sentence{
		Question: "What time " + aux + " " + qSubj + " " + verb + "?",
		Answer:   subj + " " + ConjugateRoutinePhrase(verb, subj) + " at " + TimeWords(hour, minute) + ".",
	}
}

// buildWeek has two sub-modes: "its" answers what day it is, "doon" answers
// what the subject does on that day.
func buildWeek(slots Slots, pools Pools) Sentence {
	day := slots.get("day", first(pools.Days))

	if slots.get("mode", "its") == "doon" {
		subj := slots.get("subj", "I")
		activity := slots.get("activity", "study at school")
		return Sentence{
			Question: "What do you do on " + day + "?",
			Answer:   subj + " " + ConjugateRoutinePhrase(activity, subj) + ".",
		}
	}
	return Sentence{
		Question: "What day is it today?",
		Answer:   "It's " + day + ".",
	}
}

// buildParty: "What do you want to eat?" / "I want some chips."
func buildParty(slots Slots, pools Pools) Sentence {
	kind := slots.get("type", "eat")
	list := pools.PartyEat
	if kind == "drink" {
		list = pools.PartyDrink
	}
	item := slots.get("item", first(list))

	return Sentence{
		Question: "What do you want to " + kind + "?",
		Answer:   "I want some " + item + ".",
	}
}

// buildAbility: "Can you ride a bike?" / "Yes, I can." or
// "No, he can’t, but he can play the piano."
func buildAbility(slots Slots, pools Pools) Sentence {
	subj := slots.get("subj", "I")
	answer := slots.get("ans", "Yes")
	ability1 := slots.get("a1", first(pools.Abilities))
	ability2 := slots["a2"]

	pronoun := strings.ToLower(subj)
	qSubj := pronoun
	if pronoun == "i" {
		pronoun = "I"
		qSubj = "you"
	}

	s := Sentence{Question: "Can " + qSubj + " " + ability1 + "?"}
	if answer == "Yes" {
		s.Answer = "Yes, " + pronoun + " can."
		return s
	}
	s.Answer = "No, " + pronoun + " can’t"
	if ability2 != "" {
		s.Answer += ", but " + pronoun + " can " + ability2 + "."
	} else {
		s.Answer += "."
	}
	return s
}

// first returns the first element of list, or an empty string for an empty
// list. Pools are validated to be non-empty before reaching the templates.
func first(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}
