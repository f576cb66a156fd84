// Package grammar implements the sentence-construction rules for the drill
// course: English third-person-singular verb conjugation, spoken-word time
// rendering, and the per-pattern sentence templates that turn user-selected
// slot values into a (question, model answer) pair.
//
// All lookup tables are immutable package-level maps initialized once; every
// function is pure and total over its documented inputs.
package grammar

import "strings"

// irregularVerbs maps base forms whose third-person-singular does not follow
// the generic suffix rules.
var irregularVerbs = map[string]string{
	"have": "has",
	"do":   "does",
	"go":   "goes",
}

// routineSplits maps multi-word routine phrases to their (verb, remainder)
// split where the split point is not simply the first space.
var routineSplits = map[string][2]string{
	"get up":          {"get", "up"},
	"have breakfast":  {"have", "breakfast"},
	"go to school":    {"go", "to school"},
	"go to bed":       {"go", "to bed"},
	"do homework":     {"do", "homework"},
	"wash face":       {"wash", "face"},
	"clean the teeth": {"clean", "the teeth"},
}

// sibilantEndings are the verb endings that take "es" in the third person
// singular. Checked after the irregular table and the consonant+y rule.
var sibilantEndings = []string{"ch", "sh", "o", "s", "x", "z"}

// thirdPerson reports whether subject takes third-person-singular agreement.
func thirdPerson(subject string) bool {
	switch strings.ToLower(strings.TrimSpace(subject)) {
	case "he", "she", "it":
		return true
	}
	return false
}

// ConjugateVerb returns the present-tense form of base for the given
// grammatical subject. Non-third-person subjects (I, we, they, you) keep the
// base form. Third-person-singular subjects apply, in priority order: the
// irregular table, consonant+y → "ies", sibilant or o/s/x/z/ch/sh endings →
// "es", and the default "s" suffix. The irregular check runs first so "go"
// becomes "goes" via the table rather than the generic o-ending rule.
func ConjugateVerb(base, subject string) string {
	if !thirdPerson(subject) {
		return base
	}
	b := strings.ToLower(base)
	if irregular, ok := irregularVerbs[b]; ok {
		return irregular
	}
	if len(b) >= 2 && strings.HasSuffix(b, "y") && !isVowel(b[len(b)-2]) {
		return base[:len(base)-1] + "ies"
	}
	for _, ending := range sibilantEndings {
		if strings.HasSuffix(b, ending) {
			return base + "es"
		}
	}
	return base + "s"
}

// ConjugateRoutinePhrase conjugates the leading verb of a multi-word routine
// phrase for the given subject and reassembles the phrase. Phrases in the
// routine split table use their recorded split point; anything else splits at
// the first space. A phrase with no remainder returns the bare conjugated verb.
func ConjugateRoutinePhrase(phrase, subject string) string {
	verb, rest := routineParts(phrase)
	conjugated := ConjugateVerb(verb, subject)
	if rest == "" {
		return conjugated
	}
	return conjugated + " " + rest
}

// routineParts splits phrase into its leading verb and remainder.
func routineParts(phrase string) (verb, rest string) {
	if parts, ok := routineSplits[phrase]; ok {
		return parts[0], parts[1]
	}
	verb, rest, _ = strings.Cut(phrase, " ")
	return verb, rest
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
