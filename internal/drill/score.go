package drill

import (
	"math"

	"github.com/antzucaro/matchr"
)

// Score bounds. A silent or totally mismatched attempt floors at MinScore;
// a perfect (post-normalization) match earns MaxScore.
const (
	MinScore = 1
	MaxScore = 10
)

// Score rates how closely a spoken transcript matches the target phrase,
// returning an integer in [MinScore, MaxScore].
//
// Both strings are normalized first. An empty normalized transcript returns
// MinScore, signaling that no usable speech was recognized. Otherwise the
// classic character-level Levenshtein distance between the two normalized
// strings is converted to a similarity ratio and mapped onto the 1–10 range:
//
//	sim   = max(0, 1 - dist/max(len(a), len(b), 1))
//	score = round(sim*9) + 1
//
// The metric is character-level by design: transposed words are penalized in
// proportion to character displacement rather than counted as a single error.
// Score is deterministic and symmetric in its two arguments.
func Score(target, spoken string) int {
	a := Normalize(target)
	b := Normalize(spoken)
	if b == "" {
		return MinScore
	}

	dist := matchr.Levenshtein(a, b)
	maxLen := max(len(a), len(b), 1)
	sim := math.Max(0, 1-float64(dist)/float64(maxLen))

	score := int(math.Round(sim*9)) + 1
	return min(max(score, MinScore), MaxScore)
}

// ClosestWord returns the vocabulary entry most similar to the recognized
// word by Jaro-Winkler similarity, along with its score in [0,1]. Used to
// hint which catalog word a low-scoring attempt probably aimed at. Returns
// ok=false when vocab is empty or the best similarity is below threshold.
func ClosestWord(spoken string, vocab []string, threshold float64) (word string, sim float64, ok bool) {
	s := Normalize(spoken)
	if s == "" || len(vocab) == 0 {
		return "", 0, false
	}
	for _, v := range vocab {
		if score := matchr.JaroWinkler(s, Normalize(v), false); score > sim {
			sim = score
			word = v
		}
	}
	if sim < threshold {
		return "", 0, false
	}
	return word, sim, true
}
