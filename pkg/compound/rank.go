package compound

import (
	"math"
	"sort"
	"strings"
)

// ScorePolicy selects the scoring formula used by the ranking engine. Both
// historical formulas are kept as explicit policies: they produce different
// orderings on ties and under underflow for long compounds.
type ScorePolicy int

const (
	// ScoreProduct multiplies the word-tag probabilities and the tag
	// sequence probability in product space.
	ScoreProduct ScorePolicy = iota
	// ScoreLogAdditive sums log probabilities, which keeps long compounds
	// out of underflow territory.
	ScoreLogAdditive
)

// RankedCompound is one scored compound reading.
type RankedCompound struct {
	Score float64
	Parts CompoundAnalysis
}

// rankCompounds scores every compound analysis and orders the result by
// ascending number of morphemes, then by descending score. The two-level
// sort is deliberate: a two-part reading with a lower probability still
// outranks a three-part reading with a higher one.
//
// Per reading the score combines a unigram word-tag probability with a
// tag-sequence probability, maximized over the Cartesian product of the
// per-part tag alternatives; the most probable reading of a lexically
// ambiguous part dominates. E.g. p(clown+bil) = p(clown, NN) * p(bil, NN)
// * p(NN+NN).
func rankCompounds(compounds [][]CompoundAnalysis, pos *POSModel, stats *StatsLexicon, policy ScorePolicy) []RankedCompound {
	var ranked []RankedCompound
	for _, readings := range compounds {
		for _, parts := range readings {
			ranked = append(ranked, RankedCompound{
				Score: scoreCompound(parts, pos, stats, policy),
				Parts: parts,
			})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if len(a.Parts) != len(b.Parts) {
			return len(a.Parts) < len(b.Parts)
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return compoundSortKey(a.Parts) < compoundSortKey(b.Parts)
	})
	return ranked
}

func scoreCompound(parts CompoundAnalysis, pos *POSModel, stats *StatsLexicon, policy ScorePolicy) float64 {
	switch policy {
	case ScoreLogAdditive:
		bestWords := math.Inf(-1)
		bestTags := math.Inf(-1)
		eachTagSequence(parts, func(tags []string) {
			sum := 0.0
			for i, part := range parts {
				sum += math.Log(stats.Prob(part.Surface, tags[i]))
			}
			if sum > bestWords {
				bestWords = sum
			}
			if p := math.Log(pos.Prob(strings.Join(tags, "+"))); p > bestTags {
				bestTags = p
			}
		})
		return bestWords + bestTags
	default:
		bestWords := 0.0
		bestTags := 0.0
		eachTagSequence(parts, func(tags []string) {
			product := 1.0
			for i, part := range parts {
				product *= stats.Prob(part.Surface, tags[i])
			}
			if product > bestWords {
				bestWords = product
			}
			if p := pos.Prob(strings.Join(tags, "+")); p > bestTags {
				bestTags = p
			}
		})
		return bestWords * bestTags
	}
}

// eachTagSequence calls f for every element of the Cartesian product of
// the per-part tag sets. Parts without tags contribute an empty tag so a
// single missing tag set does not silence the whole reading.
func eachTagSequence(parts CompoundAnalysis, f func(tags []string)) {
	tags := make([]string, len(parts))
	var walk func(pos int)
	walk = func(pos int) {
		if pos == len(parts) {
			f(tags)
			return
		}
		if len(parts[pos].Tags) == 0 {
			tags[pos] = ""
			walk(pos + 1)
			return
		}
		for _, t := range parts[pos].Tags {
			tags[pos] = t
			walk(pos + 1)
		}
	}
	walk(0)
}

func compoundSortKey(parts CompoundAnalysis) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Surface)
		b.WriteByte(0)
		b.WriteString(p.Lemgram)
		b.WriteByte(0)
	}
	return b.String()
}

// cutoffCompounds keeps only the readings whose part count is within one
// of the best (shortest) reading's part count. The input must already be
// ranked.
func cutoffCompounds(ranked []RankedCompound) []RankedCompound {
	if len(ranked) == 0 {
		return ranked
	}
	best := len(ranked[0].Parts)
	i := 0
	for _, c := range ranked {
		if len(c.Parts) > best+1 || len(c.Parts) < best {
			break
		}
		i++
	}
	return ranked[:i]
}
