package compound

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Limits bounds the per-word enumeration. They are resource ceilings, not
// correctness errors: hitting one truncates the result silently.
type Limits struct {
	MaxWordLen    int
	MaxTime       time.Duration
	MaxIterations int
	MaxSplits     int
	MaxAnalyses   int
}

// DefaultLimits returns the ceilings used by the reference models.
func DefaultLimits() Limits {
	return Limits{
		MaxWordLen:    75,
		MaxTime:       20 * time.Second,
		MaxIterations: 250000,
		MaxSplits:     200,
		MaxAnalyses:   100,
	}
}

// doublingConsonants are the letters that Swedish orthography may collapse
// at a compound boundary ("glass" + "skål" written "glasskål").
const doublingConsonants = "bdfgjlmnprstv"

// suffixExceptions are unproductive bound morphemes and single letters that
// must never count as a compound suffix, even when a lexicon matches them.
var suffixExceptions = map[string]struct{}{
	"il": {}, "ör": {}, "en": {}, "ens": {}, "ar": {}, "ars": {},
	"or": {}, "ors": {}, "ur": {}, "urs": {}, "lös": {}, "tik": {}, "bar": {},
	"lik": {}, "het": {}, "hets": {}, "lig": {}, "ligt": {}, "te": {}, "tet": {}, "tets": {},
	"a": {}, "b": {}, "c": {}, "d": {}, "e": {}, "f": {}, "g": {}, "h": {},
	"i": {}, "j": {}, "k": {}, "l": {}, "m": {}, "n": {}, "o": {}, "p": {},
	"q": {}, "r": {}, "s": {}, "t": {}, "u": {}, "v": {}, "w": {}, "x": {},
	"y": {}, "z": {}, "ä": {},
}

// suffixException reports whether a segment is on the unproductive-suffix
// exception list.
func suffixException(segment string) bool {
	_, ok := suffixExceptions[strings.ToLower(segment)]
	return ok
}

// threeConsonantRule expands a candidate segmentation at boundaries where a
// doubled consonant may have been collapsed: whenever a segment's last
// letter equals the next segment's first letter and is one of the doubling
// consonants, both the original segment and a copy with the consonant
// doubled are produced. The final segment is never expanded. The result is
// the deduplicated Cartesian product over all positions, sorted for
// deterministic enumeration.
func threeConsonantRule(segments []string) [][]string {
	alternatives := make([][]string, len(segments))
	expanded := false
	for i := 0; i < len(segments)-1; i++ {
		cur := []rune(segments[i])
		next := []rune(segments[i+1])
		last := cur[len(cur)-1]
		if strings.ContainsRune(doublingConsonants, toLowerRune(last)) && last == next[0] {
			alternatives[i] = []string{segments[i], segments[i] + string(last)}
			expanded = true
		} else {
			alternatives[i] = []string{segments[i]}
		}
	}
	alternatives[len(segments)-1] = []string{segments[len(segments)-1]}

	if !expanded {
		out := make([]string, len(segments))
		copy(out, segments)
		return [][]string{out}
	}

	var combos [][]string
	current := make([]string, len(segments))
	var build func(pos int)
	build = func(pos int) {
		if pos == len(segments) {
			combo := make([]string, len(segments))
			copy(combo, current)
			combos = append(combos, combo)
			return
		}
		for _, alt := range alternatives[pos] {
			current[pos] = alt
			build(pos + 1)
		}
	}
	build(0)

	seen := make(map[string]struct{}, len(combos))
	unique := combos[:0]
	for _, c := range combos {
		key := strings.Join(c, "\x00")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, c)
	}
	sort.Slice(unique, func(i, j int) bool {
		return strings.Join(unique[i], "\x00") < strings.Join(unique[j], "\x00")
	})
	return unique
}

func toLowerRune(r rune) rune {
	return []rune(strings.ToLower(string(r)))[0]
}

// span is a half-open rune-offset interval of the input word, one candidate
// morpheme slot.
type span struct {
	start, end int
}

// spanKey identifies one validation verdict. variant is -1 when the
// segmentation has a single three-consonant expansion; otherwise verdicts
// are kept per expansion so a doubled and an undoubled reading of the same
// span never contaminate each other.
type spanKey struct {
	start, end, variant int
}

type spanRole int

const (
	rolePrefix spanRole = iota
	roleInfix
	roleSuffix
)

// spanMemo caches validation verdicts for one enumeration call. It must be
// freshly allocated per word: offsets are word-relative.
type spanMemo struct {
	valid   map[spanKey]struct{}
	invalid map[spanKey]struct{}
}

func newSpanMemo() *spanMemo {
	return &spanMemo{
		valid:   make(map[spanKey]struct{}),
		invalid: make(map[spanKey]struct{}),
	}
}

func (m *spanMemo) key(s span, variant int) spanKey {
	return spanKey{s.start, s.end, variant}
}

// check validates one segment in its role, consulting and updating the
// memo. When every expansion variant of a span has been proven invalid,
// the bare span itself is marked invalid so the pre-check can prune whole
// candidate families.
func (m *spanMemo) check(s span, variant, nvariants int, ok func() bool) bool {
	key := m.key(s, variant)
	if _, good := m.valid[key]; good {
		return true
	}
	if _, bad := m.invalid[key]; bad {
		return false
	}
	if ok() {
		m.valid[key] = struct{}{}
		return true
	}
	m.invalid[key] = struct{}{}
	if variant >= 0 {
		all := true
		for v := 0; v < nvariants; v++ {
			if _, bad := m.invalid[m.key(s, v)]; !bad {
				all = false
				break
			}
		}
		if all {
			m.invalid[m.key(s, -1)] = struct{}{}
		}
	}
	return false
}

// splitWord enumerates every way to partition word into two or more
// segments whose parts all have a lexicon analysis in their positional
// role. Candidate split-point tuples are generated by a combination loop
// with jump-ahead pruning: once a span is known invalid, all later
// combinations reusing it are skipped wholesale instead of being
// regenerated and re-rejected one at a time. The suffix span is validated
// first (cheapest fail), then the prefix, then the infixes left to right.
func splitWord(saldo, doc Lexicon, word, msd string, limits Limits, logger *zap.Logger) [][]string {
	runes := []rune(word)
	length := len(runes)
	if length < 2 {
		return nil
	}

	memo := newSpanMemo()
	var splits [][]string
	nn := length - 1
	iterations := 0
	started := time.Now()
	giveup := false

	for n := 1; n <= nn && !giveup; n++ {
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		first := true

	candidates:
		for {
			iterations++
			if iterations > limits.MaxIterations {
				logger.Info("too many split iterations", zap.String("word", word))
				giveup = true
				break
			}
			if time.Since(started) > limits.MaxTime {
				logger.Info("compound analysis timed out", zap.String("word", word))
				giveup = true
				break
			}

			if first {
				first = false
			} else {
				// Advance to the next strictly increasing index tuple.
				i := n - 1
				for ; i >= 0; i-- {
					if indices[i] != i+nn-n {
						break
					}
				}
				if i < 0 {
					break
				}
				indices[i]++
				for j := i + 1; j < n; j++ {
					indices[j] = indices[j-1] + 1
				}
			}

			// Derive the span list: prefix, infixes, suffix.
			spans := make([]span, n+1)
			prev := 0
			for i, idx := range indices {
				spans[i] = span{prev, idx + 1}
				prev = idx + 1
			}
			spans[n] = span{prev, length}

			// Skip candidates reusing a span already proven invalid for
			// every expansion variant, jumping the index tuple past all
			// combinations that share it.
			for ii, s := range spans {
				if _, bad := memo.invalid[memo.key(s, -1)]; bad {
					if s.end != length {
						for j := ii + 1; j < n; j++ {
							indices[j] = j + nn - n
						}
					}
					continue candidates
				}
			}

			segments := make([]string, n+1)
			for i, s := range spans {
				segments[i] = string(runes[s.start:s.end])
			}

			variants := threeConsonantRule(segments)
			multi := len(variants) > 1

		variants:
			for vi, comp := range variants {
				v := -1
				if multi {
					v = vi
				}

				suffix := comp[len(comp)-1]
				okSuffix := memo.check(spans[n], v, len(variants), func() bool {
					return !suffixException(suffix) &&
						(len(saldo.Suffixes(suffix, msd)) > 0 || len(doc.Suffixes(suffix, msd)) > 0)
				})
				if !okSuffix {
					continue
				}

				okPrefix := memo.check(spans[0], v, len(variants), func() bool {
					return len(saldo.Prefixes(comp[0])) > 0 || len(doc.Prefixes(comp[0])) > 0
				})
				if !okPrefix {
					continue
				}

				for k := 1; k < n; k++ {
					infix := comp[k]
					okInfix := memo.check(spans[k], v, len(variants), func() bool {
						return !suffixException(infix) &&
							(len(saldo.Infixes(infix)) > 0 || len(doc.Infixes(infix)) > 0)
					})
					if !okInfix {
						// Skip any combination of spans following the
						// invalid one.
						for j := k + 1; j < n; j++ {
							indices[j] = j + nn - n
						}
						continue variants
					}
				}

				if len(splits) >= limits.MaxSplits {
					logger.Info("too many possible compounds", zap.String("word", word))
					giveup = true
					break
				}
				splits = append(splits, comp)
			}

			if giveup {
				break
			}
		}
	}

	return splits
}
