package compound

import (
	"fmt"
	"strings"
)

// Annotation set encoding conventions shared with the surrounding corpus
// pipeline.
const (
	// Delim separates ambiguous results within one set value.
	Delim = "|"
	// Affix wraps a set value; alone it marks the empty set.
	Affix = "|"
	// CompSep joins the parts of one compound.
	CompSep = "+"
	// ScoreSep separates an annotation from its score.
	ScoreSep = ":"
)

// CWBSet renders a list of values as one set string in the Corpus
// Workbench convention: delimiter-joined and affix-wrapped, with the bare
// affix for the empty set.
func CWBSet(values []string, delimiter, affix string) string {
	if len(values) == 0 {
		return affix
	}
	return affix + strings.Join(values, delimiter) + affix
}

// Formatter renders ranked compound analyses into the three annotation
// streams: compound lemgrams, compound wordforms and derived baseforms.
type Formatter struct {
	Delimiter     string
	CompDelimiter string
	Affix         string
	// ScoreFormat is appended to each lemgram entry with its score, e.g.
	// ":%.3e". Empty omits the score.
	ScoreFormat string
}

// DefaultFormatter returns the pipeline's standard set encoding, with
// scores included in the lemgram output.
func DefaultFormatter() Formatter {
	return Formatter{
		Delimiter:     Delim,
		CompDelimiter: CompSep,
		Affix:         Affix,
		ScoreFormat:   ScoreSep + "%.3e",
	}
}

// Lemgrams renders the compound lemgram set. A compound with any morpheme
// known only from the document lexicon has no citable lemgram chain and is
// left out entirely.
func (f Formatter) Lemgrams(ranked []RankedCompound) string {
	var entries []string
	for _, comp := range ranked {
		known := true
		for _, part := range comp.Parts {
			if part.Lemgram == UnknownLemgram {
				known = false
				break
			}
		}
		if !known {
			continue
		}
		lemgrams := make([]string, len(comp.Parts))
		for i, part := range comp.Parts {
			lemgrams[i] = part.Lemgram
		}
		entry := strings.Join(lemgrams, f.CompDelimiter)
		if f.ScoreFormat != "" {
			entry += fmt.Sprintf(f.ScoreFormat, comp.Score)
		}
		entries = append(entries, entry)
	}
	return CWBSet(entries, f.Delimiter, f.Affix)
}

// Wordforms renders the compound wordform set. An initial capital is
// lowered unless some morpheme looks like a proper noun, in which case the
// original capitalization is kept.
func (f Formatter) Wordforms(ranked []RankedCompound) string {
	var entries []string
	seen := make(map[string]struct{})
	for _, comp := range ranked {
		surfaces := make([]string, len(comp.Parts))
		lower := firstIsUpper(comp.Parts[0].Surface) && !anyProperNoun(comp.Parts, true)
		for i, part := range comp.Parts {
			if lower {
				surfaces[i] = strings.ToLower(part.Surface)
			} else {
				surfaces[i] = part.Surface
			}
		}
		wf := strings.Join(surfaces, f.CompDelimiter)
		if _, dup := seen[wf]; dup {
			continue
		}
		seen[wf] = struct{}{}
		entries = append(entries, wf)
	}
	return CWBSet(entries, f.Delimiter, f.Affix)
}

// Baseforms renders the derived baseform set: middle surfaces plus the
// suffix's own baseform, capitalization normalized the same way as the
// wordforms. A constructed baseform is accepted only when it is attested,
// either with nonzero frequency for the token's coarse MSD in the
// statistics lexicon or as a known word in the document lexicon; this
// filters out well-formed but corpus-unattested guesses.
func (f Formatter) Baseforms(ranked []RankedCompound, msd string, stats *StatsLexicon, doc *DocLexicon) string {
	var entries []string
	seen := make(map[string]struct{})
	pos := coarseTag(msd)
	for _, comp := range ranked {
		suffix := comp.Parts[len(comp.Parts)-1]
		baseSuffix := suffix.Surface
		if suffix.Lemgram != UnknownLemgram {
			baseSuffix = coarseTag(suffix.Lemgram)
		}

		lower := firstIsUpper(comp.Parts[0].Surface) && !anyProperNoun(comp.Parts, false)
		var b strings.Builder
		for _, part := range comp.Parts[:len(comp.Parts)-1] {
			if lower {
				b.WriteString(strings.ToLower(part.Surface))
			} else {
				b.WriteString(part.Surface)
			}
		}
		b.WriteString(baseSuffix)
		baseform := b.String()

		if _, dup := seen[baseform]; dup {
			continue
		}
		seen[baseform] = struct{}{}
		if stats.Freq(baseform, pos) > 0 || doc.Known(baseform) {
			entries = append(entries, baseform)
		}
	}
	return CWBSet(entries, f.Delimiter, f.Affix)
}

// anyProperNoun is the proper-noun heuristic: a morpheme counts as a name
// when "pm" occurs in its lemgram after the first dot or, when tags are
// consulted, when it carries the PM tag. A heuristic proxy, not a
// guarantee.
func anyProperNoun(parts CompoundAnalysis, checkTags bool) bool {
	for _, part := range parts {
		if i := strings.Index(part.Lemgram, "."); i >= 0 {
			if strings.Contains(strings.ToLower(part.Lemgram[i:]), "pm") {
				return true
			}
		}
		if checkTags {
			for _, t := range part.Tags {
				if t == "PM" {
					return true
				}
			}
		}
	}
	return false
}

// firstIsUpper reports whether the first rune is unchanged by upper-casing
// (so digits and caseless characters count as upper, like the original
// heuristic).
func firstIsUpper(s string) bool {
	if s == "" {
		return false
	}
	first := string([]rune(s)[0])
	return first == strings.ToUpper(first)
}

// Annotate processes a document's tokens and returns the three parallel
// annotation streams: compound lemgrams, compound wordforms and baseforms.
// An existing non-empty baseform annotation on a token is kept; only
// tokens without one get a compound-derived baseform. No per-word failure
// aborts the batch: every failure mode degrades to the empty set.
func (a *Analyzer) Annotate(tokens []Token, f Formatter) (complem, compwf, baseform []string) {
	complem = make([]string, 0, len(tokens))
	compwf = make([]string, 0, len(tokens))
	baseform = make([]string, 0, len(tokens))

	for _, tok := range tokens {
		ranked := a.AnalyzeRanked(tok.Word, tok.MSD)

		complem = append(complem, f.Lemgrams(ranked))
		compwf = append(compwf, f.Wordforms(ranked))

		if tok.Baseform != "" && tok.Baseform != f.Affix {
			baseform = append(baseform, tok.Baseform)
		} else {
			baseform = append(baseform, f.Baseforms(ranked, tok.MSD, a.stats, a.doc))
		}
	}
	return complem, compwf, baseform
}
