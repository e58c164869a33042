package compound

import "strings"

// Token is one annotated token of the current document: its wordform, its
// morphosyntactic tag and an optional pre-existing baseform annotation.
type Token struct {
	Word     string
	MSD      string
	Baseform string
}

// DocLexicon is the in-document fallback lexicon: every word seen in the
// current input, lowercased, with its coarse POS. It backs up the
// dictionary for segments the dictionary does not know.
type DocLexicon struct {
	words map[string]map[string]struct{}
}

// NewDocLexicon builds the fallback lexicon from the document's tokens.
// Words shorter than three runes are skipped: the dictionary covers those,
// and short fallback entries cause an explosion of bogus analyses.
func NewDocLexicon(tokens []Token) *DocLexicon {
	words := make(map[string]map[string]struct{})
	for _, tok := range tokens {
		w := strings.ToLower(tok.Word)
		if len([]rune(w)) < 3 {
			continue
		}
		pos := coarseTag(tok.MSD)
		tags, ok := words[w]
		if !ok {
			tags = make(map[string]struct{})
			words[w] = tags
		}
		tags[pos] = struct{}{}
	}
	return &DocLexicon{words: words}
}

// Lookup returns the coarse POS tags recorded for a word, or nil.
func (d *DocLexicon) Lookup(word string) []string {
	tags, ok := d.words[strings.ToLower(word)]
	if !ok {
		return nil
	}
	result := make([]string, 0, len(tags))
	for t := range tags {
		result = append(result, t)
	}
	return result
}

// Known reports whether the word occurs anywhere in the document.
func (d *DocLexicon) Known(word string) bool {
	_, ok := d.words[strings.ToLower(word)]
	return ok
}

// Prefixes returns sentinel analyses for any word seen in the document.
func (d *DocLexicon) Prefixes(segment string) []Analysis {
	var result []Analysis
	for _, pos := range d.Lookup(segment) {
		result = append(result, Analysis{Surface: segment, Lemgram: UnknownLemgram, Tags: []string{pos}})
	}
	return result
}

// Infixes behaves like Prefixes: the document lexicon has no notion of
// compound-medial forms.
func (d *DocLexicon) Infixes(segment string) []Analysis {
	return d.Prefixes(segment)
}

// Suffixes returns sentinel analyses for document words whose coarse POS
// is nominal, verbal or adjectival and compatible with the MSD constraint.
func (d *DocLexicon) Suffixes(segment, msd string) []Analysis {
	var result []Analysis
	for _, pos := range d.Lookup(segment) {
		if !docSuffixPOS(pos) {
			continue
		}
		if msd != "" && !strings.Contains(pos, msd) && !strings.HasPrefix(pos, coarseTag(msd)) {
			continue
		}
		result = append(result, Analysis{Surface: segment, Lemgram: UnknownLemgram, Tags: []string{pos}})
	}
	return result
}

// WordCount returns the number of distinct words in the document lexicon.
func (d *DocLexicon) WordCount() int {
	return len(d.words)
}

func docSuffixPOS(pos string) bool {
	return strings.HasPrefix(pos, "NN") || strings.HasPrefix(pos, "VB") || strings.HasPrefix(pos, "AV")
}
