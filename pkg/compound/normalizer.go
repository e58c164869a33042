package compound

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
	"golang.org/x/text/unicode/norm"
)

// NormalizerFunc defines a single normalization step.
type NormalizerFunc func(string) string

// Normalizer applies a configurable pipeline of normalization steps to
// document text before it is recorded in the document lexicon.
type Normalizer struct {
	steps []NormalizerFunc
}

// NewNormalizer creates a normalizer with the default pipeline. NFC
// composition (not NFKD stripping): å, ä and ö are contrastive in Swedish
// and must survive lexicon lookup intact.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		steps: []NormalizerFunc{
			NFCCompose,
			RemoveControlChars,
			NormalizeQuotes,
			Lowercase,
		},
	}
}

// NewNormalizerWithSteps creates a normalizer with a custom pipeline.
func NewNormalizerWithSteps(steps ...NormalizerFunc) *Normalizer {
	return &Normalizer{steps: steps}
}

// Normalize applies all configured steps in order.
func (n *Normalizer) Normalize(s string) string {
	for _, step := range n.steps {
		s = step(s)
	}
	return s
}

// NFCCompose applies Unicode NFC normalization, composing combining marks
// into precomposed characters (a + combining ring → å).
func NFCCompose(s string) string {
	return norm.NFC.String(s)
}

// RemoveControlChars removes Unicode control characters.
func RemoveControlChars(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if !unicode.IsControl(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Lowercase converts to lowercase.
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// quoteReplacements maps fancy quotes to ASCII.
var quoteReplacements = map[rune]rune{
	'”': '"',  // " right double quote (Swedish opening and closing)
	'“': '"',  // " left double quote
	'„': '"',  // „ double low-9 quote
	'«': '"',  // « left-pointing double angle
	'»': '"',  // » right-pointing double angle
	'‘': '\'', // ' left single quote
	'’': '\'', // ' right single quote
	'‚': '\'', // ‚ single low-9 quote
	'‹': '\'', // ‹ single left-pointing angle
	'›': '\'', // › single right-pointing angle
}

// NormalizeQuotes converts fancy quotes to ASCII.
func NormalizeQuotes(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if replacement, ok := quoteReplacements[r]; ok {
			result.WriteRune(replacement)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// StemSwedish applies the Swedish Snowball stemmer. Not part of the
// default pipeline: stemmed forms no longer match lexicon surface forms.
// Useful when indexing analyzer output.
func StemSwedish(s string) string {
	stemmed, err := snowball.Stem(s, "swedish", true)
	if err != nil {
		return s
	}
	return stemmed
}
