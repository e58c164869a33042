package compound

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Delimiters used by the serialized lexicon format.
// PartDelim1 separates major fields, PartDelim2 separates entries,
// PartDelim3 separates list elements.
const (
	PartDelim1 = "^1"
	PartDelim2 = "^2"
	PartDelim3 = "^3"
)

// UnknownLemgram marks a morpheme known only from the document lexicon,
// with no canonical lemgram available.
const UnknownLemgram = "0"

// Analysis is one resolved reading of a single morpheme.
type Analysis struct {
	Surface string
	Lemgram string
	Tags    []string
}

// CompoundAnalysis is one fully resolved reading of a compound:
// one Analysis per morpheme, prefix first, suffix last.
type CompoundAnalysis []Analysis

// Lexicon provides morpheme lookups by positional role within a compound.
// Prefix, infix and suffix denote the first, middle and last constituent,
// not sub-word affixation. A missing word yields an empty slice, never an
// error.
type Lexicon interface {
	Prefixes(segment string) []Analysis
	Infixes(segment string) []Analysis
	Suffixes(segment, msd string) []Analysis
}

// Entry is one record of the morphological dictionary: a lemgram with its
// inflection parameters (including the compound-form markers c/ci/cm/sms),
// part of speech and coarse corpus tags.
type Entry struct {
	Lemgram string
	MSDs    []string
	POS     string
	Tags    []string
}

// SaldoLexicon is the dictionary-backed lexicon adapter, loaded once from a
// serialized morphological dictionary and read-only afterwards.
type SaldoLexicon struct {
	entries map[string][]Entry
}

// NewSaldoLexicon wraps an already parsed entry map.
func NewSaldoLexicon(entries map[string][]Entry) *SaldoLexicon {
	return &SaldoLexicon{entries: entries}
}

// LoadSaldoLexicon reads a serialized dictionary file. Each line holds a
// wordform and its entries separated by a tab; entries are joined by "^2"
// and encoded as "lemgram^1msd1^3msd2^1pos^1tag1^3tag2". Malformed lines
// are a hard error: a silently wrong lexicon poisons every later analysis.
func LoadSaldoLexicon(path string, logger *zap.Logger) (*SaldoLexicon, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening lexicon: %w", err)
	}
	defer file.Close()

	logger.Info("reading compound lexicon", zap.String("path", path))

	entries := make(map[string][]Entry)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, rest, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("lexicon %s line %d: missing tab separator", path, lineno)
		}
		for _, raw := range strings.Split(rest, PartDelim2) {
			entry, err := parseEntry(raw)
			if err != nil {
				return nil, fmt.Errorf("lexicon %s line %d: %w", path, lineno, err)
			}
			entries[word] = append(entries[word], entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading lexicon: %w", err)
	}

	logger.Info("compound lexicon loaded", zap.Int("words", len(entries)))
	return &SaldoLexicon{entries: entries}, nil
}

// parseEntry decodes one "lemgram^1msds^1pos^1tags" record. Tags are
// truncated to their coarse form (text before the first dot) and
// deduplicated, matching what every later tag comparison expects.
func parseEntry(raw string) (Entry, error) {
	fields := strings.Split(raw, PartDelim1)
	if len(fields) != 4 {
		return Entry{}, fmt.Errorf("entry %q: want 4 fields, got %d", raw, len(fields))
	}
	if fields[0] == "" {
		return Entry{}, fmt.Errorf("entry %q: empty lemgram", raw)
	}

	seen := make(map[string]struct{})
	var tags []string
	for _, t := range splitList(fields[3]) {
		t = coarseTag(t)
		if _, dup := seen[t]; !dup {
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}

	return Entry{
		Lemgram: fields[0],
		MSDs:    splitList(fields[1]),
		POS:     fields[2],
		Tags:    tags,
	}, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, PartDelim3)
}

// coarseTag returns the part of an MSD tag before the first dot.
func coarseTag(msd string) string {
	if i := strings.Index(msd, "."); i >= 0 {
		return msd[:i]
	}
	return msd
}

// lookup fetches entries case-sensitively, adding the case-insensitive
// entries when the segment is not already all-lowercase.
func (l *SaldoLexicon) lookup(word string) []Entry {
	lower := strings.ToLower(word)
	if word == lower {
		return l.entries[word]
	}
	exact := l.entries[word]
	folded := l.entries[lower]
	if len(exact) == 0 {
		return folded
	}
	combined := make([]Entry, 0, len(exact)+len(folded))
	combined = append(combined, exact...)
	combined = append(combined, folded...)
	return combined
}

// Prefixes returns the analyses usable as a first compound member: the
// entry must carry a compound-initial marker (c or ci) and must not be a
// present participle.
func (l *SaldoLexicon) Prefixes(segment string) []Analysis {
	var result []Analysis
	for _, e := range l.lookup(segment) {
		if e.POS != "ppa" && hasAnyMSD(e.MSDs, "c", "ci") {
			result = append(result, Analysis{Surface: segment, Lemgram: e.Lemgram, Tags: e.Tags})
		}
	}
	return result
}

// Infixes returns the analyses usable as a middle compound member
// (compound-initial or compound-medial marker).
func (l *SaldoLexicon) Infixes(segment string) []Analysis {
	var result []Analysis
	for _, e := range l.lookup(segment) {
		if hasAnyMSD(e.MSDs, "c", "cm") {
			result = append(result, Analysis{Surface: segment, Lemgram: e.Lemgram, Tags: e.Tags})
		}
	}
	return result
}

// Suffixes returns the analyses usable as the final compound member. The
// entry must be a noun, verb or adjective (or a multiword-head POS ending
// in "h"), must have at least one non-compound inflection form, and must
// be compatible with the given MSD constraint when one is supplied.
func (l *SaldoLexicon) Suffixes(segment, msd string) []Analysis {
	var result []Analysis
	for _, e := range l.lookup(segment) {
		if !suffixPOS(e.POS) {
			continue
		}
		if !hasNonCompoundMSD(e.MSDs) {
			continue
		}
		if !tagsMatchMSD(e.Tags, msd) {
			continue
		}
		result = append(result, Analysis{Surface: segment, Lemgram: e.Lemgram, Tags: e.Tags})
	}
	return result
}

// WordCount returns the number of wordforms in the lexicon.
func (l *SaldoLexicon) WordCount() int {
	return len(l.entries)
}

func suffixPOS(pos string) bool {
	switch pos {
	case "nn", "vb", "av":
		return true
	}
	return strings.HasSuffix(pos, "h")
}

func hasAnyMSD(msds []string, wanted ...string) bool {
	for _, m := range msds {
		for _, w := range wanted {
			if m == w {
				return true
			}
		}
	}
	return false
}

// hasNonCompoundMSD reports whether any inflection parameter remains after
// removing the compound-form markers.
func hasNonCompoundMSD(msds []string) bool {
	for _, m := range msds {
		switch m {
		case "c", "ci", "cm", "sms":
		default:
			return true
		}
	}
	return false
}

// tagsMatchMSD checks an MSD constraint against a set of coarse tags: the
// MSD itself may be present, or some tag may share its coarse POS prefix.
func tagsMatchMSD(tags []string, msd string) bool {
	if msd == "" {
		return true
	}
	pos := coarseTag(msd)
	for _, t := range tags {
		if t == msd || strings.HasPrefix(t, pos) {
			return true
		}
	}
	return false
}
