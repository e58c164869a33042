package compound

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// DefaultCacheSize is the maximum number of (word, msd) entries in the
// analysis cache.
const DefaultCacheSize = 100_000

// invalidPrefixes short-circuit URL-like tokens before any enumeration.
var invalidPrefixes = []string{"http:", "https:", "www."}

// Config controls analysis behavior.
type Config struct {
	Limits Limits
	Policy ScorePolicy
	// Cutoff keeps only analyses whose part count is within one of the
	// best analysis' part count.
	Cutoff bool
	// Cache enables the (word, msd) result cache.
	Cache     bool
	CacheSize int
}

// DefaultConfig returns the configuration used by the reference pipeline.
func DefaultConfig() Config {
	return Config{
		Limits:    DefaultLimits(),
		Policy:    ScoreProduct,
		Cutoff:    true,
		Cache:     true,
		CacheSize: DefaultCacheSize,
	}
}

type cacheKey struct {
	word, msd string
}

// Analyzer decomposes Swedish compound words against a morphological
// dictionary, with the current document's own words as fallback, and ranks
// the analyses with a statistical model. Construct one per document: the
// fallback lexicon and the result cache are document-scoped. Lexicons and
// models are read-only after construction, so analyzers may run
// concurrently as long as each holds its own cache.
type Analyzer struct {
	saldo  Lexicon
	doc    *DocLexicon
	pos    *POSModel
	stats  *StatsLexicon
	config Config
	logger *zap.Logger
	cache  *lru.Cache[cacheKey, []RankedCompound]
}

// NewAnalyzer creates an analyzer. doc may be nil when the source text
// should not serve as a fallback lexicon; logger may be nil.
func NewAnalyzer(saldo Lexicon, doc *DocLexicon, pos *POSModel, stats *StatsLexicon, config Config, logger *zap.Logger) *Analyzer {
	if doc == nil {
		doc = NewDocLexicon(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Analyzer{
		saldo:  saldo,
		doc:    doc,
		pos:    pos,
		stats:  stats,
		config: config,
		logger: logger,
	}
	if config.Cache {
		size := config.CacheSize
		if size <= 0 {
			size = DefaultCacheSize
		}
		a.cache, _ = lru.New[cacheKey, []RankedCompound](size)
	}
	return a
}

// Analyze returns every fully analyzed decomposition of word: one slice of
// readings per valid segmentation, each reading resolving every morpheme
// to a lexicon analysis. Pathological inputs (overlong words, degenerate
// repeated patterns, URL-like tokens) yield nil without touching the
// enumerator.
func (a *Analyzer) Analyze(word, msd string) [][]CompoundAnalysis {
	if rejectInput(word, a.config.Limits.MaxWordLen) {
		return nil
	}

	splits := splitWord(a.saldo, a.doc, word, msd, a.config.Limits, a.logger)
	if len(splits) >= a.config.Limits.MaxSplits {
		return nil
	}

	var out [][]CompoundAnalysis
	for _, comp := range splits {
		positions := a.resolveSegments(comp, msd)
		if positions == nil {
			continue
		}

		// Guard against combinatorial blow-up: discarding the whole
		// segmentation beats truncating to a biased partial product.
		product := 1
		for _, analyses := range positions {
			product *= len(analyses)
			if product > a.config.Limits.MaxAnalyses {
				break
			}
		}
		if product > a.config.Limits.MaxAnalyses {
			continue
		}

		out = append(out, crossJoin(positions))
	}
	return out
}

// resolveSegments maps every segment to its analysis set in its positional
// role, consulting the dictionary first and the document lexicon only when
// the dictionary comes up empty. A single unresolvable segment discards
// the segmentation; the three-consonant rule can yield segments the split
// validation never saw in their final role.
func (a *Analyzer) resolveSegments(comp []string, msd string) [][]Analysis {
	positions := make([][]Analysis, 0, len(comp))

	prefixes := a.saldo.Prefixes(comp[0])
	if len(prefixes) == 0 {
		prefixes = a.doc.Prefixes(comp[0])
	}
	if len(prefixes) == 0 {
		return nil
	}
	positions = append(positions, prefixes)

	for _, infix := range comp[1 : len(comp)-1] {
		infixes := a.saldo.Infixes(infix)
		if len(infixes) == 0 {
			infixes = a.doc.Infixes(infix)
		}
		if len(infixes) == 0 {
			return nil
		}
		positions = append(positions, infixes)
	}

	suffix := comp[len(comp)-1]
	suffixes := a.saldo.Suffixes(suffix, msd)
	if len(suffixes) == 0 {
		suffixes = a.doc.Suffixes(suffix, msd)
	}
	if len(suffixes) == 0 {
		return nil
	}
	positions = append(positions, suffixes)

	return positions
}

// AnalyzeRanked analyzes a word and returns its readings ordered by
// ascending part count and descending score, with the length cutoff
// applied when configured. Results are cached per (word, msd).
func (a *Analyzer) AnalyzeRanked(word, msd string) []RankedCompound {
	key := cacheKey{word, msd}
	if a.cache != nil {
		if ranked, ok := a.cache.Get(key); ok {
			return ranked
		}
	}

	var ranked []RankedCompound
	if compounds := a.Analyze(word, msd); len(compounds) > 0 {
		ranked = rankCompounds(compounds, a.pos, a.stats, a.config.Policy)
		if a.config.Cutoff {
			ranked = cutoffCompounds(ranked)
		}
	}

	if a.cache != nil {
		a.cache.Add(key, ranked)
	}
	return ranked
}

// CacheSize returns the number of cached entries (0 if disabled).
func (a *Analyzer) CacheSize() int {
	if a.cache == nil {
		return 0
	}
	return a.cache.Len()
}

// ClearCache clears the analysis cache.
func (a *Analyzer) ClearCache() {
	if a.cache != nil {
		a.cache.Purge()
	}
}

// CacheEnabled returns true if caching is enabled.
func (a *Analyzer) CacheEnabled() bool {
	return a.cache != nil
}

// rejectInput filters inputs that would send the enumerator into a
// combinatorial tarpit or that are not words at all.
func rejectInput(word string, maxLen int) bool {
	runes := []rune(word)
	if len(runes) > maxLen {
		return true
	}
	for _, p := range invalidPrefixes {
		if strings.HasPrefix(word, p) {
			return true
		}
	}
	return hasDegenerateRepeat(runes)
}

// hasDegenerateRepeat reports whether any one- or two-rune unit occurs
// four or more times in a row, e.g. "hahahaha" or "aaaa". Equivalent to
// the backreference pattern (..?)\1{3}, which RE2 cannot express.
func hasDegenerateRepeat(runes []rune) bool {
	for size := 1; size <= 2; size++ {
		for start := 0; start+4*size <= len(runes); start++ {
			repeats := 1
			for i := start + size; i+size <= len(runes); i += size {
				if !runesEqual(runes[start:start+size], runes[i:i+size]) {
					break
				}
				repeats++
				if repeats >= 4 {
					return true
				}
			}
			if repeats >= 4 {
				return true
			}
		}
	}
	return false
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// crossJoin builds every combination of per-position analyses,
// deduplicated.
func crossJoin(positions [][]Analysis) []CompoundAnalysis {
	var readings []CompoundAnalysis
	current := make(CompoundAnalysis, len(positions))
	var walk func(pos int)
	walk = func(pos int) {
		if pos == len(positions) {
			reading := make(CompoundAnalysis, len(current))
			copy(reading, current)
			readings = append(readings, reading)
			return
		}
		for _, analysis := range positions[pos] {
			current[pos] = analysis
			walk(pos + 1)
		}
	}
	walk(0)

	seen := make(map[string]struct{}, len(readings))
	unique := readings[:0]
	for _, r := range readings {
		key := readingKey(r)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, r)
	}
	return unique
}

func readingKey(parts CompoundAnalysis) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Surface)
		b.WriteByte(0)
		b.WriteString(p.Lemgram)
		b.WriteByte(0)
		b.WriteString(strings.Join(p.Tags, "\x01"))
		b.WriteByte(0)
	}
	return b.String()
}
