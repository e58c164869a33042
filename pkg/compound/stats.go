package compound

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/vellum"
	"go.uber.org/zap"
)

// DefaultGamma is the additive smoothing constant used when none is given.
const DefaultGamma = 0.5

// statsKeySep joins a wordform and its coarse tag into one FST key.
const statsKeySep = "\x1f"

// Lidstone is an additively smoothed probability estimate over a frequency
// distribution: P(e) = (c(e) + gamma) / (N + gamma * B). Unseen events get
// a small nonzero probability instead of zero.
type Lidstone struct {
	Gamma float64
	Bins  float64
	Total float64
}

// Prob returns the smoothed probability for an event with the given count.
func (l Lidstone) Prob(count uint64) float64 {
	denom := l.Total + l.Gamma*l.Bins
	if denom <= 0 {
		return 0
	}
	return (float64(count) + l.Gamma) / denom
}

// StatsLexicon holds smoothed unigram probabilities of (wordform, coarse
// tag) pairs mined from a reference corpus. Counts live in an FST keyed by
// "word\x1ftag"; the FST is built from a tab-separated text model file and
// persisted next to it, and rebuilt when counts change.
type StatsLexicon struct {
	fst     *vellum.FST
	counts  map[string]uint64 // Source of truth for modifications
	total   uint64
	bins    uint64
	gamma   float64
	fstPath string
	txtPath string
	mu      sync.RWMutex
}

// NewStatsLexicon loads the statistics model from a text file into an FST.
// Lines are "word\ttag\tcount"; a "#bins <n>" directive sets the smoothing
// bin count (defaults to the number of distinct pairs). If the FST file
// does not exist it is built from the text file.
func NewStatsLexicon(txtPath string, gamma float64, logger *zap.Logger) (*StatsLexicon, error) {
	if gamma <= 0 {
		gamma = DefaultGamma
	}
	s := &StatsLexicon{
		counts:  make(map[string]uint64, 65536),
		gamma:   gamma,
		fstPath: strings.TrimSuffix(txtPath, ".txt") + ".fst",
		txtPath: txtPath,
	}

	logger.Info("reading statistics model", zap.String("path", txtPath))
	if err := s.loadTextFile(); err != nil {
		return nil, err
	}
	if err := s.loadOrBuildFST(); err != nil {
		return nil, err
	}
	logger.Info("statistics model loaded", zap.Int("pairs", len(s.counts)))

	return s, nil
}

// loadTextFile reads counts from the source text file.
func (s *StatsLexicon) loadTextFile() error {
	file, err := os.Open(s.txtPath)
	if err != nil {
		return fmt.Errorf("opening statistics model: %w", err)
	}
	defer file.Close()

	var declaredBins uint64
	scanner := bufio.NewScanner(file)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if rest, ok := strings.CutPrefix(line, "#bins"); ok {
				b, err := strconv.ParseUint(strings.TrimSpace(rest), 10, 64)
				if err != nil {
					return fmt.Errorf("statistics model %s line %d: bad bins directive: %w", s.txtPath, lineno, err)
				}
				declaredBins = b
			}
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return fmt.Errorf("statistics model %s line %d: want 3 fields, got %d", s.txtPath, lineno, len(fields))
		}
		count, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return fmt.Errorf("statistics model %s line %d: bad count: %w", s.txtPath, lineno, err)
		}
		key := fields[0] + statsKeySep + fields[1]
		s.counts[key] += count
		s.total += count
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading statistics model: %w", err)
	}

	s.bins = uint64(len(s.counts))
	if declaredBins > s.bins {
		s.bins = declaredBins
	}
	return nil
}

// loadOrBuildFST loads an existing FST or builds a new one.
func (s *StatsLexicon) loadOrBuildFST() error {
	if fst, err := vellum.Open(s.fstPath); err == nil {
		s.fst = fst
		return nil
	}
	return s.rebuildFST()
}

// Freq returns the raw corpus count of a (word, tag) pair.
func (s *StatsLexicon) Freq(word, tag string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count, _, _ := s.fst.Get([]byte(word + statsKeySep + tag))
	return count
}

// Prob returns the Lidstone-smoothed probability of a (word, tag) pair.
// Unseen pairs get a small nonzero probability.
func (s *StatsLexicon) Prob(word, tag string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count, _, _ := s.fst.Get([]byte(word + statsKeySep + tag))
	return Lidstone{Gamma: s.gamma, Bins: float64(s.bins), Total: float64(s.total)}.Prob(count)
}

// AddCount adds observations for a (word, tag) pair and rebuilds the FST.
func (s *StatsLexicon) AddCount(word, tag string, n uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := word + statsKeySep + tag
	if _, seen := s.counts[key]; !seen && s.bins == uint64(len(s.counts)) {
		s.bins++
	}
	s.counts[key] += n
	s.total += n
	return s.rebuildFST()
}

// RemoveEntry deletes a (word, tag) pair and rebuilds the FST.
func (s *StatsLexicon) RemoveEntry(word, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := word + statsKeySep + tag
	if count, ok := s.counts[key]; ok {
		s.total -= count
		delete(s.counts, key)
		if s.bins > uint64(len(s.counts)) {
			s.bins--
		}
	}
	return s.rebuildFST()
}

// RebuildFST rebuilds the FST from the current counts and saves to disk.
func (s *StatsLexicon) RebuildFST() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuildFST()
}

// rebuildFST rebuilds without locking (caller must hold the lock).
func (s *StatsLexicon) rebuildFST() error {
	if s.fst != nil {
		s.fst.Close()
		s.fst = nil
	}

	keys := make([]string, 0, len(s.counts))
	for key := range s.counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fstFile, err := os.Create(s.fstPath)
	if err != nil {
		return err
	}

	builder, err := vellum.New(fstFile, nil)
	if err != nil {
		fstFile.Close()
		return err
	}

	for _, key := range keys {
		if err := builder.Insert([]byte(key), s.counts[key]); err != nil {
			builder.Close()
			fstFile.Close()
			return err
		}
	}

	if err := builder.Close(); err != nil {
		fstFile.Close()
		return err
	}
	fstFile.Close()

	fst, err := vellum.Open(s.fstPath)
	if err != nil {
		return err
	}
	s.fst = fst

	return s.saveTextFile()
}

// saveTextFile writes the current counts back to the text file.
func (s *StatsLexicon) saveTextFile() error {
	keys := make([]string, 0, len(s.counts))
	for key := range s.counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	file, err := os.Create(s.txtPath)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "#bins %d\n", s.bins)
	for _, key := range keys {
		word, tag, _ := strings.Cut(key, statsKeySep)
		fmt.Fprintf(w, "%s\t%s\t%d\n", word, tag, s.counts[key])
	}
	return w.Flush()
}

// Close releases FST resources.
func (s *StatsLexicon) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fst != nil {
		err := s.fst.Close()
		s.fst = nil
		return err
	}
	return nil
}

// EntryCount returns the number of distinct (word, tag) pairs.
func (s *StatsLexicon) EntryCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.counts)
}

// Total returns the total observation count.
func (s *StatsLexicon) Total() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// POSModel holds smoothed probabilities of compounded POS-tag sequences,
// keyed by "+"-joined tag strings such as "NN+NN". The distribution is
// small, so it lives in a plain map.
type POSModel struct {
	counts map[string]uint64
	total  uint64
	bins   uint64
	gamma  float64
}

// NewPOSModel wraps an already built count table.
func NewPOSModel(counts map[string]uint64, gamma float64) *POSModel {
	if gamma <= 0 {
		gamma = DefaultGamma
	}
	m := &POSModel{counts: counts, gamma: gamma}
	for _, c := range counts {
		m.total += c
	}
	m.bins = uint64(len(counts))
	return m
}

// LoadPOSModel reads a POS-sequence model from a text file with
// "tags\tcount" lines, e.g. "NN+NN\t41246".
func LoadPOSModel(path string, gamma float64, logger *zap.Logger) (*POSModel, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening POS model: %w", err)
	}
	defer file.Close()

	logger.Info("reading POS compound model", zap.String("path", path))

	counts := make(map[string]uint64)
	scanner := bufio.NewScanner(file)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tags, countStr, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("POS model %s line %d: missing tab separator", path, lineno)
		}
		count, err := strconv.ParseUint(countStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("POS model %s line %d: bad count: %w", path, lineno, err)
		}
		counts[tags] += count
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading POS model: %w", err)
	}

	logger.Info("POS compound model loaded", zap.Int("sequences", len(counts)))
	return NewPOSModel(counts, gamma), nil
}

// Prob returns the smoothed probability of a "+"-joined tag sequence.
func (m *POSModel) Prob(key string) float64 {
	return Lidstone{Gamma: m.gamma, Bins: float64(m.bins), Total: float64(m.total)}.Prob(m.counts[key])
}
