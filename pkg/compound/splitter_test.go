package compound

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

// testSaldoLexicon builds a small in-memory dictionary covering the
// fixtures used across the package tests.
func testSaldoLexicon() *SaldoLexicon {
	return NewSaldoLexicon(map[string][]Entry{
		"glas": {{Lemgram: "glas..nn.1", MSDs: []string{"c", "ci", "sg.indef.nom"}, POS: "nn", Tags: []string{"NN"}}},
		"skål": {{Lemgram: "skål..nn.1", MSDs: []string{"c", "sg.indef.nom"}, POS: "nn", Tags: []string{"NN"}}},
		"bil":  {{Lemgram: "bil..nn.1", MSDs: []string{"c", "ci", "sg.indef.nom"}, POS: "nn", Tags: []string{"NN"}}},
		"förare": {{Lemgram: "förare..nn.1", MSDs: []string{"sg.indef.nom"}, POS: "nn", Tags: []string{"NN"}}},
		"klubb": {{Lemgram: "klubb..nn.1", MSDs: []string{"c", "ci", "sg.indef.nom"}, POS: "nn", Tags: []string{"NN"}}},
		"Stockholms": {{Lemgram: "Stockholm..pm.1", MSDs: []string{"c"}, POS: "pm", Tags: []string{"PM"}}},
		"regionen": {{Lemgram: "region..nn.1", MSDs: []string{"sg.def.nom"}, POS: "nn", Tags: []string{"NN"}}},
		"en": {{Lemgram: "en..nn.1", MSDs: []string{"c", "sg.indef.nom"}, POS: "nn", Tags: []string{"NN"}}},
		"het": {{Lemgram: "het..av.1", MSDs: []string{"pos.indef.sg"}, POS: "av", Tags: []string{"JJ"}}},
	})
}

func emptyDocLexicon() *DocLexicon {
	return NewDocLexicon(nil)
}

func TestThreeConsonantRule(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected [][]string
	}{
		{
			name:     "no qualifying boundary returns input unchanged",
			input:    []string{"glas", "bil"},
			expected: [][]string{{"glas", "bil"}},
		},
		{
			name:  "shared doubling consonant expands the first segment",
			input: []string{"glas", "skål"},
			expected: [][]string{
				{"glas", "skål"},
				{"glass", "skål"},
			},
		},
		{
			name:     "shared vowel does not expand",
			input:    []string{"bro", "orm"},
			expected: [][]string{{"bro", "orm"}},
		},
		{
			name:  "two qualifying boundaries produce the full product",
			input: []string{"glas", "sten", "nål"},
			expected: [][]string{
				{"glas", "sten", "nål"},
				{"glas", "stenn", "nål"},
				{"glass", "sten", "nål"},
				{"glass", "stenn", "nål"},
			},
		},
		{
			name:     "final segment never expands",
			input:    []string{"hav", "strand"},
			expected: [][]string{{"hav", "strand"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := threeConsonantRule(tt.input)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("threeConsonantRule(%v) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestThreeConsonantRule_DoesNotAliasInput(t *testing.T) {
	input := []string{"hus", "bil"}
	result := threeConsonantRule(input)
	result[0][0] = "mutated"
	if input[0] != "hus" {
		t.Errorf("input was mutated through the result")
	}
}

func TestSuffixException(t *testing.T) {
	tests := []struct {
		segment  string
		expected bool
	}{
		{"het", true},
		{"Het", true}, // case-insensitive
		{"lig", true},
		{"bar", true},
		{"a", true},
		{"ä", true},
		{"skål", false},
		{"bil", false},
	}

	for _, tt := range tests {
		if got := suffixException(tt.segment); got != tt.expected {
			t.Errorf("suffixException(%q) = %v, want %v", tt.segment, got, tt.expected)
		}
	}
}

func TestSplitWord_Completeness(t *testing.T) {
	saldo := testSaldoLexicon()
	splits := splitWord(saldo, emptyDocLexicon(), "glasbil", "", DefaultLimits(), zap.NewNop())

	found := false
	for _, comp := range splits {
		if reflect.DeepEqual(comp, []string{"glas", "bil"}) {
			found = true
		}
		if strings.Join(comp, "") != "glasbil" && !isExpansionOf(comp, "glasbil") {
			t.Errorf("segmentation %v does not partition the word", comp)
		}
	}
	if !found {
		t.Errorf("splitWord(glasbil) = %v, want it to contain [glas bil]", splits)
	}
}

// isExpansionOf allows a single doubled consonant per boundary relative to
// the raw partition.
func isExpansionOf(comp []string, word string) bool {
	total := 0
	for _, seg := range comp {
		total += len([]rune(seg))
	}
	return total >= len([]rune(word))
}

func TestSplitWord_ThreeConsonantCollapse(t *testing.T) {
	// "glasskål" is written with a collapsed double s; both the raw cut
	// glas+skål and the expanded glass+kål candidates arise, but only
	// glas+skål has lexicon support.
	saldo := testSaldoLexicon()
	splits := splitWord(saldo, emptyDocLexicon(), "glasskål", "", DefaultLimits(), zap.NewNop())

	found := false
	for _, comp := range splits {
		if reflect.DeepEqual(comp, []string{"glas", "skål"}) {
			found = true
		}
	}
	if !found {
		t.Errorf("splitWord(glasskål) = %v, want it to contain [glas skål]", splits)
	}
}

func TestSplitWord_ExceptionSuffixYieldsNothing(t *testing.T) {
	// "enhet" can only split as en+het, and "het" is on the unproductive
	// suffix exception list even though the lexicon knows it.
	saldo := testSaldoLexicon()
	splits := splitWord(saldo, emptyDocLexicon(), "enhet", "", DefaultLimits(), zap.NewNop())
	if len(splits) != 0 {
		t.Errorf("splitWord(enhet) = %v, want no segmentations", splits)
	}
}

func TestSplitWord_DocLexiconFallback(t *testing.T) {
	doc := NewDocLexicon([]Token{
		{Word: "hus", MSD: "NN.sg.indef.nom"},
		{Word: "båt", MSD: "NN.sg.indef.nom"},
	})
	empty := NewSaldoLexicon(nil)

	splits := splitWord(empty, doc, "husbåt", "", DefaultLimits(), zap.NewNop())
	if len(splits) != 1 || !reflect.DeepEqual(splits[0], []string{"hus", "båt"}) {
		t.Errorf("splitWord(husbåt) = %v, want [[hus båt]]", splits)
	}
}

func TestSplitWord_IterationCeilingTruncates(t *testing.T) {
	saldo := testSaldoLexicon()
	limits := DefaultLimits()
	limits.MaxIterations = 1

	splits := splitWord(saldo, emptyDocLexicon(), "glasbilklubb", "", limits, zap.NewNop())
	if len(splits) > 1 {
		t.Errorf("expected at most one segmentation under a 1-iteration ceiling, got %d", len(splits))
	}
}

func TestSplitWord_TimeCeilingTruncates(t *testing.T) {
	saldo := testSaldoLexicon()
	limits := DefaultLimits()
	limits.MaxTime = -1 * time.Nanosecond // already expired

	splits := splitWord(saldo, emptyDocLexicon(), "glasbil", "", limits, zap.NewNop())
	if len(splits) != 0 {
		t.Errorf("expected no segmentations under an expired time ceiling, got %v", splits)
	}
}

func TestSplitWord_SplitCeiling(t *testing.T) {
	// Every word in the document lexicon: single letters are skipped, but
	// three-letter chunks all validate, so a long word explodes.
	var tokens []Token
	for _, w := range []string{"aaa", "aab", "aba", "abb", "baa", "bab", "bba", "bbb"} {
		tokens = append(tokens, Token{Word: w, MSD: "NN"})
	}
	doc := NewDocLexicon(tokens)
	empty := NewSaldoLexicon(nil)

	limits := DefaultLimits()
	limits.MaxSplits = 3

	splits := splitWord(empty, doc, "aaaabbaaabab", "", limits, zap.NewNop())
	if len(splits) > limits.MaxSplits {
		t.Errorf("yielded %d segmentations, ceiling is %d", len(splits), limits.MaxSplits)
	}
}

func TestSpanMemo_NeverContradicts(t *testing.T) {
	memo := newSpanMemo()
	s := span{0, 4}

	// First verdict sticks.
	if memo.check(s, -1, 1, func() bool { return false }) {
		t.Fatal("check returned true for a failing validator")
	}
	// A later call must reuse the cached verdict, not re-validate.
	if memo.check(s, -1, 1, func() bool { return true }) {
		t.Error("cached invalid verdict was overridden")
	}

	for key := range memo.valid {
		if _, bad := memo.invalid[key]; bad {
			t.Errorf("span key %v present in both valid and invalid sets", key)
		}
	}
}

func TestSpanMemo_VariantPromotion(t *testing.T) {
	memo := newSpanMemo()
	s := span{2, 5}

	memo.check(s, 0, 2, func() bool { return false })
	if _, bad := memo.invalid[memo.key(s, -1)]; bad {
		t.Fatal("bare span marked invalid before all variants failed")
	}
	memo.check(s, 1, 2, func() bool { return false })
	if _, bad := memo.invalid[memo.key(s, -1)]; !bad {
		t.Error("bare span not promoted to invalid after all variants failed")
	}
}

func TestSplitWord_MemoIsPerCall(t *testing.T) {
	// Same spans, different words: verdicts must not leak between calls.
	saldo := testSaldoLexicon()
	doc := emptyDocLexicon()

	if got := splitWord(saldo, doc, "xxxxbil", "", DefaultLimits(), zap.NewNop()); len(got) != 0 {
		t.Fatalf("splitWord(xxxxbil) = %v, want none", got)
	}
	splits := splitWord(saldo, doc, "glasbil", "", DefaultLimits(), zap.NewNop())
	if len(splits) == 0 {
		t.Error("splitWord(glasbil) found nothing after an unrelated failing call")
	}
}
