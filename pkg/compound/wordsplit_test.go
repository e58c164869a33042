package compound

import (
	"reflect"
	"testing"
)

func TestSplitWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []RawToken
	}{
		{
			name:  "words and separators alternate",
			input: "en glasskål",
			expected: []RawToken{
				{Text: "en", Type: TokenWord, Start: 0, End: 2},
				{Text: " ", Type: TokenSeparator, Start: 2, End: 3},
				{Text: "glasskål", Type: TokenWord, Start: 3, End: 11},
			},
		},
		{
			name:  "punctuation groups into one separator",
			input: "skål!?",
			expected: []RawToken{
				{Text: "skål", Type: TokenWord, Start: 0, End: 4},
				{Text: "!?", Type: TokenSeparator, Start: 4, End: 6},
			},
		},
		{
			name:  "digits are word characters",
			input: "100kr",
			expected: []RawToken{
				{Text: "100kr", Type: TokenWord, Start: 0, End: 5},
			},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitWords(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("SplitWords(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSplitWords_OffsetsAreRuneBased(t *testing.T) {
	tokens := SplitWords("åska över ön")
	if len(tokens) != 5 {
		t.Fatalf("got %d tokens, want 5", len(tokens))
	}
	last := tokens[4]
	if last.Text != "ön" || last.Start != 10 || last.End != 12 {
		t.Errorf("last token = %+v, want ön at rune offsets [10, 12)", last)
	}
}

func TestTokensFromText(t *testing.T) {
	tokens := TokensFromText("En ”Glasskål”, tack!", NewNormalizer())

	words := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = tok.Word
		if tok.MSD != "" {
			t.Errorf("token %q carries MSD %q, want none for raw text", tok.Word, tok.MSD)
		}
	}

	expected := []string{"en", "glasskål", "tack"}
	if !reflect.DeepEqual(words, expected) {
		t.Errorf("TokensFromText words = %v, want %v", words, expected)
	}
}
