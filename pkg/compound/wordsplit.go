package compound

import (
	"unicode"
)

// TokenType identifies the type of a raw token.
type TokenType int

const (
	TokenWord TokenType = iota
	TokenSeparator
)

// RawToken represents a stretch of text before annotation.
type RawToken struct {
	Text  string
	Type  TokenType
	Start int
	End   int
}

// SplitWords splits text into words and separators by rune class. This is
// ingestion plumbing for feeding raw text into the document lexicon, not a
// linguistic tokenizer.
// Word characters: letters and numbers. Separators: everything else.
func SplitWords(text string) []RawToken {
	var tokens []RawToken
	runes := []rune(text)

	if len(runes) == 0 {
		return tokens
	}

	start := 0
	currentType := getTokenType(runes[0])

	for i := 1; i <= len(runes); i++ {
		var nextType TokenType
		if i < len(runes) {
			nextType = getTokenType(runes[i])
		} else {
			nextType = TokenType(-1) // Force flush
		}

		if nextType != currentType {
			tokens = append(tokens, RawToken{
				Text:  string(runes[start:i]),
				Type:  currentType,
				Start: start,
				End:   i,
			})
			start = i
			currentType = nextType
		}
	}

	return tokens
}

// TokensFromText turns raw text into annotation tokens with empty MSDs,
// normalizing each word with the given normalizer. Used by the CLI when no
// tagged input is available; the document lexicon built from these tokens
// can only serve the prefix and infix roles.
func TokensFromText(text string, normalizer *Normalizer) []Token {
	var tokens []Token
	for _, raw := range SplitWords(text) {
		if raw.Type != TokenWord {
			continue
		}
		tokens = append(tokens, Token{Word: normalizer.Normalize(raw.Text)})
	}
	return tokens
}

// getTokenType determines if a rune is a word character or separator.
func getTokenType(r rune) TokenType {
	if unicode.IsLetter(r) || unicode.IsNumber(r) {
		return TokenWord
	}
	return TokenSeparator
}
