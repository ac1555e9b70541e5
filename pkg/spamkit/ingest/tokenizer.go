package ingest

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMinLength is the shortest token (in runes) kept by a new Tokenizer.
const DefaultMinLength = 3

// Tokenizer handles text tokenization and filtering
type Tokenizer struct {
	stopwords   map[string]struct{}
	minLength   int
	dropNumeric bool
}

// NewTokenizer creates a new tokenizer with the given stopword list
func NewTokenizer(stopwords []string) *Tokenizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{stopwords: stops, minLength: DefaultMinLength}
}

// SetMinLength sets the shortest token length (in runes) that survives filtering.
// Values below 1 are treated as 1.
func (t *Tokenizer) SetMinLength(n int) {
	if n < 1 {
		n = 1
	}
	t.minLength = n
}

// MinLength returns the current minimum token length.
func (t *Tokenizer) MinLength() int {
	return t.minLength
}

// SetDropNumeric controls whether pure-numeric tokens ("900", "2023") are removed.
// They are kept by default: prize amounts and short codes are strong spam signals.
func (t *Tokenizer) SetDropNumeric(drop bool) {
	t.dropNumeric = drop
}

// DropNumeric reports whether pure-numeric tokens are removed.
func (t *Tokenizer) DropNumeric() bool {
	return t.dropNumeric
}

// Tokenize lowercases text, splits it into words, and removes stopwords and
// tokens shorter than the minimum length. Empty input yields an empty slice.
func (t *Tokenizer) Tokenize(text string) []string {
	tokens := []string{}
	var current strings.Builder

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
			current.WriteRune(r)
		} else {
			if current.Len() > 0 {
				word := t.processToken(current.String())
				if word != "" {
					tokens = append(tokens, word)
				}
				current.Reset()
			}
		}
	}

	// Don't forget the last token
	if current.Len() > 0 {
		word := t.processToken(current.String())
		if word != "" {
			tokens = append(tokens, word)
		}
	}

	return tokens
}

// processToken applies cleaning, stopword filtering and the length cutoff.
func (t *Tokenizer) processToken(token string) string {
	word := t.cleanToken(token)
	if word == "" {
		return ""
	}

	if t.isStopword(word) {
		return ""
	}

	if utf8.RuneCountInString(word) < t.minLength {
		return ""
	}

	if t.dropNumeric && isNumericOnly(word) {
		return ""
	}

	return word
}

// cleanToken strips leading/trailing hyphens and normalizes consecutive hyphens
func (t *Tokenizer) cleanToken(token string) string {
	token = strings.Trim(token, "-")

	for strings.Contains(token, "--") {
		token = strings.ReplaceAll(token, "--", "-")
	}

	return token
}

// isNumericOnly returns true if the token contains only digits and hyphens.
func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}

func (t *Tokenizer) isStopword(word string) bool {
	_, ok := t.stopwords[word]
	return ok
}

// AddStopword adds a word to the stopword list
func (t *Tokenizer) AddStopword(word string) {
	t.stopwords[strings.ToLower(word)] = struct{}{}
}

// RemoveStopword removes a word from the stopword list
func (t *Tokenizer) RemoveStopword(word string) {
	delete(t.stopwords, strings.ToLower(word))
}

// Stopwords returns the number of active stopwords.
func (t *Tokenizer) Stopwords() int {
	return len(t.stopwords)
}

// StopwordList returns the active stopwords in sorted order.
func (t *Tokenizer) StopwordList() []string {
	out := make([]string, 0, len(t.stopwords))
	for w := range t.stopwords {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
