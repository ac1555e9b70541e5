package ingest

import (
	"strings"
	"testing"
)

func TestTokenizerBasic(t *testing.T) {
	stopwords := []string{"the", "a", "and", "of"}
	tokenizer := NewTokenizer(stopwords)

	text := "The quick brown fox jumps over the lazy dog"
	tokens := tokenizer.Tokenize(text)

	want := []string{"quick", "brown", "fox", "jumps", "over", "lazy", "dog"}
	if !equalTokens(tokens, want) {
		t.Errorf("Tokenize(%q) = %v, want %v", text, tokens, want)
	}
}

func TestTokenizerHyphens(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	text := "waist-coat and hand-made"
	tokens := tokenizer.Tokenize(text)

	want := []string{"waist-coat", "and", "hand-made"}
	if !equalTokens(tokens, want) {
		t.Errorf("Tokenize(%q) = %v, want %v", text, tokens, want)
	}
}

func TestTokenizerCaseNormalization(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	text := "CONGRATULATIONS You WON a Prize"
	tokens := tokenizer.Tokenize(text)

	for _, tok := range tokens {
		if tok != strings.ToLower(tok) {
			t.Errorf("Token %s should be lowercased", tok)
		}
	}
}

func TestAddRemoveStopword(t *testing.T) {
	tokenizer := NewTokenizer([]string{"the"})

	tokens := tokenizer.Tokenize("the cat")
	if len(tokens) != 1 || tokens[0] != "cat" {
		t.Error("Should filter 'the'")
	}

	tokenizer.RemoveStopword("the")
	tokens = tokenizer.Tokenize("the cat")
	if len(tokens) != 2 {
		t.Error("'the' should not be filtered after removal")
	}

	tokenizer.AddStopword("the")
	tokens = tokenizer.Tokenize("the cat")
	if len(tokens) != 1 || tokens[0] != "cat" {
		t.Error("Should filter 'the' after re-adding")
	}
}

func TestTokenizerEmptyInput(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	tokens := tokenizer.Tokenize("")
	if tokens == nil {
		t.Error("Empty input should produce an empty, non-nil slice")
	}
	if len(tokens) != 0 {
		t.Error("Empty input should produce empty output")
	}
}

func TestTokenizerWhitespaceOnly(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	tokens := tokenizer.Tokenize("   \t\n\r   ")
	if len(tokens) != 0 {
		t.Errorf("Whitespace-only input should produce 0 tokens, got %d", len(tokens))
	}
}

func TestTokenizerMinLength(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	text := "a an at see you at the meeting"
	tokens := tokenizer.Tokenize(text)

	want := []string{"see", "you", "the", "meeting"}
	if !equalTokens(tokens, want) {
		t.Errorf("Tokenize(%q) = %v, want %v", text, tokens, want)
	}

	tokenizer.SetMinLength(2)
	tokens = tokenizer.Tokenize("an at ok")
	if len(tokens) != 3 {
		t.Errorf("MinLength 2 should keep two-letter tokens, got %v", tokens)
	}

	tokenizer.SetMinLength(0)
	if tokenizer.MinLength() != 1 {
		t.Errorf("MinLength should clamp to 1, got %d", tokenizer.MinLength())
	}
}

func TestTokenizerMinLengthCountsRunes(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	// "été" is three runes but five bytes
	tokens := tokenizer.Tokenize("été où")
	want := []string{"été"}
	if !equalTokens(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenizerMixedPunctuation(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	text := "hello! world? test... end."
	tokens := tokenizer.Tokenize(text)

	expected := []string{"hello", "world", "test", "end"}
	if !equalTokens(tokens, expected) {
		t.Errorf("Expected %v, got %v", expected, tokens)
	}
}

func TestTokenizerContractions(t *testing.T) {
	tokenizer := NewTokenizer([]string{"don", "ll"})

	// Apostrophes split words; the fragments are stopwords or too short
	tokens := tokenizer.Tokenize("don't worry he'll call")
	want := []string{"worry", "call"}
	if !equalTokens(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenizerNumbers(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	text := "claim your 900 prize call 08452810075"
	tokens := tokenizer.Tokenize(text)

	want := []string{"claim", "your", "900", "prize", "call", "08452810075"}
	if !equalTokens(tokens, want) {
		t.Errorf("Numbers should be kept by default: got %v, want %v", tokens, want)
	}

	tokenizer.SetDropNumeric(true)
	tokens = tokenizer.Tokenize(text)
	want = []string{"claim", "your", "prize", "call"}
	if !equalTokens(tokens, want) {
		t.Errorf("Numbers should be dropped: got %v, want %v", tokens, want)
	}
}

func TestTokenizerStopwordCaseInsensitive(t *testing.T) {
	tokenizer := NewTokenizer([]string{"THE", "AND"})

	tokens := tokenizer.Tokenize("The cat and the dog")
	for _, tok := range tokens {
		if tok == "the" || tok == "and" {
			t.Errorf("Stopword should be filtered regardless of case: %s", tok)
		}
	}
}

func TestTokenizerDuplicateStopwords(t *testing.T) {
	tokenizer := NewTokenizer([]string{"the", "the", "the"})

	tokens := tokenizer.Tokenize("the cat")
	if len(tokens) != 1 || tokens[0] != "cat" {
		t.Errorf("Duplicate stopwords should work correctly, got %v", tokens)
	}
	if tokenizer.Stopwords() != 1 {
		t.Errorf("Expected 1 distinct stopword, got %d", tokenizer.Stopwords())
	}
}

func TestTokenizerLeadingTrailingHyphens(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	text := "-garbage end- normal---text - --"
	tokens := tokenizer.Tokenize(text)

	want := []string{"garbage", "end", "normal-text"}
	if !equalTokens(tokens, want) {
		t.Errorf("Tokenize(%q) = %v, want %v", text, tokens, want)
	}
}

func TestTokenizerVeryLongWord(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	longWord := strings.Repeat("verylongword", 20)
	tokens := tokenizer.Tokenize("normal " + longWord + " text")

	if len(tokens) != 3 {
		t.Errorf("Expected 3 tokens, got %d", len(tokens))
	}
}

// Helper function for comparing token lists
func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTokenizerStopwordList(t *testing.T) {
	tokenizer := NewTokenizer([]string{"The", "call", "and"})
	tokenizer.AddStopword("WIN")

	got := tokenizer.StopwordList()
	want := []string{"and", "call", "the", "win"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("StopwordList() = %v, want %v", got, want)
	}
	if tokenizer.DropNumeric() {
		t.Error("DropNumeric() = true on a new tokenizer")
	}
}
