package lexicon

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/spamkit/pkg/spamkit/internalerr"
)

// POS is a coarse part-of-speech hint for lemmatization.
type POS int

const (
	Noun POS = iota
	Verb
	Adjective
	Adverb
)

var posNames = map[POS]string{
	Noun:      "noun",
	Verb:      "verb",
	Adjective: "adjective",
	Adverb:    "adverb",
}

func (p POS) String() string {
	if name, ok := posNames[p]; ok {
		return name
	}
	return fmt.Sprintf("pos(%d)", int(p))
}

// ParsePOS accepts WordNet-style short tags ("n", "v", "a", "r") and full names.
func ParsePOS(s string) (POS, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "noun":
		return Noun, nil
	case "v", "verb":
		return Verb, nil
	case "a", "adj", "adjective":
		return Adjective, nil
	case "r", "adv", "adverb":
		return Adverb, nil
	default:
		return Noun, fmt.Errorf("part of speech %q: %w", s, internalerr.ErrInvalidInput)
	}
}

// Lemmatizer reduces inflected words to dictionary forms.
//
// Lookup order:
//   - invariant words are returned unchanged for every POS
//   - per-POS exception dictionary (irregular forms: went -> go, mice -> mouse)
//   - per-POS suffix rules (ponies -> pony, flapped -> flap, making -> make)
//
// Words the rules cannot place are returned unchanged.
type Lemmatizer struct {
	// form -> lemma, per part of speech
	exceptions map[POS]map[string]string

	// words that look inflected but are not
	invariant map[string]struct{}
}

// New creates a lemmatizer seeded with the built-in English irregular forms.
func New() *Lemmatizer {
	l := &Lemmatizer{
		exceptions: make(map[POS]map[string]string),
		invariant:  make(map[string]struct{}),
	}
	for pos, forms := range builtinExceptions {
		for form, lemma := range forms {
			l.AddException(pos, form, lemma)
		}
	}
	for _, w := range builtinInvariant {
		l.AddInvariant(w)
	}
	return l
}

// LoadFromYAML loads additional exceptions on top of the built-in ones.
//
// Expected format:
//
//	exceptions:
//	  verb:
//	    texted: text
//	  noun:
//	    cacti: cactus
//	invariant: [news, always]
func LoadFromYAML(path string) (*Lemmatizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config struct {
		Exceptions map[string]map[string]string `yaml:"exceptions"`
		Invariant  []string                     `yaml:"invariant"`
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	l := New()
	for tag, forms := range config.Exceptions {
		pos, err := ParsePOS(tag)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for form, lemma := range forms {
			l.AddException(pos, form, lemma)
		}
	}
	for _, w := range config.Invariant {
		l.AddInvariant(w)
	}
	return l, nil
}

// AddException maps an irregular form to its lemma for the given POS.
func (l *Lemmatizer) AddException(pos POS, form, lemma string) {
	form = strings.ToLower(strings.TrimSpace(form))
	lemma = strings.ToLower(strings.TrimSpace(lemma))
	if form == "" || lemma == "" {
		return
	}
	if l.exceptions[pos] == nil {
		l.exceptions[pos] = make(map[string]string)
	}
	l.exceptions[pos][form] = lemma
}

// AddInvariant marks a word that must never be reduced.
func (l *Lemmatizer) AddInvariant(word string) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word != "" {
		l.invariant[word] = struct{}{}
	}
}

// Lemmatize returns the lemma of word read as the given part of speech.
//
// Examples:
//   - Lemmatize("having", Verb) -> "have"
//   - Lemmatize("ponies", Noun) -> "pony"
//   - Lemmatize("unknown", Noun) -> "unknown"
func (l *Lemmatizer) Lemmatize(word string, pos POS) string {
	word = strings.ToLower(word)
	if _, ok := l.invariant[word]; ok {
		return word
	}
	if lemma, ok := l.exceptions[pos][word]; ok {
		return lemma
	}

	switch pos {
	case Noun:
		return nounRules(word)
	case Verb:
		return verbRules(word)
	case Adjective:
		return adjectiveRules(word)
	default:
		return word
	}
}

// Stats returns statistics about the lemmatizer contents.
func (l *Lemmatizer) Stats() LexiconStats {
	stats := LexiconStats{Exceptions: make(map[POS]int, len(l.exceptions))}
	for pos, forms := range l.exceptions {
		stats.Exceptions[pos] = len(forms)
	}
	stats.Invariant = len(l.invariant)
	return stats
}

// LexiconStats holds statistics about lemmatizer contents.
type LexiconStats struct {
	Exceptions map[POS]int // irregular forms per POS
	Invariant  int         // words never reduced
}
