// Package features turns normalized token sequences into fixed-length vectors
// aligned to a vocabulary.
package features

import (
	"fmt"

	"github.com/cognicore/spamkit/pkg/spamkit/vocab"
)

// Presence marks, per vocabulary slot, whether the token occurred.
type Presence []bool

// Counts holds per-slot term frequencies.
type Counts []int

// Labeled pairs a presence vector with its known label.
type Labeled struct {
	Features Presence
	Label    string
}

// Extract builds the boolean bag-of-words vector for tokens.
// Tokens outside the vocabulary are ignored.
func Extract(tokens []string, v *vocab.Vocabulary) Presence {
	p := make(Presence, v.Len())
	for _, tok := range tokens {
		if i, ok := v.Index(tok); ok {
			p[i] = true
		}
	}
	return p
}

// Count builds the term-frequency vector for tokens.
func Count(tokens []string, v *vocab.Vocabulary) Counts {
	c := make(Counts, v.Len())
	for _, tok := range tokens {
		if i, ok := v.Index(tok); ok {
			c[i]++
		}
	}
	return c
}

// Present returns how many slots are set.
func (p Presence) Present() int {
	n := 0
	for _, b := range p {
		if b {
			n++
		}
	}
	return n
}

// Named renders p in the contains(word) form.
func Named(p Presence, v *vocab.Vocabulary) map[string]bool {
	out := make(map[string]bool, len(p))
	for i, present := range p {
		if i >= v.Len() {
			break
		}
		out[Key(v.Token(i))] = present
	}
	return out
}

// Key is the feature name used for a vocabulary token.
func Key(token string) string {
	return fmt.Sprintf("contains(%s)", token)
}
