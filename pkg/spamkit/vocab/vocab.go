// Package vocab builds the frozen, ordered token vocabulary that every feature
// vector and trained model is aligned to.
package vocab

import (
	"fmt"
	"sort"

	"github.com/cognicore/spamkit/pkg/spamkit/internalerr"
)

// Vocabulary is an immutable ordered set of tokens.
type Vocabulary struct {
	tokens []string
	index  map[string]int
}

// FromTokens builds a vocabulary in the given order. Duplicates are rejected
// because they would break positional alignment.
func FromTokens(tokens []string) (*Vocabulary, error) {
	v := &Vocabulary{
		tokens: make([]string, 0, len(tokens)),
		index:  make(map[string]int, len(tokens)),
	}
	for _, tok := range tokens {
		if _, dup := v.index[tok]; dup {
			return nil, fmt.Errorf("duplicate vocabulary token %q: %w", tok, internalerr.ErrInvalidInput)
		}
		v.index[tok] = len(v.tokens)
		v.tokens = append(v.tokens, tok)
	}
	return v, nil
}

// Len returns the number of tokens.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.tokens)
}

// Index returns the position of token.
func (v *Vocabulary) Index(token string) (int, bool) {
	if v == nil {
		return 0, false
	}
	i, ok := v.index[token]
	return i, ok
}

// Contains reports whether token is in the vocabulary.
func (v *Vocabulary) Contains(token string) bool {
	_, ok := v.Index(token)
	return ok
}

// Token returns the token at position i.
func (v *Vocabulary) Token(i int) string {
	return v.tokens[i]
}

// Tokens returns a copy of the tokens in vocabulary order.
func (v *Vocabulary) Tokens() []string {
	if v == nil {
		return nil
	}
	out := make([]string, len(v.tokens))
	copy(out, v.tokens)
	return out
}

// Sorted returns an alphabetically ordered copy.
func (v *Vocabulary) Sorted() *Vocabulary {
	tokens := v.Tokens()
	sort.Strings(tokens)
	out, _ := FromTokens(tokens) // already unique
	return out
}

// Builder accumulates tokens until Build freezes them into a Vocabulary.
type Builder struct {
	minCount int
	order    []string
	counts   map[string]int
	frozen   bool
}

// NewBuilder creates a builder that keeps tokens seen at least minCount times
// across all added documents. minCount <= 1 keeps every token.
func NewBuilder(minCount int) *Builder {
	if minCount < 1 {
		minCount = 1
	}
	return &Builder{
		minCount: minCount,
		counts:   make(map[string]int),
	}
}

// Add records one document's tokens.
func (b *Builder) Add(tokens []string) error {
	if b.frozen {
		return internalerr.ErrVocabularyFrozen
	}
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if _, seen := b.counts[tok]; !seen {
			b.order = append(b.order, tok)
		}
		b.counts[tok]++
	}
	return nil
}

// Count returns how often token has been added so far.
func (b *Builder) Count(token string) int {
	return b.counts[token]
}

// Build freezes the builder and returns the vocabulary in first-seen order,
// without tokens below the minimum count.
func (b *Builder) Build() *Vocabulary {
	b.frozen = true

	kept := make([]string, 0, len(b.order))
	for _, tok := range b.order {
		if b.counts[tok] >= b.minCount {
			kept = append(kept, tok)
		}
	}
	v, _ := FromTokens(kept) // order holds each token once
	return v
}

// Build is a shortcut for building a vocabulary from tokenized documents.
func Build(docs [][]string, minCount int) *Vocabulary {
	b := NewBuilder(minCount)
	for _, doc := range docs {
		_ = b.Add(doc) // builder is not frozen yet
	}
	return b.Build()
}
