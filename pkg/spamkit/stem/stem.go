// Package stem provides deterministic suffix-stripping stemmers.
package stem

import (
	"fmt"
	"strings"

	"github.com/kljensen/snowball/english"
	porterstemmer "github.com/reiver/go-porterstemmer"

	"github.com/cognicore/spamkit/pkg/spamkit/internalerr"
)

// Algorithm names accepted by New.
const (
	AlgorithmPorter   = "porter"
	AlgorithmSnowball = "snowball"
)

// Stemmer reduces a lowercase word to its stem.
type Stemmer interface {
	Stem(word string) string
	Name() string
}

// New returns the stemmer registered under name.
func New(name string) (Stemmer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", AlgorithmPorter:
		return Porter{}, nil
	case AlgorithmSnowball:
		return Snowball{}, nil
	default:
		return nil, fmt.Errorf("stemmer %q: %w", name, internalerr.ErrInvalidConfig)
	}
}

// Porter is the original Porter (1980) algorithm.
type Porter struct{}

func (Porter) Stem(word string) (stemmed string) {
	if word == "" {
		return word
	}
	// StemString indexes out of range on a few short words such as "eed".
	defer func() {
		if recover() != nil {
			stemmed = word
		}
	}()
	return porterstemmer.StemString(word)
}

func (Porter) Name() string { return AlgorithmPorter }

// Snowball is the English Snowball ("Porter2") algorithm.
type Snowball struct{}

// Stem also stems stopwords; filtering them is the tokenizer's job.
func (Snowball) Stem(word string) string {
	if word == "" {
		return word
	}
	return english.Stem(word, true)
}

func (Snowball) Name() string { return AlgorithmSnowball }
