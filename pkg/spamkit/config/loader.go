package config

import (
	"fmt"

	"github.com/cognicore/spamkit/pkg/spamkit/ingest"
	"github.com/cognicore/spamkit/pkg/spamkit/lexicon"
	"github.com/cognicore/spamkit/pkg/spamkit/stem"
	"github.com/cognicore/spamkit/pkg/spamkit/stoplist"
)

// Loader loads the files a Normalize section references and constructs components
type Loader struct {
	Normalize Normalize
	// Stopwords are appended after the language list and stoplist file,
	// e.g. tokens persisted by an autotune run.
	Stopwords []string
}

// Components holds all loaded configuration components
type Components struct {
	Tokenizer  *ingest.Tokenizer
	Stemmer    stem.Stemmer
	Lemmatizer *lexicon.Lemmatizer
	Pipeline   *ingest.Pipeline
	Stopwords  []string
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	n := l.Normalize
	comp := &Components{}

	mode, err := ingest.ParseMode(n.Mode)
	if err != nil {
		return nil, err
	}
	pos := lexicon.Verb
	if n.POS != "" {
		if pos, err = lexicon.ParsePOS(n.POS); err != nil {
			return nil, err
		}
	}

	// Stopwords: language list, then stoplist file, then extras
	stops, err := stoplist.ForLanguage(n.Language)
	if err != nil {
		return nil, err
	}
	if n.StoplistPath != "" {
		sl, err := LoadStoplist(n.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		stops = append(stops, sl.Terms...)
	}
	stops = append(stops, n.ExtraStopwords...)
	stops = append(stops, l.Stopwords...)
	comp.Stopwords = stoplist.NewManager(stops).All()

	comp.Tokenizer = ingest.NewTokenizer(comp.Stopwords)
	if n.MinLength > 0 {
		comp.Tokenizer.SetMinLength(n.MinLength)
	}
	comp.Tokenizer.SetDropNumeric(n.DropNumeric)

	if comp.Stemmer, err = stem.New(n.Stemmer); err != nil {
		return nil, err
	}

	// Lemma exceptions
	if n.LemmaExceptions != "" {
		if comp.Lemmatizer, err = lexicon.LoadFromYAML(n.LemmaExceptions); err != nil {
			return nil, fmt.Errorf("load lemma exceptions: %w", err)
		}
	} else {
		comp.Lemmatizer = lexicon.New()
	}

	comp.Pipeline = ingest.NewPipeline(comp.Tokenizer, ingest.Options{
		Mode:       mode,
		Stemmer:    comp.Stemmer,
		Lemmatizer: comp.Lemmatizer,
		POS:        pos,
		CacheSize:  n.CacheSize,
	})
	return comp, nil
}
