package ingest

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/spamkit/pkg/spamkit/internalerr"
	"github.com/cognicore/spamkit/pkg/spamkit/lexicon"
	"github.com/cognicore/spamkit/pkg/spamkit/stem"
)

// Mode selects how surviving tokens are reduced.
type Mode int

const (
	// ModeNone keeps tokens as the tokenizer emitted them.
	ModeNone Mode = iota
	// ModeStem applies a suffix-stripping stemmer.
	ModeStem
	// ModeLemma applies the dictionary/morphology lemmatizer.
	ModeLemma
)

func (m Mode) String() string {
	switch m {
	case ModeStem:
		return "stem"
	case ModeLemma:
		return "lemma"
	default:
		return "none"
	}
}

// ParseMode parses "stem", "lemma" or "none".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return ModeNone, nil
	case "stem":
		return ModeStem, nil
	case "lemma":
		return ModeLemma, nil
	default:
		return ModeNone, fmt.Errorf("normalize mode %q: %w", s, internalerr.ErrInvalidConfig)
	}
}

// ModeFromFlag maps the classic stem=true/false switch onto a Mode.
func ModeFromFlag(stem bool) Mode {
	if stem {
		return ModeStem
	}
	return ModeLemma
}

// DefaultCacheSize bounds the per-pipeline reduction cache.
const DefaultCacheSize = 8192

// Options configures the reduction stage of a Pipeline.
type Options struct {
	Mode       Mode
	Stemmer    stem.Stemmer        // defaults to Porter
	Lemmatizer *lexicon.Lemmatizer // defaults to lexicon.New()
	POS        lexicon.POS         // POS hint for lemma mode
	CacheSize  int                 // 0 = DefaultCacheSize, negative disables caching
}

// DefaultOptions lemmatizes with a verb hint.
func DefaultOptions() Options {
	return Options{
		Mode: ModeLemma,
		POS:  lexicon.Verb,
	}
}

// Pipeline is the text normalizer:
// text → lowercase/tokenize → stopword + length filter → stem or lemma
type Pipeline struct {
	tokenizer  *Tokenizer
	mode       Mode
	stemmer    stem.Stemmer
	lemmatizer *lexicon.Lemmatizer
	pos        lexicon.POS
	cache      *lru.Cache[string, string]
}

// NewPipeline creates a normalization pipeline around tokenizer.
func NewPipeline(tokenizer *Tokenizer, opts Options) *Pipeline {
	if tokenizer == nil {
		tokenizer = NewTokenizer(nil)
	}
	p := &Pipeline{
		tokenizer:  tokenizer,
		mode:       opts.Mode,
		stemmer:    opts.Stemmer,
		lemmatizer: opts.Lemmatizer,
		pos:        opts.POS,
	}
	if p.stemmer == nil {
		p.stemmer = stem.Porter{}
	}
	if p.lemmatizer == nil {
		p.lemmatizer = lexicon.New()
	}

	size := opts.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}
	if size > 0 && p.mode != ModeNone {
		// lru.New only fails for non-positive sizes
		p.cache, _ = lru.New[string, string](size)
	}
	return p
}

// Mode returns the reduction mode.
func (p *Pipeline) Mode() Mode {
	return p.mode
}

// Tokenizer exposes the underlying tokenizer.
func (p *Pipeline) Tokenizer() *Tokenizer {
	return p.tokenizer
}

// Stemmer returns the stemmer used in stem mode.
func (p *Pipeline) Stemmer() stem.Stemmer {
	return p.stemmer
}

// Lemmatizer returns the lemmatizer used in lemma mode.
func (p *Pipeline) Lemmatizer() *lexicon.Lemmatizer {
	return p.lemmatizer
}

// POS returns the part-of-speech hint for lemma mode.
func (p *Pipeline) POS() lexicon.POS {
	return p.pos
}

// Process normalizes one document. The same text always yields the same tokens.
func (p *Pipeline) Process(text string) []string {
	tokens := p.tokenizer.Tokenize(text)
	if p.mode == ModeNone {
		return tokens
	}
	for i, tok := range tokens {
		tokens[i] = p.reduce(tok)
	}
	return tokens
}

// ProcessAll normalizes texts with at most workers goroutines. Result i belongs
// to texts[i]. The tokenizer must not be modified while ProcessAll runs.
func (p *Pipeline) ProcessAll(ctx context.Context, texts []string, workers int) ([][]string, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([][]string, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range texts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = p.Process(texts[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Pipeline) reduce(tok string) string {
	if p.cache != nil {
		if v, ok := p.cache.Get(tok); ok {
			return v
		}
	}

	var out string
	switch p.mode {
	case ModeStem:
		out = p.stemmer.Stem(tok)
	case ModeLemma:
		out = p.lemmatizer.Lemmatize(tok, p.pos)
	default:
		out = tok
	}

	if p.cache != nil {
		p.cache.Add(tok, out)
	}
	return out
}
