package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cognicore/spamkit/pkg/spamkit/internalerr"
	"github.com/cognicore/spamkit/pkg/spamkit/lexicon"
	"github.com/cognicore/spamkit/pkg/spamkit/stem"
)

func TestPipelineNoReduction(t *testing.T) {
	pipeline := NewPipeline(NewTokenizer([]string{"the"}), Options{Mode: ModeNone})

	got := pipeline.Process("See you at the MEETING")
	want := []string{"see", "you", "meeting"}
	if !equalTokens(got, want) {
		t.Errorf("Process() = %v, want %v", got, want)
	}
}

func TestPipelineStem(t *testing.T) {
	pipeline := NewPipeline(NewTokenizer(nil), Options{Mode: ModeStem, Stemmer: stem.Porter{}})

	got := pipeline.Process("running connections")
	want := []string{"run", "connect"}
	if !equalTokens(got, want) {
		t.Errorf("Process() = %v, want %v", got, want)
	}
}

func TestPipelineStemShortWords(t *testing.T) {
	pipeline := NewPipeline(NewTokenizer(nil), Options{Mode: ModeStem})

	got := pipeline.Process("EED form")
	want := []string{"eed", "form"}
	if !equalTokens(got, want) {
		t.Errorf("Process() = %v, want %v", got, want)
	}

	texts := []string{"eed", "eeds", "the eed sucks"}
	out, err := pipeline.ProcessAll(context.Background(), texts, 2)
	if err != nil {
		t.Fatalf("ProcessAll: %v", err)
	}
	for i, tokens := range out {
		if len(tokens) == 0 {
			t.Errorf("Process(%q) returned no tokens", texts[i])
		}
	}
}

func TestPipelineLemmaVerb(t *testing.T) {
	pipeline := NewPipeline(NewTokenizer(nil), DefaultOptions())

	got := pipeline.Process("He looked, having bought a flapped coat")
	want := []string{"look", "have", "buy", "flap", "coat"}
	if !equalTokens(got, want) {
		t.Errorf("Process() = %v, want %v", got, want)
	}
}

func TestPipelineLemmaNoun(t *testing.T) {
	pipeline := NewPipeline(NewTokenizer(nil), Options{Mode: ModeLemma, POS: lexicon.Noun})

	got := pipeline.Process("ponies and children at meetings")
	want := []string{"pony", "and", "child", "meeting"}
	if !equalTokens(got, want) {
		t.Errorf("Process() = %v, want %v", got, want)
	}
}

func TestPipelineEmptyText(t *testing.T) {
	pipeline := NewPipeline(NewTokenizer(nil), DefaultOptions())

	result := pipeline.Process("")
	if result == nil || len(result) != 0 {
		t.Errorf("Empty text should produce an empty token list, got %v", result)
	}
}

func TestPipelineOnlyStopwords(t *testing.T) {
	pipeline := NewPipeline(NewTokenizer([]string{"the", "and", "of"}), DefaultOptions())

	result := pipeline.Process("the and the of in a")
	if len(result) != 0 {
		t.Errorf("Text with only stopwords and short words should produce 0 tokens, got %v", result)
	}
}

func TestPipelineDeterministic(t *testing.T) {
	text := "CONGRATULATIONS!! As a valued account holder you have been selected to receive a prize reward"

	for _, mode := range []Mode{ModeNone, ModeStem, ModeLemma} {
		pipeline := NewPipeline(NewTokenizer([]string{"as", "a"}), Options{Mode: mode, POS: lexicon.Verb})
		first := pipeline.Process(text)
		for i := 0; i < 5; i++ {
			// second and later calls hit the cache
			if got := pipeline.Process(text); !equalTokens(got, first) {
				t.Fatalf("mode %s not deterministic: %v vs %v", mode, got, first)
			}
		}

		uncached := NewPipeline(NewTokenizer([]string{"as", "a"}), Options{Mode: mode, POS: lexicon.Verb, CacheSize: -1})
		if got := uncached.Process(text); !equalTokens(got, first) {
			t.Errorf("mode %s: cached %v != uncached %v", mode, first, got)
		}
	}
}

func TestPipelineProcessAllPreservesOrder(t *testing.T) {
	pipeline := NewPipeline(NewTokenizer(nil), Options{Mode: ModeStem})

	texts := make([]string, 200)
	for i := range texts {
		texts[i] = fmt.Sprintf("message number%d running", i)
	}

	out, err := pipeline.ProcessAll(context.Background(), texts, 8)
	if err != nil {
		t.Fatalf("ProcessAll: %v", err)
	}
	if len(out) != len(texts) {
		t.Fatalf("Expected %d results, got %d", len(texts), len(out))
	}
	for i, tokens := range out {
		want := pipeline.Process(texts[i])
		if !equalTokens(tokens, want) {
			t.Fatalf("result %d = %v, want %v", i, tokens, want)
		}
	}
}

func TestPipelineProcessAllCanceled(t *testing.T) {
	pipeline := NewPipeline(NewTokenizer(nil), Options{Mode: ModeNone})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.ProcessAll(ctx, []string{"one", "two"}, 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestPipelineVeryLongText(t *testing.T) {
	pipeline := NewPipeline(NewTokenizer([]string{"the"}), Options{Mode: ModeStem})

	longText := ""
	for i := 0; i < 10000; i++ {
		longText += "words "
	}

	result := pipeline.Process(longText)
	if len(result) != 10000 {
		t.Errorf("Expected 10000 tokens, got %d", len(result))
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"stem": ModeStem, "LEMMA": ModeLemma, "none": ModeNone, "": ModeNone} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseMode("soundex"); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("ParseMode(soundex) error = %v, want ErrInvalidConfig", err)
	}

	if ModeFromFlag(true) != ModeStem || ModeFromFlag(false) != ModeLemma {
		t.Error("ModeFromFlag should map true to stem and false to lemma")
	}
}
