package analytics

import (
	"context"
	"math"
	"sort"

	"github.com/cognicore/spamkit/pkg/spamkit/stoplist"
)

// Analyzer aggregates corpus-level token statistics: term frequency,
// document frequency and document frequency per label.
type Analyzer struct {
	totalDocs   int64
	totalTokens int64
	tokenTF     map[string]int64
	tokenDF     map[string]int64
	tokenLabels map[string]map[string]int64
	labelDocs   map[string]int64
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		tokenTF:     make(map[string]int64),
		tokenDF:     make(map[string]int64),
		tokenLabels: make(map[string]map[string]int64),
		labelDocs:   make(map[string]int64),
	}
}

// Process consumes one document's tokens. label may be empty for unlabeled text.
func (a *Analyzer) Process(tokens []string, label string) {
	a.totalDocs++
	if label != "" {
		a.labelDocs[label]++
	}

	seen := make(map[string]struct{})
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		a.totalTokens++
		a.tokenTF[tok]++
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		a.tokenDF[tok]++
		if label == "" {
			continue
		}
		if a.tokenLabels[tok] == nil {
			a.tokenLabels[tok] = make(map[string]int64)
		}
		a.tokenLabels[tok][label]++
	}
}

// Stats exposes the aggregated counts.
type Stats struct {
	TotalDocs   int64
	TotalTokens int64
	TokenTF     map[string]int64
	TokenDF     map[string]int64
	TokenLabels map[string]map[string]int64 // token -> label -> documents
	LabelDocs   map[string]int64
}

// Snapshot returns a copy of the accumulated statistics.
func (a *Analyzer) Snapshot() Stats {
	copyLabels := make(map[string]map[string]int64, len(a.tokenLabels))
	for tok, labels := range a.tokenLabels {
		copyLabels[tok] = make(map[string]int64, len(labels))
		for l, count := range labels {
			copyLabels[tok][l] = count
		}
	}
	return Stats{
		TotalDocs:   a.totalDocs,
		TotalTokens: a.totalTokens,
		TokenTF:     copyCounts(a.tokenTF),
		TokenDF:     copyCounts(a.tokenDF),
		TokenLabels: copyLabels,
		LabelDocs:   copyCounts(a.labelDocs),
	}
}

func copyCounts(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// TokenCount is one row of a frequency distribution.
type TokenCount struct {
	Token string
	Count int64
}

// MostCommon returns the n most frequent tokens, ties broken alphabetically.
// n <= 0 returns the whole distribution.
func (s Stats) MostCommon(n int) []TokenCount {
	out := make([]TokenCount, 0, len(s.TokenTF))
	for tok, c := range s.TokenTF {
		out = append(out, TokenCount{Token: tok, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Token < out[j].Token
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// StopwordStats converts corpus stats into the format expected by autotune/stopwords.
// LabelEntropy is the normalized entropy of the token's per-label document rates:
// 1 means the token is equally common under every label, 0 means it only occurs
// under one. Rates are used instead of raw counts so a skewed label balance
// does not make a token look informative.
func (s Stats) StopwordStats() []stoplist.Stats {
	var out []stoplist.Stats
	if s.TotalDocs == 0 {
		return out
	}

	for tok, df := range s.TokenDF {
		out = append(out, stoplist.Stats{
			Token:        tok,
			DF:           df,
			DFPercent:    100 * (float64(df) / float64(s.TotalDocs)),
			IDF:          math.Log(float64(s.TotalDocs) / (1 + float64(df))),
			LabelEntropy: labelEntropy(s.TokenLabels[tok], s.LabelDocs),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out
}

func labelEntropy(tokenLabels map[string]int64, labelDocs map[string]int64) float64 {
	switch len(labelDocs) {
	case 0:
		return 0
	case 1:
		// a single label carries no information
		return 1
	}

	rates := make([]float64, 0, len(labelDocs))
	var total float64
	for label, docs := range labelDocs {
		if docs == 0 {
			continue
		}
		r := float64(tokenLabels[label]) / float64(docs)
		rates = append(rates, r)
		total += r
	}
	if total == 0 {
		return 0
	}

	var h float64
	for _, r := range rates {
		p := r / total
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h / math.Log2(float64(len(labelDocs)))
}

// StopwordStatsProvider adapts Analyzer stats to the autotune interface.
type StopwordStatsProvider struct {
	stats Stats
}

func NewStopwordStatsProvider(stats Stats) *StopwordStatsProvider {
	return &StopwordStatsProvider{stats: stats}
}

func (p *StopwordStatsProvider) StopwordStats(ctx context.Context) ([]stoplist.Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.stats.StopwordStats(), nil
}
