// Package stopwords proposes corpus-specific stopwords from label statistics.
package stopwords

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/spamkit/pkg/spamkit/stoplist"
)

// StatsProvider exposes the aggregated metrics required for stopword tuning.
type StatsProvider interface {
	StopwordStats(ctx context.Context) ([]stoplist.Stats, error)
}

// Reviewer optionally performs an extra approval step.
type Reviewer interface {
	Approve(ctx context.Context, cand stoplist.Candidate) (bool, error)
}

// AutoTuner produces ranked stopword suggestions from corpus statistics.
type AutoTuner struct {
	Provider   StatsProvider
	Manager    *stoplist.Manager
	Thresholds stoplist.Thresholds
	Reviewer   Reviewer // optional
	// Limit caps the number of candidates sent for review. 0 means no limit.
	Limit int
}

// Run collects stats, produces candidates, optionally routes them through the reviewer,
// and returns approved suggestions. Approved tokens are added to the manager.
func (t *AutoTuner) Run(ctx context.Context) ([]stoplist.Candidate, error) {
	if t.Provider == nil {
		return nil, errors.New("stopwords autotune: nil stats provider")
	}
	if t.Manager == nil {
		return nil, errors.New("stopwords autotune: nil manager")
	}

	stats, err := t.Provider.StopwordStats(ctx)
	if err != nil {
		return nil, err
	}

	candidates := t.Manager.SuggestCandidates(stats, t.thresholdsOrDefault())
	if t.Limit > 0 && len(candidates) > t.Limit {
		candidates = candidates[:t.Limit]
	}

	approved := candidates
	if t.Reviewer != nil && len(candidates) > 0 {
		approved = nil
		for _, cand := range candidates {
			ok, err := t.Reviewer.Approve(ctx, cand)
			if err != nil {
				return nil, err
			}
			if ok {
				approved = append(approved, cand)
			}
		}
	}

	for _, cand := range approved {
		t.Manager.Add(cand.Token, cand.Reason)
	}
	return approved, nil
}

func (t *AutoTuner) thresholdsOrDefault() stoplist.Thresholds {
	if t.Thresholds == (stoplist.Thresholds{}) {
		return stoplist.DefaultThresholds()
	}
	return t.Thresholds
}

// PromptReviewer asks a human to confirm each candidate on a terminal.
type PromptReviewer struct {
	In  *bufio.Reader
	Out io.Writer
}

// NewPromptReviewer creates a reviewer reading answers from in.
func NewPromptReviewer(in io.Reader, out io.Writer) *PromptReviewer {
	return &PromptReviewer{In: bufio.NewReader(in), Out: out}
}

// Approve prints the candidate and accepts "y" or "yes". End of input rejects.
func (r *PromptReviewer) Approve(ctx context.Context, cand stoplist.Candidate) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(r.Out, "%-20s df=%.1f%% entropy=%.2f score=%.3f  add? [y/N] ",
		cand.Token, cand.Reason.DFPercent, cand.Reason.LabelEntropy, cand.Score)

	line, err := r.In.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
