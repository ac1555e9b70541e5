package store

import (
	"context"
	"sort"
	"time"

	"github.com/cognicore/spamkit/pkg/spamkit/nb"
)

// ModelStore persists trained models and the tuned stoplist.
type ModelStore interface {
	Close() error

	// Models
	SaveModel(ctx context.Context, m Record) error
	LoadModel(ctx context.Context, id string) (Record, error)
	LatestModel(ctx context.Context) (Record, error)
	ListModels(ctx context.Context) ([]ModelInfo, error)
	DeleteModel(ctx context.Context, id string) error

	// Stoplist persistence for autotune results
	UpsertStoplist(ctx context.Context, tokens []string) error
	Stoplist(ctx context.Context) ([]string, error)
}

// Record is a stored model plus the run parameters that produced it
// (normalization mode, split seed, accuracies, ...).
type Record struct {
	Snapshot nb.Snapshot       `json:"snapshot"`
	Params   map[string]string `json:"params,omitempty"`
}

// ModelInfo summarizes a stored model without its counts.
type ModelInfo struct {
	ID        string
	TrainedAt time.Time
	Alpha     float64
	Documents int
	Features  int
	Labels    []string
	Params    map[string]string
}

// Info summarizes r.
func (r Record) Info() ModelInfo {
	info := ModelInfo{
		ID:        r.Snapshot.ID,
		TrainedAt: r.Snapshot.TrainedAt,
		Alpha:     r.Snapshot.Alpha,
		Features:  len(r.Snapshot.Vocabulary),
		Labels:    make([]string, 0, len(r.Snapshot.Labels)),
		Params:    make(map[string]string, len(r.Params)),
	}
	for _, l := range r.Snapshot.Labels {
		info.Documents += l.Documents
		info.Labels = append(info.Labels, l.Label)
	}
	sort.Strings(info.Labels)
	for k, v := range r.Params {
		info.Params[k] = v
	}
	return info
}

// Newer reports whether a was trained after b, using the ID as tie breaker.
func Newer(a, b ModelInfo) bool {
	if !a.TrainedAt.Equal(b.TrainedAt) {
		return a.TrainedAt.After(b.TrainedAt)
	}
	return a.ID > b.ID
}

// SortNewestFirst orders infos by training time, newest first.
func SortNewestFirst(infos []ModelInfo) {
	sort.Slice(infos, func(i, j int) bool { return Newer(infos[i], infos[j]) })
}
