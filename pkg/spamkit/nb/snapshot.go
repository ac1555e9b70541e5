package nb

import (
	"fmt"
	"sort"
	"time"

	"github.com/cognicore/spamkit/pkg/spamkit/internalerr"
	"github.com/cognicore/spamkit/pkg/spamkit/vocab"
)

// Snapshot is the persisted form of a Model. It keeps raw counts so the
// smoothed probabilities are rebuilt exactly on load.
type Snapshot struct {
	ID         string          `json:"id"`
	TrainedAt  time.Time       `json:"trained_at"`
	Alpha      float64         `json:"alpha"`
	Vocabulary []string        `json:"vocabulary"`
	Labels     []LabelSnapshot `json:"labels"`
}

// LabelSnapshot holds the counts collected for one label.
type LabelSnapshot struct {
	Label     string `json:"label"`
	Documents int    `json:"documents"`
	// Present[i] is the number of the label's documents containing
	// vocabulary token i.
	Present []int `json:"present"`
}

// Snapshot returns a copy of the model's state.
func (m *Model) Snapshot() Snapshot {
	if !m.Trained() {
		return Snapshot{}
	}
	s := Snapshot{
		ID:         m.ID,
		TrainedAt:  m.TrainedAt,
		Alpha:      m.Alpha,
		Vocabulary: m.vocab.Tokens(),
		Labels:     make([]LabelSnapshot, len(m.labels)),
	}
	for li, l := range m.labels {
		present := make([]int, len(m.featureDocs[li]))
		copy(present, m.featureDocs[li])
		s.Labels[li] = LabelSnapshot{
			Label:     l,
			Documents: m.docs[li],
			Present:   present,
		}
	}
	return s
}

// FromSnapshot rebuilds a model, validating shapes and counts.
func FromSnapshot(s Snapshot) (*Model, error) {
	if len(s.Labels) == 0 {
		return nil, internalerr.ErrUntrained
	}
	if !(s.Alpha > 0) {
		return nil, fmt.Errorf("snapshot alpha %v: %w", s.Alpha, internalerr.ErrInvalidInput)
	}
	v, err := vocab.FromTokens(s.Vocabulary)
	if err != nil {
		return nil, fmt.Errorf("snapshot vocabulary: %w", err)
	}

	m := &Model{
		ID:          s.ID,
		TrainedAt:   s.TrainedAt,
		Alpha:       s.Alpha,
		vocab:       v,
		labels:      make([]string, len(s.Labels)),
		docs:        make([]int, len(s.Labels)),
		featureDocs: make([][]int, len(s.Labels)),
	}

	byLabel := make(map[string]LabelSnapshot, len(s.Labels))
	for _, ls := range s.Labels {
		if ls.Label == "" {
			return nil, fmt.Errorf("snapshot label is empty: %w", internalerr.ErrInvalidInput)
		}
		if _, dup := byLabel[ls.Label]; dup {
			return nil, fmt.Errorf("duplicate snapshot label %q: %w", ls.Label, internalerr.ErrInvalidInput)
		}
		if len(ls.Present) != v.Len() {
			return nil, fmt.Errorf("label %q has %d counts, vocabulary has %d: %w",
				ls.Label, len(ls.Present), v.Len(), internalerr.ErrDimensionMismatch)
		}
		if ls.Documents <= 0 {
			return nil, fmt.Errorf("label %q has %d documents: %w", ls.Label, ls.Documents, internalerr.ErrInvalidInput)
		}
		for i, c := range ls.Present {
			if c < 0 || c > ls.Documents {
				return nil, fmt.Errorf("label %q token %d count %d out of range: %w",
					ls.Label, i, c, internalerr.ErrInvalidInput)
			}
		}
		byLabel[ls.Label] = ls
	}

	ordered := make([]LabelSnapshot, 0, len(byLabel))
	for _, ls := range byLabel {
		ordered = append(ordered, ls)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Label < ordered[j].Label })

	for i, ls := range ordered {
		m.labels[i] = ls.Label
		m.docs[i] = ls.Documents
		m.featureDocs[i] = append([]int(nil), ls.Present...)
		m.total += ls.Documents
	}

	m.derive()
	return m, nil
}
