package nb

import (
	"sort"

	"github.com/cognicore/spamkit/pkg/spamkit/features"
)

// Evaluation summarizes predictions against known labels.
type Evaluation struct {
	Total   int
	Correct int
	// Confusion counts documents by actual then predicted label.
	Confusion map[string]map[string]int
}

// Accuracy is Correct/Total, or 0 for an empty evaluation.
func (e Evaluation) Accuracy() float64 {
	if e.Total == 0 {
		return 0
	}
	return float64(e.Correct) / float64(e.Total)
}

// Evaluate classifies every sample and tallies the results.
func Evaluate(m *Model, samples []features.Labeled) (Evaluation, error) {
	ev := Evaluation{Confusion: make(map[string]map[string]int)}
	for _, s := range samples {
		got, err := m.Classify(s.Features)
		if err != nil {
			return Evaluation{}, err
		}
		ev.Total++
		if got == s.Label {
			ev.Correct++
		}
		row := ev.Confusion[s.Label]
		if row == nil {
			row = make(map[string]int)
			ev.Confusion[s.Label] = row
		}
		row[got]++
	}
	return ev, nil
}

// Accuracy returns the fraction of samples classified correctly.
// An empty sample set yields 0.
func Accuracy(m *Model, samples []features.Labeled) (float64, error) {
	ev, err := Evaluate(m, samples)
	if err != nil {
		return 0, err
	}
	return ev.Accuracy(), nil
}

// Informative describes how strongly one feature separates two labels.
type Informative struct {
	Token string
	// Label is the label under which the feature is most likely present,
	// Against the one under which it is least likely.
	Label   string
	Against string
	Ratio   float64
}

// MostInformative ranks features by the ratio between their largest and
// smallest P(present|label). n <= 0 returns every feature.
func (m *Model) MostInformative(n int) []Informative {
	if !m.Trained() || len(m.labels) < 2 {
		return nil
	}

	width := m.vocab.Len()
	out := make([]Informative, 0, width)
	for f := 0; f < width; f++ {
		hi, lo := 0, 0
		for li := range m.labels {
			if m.present[li][f] > m.present[hi][f] {
				hi = li
			}
			if m.present[li][f] < m.present[lo][f] {
				lo = li
			}
		}
		out = append(out, Informative{
			Token:   m.vocab.Token(f),
			Label:   m.labels[hi],
			Against: m.labels[lo],
			Ratio:   m.present[hi][f] / m.present[lo][f],
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Ratio != out[j].Ratio {
			return out[i].Ratio > out[j].Ratio
		}
		return out[i].Token < out[j].Token
	})

	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
