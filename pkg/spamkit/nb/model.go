// Package nb implements a Bernoulli Naive Bayes classifier over boolean
// bag-of-words features.
//
// For each label l and feature f the model estimates
//
//	P(f present | l) = (n_lf + alpha) / (n_l + 2*alpha)
//
// where n_l is the number of training documents with label l and n_lf the
// number of those containing f. A document is scored with the log prior plus
// the log likelihood of every feature, present or absent.
package nb

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cognicore/spamkit/pkg/spamkit/features"
	"github.com/cognicore/spamkit/pkg/spamkit/ids"
	"github.com/cognicore/spamkit/pkg/spamkit/internalerr"
	"github.com/cognicore/spamkit/pkg/spamkit/vocab"
)

// DefaultAlpha is add-one (Laplace) smoothing.
const DefaultAlpha = 1.0

// Options configures training.
type Options struct {
	Alpha float64
	// ID overrides the generated model ID.
	ID string
	// Now overrides the clock used for TrainedAt.
	Now func() time.Time
}

// DefaultOptions returns Laplace smoothing with a generated ID.
func DefaultOptions() Options {
	return Options{Alpha: DefaultAlpha}
}

// Model is a trained classifier. It is read-only once built.
type Model struct {
	ID        string
	TrainedAt time.Time
	Alpha     float64

	vocab       *vocab.Vocabulary
	labels      []string // sorted
	docs        []int    // n_l per label
	featureDocs [][]int  // n_lf per label, feature
	total       int

	logPrior   []float64
	present    [][]float64 // P(present|l)
	logPresent [][]float64
	logAbsent  [][]float64
}

// Train fits a model on samples whose vectors are aligned to v.
func Train(samples []features.Labeled, v *vocab.Vocabulary, opts Options) (*Model, error) {
	if v == nil {
		return nil, fmt.Errorf("nil vocabulary: %w", internalerr.ErrInvalidInput)
	}
	if !(opts.Alpha > 0) || math.IsInf(opts.Alpha, 0) {
		return nil, fmt.Errorf("smoothing alpha %v must be positive: %w", opts.Alpha, internalerr.ErrInvalidInput)
	}
	if len(samples) == 0 {
		return nil, internalerr.ErrEmptyCorpus
	}

	width := v.Len()
	byLabel := make(map[string]int)
	for i, s := range samples {
		if len(s.Features) != width {
			return nil, fmt.Errorf("sample %d has %d features, vocabulary has %d: %w",
				i, len(s.Features), width, internalerr.ErrDimensionMismatch)
		}
		if s.Label == "" {
			return nil, fmt.Errorf("sample %d has no label: %w", i, internalerr.ErrInvalidInput)
		}
		byLabel[s.Label] = 0
	}

	labels := make([]string, 0, len(byLabel))
	for l := range byLabel {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	for i, l := range labels {
		byLabel[l] = i
	}

	m := &Model{
		Alpha:       opts.Alpha,
		vocab:       v,
		labels:      labels,
		docs:        make([]int, len(labels)),
		featureDocs: make([][]int, len(labels)),
		total:       len(samples),
	}
	for i := range labels {
		m.featureDocs[i] = make([]int, width)
	}

	for _, s := range samples {
		li := byLabel[s.Label]
		m.docs[li]++
		row := m.featureDocs[li]
		for f, on := range s.Features {
			if on {
				row[f]++
			}
		}
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	m.TrainedAt = now().UTC()
	m.ID = opts.ID
	if m.ID == "" {
		m.ID = ids.At(m.TrainedAt)
	}

	m.derive()
	return m, nil
}

// derive computes priors and smoothed likelihoods from the raw counts.
func (m *Model) derive() {
	n := len(m.labels)
	m.logPrior = make([]float64, n)
	m.present = make([][]float64, n)
	m.logPresent = make([][]float64, n)
	m.logAbsent = make([][]float64, n)

	for li := range m.labels {
		m.logPrior[li] = math.Log(float64(m.docs[li]) / float64(m.total))

		width := len(m.featureDocs[li])
		m.present[li] = make([]float64, width)
		m.logPresent[li] = make([]float64, width)
		m.logAbsent[li] = make([]float64, width)

		denom := float64(m.docs[li]) + 2*m.Alpha
		for f, count := range m.featureDocs[li] {
			p := (float64(count) + m.Alpha) / denom
			m.present[li][f] = p
			m.logPresent[li][f] = math.Log(p)
			m.logAbsent[li][f] = math.Log1p(-p)
		}
	}
}

// Trained reports whether m can classify.
func (m *Model) Trained() bool {
	return m != nil && len(m.labels) > 0 && m.vocab != nil
}

// Labels returns the known labels in sorted order.
func (m *Model) Labels() []string {
	if !m.Trained() {
		return nil
	}
	out := make([]string, len(m.labels))
	copy(out, m.labels)
	return out
}

// Vocabulary returns the vocabulary the model's vectors are aligned to.
func (m *Model) Vocabulary() *vocab.Vocabulary {
	if m == nil {
		return nil
	}
	return m.vocab
}

// Documents returns the number of training documents.
func (m *Model) Documents() int {
	if m == nil {
		return 0
	}
	return m.total
}

// LabelDocuments returns how many training documents carried label.
func (m *Model) LabelDocuments(label string) int {
	if li, ok := m.labelIndex(label); ok {
		return m.docs[li]
	}
	return 0
}

// Prior returns P(label).
func (m *Model) Prior(label string) (float64, bool) {
	li, ok := m.labelIndex(label)
	if !ok {
		return 0, false
	}
	return math.Exp(m.logPrior[li]), true
}

// FeatureProbability returns P(token present | label).
func (m *Model) FeatureProbability(label, token string) (float64, bool) {
	li, ok := m.labelIndex(label)
	if !ok {
		return 0, false
	}
	f, ok := m.vocab.Index(token)
	if !ok {
		return 0, false
	}
	return m.present[li][f], true
}

func (m *Model) labelIndex(label string) (int, bool) {
	if !m.Trained() {
		return 0, false
	}
	i := sort.SearchStrings(m.labels, label)
	if i < len(m.labels) && m.labels[i] == label {
		return i, true
	}
	return 0, false
}

func (m *Model) check(p features.Presence) error {
	if !m.Trained() {
		return internalerr.ErrUntrained
	}
	if len(p) != m.vocab.Len() {
		return fmt.Errorf("vector has %d features, model has %d: %w",
			len(p), m.vocab.Len(), internalerr.ErrDimensionMismatch)
	}
	return nil
}

// logScores returns the unnormalized log posterior per label index.
func (m *Model) logScores(p features.Presence) []float64 {
	scores := make([]float64, len(m.labels))
	for li := range m.labels {
		s := m.logPrior[li]
		pres, abs := m.logPresent[li], m.logAbsent[li]
		for f, on := range p {
			if on {
				s += pres[f]
			} else {
				s += abs[f]
			}
		}
		scores[li] = s
	}
	return scores
}

// LogScores returns the log posterior (up to a shared constant) per label.
func (m *Model) LogScores(p features.Presence) (map[string]float64, error) {
	if err := m.check(p); err != nil {
		return nil, err
	}
	scores := m.logScores(p)
	out := make(map[string]float64, len(scores))
	for li, l := range m.labels {
		out[l] = scores[li]
	}
	return out, nil
}

// Prediction is the outcome of classifying one vector.
type Prediction struct {
	Label         string
	Probability   float64
	Probabilities map[string]float64
}

// Predict classifies p and returns the normalized posterior of every label.
func (m *Model) Predict(p features.Presence) (Prediction, error) {
	if err := m.check(p); err != nil {
		return Prediction{}, err
	}
	scores := m.logScores(p)
	probs := softmax(scores)

	// labels are sorted, so strict > keeps the smaller label on ties
	best := 0
	for li := 1; li < len(scores); li++ {
		if scores[li] > scores[best] {
			best = li
		}
	}

	pred := Prediction{
		Label:         m.labels[best],
		Probability:   probs[best],
		Probabilities: make(map[string]float64, len(probs)),
	}
	for li, l := range m.labels {
		pred.Probabilities[l] = probs[li]
	}
	return pred, nil
}

// Classify returns the most probable label for p.
func (m *Model) Classify(p features.Presence) (string, error) {
	pred, err := m.Predict(p)
	if err != nil {
		return "", err
	}
	return pred.Label, nil
}

// Probabilities returns the normalized posterior per label.
func (m *Model) Probabilities(p features.Presence) (map[string]float64, error) {
	pred, err := m.Predict(p)
	if err != nil {
		return nil, err
	}
	return pred.Probabilities, nil
}

// softmax converts log scores to probabilities, shifting by the maximum so
// very negative scores do not underflow to zero.
func softmax(logProbs []float64) []float64 {
	maxLog := math.Inf(-1)
	for _, lp := range logProbs {
		if lp > maxLog {
			maxLog = lp
		}
	}

	sum := 0.0
	probs := make([]float64, len(logProbs))
	for i, lp := range logProbs {
		probs[i] = math.Exp(lp - maxLog)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
