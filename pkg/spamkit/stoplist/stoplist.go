package stoplist

import "sort"

// Manager handles a mutable stopword set with optional reasons.
type Manager struct {
	stops map[string]Reason
}

// Reason explains why a token is a stopword
type Reason struct {
	HighDF       bool    // high document frequency
	HighEntropy  bool    // spread evenly across labels
	DFPercent    float64 // share of documents containing the token
	IDF          float64 // inverse document frequency
	LabelEntropy float64 // normalized label entropy
}

// NewManager creates a new stoplist manager
func NewManager(initialStops []string) *Manager {
	stops := make(map[string]Reason, len(initialStops))
	for _, s := range initialStops {
		stops[s] = Reason{}
	}
	return &Manager{stops: stops}
}

// IsStop checks if a token is a stopword
func (m *Manager) IsStop(token string) bool {
	_, ok := m.stops[token]
	return ok
}

// Add adds a token to the stoplist with a reason
func (m *Manager) Add(token string, reason Reason) {
	m.stops[token] = reason
}

// Remove removes a token from the stoplist
func (m *Manager) Remove(token string) {
	delete(m.stops, token)
}

// All returns all stopwords in alphabetical order
func (m *Manager) All() []string {
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

// Stats holds statistics for candidate evaluation
type Stats struct {
	Token        string
	DF           int64
	DFPercent    float64
	IDF          float64
	LabelEntropy float64
}

// Candidate represents a candidate stopword
type Candidate struct {
	Token  string
	Reason Reason
	Score  float64 // confidence score
}

// SuggestCandidates suggests tokens that should be stopwords: tokens that occur
// in a large share of documents and carry little information about the label.
// Candidates are returned best first.
func (m *Manager) SuggestCandidates(stats []Stats, thresholds Thresholds) []Candidate {
	var candidates []Candidate

	for _, s := range stats {
		if m.IsStop(s.Token) {
			continue // already a stopword
		}

		reason := Reason{
			HighDF:       s.DFPercent > thresholds.DFPercent,
			HighEntropy:  s.LabelEntropy >= thresholds.LabelEntropy,
			DFPercent:    s.DFPercent,
			IDF:          s.IDF,
			LabelEntropy: s.LabelEntropy,
		}
		if !reason.HighDF || !reason.HighEntropy {
			continue
		}

		candidates = append(candidates, Candidate{
			Token:  s.Token,
			Reason: reason,
			Score:  (s.DFPercent/100.0 + s.LabelEntropy) / 2.0,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Token < candidates[j].Token
	})
	return candidates
}

// Thresholds defines criteria for stopword identification
type Thresholds struct {
	DFPercent    float64 // e.g., 20% - appears in 20% of documents
	LabelEntropy float64 // e.g., 0.8 - near-uniform across labels
}

// DefaultThresholds returns sensible default thresholds for short-message corpora.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DFPercent:    20.0,
		LabelEntropy: 0.8,
	}
}
