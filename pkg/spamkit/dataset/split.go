package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cognicore/spamkit/pkg/spamkit/internalerr"
)

// DefaultFraction is the share of items assigned to the training split.
const DefaultFraction = 0.8

// DefaultSeed is used when no seed is configured.
const DefaultSeed uint64 = 42

// Split shuffles a copy of items with a seeded generator and cuts it into
// train = first floor(fraction*N) items and test = the rest.
// The input slice is not modified.
func Split[T any](items []T, fraction float64, seed uint64) (train, test []T, err error) {
	if !(fraction > 0 && fraction <= 1) {
		return nil, nil, fmt.Errorf("split fraction %v outside (0,1]: %w", fraction, internalerr.ErrInvalidInput)
	}

	shuffled := make([]T, len(items))
	copy(shuffled, items)

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cut := int(math.Floor(fraction * float64(len(shuffled))))
	return shuffled[:cut:cut], shuffled[cut:], nil
}

// CountLabels tallies documents per label.
func CountLabels[T any](items []T, label func(T) string) map[string]int {
	counts := make(map[string]int)
	for _, it := range items {
		counts[label(it)]++
	}
	return counts
}
