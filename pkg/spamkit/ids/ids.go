// Package ids issues sortable identifiers for models and training runs.
package ids

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator hands out monotonic ULIDs. It is safe for concurrent use.
type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewGenerator creates a generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// New returns an ID stamped with the current time.
func (g *Generator) New() string {
	return g.At(time.Now())
}

// At returns an ID stamped with t. IDs issued for the same millisecond
// still sort in issue order.
func (g *Generator) At(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), g.entropy).String()
}

var defaultGenerator = NewGenerator()

// New returns an ID from the package generator.
func New() string {
	return defaultGenerator.New()
}

// At returns an ID stamped with t from the package generator.
func At(t time.Time) string {
	return defaultGenerator.At(t)
}

// Time extracts the timestamp embedded in id.
func Time(id string) (time.Time, error) {
	u, err := ulid.Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
