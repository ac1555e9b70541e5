package ids

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorMonotonic(t *testing.T) {
	g := NewGenerator()
	now := time.Now()

	issued := make([]string, 100)
	for i := range issued {
		issued[i] = g.At(now)
	}

	assert.True(t, sort.StringsAreSorted(issued), "IDs for the same instant must sort in issue order")

	seen := make(map[string]bool)
	for _, id := range issued {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		assert.Len(t, id, 26)
	}
}

func TestTime(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	id := NewGenerator().At(at)

	got, err := Time(id)
	require.NoError(t, err)
	assert.True(t, at.Equal(got), "got %v", got)

	_, err = Time("not-a-ulid")
	assert.Error(t, err)
}

func TestPackageNew(t *testing.T) {
	a, b := New(), New()
	assert.NotEqual(t, a, b)
}
