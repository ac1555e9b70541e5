package vectorize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviews = [][]string{
	{"vapour", "bangalore", "great", "view", "bangalore"},
	{"beer", "vapour", "bangalore", "beer"},
	{"vapour", "bangalore", "best", "view"},
}

func TestCountMatrix(t *testing.T) {
	m := CountMatrix(reviews)

	assert.Equal(t, []string{"bangalore", "beer", "best", "great", "vapour", "view"}, m.Features.Tokens())
	require.Len(t, m.Rows, 3)
	assert.Equal(t, []int{2, 0, 0, 1, 1, 1}, m.Rows[0])
	assert.Equal(t, []int{1, 2, 0, 0, 1, 0}, m.Rows[1])
	assert.Equal(t, []int{1, 0, 1, 0, 1, 1}, m.Rows[2])

	col, ok := m.Column("beer")
	require.True(t, ok)
	assert.Equal(t, []int{0, 2, 0}, col)

	_, ok = m.Column("ale")
	assert.False(t, ok)
}

func TestIDF(t *testing.T) {
	idf := IDF(CountMatrix(reviews))

	// bangalore appears in all three documents
	assert.InDelta(t, 1.0, idf[0], 1e-12)
	// beer appears in one: ln(4/2) + 1
	assert.InDelta(t, math.Log(2)+1, idf[1], 1e-12)
	// view appears in two: ln(4/3) + 1
	assert.InDelta(t, math.Log(4.0/3)+1, idf[5], 1e-12)
}

func TestTFIDFMatrix(t *testing.T) {
	m := TFIDFMatrix(reviews)
	require.Len(t, m.Rows, 3)

	for i, row := range m.Rows {
		var sum float64
		for _, w := range row {
			sum += w * w
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "row %d not unit length", i)
	}

	// the rare term outweighs the ubiquitous one in the same document
	beer, _ := m.Column("beer")
	bangalore, _ := m.Column("bangalore")
	assert.Greater(t, beer[1], bangalore[1])

	// row 1 by hand: bangalore 1*1, beer 2*(ln2+1), vapour 1*1
	b := 2 * (math.Log(2) + 1)
	norm := math.Sqrt(1 + b*b + 1)
	assert.InDelta(t, b/norm, m.Rows[1][1], 1e-12)
	assert.InDelta(t, 1/norm, m.Rows[1][0], 1e-12)
}

func TestTFIDFEmptyDocument(t *testing.T) {
	m := TFIDFMatrix([][]string{{"alpha"}, {}})
	require.Len(t, m.Rows, 2)
	assert.Equal(t, []float64{0}, m.Rows[1])
	assert.InDelta(t, 1.0, m.Rows[0][0], 1e-12)
}

func TestEmptyCorpus(t *testing.T) {
	m := CountMatrix(nil)
	assert.Equal(t, 0, m.Features.Len())
	assert.Empty(t, m.Rows)

	tf := TFIDFMatrix(nil)
	assert.Empty(t, tf.Rows)
}
