// Package vectorize builds document-term matrices over normalized documents:
// raw counts (bag of words) and smoothed, L2-normalized TF-IDF.
package vectorize

import (
	"math"

	"github.com/cognicore/spamkit/pkg/spamkit/features"
	"github.com/cognicore/spamkit/pkg/spamkit/vocab"
)

// Matrix is a dense document-term matrix. Rows follow the input documents,
// columns follow Features.
type Matrix[T int | float64] struct {
	Features *vocab.Vocabulary
	Rows     [][]T
}

// Column returns the values of token across all rows.
func (m Matrix[T]) Column(token string) ([]T, bool) {
	i, ok := m.Features.Index(token)
	if !ok {
		return nil, false
	}
	col := make([]T, len(m.Rows))
	for r, row := range m.Rows {
		col[r] = row[i]
	}
	return col, true
}

// alphabetical builds the sorted column vocabulary for docs.
func alphabetical(docs [][]string) *vocab.Vocabulary {
	return vocab.Build(docs, 1).Sorted()
}

// CountMatrix returns per-document term counts over an alphabetical vocabulary.
func CountMatrix(docs [][]string) Matrix[int] {
	v := alphabetical(docs)
	rows := make([][]int, len(docs))
	for i, doc := range docs {
		rows[i] = features.Count(doc, v)
	}
	return Matrix[int]{Features: v, Rows: rows}
}

// IDF returns the smoothed inverse document frequency per column:
// ln((1+n)/(1+df)) + 1.
func IDF(counts Matrix[int]) []float64 {
	n := float64(len(counts.Rows))
	df := make([]float64, counts.Features.Len())
	for _, row := range counts.Rows {
		for j, c := range row {
			if c > 0 {
				df[j]++
			}
		}
	}
	idf := make([]float64, len(df))
	for j, d := range df {
		idf[j] = math.Log((1+n)/(1+d)) + 1
	}
	return idf
}

// TFIDFMatrix weights raw counts by IDF and scales each row to unit L2 norm.
// Rows of documents with no tokens stay zero.
func TFIDFMatrix(docs [][]string) Matrix[float64] {
	counts := CountMatrix(docs)
	idf := IDF(counts)

	rows := make([][]float64, len(counts.Rows))
	for i, crow := range counts.Rows {
		row := make([]float64, len(crow))
		var norm float64
		for j, c := range crow {
			w := float64(c) * idf[j]
			row[j] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range row {
				row[j] /= norm
			}
		}
		rows[i] = row
	}
	return Matrix[float64]{Features: counts.Features, Rows: rows}
}
