package ingest

import (
	"fmt"
	"strings"

	"github.com/cognicore/spamkit/pkg/spamkit/internalerr"
)

// Document is one labeled message as loaded from a corpus. Text may be empty.
type Document struct {
	Text  string
	Label string
}

// Validate checks if the document has required fields
func (d Document) Validate() error {
	if strings.TrimSpace(d.Label) == "" {
		return fmt.Errorf("document label is required: %w", internalerr.ErrInvalidInput)
	}
	return nil
}

// Texts returns the text of every document, in order.
func Texts(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Text
	}
	return out
}

// Labels returns the distinct labels of docs in first-seen order.
func Labels(docs []Document) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, d := range docs {
		if _, ok := seen[d.Label]; ok {
			continue
		}
		seen[d.Label] = struct{}{}
		out = append(out, d.Label)
	}
	return out
}
