package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/cognicore/spamkit/pkg/spamkit/ingest"
)

// DefaultLabels are the labels of the SMS spam collection.
var DefaultLabels = []string{"ham", "spam"}

// ExtractLabeled scans raw text for "<label><whitespace><message>" records.
// A message runs to the end of its line. Nil labels means DefaultLabels.
func ExtractLabeled(text string, labels []string) []ingest.Document {
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = regexp.QuoteMeta(l)
	}
	pattern := regexp.MustCompile(`(` + strings.Join(quoted, "|") + `)\s+(.*)`)

	matches := pattern.FindAllStringSubmatch(text, -1)
	docs := make([]ingest.Document, 0, len(matches))
	for _, m := range matches {
		docs = append(docs, ingest.Document{
			Label: m[1],
			Text:  strings.TrimRight(m[2], "\r"),
		})
	}
	return docs
}

// WriteCSV writes docs as a "label,message" CSV with a header row.
func WriteCSV(w io.Writer, docs []ingest.Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"label", "message"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, d := range docs {
		if err := cw.Write([]string{d.Label, d.Text}); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTSV writes docs in the "label<TAB>message" corpus format.
// Tabs and newlines inside messages are replaced with spaces.
func WriteTSV(w io.Writer, docs []ingest.Document) error {
	clean := strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")
	for _, d := range docs {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", d.Label, clean.Replace(d.Text)); err != nil {
			return fmt.Errorf("write tsv record: %w", err)
		}
	}
	return nil
}
