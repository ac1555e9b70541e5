// Package dataset loads labeled message corpora and splits them for training.
package dataset

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/spamkit/pkg/spamkit/ingest"
	"github.com/cognicore/spamkit/pkg/spamkit/internalerr"
)

const maxLineSize = 1 << 20

// LoadOptions controls record validation.
type LoadOptions struct {
	// Labels, when set, is the closed set of accepted labels.
	Labels []string
	Logger *slog.Logger
}

func (o LoadOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o LoadOptions) checkLabel(label string, line int) error {
	if label == "" {
		return fmt.Errorf("line %d: empty label: %w", line, internalerr.ErrMalformedRecord)
	}
	if len(o.Labels) == 0 {
		return nil
	}
	for _, l := range o.Labels {
		if l == label {
			return nil
		}
	}
	return fmt.Errorf("line %d: label %q not in %v: %w", line, label, o.Labels, internalerr.ErrMalformedRecord)
}

// LoadTSV reads "label<TAB>message" records, one per line, without a header.
// Blank lines are skipped.
func LoadTSV(r io.Reader, opts LoadOptions) ([]ingest.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var docs []ingest.Document
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		label, message, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: missing tab separator: %w", lineNum, internalerr.ErrMalformedRecord)
		}
		label = strings.TrimSpace(label)
		if err := opts.checkLabel(label, lineNum); err != nil {
			return nil, err
		}
		docs = append(docs, ingest.Document{Text: message, Label: label})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	if len(docs) == 0 {
		return nil, internalerr.ErrEmptyCorpus
	}
	return docs, nil
}

type jsonRecord struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}

// LoadJSONL reads {"label","message"} objects, one per line. Lines that fail
// to decode are logged and skipped. Label validation still applies.
func LoadJSONL(r io.Reader, opts LoadOptions) ([]ingest.Document, error) {
	log := opts.logger()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var docs []ingest.Document
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec jsonRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			log.Warn("skipping malformed JSON record", "line", lineNum, "error", err)
			continue
		}
		rec.Label = strings.TrimSpace(rec.Label)
		if err := opts.checkLabel(rec.Label, lineNum); err != nil {
			return nil, err
		}
		docs = append(docs, ingest.Document{Text: rec.Message, Label: rec.Label})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	if len(docs) == 0 {
		return nil, internalerr.ErrEmptyCorpus
	}
	return docs, nil
}

// LoadCSV reads a "label,message" CSV with a header row, as written by WriteCSV.
func LoadCSV(r io.Reader, opts LoadOptions) ([]ingest.Document, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, internalerr.ErrEmptyCorpus
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	labelCol, msgCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "label":
			labelCol = i
		case "message":
			msgCol = i
		}
	}
	if labelCol < 0 || msgCol < 0 {
		return nil, fmt.Errorf("csv header %v lacks label/message columns: %w", header, internalerr.ErrMalformedRecord)
	}

	var docs []ingest.Document
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, internalerr.ErrMalformedRecord)
		}
		line, _ := cr.FieldPos(0)
		if labelCol >= len(rec) || msgCol >= len(rec) {
			return nil, fmt.Errorf("line %d: short record: %w", line, internalerr.ErrMalformedRecord)
		}
		label := strings.TrimSpace(rec[labelCol])
		if err := opts.checkLabel(label, line); err != nil {
			return nil, err
		}
		docs = append(docs, ingest.Document{Text: rec[msgCol], Label: label})
	}

	if len(docs) == 0 {
		return nil, internalerr.ErrEmptyCorpus
	}
	return docs, nil
}

// LoadFile opens path and picks the reader from its extension:
// .jsonl for JSON lines, .csv for CSV, anything else is read as TSV.
func LoadFile(path string, opts LoadOptions) ([]ingest.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", path, err)
	}
	defer f.Close()

	var docs []ingest.Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl":
		docs, err = LoadJSONL(f, opts)
	case ".csv":
		docs, err = LoadCSV(f, opts)
	default:
		docs, err = LoadTSV(f, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	opts.logger().Debug("corpus loaded", "path", path, "documents", len(docs))
	return docs, nil
}
