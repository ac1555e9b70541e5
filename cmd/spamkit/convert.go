package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/spamkit/internal/logger"
	"github.com/cognicore/spamkit/pkg/spamkit/dataset"
	"github.com/cognicore/spamkit/pkg/spamkit/fetch"
	"github.com/cognicore/spamkit/pkg/spamkit/ingest"
)

func newConvertCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input|url> [output]",
		Short: "Extract labeled messages from raw text into a CSV or TSV corpus",
		Long: `convert scans raw text for "<label> <message>" records, where label is
one of dataset.labels, and writes them as a corpus. The input may be a
local file or an http(s) URL. The output format follows its extension:
.csv writes "label,message" with a header, anything else writes TSV.
Without an output path the TSV goes to stdout.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readSource(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			docs := dataset.ExtractLabeled(text, a.cfg.Dataset.Labels)
			if len(docs) == 0 {
				return fmt.Errorf("no labeled records found in %s", args[0])
			}

			if len(args) == 1 {
				return dataset.WriteTSV(cmd.OutOrStdout(), docs)
			}
			if err := writeCorpus(args[1], docs); err != nil {
				return err
			}
			counts := dataset.CountLabels(docs, func(d ingest.Document) string { return d.Label })
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d records %v to %s\n", len(docs), counts, args[1])
			return nil
		},
	}
}

func newFetchCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Download a document as plain text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readSource(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				_, err = io.WriteString(cmd.OutOrStdout(), text)
				return err
			}
			return os.WriteFile(output, []byte(text), 0644)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

// readSource returns the text of a local file or an http(s) URL.
func readSource(ctx context.Context, src string) (string, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		client := fetch.New()
		client.Logger = logger.WithComponent("fetch")
		return client.Fetch(ctx, src)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func writeCorpus(path string, docs []ingest.Document) error {
	var buf bytes.Buffer
	var err error
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		err = dataset.WriteCSV(&buf, docs)
	} else {
		err = dataset.WriteTSV(&buf, docs)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
