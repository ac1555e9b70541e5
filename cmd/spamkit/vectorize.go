package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/spamkit/pkg/spamkit/vectorize"
)

// newVectorizeCommand builds the bow and tfidf commands, which differ only
// in the matrix they print.
func newVectorizeCommand(a *app, kind string) *cobra.Command {
	var file string

	short := "Print the bag-of-words count matrix of the given documents"
	if kind == "tfidf" {
		short = "Print the TF-IDF matrix of the given documents"
	}

	cmd := &cobra.Command{
		Use:   kind + " [doc...]",
		Short: short,
		Long: short + `.
Each argument is one document, or each non-blank line of --file.
Columns are the alphabetically sorted vocabulary.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			docs := args
			if file != "" {
				var err error
				if docs, err = readTexts(nil, file); err != nil {
					return err
				}
			}
			if len(docs) == 0 {
				return fmt.Errorf("no documents given")
			}
			comp, err := a.components(ctx, nil)
			if err != nil {
				return err
			}
			tokens, err := comp.Pipeline.ProcessAll(ctx, docs, a.cfg.Normalize.Workers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if kind == "tfidf" {
				m := vectorize.TFIDFMatrix(tokens)
				writeMatrix(out, m.Features.Tokens(), m.Rows, func(v float64) string { return fmt.Sprintf("%.3f", v) })
				return nil
			}
			m := vectorize.CountMatrix(tokens)
			writeMatrix(out, m.Features.Tokens(), m.Rows, func(v int) string { return fmt.Sprint(v) })
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read one document per non-blank line of this file")
	return cmd
}

func writeMatrix[T int | float64](out io.Writer, header []string, rows [][]T, format func(T) string) {
	fmt.Fprintln(out, strings.Join(header, "\t"))
	cells := make([]string, len(header))
	for _, row := range rows {
		for j, v := range row {
			cells[j] = format(v)
		}
		fmt.Fprintln(out, strings.Join(cells, "\t"))
	}
}
