package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cognicore/spamkit/pkg/spamkit/analytics"
	"github.com/cognicore/spamkit/pkg/spamkit/ingest"
)

func newFreqCommand(a *app) *cobra.Command {
	var (
		datasetPath string
		top         int
		byLabel     bool
	)

	cmd := &cobra.Command{
		Use:   "freq",
		Short: "Print the most common normalized tokens of a corpus",
		Long: `freq normalizes the corpus the way train does, including stopwords
saved by a previous stopwords --save run, and prints token frequencies.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			docs, err := a.loadDataset(datasetPath)
			if err != nil {
				return err
			}
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			comp, err := a.components(ctx, s)
			if err != nil {
				return err
			}
			tokens, err := comp.Pipeline.ProcessAll(ctx, ingest.Texts(docs), a.cfg.Normalize.Workers)
			if err != nil {
				return err
			}

			overall := analytics.NewAnalyzer()
			perLabel := make(map[string]*analytics.Analyzer)
			for i, toks := range tokens {
				label := docs[i].Label
				overall.Process(toks, label)
				if byLabel {
					an := perLabel[label]
					if an == nil {
						an = analytics.NewAnalyzer()
						perLabel[label] = an
					}
					an.Process(toks, label)
				}
			}

			out := cmd.OutOrStdout()
			stats := overall.Snapshot()
			fmt.Fprintf(out, "%d documents, %d tokens, %d distinct\n", stats.TotalDocs, stats.TotalTokens, len(stats.TokenTF))
			printCounts(cmd, "all", stats.MostCommon(top))

			labels := make([]string, 0, len(perLabel))
			for l := range perLabel {
				labels = append(labels, l)
			}
			sort.Strings(labels)
			for _, l := range labels {
				printCounts(cmd, l, perLabel[l].Snapshot().MostCommon(top))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&datasetPath, "dataset", "f", "", "Corpus file; defaults to dataset.path")
	cmd.Flags().IntVarP(&top, "top", "n", 20, "Number of tokens to show")
	cmd.Flags().BoolVar(&byLabel, "by-label", false, "Also show the most common tokens of each label")
	return cmd
}

func printCounts(cmd *cobra.Command, title string, counts []analytics.TokenCount) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n[%s]\n", title)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\n", c.Token, c.Count)
	}
	tw.Flush()
}
