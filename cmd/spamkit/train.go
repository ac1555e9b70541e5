package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/spamkit/pkg/spamkit"
)

func newTrainCommand(a *app) *cobra.Command {
	var (
		datasetPath string
		noSave      bool
		top         int
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train and evaluate a classifier on a labeled corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			docs, err := a.loadDataset(datasetPath)
			if err != nil {
				return err
			}

			// the store supplies the tuned stoplist even when nothing is saved
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			comp, err := a.components(ctx, s)
			if err != nil {
				return err
			}
			saveTo := s
			if noSave {
				saveTo = nil
			}

			path := datasetPath
			if path == "" {
				path = a.cfg.Dataset.Path
			}
			engine := spamkit.New(spamkit.Options{
				Pipeline:      comp.Pipeline,
				Store:         saveTo,
				Metrics:       a.metrics,
				MinCount:      a.cfg.Vocabulary.MinCount,
				SplitFraction: a.cfg.Split.Fraction,
				Seed:          a.cfg.Split.Seed,
				Alpha:         a.cfg.Classifier.Alpha,
				Workers:       a.cfg.Normalize.Workers,
				TopFeatures:   top,
				Params:        map[string]string{"dataset": path},
			})

			report, err := engine.Train(ctx, docs)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&datasetPath, "dataset", "f", "", "Corpus file (.tsv, .csv or .jsonl); defaults to dataset.path")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not persist the trained model")
	cmd.Flags().IntVar(&top, "top", 10, "Number of most informative features to show")
	return cmd
}

func printReport(out io.Writer, r *spamkit.Report) {
	fmt.Fprintf(out, "Model:        %s\n", r.Model.ID)
	fmt.Fprintf(out, "Documents:    %d (train %d, test %d)\n", r.Documents, r.TrainSize, r.TestSize)
	fmt.Fprintf(out, "Vocabulary:   %d features\n", r.VocabularySize)
	fmt.Fprintf(out, "Train acc.:   %.4f\n", r.TrainAccuracy)
	if r.TestSize > 0 {
		fmt.Fprintf(out, "Test acc.:    %.4f\n", r.TestAccuracy)
	}
	fmt.Fprintf(out, "Duration:     %s\n", r.Duration.Round(time.Millisecond))
	if !r.Saved {
		fmt.Fprintln(out, "(model not saved)")
	}

	if r.TestSize > 0 {
		fmt.Fprintln(out, "\nConfusion (rows actual, columns predicted):")
		labels := r.Model.Labels()
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprint(tw, "actual")
		for _, l := range labels {
			fmt.Fprintf(tw, "\t%s", l)
		}
		fmt.Fprintln(tw)
		actual := make([]string, 0, len(r.Test.Confusion))
		for l := range r.Test.Confusion {
			actual = append(actual, l)
		}
		sort.Strings(actual)
		for _, act := range actual {
			fmt.Fprint(tw, act)
			for _, pred := range labels {
				fmt.Fprintf(tw, "\t%d", r.Test.Confusion[act][pred])
			}
			fmt.Fprintln(tw)
		}
		tw.Flush()
	}

	if len(r.Informative) > 0 {
		fmt.Fprintln(out, "\nMost informative features:")
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, f := range r.Informative {
			fmt.Fprintf(tw, "%s = True\t%s : %s\t= %.1f : 1.0\n", f.Token, f.Label, f.Against, f.Ratio)
		}
		tw.Flush()
	}
}
