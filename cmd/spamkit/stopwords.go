package main

import (
	"errors"
	"fmt"
	"io/fs"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cognicore/spamkit/pkg/spamkit/analytics"
	"github.com/cognicore/spamkit/pkg/spamkit/autotune/stopwords"
	"github.com/cognicore/spamkit/pkg/spamkit/config"
	"github.com/cognicore/spamkit/pkg/spamkit/ingest"
	"github.com/cognicore/spamkit/pkg/spamkit/stoplist"
	"github.com/cognicore/spamkit/pkg/spamkit/store"
)

func newStopwordsCommand(a *app) *cobra.Command {
	var (
		datasetPath string
		interactive bool
		save        bool
		writePath   string
		limit       int
		thresholds  = stoplist.DefaultThresholds()
	)

	cmd := &cobra.Command{
		Use:   "stopwords",
		Short: "Suggest corpus-specific stopwords",
		Long: `stopwords normalizes the corpus and proposes tokens that occur in many
documents while saying little about the label. Approved tokens can be
saved to the model store, where later train runs pick them up, or
written to a stoplist YAML file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			docs, err := a.loadDataset(datasetPath)
			if err != nil {
				return err
			}

			var s store.ModelStore
			if save {
				if s, err = a.openStore(ctx); err != nil {
					return err
				}
				defer s.Close()
			}
			comp, err := a.components(ctx, s)
			if err != nil {
				return err
			}
			tokens, err := comp.Pipeline.ProcessAll(ctx, ingest.Texts(docs), a.cfg.Normalize.Workers)
			if err != nil {
				return err
			}

			an := analytics.NewAnalyzer()
			for i, toks := range tokens {
				an.Process(toks, docs[i].Label)
			}

			tuner := stopwords.AutoTuner{
				Provider:   analytics.NewStopwordStatsProvider(an.Snapshot()),
				Manager:    stoplist.NewManager(comp.Stopwords),
				Thresholds: thresholds,
				Limit:      limit,
			}
			if interactive {
				tuner.Reviewer = stopwords.NewPromptReviewer(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			approved, err := tuner.Run(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(approved) == 0 {
				fmt.Fprintln(out, "no stopword candidates")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TOKEN\tDF%\tENTROPY\tSCORE")
			terms := make([]string, len(approved))
			for i, c := range approved {
				terms[i] = c.Token
				fmt.Fprintf(tw, "%s\t%.1f\t%.3f\t%.3f\n", c.Token, c.Reason.DFPercent, c.Reason.LabelEntropy, c.Score)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if s != nil {
				if err := s.UpsertStoplist(ctx, terms); err != nil {
					return fmt.Errorf("save stoplist: %w", err)
				}
				fmt.Fprintf(out, "saved %d stopwords to the %s store\n", len(terms), a.cfg.Store.Driver)
			}
			if writePath != "" {
				merged, err := mergeStoplistFile(writePath, terms)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %d stopwords to %s\n", merged, writePath)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&datasetPath, "dataset", "f", "", "Corpus file; defaults to dataset.path")
	flags.BoolVarP(&interactive, "interactive", "i", false, "Confirm each candidate on the terminal")
	flags.BoolVar(&save, "save", false, "Persist approved stopwords in the model store")
	flags.StringVarP(&writePath, "write", "w", "", "Merge approved stopwords into this stoplist YAML file")
	flags.IntVar(&limit, "limit", 0, "Maximum number of candidates (0 = no limit)")
	flags.Float64Var(&thresholds.DFPercent, "min-df", thresholds.DFPercent, "Minimum document frequency in percent")
	flags.Float64Var(&thresholds.LabelEntropy, "min-entropy", thresholds.LabelEntropy, "Minimum normalized label entropy")
	return cmd
}

// mergeStoplistFile adds terms to the stoplist at path, creating it if needed,
// and returns the resulting number of terms.
func mergeStoplistFile(path string, terms []string) (int, error) {
	var existing []string
	sl, err := config.LoadStoplist(path)
	switch {
	case err == nil:
		existing = sl.Terms
	case errors.Is(err, fs.ErrNotExist):
	default:
		return 0, fmt.Errorf("read stoplist %s: %w", path, err)
	}

	all := stoplist.NewManager(append(existing, terms...)).All()
	if err := config.SaveStoplist(path, all); err != nil {
		return 0, fmt.Errorf("write stoplist %s: %w", path, err)
	}
	return len(all), nil
}

