package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/spamkit/pkg/spamkit"
	"github.com/cognicore/spamkit/pkg/spamkit/store"
)

func newModelsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage stored models",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored models, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			infos, err := s.ListModels(ctx)
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no stored models")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTRAINED\tDOCS\tFEATURES\tLABELS\tMODE\tTEST ACC")
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
					info.ID,
					info.TrainedAt.Local().Format(time.DateTime),
					info.Documents,
					info.Features,
					strings.Join(info.Labels, ","),
					info.Params[spamkit.ParamMode],
					info.Params[spamkit.ParamTestAccuracy],
				)
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [id]",
		Short: "Show a stored model (default: latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			engine := spamkit.New(spamkit.Options{Store: s})
			defer engine.Close()

			var id string
			if len(args) == 1 {
				id = args[0]
			}
			model, rec, err := engine.LoadModel(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printInfo(cmd, rec.Info())
			fmt.Fprintln(out, "\nMost informative features:")
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, f := range model.MostInformative(10) {
				fmt.Fprintf(tw, "%s = True\t%s : %s\t= %.1f : 1.0\n", f.Token, f.Label, f.Against, f.Ratio)
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete stored models",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			for _, id := range args {
				if err := s.DeleteModel(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			}
			return nil
		},
	})

	return cmd
}

func printInfo(cmd *cobra.Command, info store.ModelInfo) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:         %s\n", info.ID)
	fmt.Fprintf(out, "Trained:    %s\n", info.TrainedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "Alpha:      %g\n", info.Alpha)
	fmt.Fprintf(out, "Documents:  %d\n", info.Documents)
	fmt.Fprintf(out, "Features:   %d\n", info.Features)
	fmt.Fprintf(out, "Labels:     %s\n", strings.Join(info.Labels, ", "))

	keys := make([]string, 0, len(info.Params))
	for k := range info.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := info.Params[k]
		if k == spamkit.ParamStopwords {
			v = fmt.Sprintf("%d words", len(strings.FieldsFunc(v, func(r rune) bool { return r == ',' })))
		}
		fmt.Fprintf(out, "  %-16s %s\n", k+":", v)
	}
}
