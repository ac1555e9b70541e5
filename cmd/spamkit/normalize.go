package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cognicore/spamkit/pkg/spamkit/lexicon"
	"github.com/cognicore/spamkit/pkg/spamkit/stem"
)

func newNormalizeCommand(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "normalize [text...]",
		Short: "Show tokens next to their stems and lemmas",
		Long: `normalize tokenizes text with the configured stopwords and prints each
token with its Porter and Snowball stems and its verb and noun lemmas,
followed by the output of the configured pipeline.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			texts, err := readTexts(args, file)
			if err != nil {
				return err
			}
			comp, err := a.components(cmd.Context(), nil)
			if err != nil {
				return err
			}

			porter, snowball := stem.Porter{}, stem.Snowball{}
			out := cmd.OutOrStdout()
			for _, text := range texts {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "TOKEN\tPORTER\tSNOWBALL\tLEMMA(v)\tLEMMA(n)")
				for _, tok := range comp.Tokenizer.Tokenize(text) {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						tok,
						porter.Stem(tok),
						snowball.Stem(tok),
						comp.Lemmatizer.Lemmatize(tok, lexicon.Verb),
						comp.Lemmatizer.Lemmatize(tok, lexicon.Noun),
					)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %v\n\n", comp.Pipeline.Mode(), comp.Pipeline.Process(text))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Normalize each non-blank line of this file")
	return cmd
}
