package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/spamkit/pkg/spamkit"
	"github.com/cognicore/spamkit/pkg/spamkit/nb"
)

func newClassifyCommand(a *app) *cobra.Command {
	var (
		modelID string
		file    string
		probs   bool
	)

	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Classify a message, or every line of a file, with a stored model",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			texts, err := readTexts(args, file)
			if err != nil {
				return err
			}

			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			loader := spamkit.New(spamkit.Options{Store: s})
			defer loader.Close()

			model, rec, err := loader.LoadModel(ctx, modelID)
			if err != nil {
				return err
			}
			pipeline, err := a.pipelineFor(ctx, s, rec)
			if err != nil {
				return err
			}
			engine := spamkit.New(spamkit.Options{
				Pipeline: pipeline,
				Metrics:  a.metrics,
				Workers:  a.cfg.Normalize.Workers,
			})

			preds, err := engine.ClassifyAll(ctx, model, texts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, p := range preds {
				fmt.Fprintf(out, "%s\t%.4f\t%s\n", p.Label, p.Probability, texts[i])
				if probs {
					fmt.Fprintf(out, "\t%s\n", formatProbabilities(p))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelID, "model", "m", "", "Model ID (default: latest)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Classify each non-blank line of this file")
	cmd.Flags().BoolVarP(&probs, "probabilities", "p", false, "Print the probability of every label")
	return cmd
}

func formatProbabilities(p nb.Prediction) string {
	labels := make([]string, 0, len(p.Probabilities))
	for l := range p.Probabilities {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%s=%.4f", l, p.Probabilities[l])
	}
	return strings.Join(parts, " ")
}
