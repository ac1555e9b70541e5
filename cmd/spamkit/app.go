package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cognicore/spamkit/internal/logger"
	"github.com/cognicore/spamkit/pkg/spamkit"
	"github.com/cognicore/spamkit/pkg/spamkit/config"
	"github.com/cognicore/spamkit/pkg/spamkit/dataset"
	"github.com/cognicore/spamkit/pkg/spamkit/ingest"
	"github.com/cognicore/spamkit/pkg/spamkit/metrics"
	"github.com/cognicore/spamkit/pkg/spamkit/store"
)

// app holds state shared by all subcommands.
type app struct {
	configPath      string
	logLevel        string
	logFormat       string
	metricsTextfile string
	storeDriver     string
	storePath       string
	mode            string

	cfg     config.Config
	metrics *metrics.Metrics
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "spamkit",
		Short: "Spam/ham text classification toolkit",
		Long: `spamkit normalizes short messages (tokenize, stopwords, stemming or
lemmatization), trains a Bernoulli Naive Bayes classifier on a labeled
corpus and classifies new messages with the stored model.

Examples:
  spamkit convert SMSSpamCollection.txt corpus.csv
  spamkit train --dataset corpus.csv
  spamkit classify "Claim your free prize now"
  spamkit stopwords --dataset corpus.csv --interactive --save`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.flushMetrics()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format (text, json)")
	flags.StringVar(&a.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file on exit")
	flags.StringVar(&a.storeDriver, "store", "", "Model store driver (sqlite, bolt, memory)")
	flags.StringVar(&a.storePath, "db", "", "Model store path")
	flags.StringVar(&a.mode, "mode", "", "Normalization mode (none, stem, lemma)")

	root.AddCommand(newTrainCommand(a))
	root.AddCommand(newClassifyCommand(a))
	root.AddCommand(newModelsCommand(a))
	root.AddCommand(newNormalizeCommand(a))
	root.AddCommand(newFreqCommand(a))
	root.AddCommand(newVectorizeCommand(a, "bow"))
	root.AddCommand(newVectorizeCommand(a, "tfidf"))
	root.AddCommand(newStopwordsCommand(a))
	root.AddCommand(newConvertCommand(a))
	root.AddCommand(newFetchCommand())

	return root
}

// setup loads the config file and environment, then applies flag overrides.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	override("log-level", &cfg.Logging.Level, a.logLevel)
	override("log-format", &cfg.Logging.Format, a.logFormat)
	override("metrics-textfile", &cfg.Metrics.Textfile, a.metricsTextfile)
	override("store", &cfg.Store.Driver, a.storeDriver)
	override("db", &cfg.Store.Path, a.storePath)
	override("mode", &cfg.Normalize.Mode, a.mode)
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.metrics = metrics.New()
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("config loaded", "path", a.configPath, "mode", cfg.Normalize.Mode, "store", cfg.Store.Driver)
	return nil
}

func (a *app) flushMetrics() error {
	if a.cfg.Metrics.Textfile == "" || a.metrics == nil {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func (a *app) openStore(ctx context.Context) (store.ModelStore, error) {
	s, err := spamkit.OpenStore(ctx, a.cfg.Store.Driver, a.cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", a.cfg.Store.Driver, err)
	}
	return s, nil
}

// components builds the normalizer from the config plus any stopwords
// persisted by a previous autotune run.
func (a *app) components(ctx context.Context, s store.ModelStore) (*config.Components, error) {
	return a.componentsFor(ctx, s, a.cfg.Normalize)
}

func (a *app) componentsFor(ctx context.Context, s store.ModelStore, n config.Normalize) (*config.Components, error) {
	var tuned []string
	if s != nil {
		var err error
		if tuned, err = s.Stoplist(ctx); err != nil {
			return nil, fmt.Errorf("load tuned stoplist: %w", err)
		}
	}
	loader := config.Loader{Normalize: n, Stopwords: tuned}
	return loader.Load()
}

// pipelineFor rebuilds the normalizer a model was trained with from its
// recorded params. The current config and tuned stoplist only fill in settings
// the model did not record.
func (a *app) pipelineFor(ctx context.Context, s store.ModelStore, rec store.Record) (*ingest.Pipeline, error) {
	if mode, ok := rec.Params[spamkit.ParamMode]; ok && mode != a.cfg.Normalize.Mode {
		slog.Warn("using the model's normalization mode", "model_id", rec.Snapshot.ID, "model_mode", mode, "config_mode", a.cfg.Normalize.Mode)
	}
	comp, err := a.components(ctx, s)
	if err != nil {
		return nil, err
	}
	return spamkit.PipelineFor(rec.Params, comp.Pipeline)
}

func (a *app) loadDataset(path string) ([]ingest.Document, error) {
	if path == "" {
		path = a.cfg.Dataset.Path
	}
	return dataset.LoadFile(path, dataset.LoadOptions{
		Labels: a.cfg.Dataset.Labels,
		Logger: logger.WithComponent("dataset"),
	})
}

// readTexts returns args as one text, or the non-blank lines of file.
func readTexts(args []string, file string) ([]string, error) {
	if file == "" {
		if len(args) == 0 {
			return nil, fmt.Errorf("no text given")
		}
		return []string{joinArgs(args)}, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return nonBlankLines(string(data)), nil
}
