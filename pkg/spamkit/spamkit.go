// Package spamkit ties the normalizer, vocabulary, feature extractor and Naive
// Bayes classifier into one train/evaluate/classify pipeline.
package spamkit

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/cognicore/spamkit/internal/logger"
	"github.com/cognicore/spamkit/pkg/spamkit/dataset"
	"github.com/cognicore/spamkit/pkg/spamkit/features"
	"github.com/cognicore/spamkit/pkg/spamkit/ids"
	"github.com/cognicore/spamkit/pkg/spamkit/ingest"
	"github.com/cognicore/spamkit/pkg/spamkit/internalerr"
	"github.com/cognicore/spamkit/pkg/spamkit/lexicon"
	"github.com/cognicore/spamkit/pkg/spamkit/metrics"
	"github.com/cognicore/spamkit/pkg/spamkit/nb"
	"github.com/cognicore/spamkit/pkg/spamkit/stem"
	"github.com/cognicore/spamkit/pkg/spamkit/store"
	"github.com/cognicore/spamkit/pkg/spamkit/vocab"
)

// Parameter keys recorded with every stored model.
const (
	ParamMode          = "mode"
	ParamMinCount      = "min_count"
	ParamSplitFraction = "split_fraction"
	ParamSeed          = "seed"
	ParamTrainAccuracy = "train_accuracy"
	ParamTestAccuracy  = "test_accuracy"

	// Normalizer settings, replayed by PipelineFor.
	ParamStemmer     = "stemmer"
	ParamPOS         = "pos"
	ParamMinLength   = "min_length"
	ParamDropNumeric = "drop_numeric"
	// ParamStopwords is the sorted, comma-separated effective stopword set.
	ParamStopwords = "stopwords"
)

// Engine is the main classification facade
type Engine struct {
	pipeline *ingest.Pipeline
	store    store.ModelStore
	metrics  *metrics.Metrics
	opts     Options
}

// Options configures an Engine instance
type Options struct {
	Pipeline *ingest.Pipeline
	Store    store.ModelStore // optional; models are not persisted when nil
	Metrics  *metrics.Metrics // optional

	MinCount      int
	SplitFraction float64
	Seed          uint64
	Alpha         float64
	// Workers bounds parallel normalization. 0 means GOMAXPROCS.
	Workers int
	// Params are stored alongside each trained model.
	Params map[string]string
	// TopFeatures is how many informative features a Report lists.
	TopFeatures int
}

// New creates an Engine with the given dependencies. Zero values fall back to
// the package defaults.
func New(opts Options) *Engine {
	if opts.Pipeline == nil {
		opts.Pipeline = ingest.NewPipeline(nil, ingest.DefaultOptions())
	}
	if opts.MinCount < 1 {
		opts.MinCount = 1
	}
	if opts.SplitFraction == 0 {
		opts.SplitFraction = dataset.DefaultFraction
	}
	if opts.Alpha == 0 {
		opts.Alpha = nb.DefaultAlpha
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.TopFeatures == 0 {
		opts.TopFeatures = 10
	}
	return &Engine{
		pipeline: opts.Pipeline,
		store:    opts.Store,
		metrics:  opts.Metrics,
		opts:     opts,
	}
}

// Close cleanly shuts down the Engine and its store
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Pipeline returns the normalizer the engine uses.
func (e *Engine) Pipeline() *ingest.Pipeline {
	return e.pipeline
}

// Report describes one training run.
type Report struct {
	RunID          string
	Documents      int
	TrainSize      int
	TestSize       int
	VocabularySize int
	LabelCounts    map[string]int
	TrainAccuracy  float64
	TestAccuracy   float64
	Test           nb.Evaluation
	Informative    []nb.Informative
	Duration       time.Duration
	Saved          bool
	Model          *nb.Model
}

type tokenized struct {
	tokens []string
	label  string
}

// Train runs normalize, split, vocabulary, features, train and evaluate over
// docs, then saves the model when a store is configured. The vocabulary is
// built from the training split only.
func (e *Engine) Train(ctx context.Context, docs []ingest.Document) (*Report, error) {
	start := time.Now()
	if len(docs) == 0 {
		return nil, internalerr.ErrEmptyCorpus
	}
	for i, d := range docs {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
	}

	runID := ids.New()
	ctx = logger.WithRunID(ctx, runID)
	log := logger.FromContext(ctx).With("component", "engine")

	report := &Report{
		RunID:       runID,
		Documents:   len(docs),
		LabelCounts: dataset.CountLabels(docs, func(d ingest.Document) string { return d.Label }),
	}
	log.Info("training started", "documents", len(docs), "labels", report.LabelCounts, "mode", e.pipeline.Mode())

	tokens, err := e.pipeline.ProcessAll(ctx, ingest.Texts(docs), e.opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	corpus := make([]tokenized, len(docs))
	var tokenCount int
	for i := range docs {
		corpus[i] = tokenized{tokens: tokens[i], label: docs[i].Label}
		tokenCount += len(tokens[i])
	}

	train, test, err := dataset.Split(corpus, e.opts.SplitFraction, e.opts.Seed)
	if err != nil {
		return nil, err
	}
	if len(train) == 0 {
		return nil, fmt.Errorf("split %v of %d documents leaves no training data: %w",
			e.opts.SplitFraction, len(docs), internalerr.ErrEmptyCorpus)
	}
	report.TrainSize, report.TestSize = len(train), len(test)

	builder := vocab.NewBuilder(e.opts.MinCount)
	for _, doc := range train {
		if err := builder.Add(doc.tokens); err != nil {
			return nil, err
		}
	}
	v := builder.Build()
	report.VocabularySize = v.Len()
	log.Debug("vocabulary built", "size", v.Len(), "min_count", e.opts.MinCount)

	trainSet := extract(train, v)
	testSet := extract(test, v)

	model, err := nb.Train(trainSet, v, nb.Options{Alpha: e.opts.Alpha, ID: runID})
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	report.Model = model

	if report.TrainAccuracy, err = nb.Accuracy(model, trainSet); err != nil {
		return nil, err
	}
	if report.Test, err = nb.Evaluate(model, testSet); err != nil {
		return nil, err
	}
	report.TestAccuracy = report.Test.Accuracy()
	report.Informative = model.MostInformative(e.opts.TopFeatures)

	if e.store != nil {
		if err := e.store.SaveModel(ctx, store.Record{Snapshot: model.Snapshot(), Params: e.params(report)}); err != nil {
			return nil, fmt.Errorf("save model: %w", err)
		}
		report.Saved = true
	}

	report.Duration = time.Since(start)
	if e.metrics != nil {
		for label, n := range report.LabelCounts {
			e.metrics.DocumentsLoaded.WithLabelValues(label).Add(float64(n))
		}
		e.metrics.TokensNormalized.Add(float64(tokenCount))
		e.metrics.ObserveTraining(report.Duration, v.Len(), report.TrainAccuracy, report.TestAccuracy)
	}

	log.Info("training finished",
		"train", report.TrainSize,
		"test", report.TestSize,
		"vocabulary", report.VocabularySize,
		"train_accuracy", report.TrainAccuracy,
		"test_accuracy", report.TestAccuracy,
		"saved", report.Saved,
		"duration", report.Duration,
	)
	return report, nil
}

func extract(docs []tokenized, v *vocab.Vocabulary) []features.Labeled {
	out := make([]features.Labeled, len(docs))
	for i, d := range docs {
		out[i] = features.Labeled{Features: features.Extract(d.tokens, v), Label: d.label}
	}
	return out
}

func (e *Engine) params(r *Report) map[string]string {
	p := make(map[string]string, len(e.opts.Params)+11)
	for k, v := range e.opts.Params {
		p[k] = v
	}
	tok := e.pipeline.Tokenizer()
	p[ParamMode] = e.pipeline.Mode().String()
	p[ParamStemmer] = e.pipeline.Stemmer().Name()
	p[ParamPOS] = e.pipeline.POS().String()
	p[ParamMinLength] = strconv.Itoa(tok.MinLength())
	p[ParamDropNumeric] = strconv.FormatBool(tok.DropNumeric())
	p[ParamStopwords] = strings.Join(tok.StopwordList(), ",")
	p[ParamMinCount] = strconv.Itoa(e.opts.MinCount)
	p[ParamSplitFraction] = strconv.FormatFloat(e.opts.SplitFraction, 'g', -1, 64)
	p[ParamSeed] = strconv.FormatUint(e.opts.Seed, 10)
	p[ParamTrainAccuracy] = strconv.FormatFloat(r.TrainAccuracy, 'f', 4, 64)
	p[ParamTestAccuracy] = strconv.FormatFloat(r.TestAccuracy, 'f', 4, 64)
	return p
}

// PipelineFor rebuilds the normalizer a model was trained with from its
// recorded params, so later stoplist or config edits do not change how the
// model sees text. Settings absent from params are taken from fallback; the
// lemmatizer always is.
func PipelineFor(params map[string]string, fallback *ingest.Pipeline) (*ingest.Pipeline, error) {
	if fallback == nil {
		fallback = ingest.NewPipeline(nil, ingest.DefaultOptions())
	}
	opts := ingest.Options{
		Mode:       fallback.Mode(),
		Stemmer:    fallback.Stemmer(),
		Lemmatizer: fallback.Lemmatizer(),
		POS:        fallback.POS(),
	}
	ft := fallback.Tokenizer()
	stops := ft.StopwordList()
	minLength := ft.MinLength()
	dropNumeric := ft.DropNumeric()

	var err error
	if v, ok := params[ParamMode]; ok {
		if opts.Mode, err = ingest.ParseMode(v); err != nil {
			return nil, err
		}
	}
	if v, ok := params[ParamStemmer]; ok {
		if opts.Stemmer, err = stem.New(v); err != nil {
			return nil, err
		}
	}
	if v, ok := params[ParamPOS]; ok {
		if opts.POS, err = lexicon.ParsePOS(v); err != nil {
			return nil, err
		}
	}
	if v, ok := params[ParamMinLength]; ok {
		if minLength, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("param %s=%q: %w", ParamMinLength, v, internalerr.ErrInvalidConfig)
		}
	}
	if v, ok := params[ParamDropNumeric]; ok {
		if dropNumeric, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("param %s=%q: %w", ParamDropNumeric, v, internalerr.ErrInvalidConfig)
		}
	}
	if v, ok := params[ParamStopwords]; ok {
		stops = stops[:0]
		for _, w := range strings.Split(v, ",") {
			if w != "" {
				stops = append(stops, w)
			}
		}
	}

	tok := ingest.NewTokenizer(stops)
	tok.SetMinLength(minLength)
	tok.SetDropNumeric(dropNumeric)
	return ingest.NewPipeline(tok, opts), nil
}

// Classify normalizes text with the engine's pipeline and classifies it with m.
func (e *Engine) Classify(ctx context.Context, m *nb.Model, text string) (nb.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nb.Prediction{}, err
	}
	if !m.Trained() {
		return nb.Prediction{}, internalerr.ErrUntrained
	}
	pred, err := m.Predict(features.Extract(e.pipeline.Process(text), m.Vocabulary()))
	if err != nil {
		return nb.Prediction{}, err
	}
	e.observe(pred)
	return pred, nil
}

// ClassifyAll classifies texts in order, normalizing them in parallel.
func (e *Engine) ClassifyAll(ctx context.Context, m *nb.Model, texts []string) ([]nb.Prediction, error) {
	if !m.Trained() {
		return nil, internalerr.ErrUntrained
	}
	tokens, err := e.pipeline.ProcessAll(ctx, texts, e.opts.Workers)
	if err != nil {
		return nil, err
	}
	preds := make([]nb.Prediction, len(texts))
	for i, toks := range tokens {
		if preds[i], err = m.Predict(features.Extract(toks, m.Vocabulary())); err != nil {
			return nil, err
		}
		e.observe(preds[i])
	}
	return preds, nil
}

func (e *Engine) observe(pred nb.Prediction) {
	if e.metrics != nil {
		e.metrics.ClassificationsTotal.WithLabelValues(pred.Label).Inc()
	}
}

// LoadModel fetches a stored model. An empty id loads the latest one.
func (e *Engine) LoadModel(ctx context.Context, id string) (*nb.Model, store.Record, error) {
	if e.store == nil {
		return nil, store.Record{}, fmt.Errorf("no model store configured: %w", internalerr.ErrNotFound)
	}
	var (
		rec store.Record
		err error
	)
	if id == "" {
		rec, err = e.store.LatestModel(ctx)
	} else {
		rec, err = e.store.LoadModel(ctx, id)
	}
	if err != nil {
		return nil, store.Record{}, err
	}
	m, err := nb.FromSnapshot(rec.Snapshot)
	if err != nil {
		return nil, store.Record{}, fmt.Errorf("model %s: %w", rec.Snapshot.ID, err)
	}
	logger.FromContext(ctx).Debug("model loaded", "component", "engine", "model_id", m.ID, "features", m.Vocabulary().Len())
	return m, rec, nil
}
