// Package metrics defines the Prometheus collectors for training and
// classification runs. Collectors live on a private registry so several
// engines can coexist in one process.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "spamkit"

// Metrics holds all Prometheus collectors for spamkit.
type Metrics struct {
	registry *prometheus.Registry

	DocumentsLoaded      *prometheus.CounterVec
	TokensNormalized     prometheus.Counter
	VocabularySize       prometheus.Gauge
	TrainingDuration     prometheus.Histogram
	Accuracy             *prometheus.GaugeVec
	ClassificationsTotal *prometheus.CounterVec
	LastTrainTimestamp   prometheus.Gauge
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		DocumentsLoaded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_loaded_total",
				Help:      "Documents loaded for training by label.",
			},
			[]string{"label"},
		),
		TokensNormalized: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_normalized_total",
				Help:      "Tokens produced by the normalizer.",
			},
		),
		VocabularySize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "vocabulary_size",
				Help:      "Number of features in the last trained vocabulary.",
			},
		),
		TrainingDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "training_duration_seconds",
				Help:      "Wall time of a full training run.",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		Accuracy: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "accuracy",
				Help:      "Accuracy of the last trained model by split (train, test).",
			},
			[]string{"split"},
		),
		ClassificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "classifications_total",
				Help:      "Messages classified by predicted label.",
			},
			[]string{"label"},
		),
		LastTrainTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_train_timestamp_seconds",
				Help:      "Unix time of the last completed training run.",
			},
		),
	}

	m.registry.MustRegister(
		m.DocumentsLoaded,
		m.TokensNormalized,
		m.VocabularySize,
		m.TrainingDuration,
		m.Accuracy,
		m.ClassificationsTotal,
		m.LastTrainTimestamp,
	)

	return m
}

// ObserveTraining records the outcome of a completed training run.
func (m *Metrics) ObserveTraining(elapsed time.Duration, vocabSize int, trainAcc, testAcc float64) {
	m.TrainingDuration.Observe(elapsed.Seconds())
	m.VocabularySize.Set(float64(vocabSize))
	m.Accuracy.WithLabelValues("train").Set(trainAcc)
	m.Accuracy.WithLabelValues("test").Set(testAcc)
	m.LastTrainTimestamp.SetToCurrentTime()
}

// Registry exposes the private registry, e.g. for pushing.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus scrape HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current values in the text exposition format for
// node_exporter's textfile collector. The write is atomic.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
