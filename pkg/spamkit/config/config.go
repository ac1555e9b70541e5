package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/spamkit/pkg/spamkit/dataset"
	"github.com/cognicore/spamkit/pkg/spamkit/ingest"
	"github.com/cognicore/spamkit/pkg/spamkit/internalerr"
	"github.com/cognicore/spamkit/pkg/spamkit/lexicon"
	"github.com/cognicore/spamkit/pkg/spamkit/nb"
	"github.com/cognicore/spamkit/pkg/spamkit/stem"
	"github.com/cognicore/spamkit/pkg/spamkit/stoplist"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SPAMKIT_"

// Config is the full spamkit configuration file.
type Config struct {
	Dataset    Dataset    `yaml:"dataset"`
	Normalize  Normalize  `yaml:"normalize"`
	Vocabulary Vocabulary `yaml:"vocabulary"`
	Split      Split      `yaml:"split"`
	Classifier Classifier `yaml:"classifier"`
	Store      Store      `yaml:"store"`
	Logging    Logging    `yaml:"logging"`
	Metrics    Metrics    `yaml:"metrics"`
}

// Dataset locates the labeled corpus
type Dataset struct {
	Path   string   `yaml:"path"`
	Labels []string `yaml:"labels"` // empty accepts any label
}

// Normalize configures the text normalizer
type Normalize struct {
	Mode            string   `yaml:"mode"` // none, stem, lemma
	Stemmer         string   `yaml:"stemmer"`
	POS             string   `yaml:"pos"`
	Language        string   `yaml:"language"`
	StoplistPath    string   `yaml:"stoplist"`
	ExtraStopwords  []string `yaml:"extra_stopwords"`
	LemmaExceptions string   `yaml:"lemma_exceptions"`
	MinLength       int      `yaml:"min_length"`
	DropNumeric     bool     `yaml:"drop_numeric"`
	Workers         int      `yaml:"workers"` // 0 = GOMAXPROCS
	CacheSize       int      `yaml:"cache_size"`
}

// Vocabulary configures feature selection
type Vocabulary struct {
	MinCount int `yaml:"min_count"`
}

// Split configures the train/test split
type Split struct {
	Fraction float64 `yaml:"fraction"`
	Seed     uint64  `yaml:"seed"`
}

// Classifier configures Naive Bayes training
type Classifier struct {
	Alpha float64 `yaml:"alpha"`
}

// Store selects the model store backend
type Store struct {
	Driver string `yaml:"driver"` // sqlite, bolt, memory
	Path   string `yaml:"path"`
}

// Logging configures the process logger
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text, json
}

// Metrics configures the textfile exporter
type Metrics struct {
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Dataset: Dataset{
			Path:   "SMSSpamCollection",
			Labels: append([]string(nil), dataset.DefaultLabels...),
		},
		Normalize: Normalize{
			Mode:      ingest.ModeLemma.String(),
			Stemmer:   stem.AlgorithmPorter,
			POS:       lexicon.Verb.String(),
			Language:  "english",
			MinLength: ingest.DefaultMinLength,
			CacheSize: ingest.DefaultCacheSize,
		},
		Vocabulary: Vocabulary{MinCount: 1},
		Split: Split{
			Fraction: dataset.DefaultFraction,
			Seed:     dataset.DefaultSeed,
		},
		Classifier: Classifier{Alpha: nb.DefaultAlpha},
		Store: Store{
			Driver: "sqlite",
			Path:   "spamkit.db",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML config on top of Default and applies SPAMKIT_* overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %v: %w", path, err, internalerr.ErrInvalidConfig)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	var errs []error
	num := func(name string, parse func(string) error) {
		if v, ok := lookup(EnvPrefix + name); ok {
			if err := parse(v); err != nil {
				errs = append(errs, fmt.Errorf("%s%s=%q: %v: %w", EnvPrefix, name, v, err, internalerr.ErrInvalidConfig))
			}
		}
	}

	str("DATASET", &c.Dataset.Path)
	if v, ok := lookup(EnvPrefix + "LABELS"); ok {
		c.Dataset.Labels = splitList(v)
	}
	str("MODE", &c.Normalize.Mode)
	str("STEMMER", &c.Normalize.Stemmer)
	str("POS", &c.Normalize.POS)
	str("LANGUAGE", &c.Normalize.Language)
	str("STOPLIST", &c.Normalize.StoplistPath)
	str("STORE_DRIVER", &c.Store.Driver)
	str("STORE_PATH", &c.Store.Path)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)
	str("METRICS_TEXTFILE", &c.Metrics.Textfile)

	num("MIN_LENGTH", func(v string) (err error) { c.Normalize.MinLength, err = strconv.Atoi(v); return })
	num("WORKERS", func(v string) (err error) { c.Normalize.Workers, err = strconv.Atoi(v); return })
	num("MIN_COUNT", func(v string) (err error) { c.Vocabulary.MinCount, err = strconv.Atoi(v); return })
	num("SPLIT_FRACTION", func(v string) (err error) { c.Split.Fraction, err = strconv.ParseFloat(v, 64); return })
	num("SEED", func(v string) (err error) { c.Split.Seed, err = strconv.ParseUint(v, 10, 64); return })
	num("ALPHA", func(v string) (err error) { c.Classifier.Alpha, err = strconv.ParseFloat(v, 64); return })

	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks every section and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format+": %w", append(args, internalerr.ErrInvalidConfig)...))
	}

	if _, err := ingest.ParseMode(c.Normalize.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, err := stem.New(c.Normalize.Stemmer); err != nil {
		errs = append(errs, err)
	}
	if _, err := lexicon.ParsePOS(c.Normalize.POS); err != nil {
		invalid("normalize.pos %q", c.Normalize.POS)
	}
	if _, err := stoplist.ForLanguage(c.Normalize.Language); err != nil {
		invalid("normalize.language %q", c.Normalize.Language)
	}
	if c.Normalize.MinLength < 1 {
		invalid("normalize.min_length %d must be at least 1", c.Normalize.MinLength)
	}
	if c.Normalize.Workers < 0 {
		invalid("normalize.workers %d is negative", c.Normalize.Workers)
	}
	if c.Vocabulary.MinCount < 1 {
		invalid("vocabulary.min_count %d must be at least 1", c.Vocabulary.MinCount)
	}
	if !(c.Split.Fraction > 0 && c.Split.Fraction <= 1) {
		invalid("split.fraction %v outside (0,1]", c.Split.Fraction)
	}
	if !(c.Classifier.Alpha > 0) {
		invalid("classifier.alpha %v must be positive", c.Classifier.Alpha)
	}
	switch c.Store.Driver {
	case "sqlite", "bolt":
		if c.Store.Path == "" {
			invalid("store.path is required for driver %s", c.Store.Driver)
		}
	case "memory":
	default:
		invalid("store.driver %q (want sqlite, bolt or memory)", c.Store.Driver)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		invalid("logging.format %q (want text or json)", c.Logging.Format)
	}

	return errors.Join(errs...)
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}

// SaveStoplist writes terms in the format LoadStoplist reads.
func SaveStoplist(path string, terms []string) error {
	data, err := yaml.Marshal(Stoplist{Terms: terms})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
