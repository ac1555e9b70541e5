package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/spamkit/pkg/spamkit"
	"github.com/cognicore/spamkit/pkg/spamkit/config"
)

const rawCorpus = `spam Win money now
ham Hello, how are you?
spam Claim your free prize
ham See you at the meeting
`

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	cfg := fmt.Sprintf(`dataset:
  path: %s
normalize:
  mode: none
split:
  fraction: 1
store:
  driver: sqlite
  path: %s
logging:
  level: error
`, filepath.Join(dir, "corpus.csv"), filepath.Join(dir, "models.db"))

	path := filepath.Join(dir, "spamkit.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("spamkit %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func modelID(t *testing.T, trainOutput string) string {
	t.Helper()
	for _, line := range strings.Split(trainOutput, "\n") {
		if rest, ok := strings.CutPrefix(line, "Model:"); ok {
			return strings.TrimSpace(rest)
		}
	}
	t.Fatalf("no model id in output:\n%s", trainOutput)
	return ""
}

func TestConvertTrainClassify(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	raw := filepath.Join(dir, "raw.txt")
	if err := os.WriteFile(raw, []byte(rawCorpus), 0644); err != nil {
		t.Fatalf("write raw corpus: %v", err)
	}
	run(t, "--config", cfg, "convert", raw, filepath.Join(dir, "corpus.csv"))

	out := run(t, "--config", cfg, "train")
	if !strings.Contains(out, "Documents:    4 (train 4, test 0)") {
		t.Errorf("unexpected train report:\n%s", out)
	}
	if !strings.Contains(out, "Train acc.:   1.0000") {
		t.Errorf("expected perfect training accuracy:\n%s", out)
	}
	id := modelID(t, out)

	out = run(t, "--config", cfg, "classify", "free", "money", "now")
	if !strings.HasPrefix(out, "spam\t") {
		t.Errorf("classify = %q, want spam", out)
	}
	out = run(t, "--config", cfg, "classify", "--model", id, "-p", "hello, see you at the meeting")
	if !strings.HasPrefix(out, "ham\t") {
		t.Errorf("classify = %q, want ham", out)
	}
	if !strings.Contains(out, "ham=") || !strings.Contains(out, "spam=") {
		t.Errorf("expected per-label probabilities:\n%s", out)
	}

	out = run(t, "--config", cfg, "models", "list")
	if !strings.Contains(out, id) || !strings.Contains(out, "ham,spam") {
		t.Errorf("models list missing %s:\n%s", id, out)
	}

	out = run(t, "--config", cfg, "models", "show")
	if !strings.Contains(out, "ID:         "+id) {
		t.Errorf("models show did not load the latest model:\n%s", out)
	}

	run(t, "--config", cfg, "models", "rm", id)
	out = run(t, "--config", cfg, "models", "list")
	if !strings.Contains(out, "no stored models") {
		t.Errorf("model not deleted:\n%s", out)
	}
}

func TestVectorizeCommands(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())

	out := run(t, "--config", cfg, "bow", "win money", "money money prize")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{"money\tprize\twin", "1\t0\t1", "2\t1\t0"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Errorf("bow output = %q, want %q", lines, want)
	}

	out = run(t, "--config", cfg, "tfidf", "win money", "money prize")
	lines = strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || lines[0] != "money\tprize\twin" {
		t.Fatalf("tfidf output = %q", lines)
	}
	// money occurs in both documents and weighs less than win
	row := strings.Split(lines[1], "\t")
	if row[1] != "0.000" || row[0] >= row[2] {
		t.Errorf("tfidf row = %q", row)
	}
}

func TestNormalizeCommand(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())

	out := run(t, "--config", cfg, "--mode", "lemma", "normalize", "He was looking at the flapping coats")
	for _, want := range []string{"PORTER", "looking", "look", "flap", "coat", "lemma: [look flap coat]"} {
		if !strings.Contains(out, want) {
			t.Errorf("normalize output missing %q:\n%s", want, out)
		}
	}
}

func TestStopwordsCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	corpus := "ham\thello friend call me\nspam\tcall now to win\nham\tcall me later\nspam\twin cash call today\n"
	tsv := filepath.Join(dir, "corpus.tsv")
	if err := os.WriteFile(tsv, []byte(corpus), 0644); err != nil {
		t.Fatal(err)
	}
	stoplistPath := filepath.Join(dir, "stoplist.yaml")

	out := run(t, "--config", cfg, "stopwords", "--dataset", tsv, "--save", "--write", stoplistPath)
	if !strings.Contains(out, "call") {
		t.Fatalf("expected call as a candidate:\n%s", out)
	}
	if strings.Contains(out, "win ") {
		t.Errorf("win only occurs in spam and must not be suggested:\n%s", out)
	}
	data, err := os.ReadFile(stoplistPath)
	if err != nil {
		t.Fatalf("read stoplist: %v", err)
	}
	if !strings.Contains(string(data), "- call") {
		t.Errorf("stoplist file = %q", data)
	}

	// a saved stopword no longer reaches the vocabulary
	out = run(t, "--config", cfg, "freq", "--dataset", tsv)
	if strings.Contains(out, "call") {
		t.Errorf("tuned stopword still counted:\n%s", out)
	}
}

func TestClassifyUsesTrainingStoplist(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	corpus := "ham\thello friend call me\nspam\tcall now to win\nham\tcall me later\nspam\twin cash call today\n"
	tsv := filepath.Join(dir, "corpus.tsv")
	if err := os.WriteFile(tsv, []byte(corpus), 0644); err != nil {
		t.Fatal(err)
	}

	out := run(t, "--config", cfg, "train", "--dataset", tsv)
	if !strings.Contains(out, "Vocabulary:   7 features") {
		t.Fatalf("unexpected train report:\n%s", out)
	}
	run(t, "--config", cfg, "stopwords", "--dataset", tsv, "--save")

	// a new run reads the tuned stoplist from the store even without saving
	out = run(t, "--config", cfg, "train", "--dataset", tsv, "--no-save")
	if !strings.Contains(out, "Vocabulary:   6 features") || !strings.Contains(out, "(model not saved)") {
		t.Errorf("tuned stoplist not applied to --no-save training:\n%s", out)
	}

	out = run(t, "--config", cfg, "classify", "call cash today")
	if !strings.HasPrefix(out, "spam\t") {
		t.Errorf("classify output = %q", out)
	}

	ctx := context.Background()
	c, err := config.Load(cfg)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	a := &app{cfg: c}
	s, err := a.openStore(ctx)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	model, rec, err := spamkit.New(spamkit.Options{Store: s}).LoadModel(ctx, "")
	if err != nil {
		t.Fatalf("load model: %v", err)
	}
	if !model.Vocabulary().Contains("call") {
		t.Fatalf("model vocabulary lacks call")
	}

	pipeline, err := a.pipelineFor(ctx, s, rec)
	if err != nil {
		t.Fatalf("pipelineFor: %v", err)
	}
	got := strings.Join(pipeline.Process("call cash today"), " ")
	if got != "call cash today" {
		t.Errorf("classify tokens = %q, want the training-time tokens %q", got, "call cash today")
	}
}

func TestNonBlankLines(t *testing.T) {
	got := nonBlankLines("a\r\n\n  \nb c\n")
	if len(got) != 2 || got[0] != "a" || got[1] != "b c" {
		t.Errorf("nonBlankLines = %q", got)
	}
}
