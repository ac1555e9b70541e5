package nb

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/spamkit/pkg/spamkit/features"
	"github.com/cognicore/spamkit/pkg/spamkit/ingest"
	"github.com/cognicore/spamkit/pkg/spamkit/internalerr"
	"github.com/cognicore/spamkit/pkg/spamkit/vocab"
)

var scenario = []ingest.Document{
	{Text: "Win money now", Label: "spam"},
	{Text: "Hello, how are you?", Label: "ham"},
	{Text: "Claim your free prize", Label: "spam"},
	{Text: "See you at the meeting", Label: "ham"},
}

func scenarioPipeline(t *testing.T) *ingest.Pipeline {
	t.Helper()
	return ingest.NewPipeline(ingest.NewTokenizer([]string{"the"}), ingest.Options{Mode: ingest.ModeNone})
}

func trainScenario(t *testing.T) (*Model, *ingest.Pipeline) {
	t.Helper()
	pipe := scenarioPipeline(t)

	tokenized := make([][]string, len(scenario))
	for i, d := range scenario {
		tokenized[i] = pipe.Process(d.Text)
	}
	v := vocab.Build(tokenized, 1)

	samples := make([]features.Labeled, len(scenario))
	for i, d := range scenario {
		samples[i] = features.Labeled{Features: features.Extract(tokenized[i], v), Label: d.Label}
	}

	m, err := Train(samples, v, DefaultOptions())
	require.NoError(t, err)
	return m, pipe
}

func TestEndToEndScenario(t *testing.T) {
	m, pipe := trainScenario(t)

	assert.Equal(t, []string{
		"win", "money", "now", "hello", "how", "are", "you",
		"claim", "your", "free", "prize", "see", "meeting",
	}, m.Vocabulary().Tokens())

	label, err := m.Classify(features.Extract(pipe.Process("free money now"), m.Vocabulary()))
	require.NoError(t, err)
	assert.Equal(t, "spam", label)

	label, err = m.Classify(features.Extract(pipe.Process("how are you, see you soon"), m.Vocabulary()))
	require.NoError(t, err)
	assert.Equal(t, "ham", label)
}

func TestTrainedParameters(t *testing.T) {
	m, _ := trainScenario(t)

	assert.Equal(t, []string{"ham", "spam"}, m.Labels())
	assert.Equal(t, 4, m.Documents())
	assert.Equal(t, 2, m.LabelDocuments("spam"))

	prior, ok := m.Prior("spam")
	require.True(t, ok)
	assert.InDelta(t, 0.5, prior, 1e-12)

	// (1 + 1) / (2 + 2)
	p, ok := m.FeatureProbability("spam", "free")
	require.True(t, ok)
	assert.InDelta(t, 0.5, p, 1e-12)

	// (0 + 1) / (2 + 2)
	p, ok = m.FeatureProbability("ham", "free")
	require.True(t, ok)
	assert.InDelta(t, 0.25, p, 1e-12)

	// "you" occurs in both ham documents: (2 + 1) / (2 + 2)
	p, ok = m.FeatureProbability("ham", "you")
	require.True(t, ok)
	assert.InDelta(t, 0.75, p, 1e-12)

	_, ok = m.FeatureProbability("ham", "lottery")
	assert.False(t, ok)
	_, ok = m.Prior("phish")
	assert.False(t, ok)
}

func TestLogScoresMatchFormula(t *testing.T) {
	m, pipe := trainScenario(t)
	vec := features.Extract(pipe.Process("free money now"), m.Vocabulary())

	scores, err := m.LogScores(vec)
	require.NoError(t, err)

	// spam: present free/money/now at .5, absent win/claim/your/prize at .5,
	// absent ham-only tokens at .75
	wantSpam := math.Log(0.5) + 7*math.Log(0.5) + 6*math.Log(0.75)
	assert.InDelta(t, wantSpam, scores["spam"], 1e-9)

	// ham: present free/money/now at .25, absent spam tokens at .75,
	// absent hello/how/are/see/meeting at .5, absent you at .25
	wantHam := math.Log(0.5) + 3*math.Log(0.25) + 4*math.Log(0.75) + 5*math.Log(0.5) + math.Log(0.25)
	assert.InDelta(t, wantHam, scores["ham"], 1e-9)
}

func TestProbabilities(t *testing.T) {
	m, pipe := trainScenario(t)
	vec := features.Extract(pipe.Process("free money now"), m.Vocabulary())

	probs, err := m.Probabilities(vec)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, probs["ham"]+probs["spam"], 1e-12)
	assert.Greater(t, probs["spam"], probs["ham"])

	pred, err := m.Predict(vec)
	require.NoError(t, err)
	assert.Equal(t, "spam", pred.Label)
	assert.InDelta(t, probs["spam"], pred.Probability, 1e-12)
}

func TestClassifyDeterministic(t *testing.T) {
	m, pipe := trainScenario(t)
	vec := features.Extract(pipe.Process("claim free prize meeting"), m.Vocabulary())

	first, err := m.Classify(vec)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		got, err := m.Classify(vec)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestTieBreaksToSmallerLabel(t *testing.T) {
	v, err := vocab.FromTokens([]string{"hello"})
	require.NoError(t, err)

	samples := []features.Labeled{
		{Features: features.Presence{true}, Label: "zeta"},
		{Features: features.Presence{true}, Label: "alpha"},
	}
	m, err := Train(samples, v, DefaultOptions())
	require.NoError(t, err)

	for _, vec := range []features.Presence{{true}, {false}} {
		label, err := m.Classify(vec)
		require.NoError(t, err)
		assert.Equal(t, "alpha", label)
	}
}

func TestTrainErrors(t *testing.T) {
	v, err := vocab.FromTokens([]string{"a", "b"})
	require.NoError(t, err)
	good := []features.Labeled{{Features: features.Presence{true, false}, Label: "ham"}}

	_, err = Train(nil, v, DefaultOptions())
	assert.ErrorIs(t, err, internalerr.ErrEmptyCorpus)

	_, err = Train([]features.Labeled{{Features: features.Presence{true}, Label: "ham"}}, v, DefaultOptions())
	assert.ErrorIs(t, err, internalerr.ErrDimensionMismatch)

	_, err = Train(good, v, Options{Alpha: 0})
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)

	_, err = Train(good, v, Options{Alpha: -1})
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)

	_, err = Train([]features.Labeled{{Features: features.Presence{true, false}}}, v, DefaultOptions())
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)

	_, err = Train(good, nil, DefaultOptions())
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}

func TestClassifyErrors(t *testing.T) {
	var nilModel *Model
	_, err := nilModel.Classify(features.Presence{})
	assert.ErrorIs(t, err, internalerr.ErrUntrained)

	_, err = (&Model{}).Classify(features.Presence{})
	assert.ErrorIs(t, err, internalerr.ErrUntrained)

	m, _ := trainScenario(t)
	_, err = m.Classify(features.Presence{true})
	assert.ErrorIs(t, err, internalerr.ErrDimensionMismatch)
}

func TestAccuracy(t *testing.T) {
	m, pipe := trainScenario(t)
	v := m.Vocabulary()

	var samples []features.Labeled
	for _, d := range scenario {
		samples = append(samples, features.Labeled{Features: features.Extract(pipe.Process(d.Text), v), Label: d.Label})
	}

	acc, err := Accuracy(m, samples)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, acc, 0.0)
	assert.LessOrEqual(t, acc, 1.0)
	assert.Equal(t, 1.0, acc, "training documents should be separable")

	acc, err = Accuracy(m, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, acc)

	wrong := []features.Labeled{{Features: samples[0].Features, Label: "ham"}}
	ev, err := Evaluate(m, wrong)
	require.NoError(t, err)
	assert.Equal(t, 0, ev.Correct)
	assert.Equal(t, 1, ev.Confusion["ham"]["spam"])
}

func TestMostInformative(t *testing.T) {
	m, _ := trainScenario(t)

	top := m.MostInformative(1)
	require.Len(t, top, 1)
	// "you" is in both ham documents and no spam: .75 / .25
	assert.Equal(t, "you", top[0].Token)
	assert.Equal(t, "ham", top[0].Label)
	assert.Equal(t, "spam", top[0].Against)
	assert.InDelta(t, 3.0, top[0].Ratio, 1e-12)

	all := m.MostInformative(0)
	assert.Len(t, all, m.Vocabulary().Len())
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Ratio, all[i].Ratio)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	m, pipe := trainScenario(t)

	restored, err := FromSnapshot(m.Snapshot())
	require.NoError(t, err)

	assert.Equal(t, m.ID, restored.ID)
	assert.Equal(t, m.Labels(), restored.Labels())
	assert.Equal(t, m.Vocabulary().Tokens(), restored.Vocabulary().Tokens())

	vec := features.Extract(pipe.Process("free money now"), m.Vocabulary())
	want, err := m.LogScores(vec)
	require.NoError(t, err)
	got, err := restored.LogScores(vec)
	require.NoError(t, err)
	for l := range want {
		assert.InDelta(t, want[l], got[l], 1e-12)
	}
}

func TestFromSnapshotValidates(t *testing.T) {
	m, _ := trainScenario(t)

	_, err := FromSnapshot(Snapshot{})
	assert.ErrorIs(t, err, internalerr.ErrUntrained)

	s := m.Snapshot()
	s.Labels[0].Present = s.Labels[0].Present[:3]
	_, err = FromSnapshot(s)
	assert.ErrorIs(t, err, internalerr.ErrDimensionMismatch)

	s = m.Snapshot()
	s.Labels[1].Present[0] = 99
	_, err = FromSnapshot(s)
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)

	s = m.Snapshot()
	s.Labels[1].Label = s.Labels[0].Label
	_, err = FromSnapshot(s)
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}

func TestTrainOptions(t *testing.T) {
	v, err := vocab.FromTokens([]string{"a"})
	require.NoError(t, err)
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	m, err := Train([]features.Labeled{{Features: features.Presence{true}, Label: "ham"}}, v,
		Options{Alpha: 0.5, ID: "fixed", Now: func() time.Time { return at }})
	require.NoError(t, err)
	assert.Equal(t, "fixed", m.ID)
	assert.Equal(t, at, m.TrainedAt)

	// (1 + .5) / (1 + 1)
	p, _ := m.FeatureProbability("ham", "a")
	assert.InDelta(t, 0.75, p, 1e-12)

	m, err = Train([]features.Labeled{{Features: features.Presence{true}, Label: "ham"}}, v, DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, m.ID, 26)
}
