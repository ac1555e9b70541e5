// Package storetest checks that a store.ModelStore backend honors the shared
// contract. Backends call Run from their own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/spamkit/pkg/spamkit/internalerr"
	"github.com/cognicore/spamkit/pkg/spamkit/nb"
	"github.com/cognicore/spamkit/pkg/spamkit/store"
)

// Factory opens an empty store. Run closes it.
type Factory func(t *testing.T) store.ModelStore

// Record builds a small two-label model record trained at the given time.
func Record(id string, trainedAt time.Time) store.Record {
	return store.Record{
		Snapshot: nb.Snapshot{
			ID:         id,
			TrainedAt:  trainedAt.UTC(),
			Alpha:      1,
			Vocabulary: []string{"win", "money", "now", "hello", "meeting"},
			Labels: []nb.LabelSnapshot{
				{Label: "ham", Documents: 2, Present: []int{0, 0, 0, 1, 1}},
				{Label: "spam", Documents: 3, Present: []int{2, 1, 3, 0, 0}},
			},
		},
		Params: map[string]string{
			"mode":          "lemma",
			"test_accuracy": "0.9713",
		},
	}
}

// Run exercises every ModelStore operation against stores from open.
func Run(t *testing.T, open Factory) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 123456789, time.UTC)

	t.Run("SaveLoad", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		ctx := context.Background()

		want := Record("01J0000000000000000000000A", base)
		require.NoError(t, s.SaveModel(ctx, want))

		got, err := s.LoadModel(ctx, want.Snapshot.ID)
		require.NoError(t, err)
		assertRecordEqual(t, want, got)

		// the loaded snapshot must rebuild a working model
		m, err := nb.FromSnapshot(got.Snapshot)
		require.NoError(t, err)
		assert.Equal(t, []string{"ham", "spam"}, m.Labels())
	})

	t.Run("SaveReplaces", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		ctx := context.Background()

		r := Record("01J0000000000000000000000A", base)
		require.NoError(t, s.SaveModel(ctx, r))

		r.Snapshot.Labels[1].Present = []int{3, 3, 3, 0, 0}
		r.Params = map[string]string{"mode": "stem"}
		require.NoError(t, s.SaveModel(ctx, r))

		got, err := s.LoadModel(ctx, r.Snapshot.ID)
		require.NoError(t, err)
		assertRecordEqual(t, r, got)

		infos, err := s.ListModels(ctx)
		require.NoError(t, err)
		assert.Len(t, infos, 1)
	})

	t.Run("NotFound", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		ctx := context.Background()

		_, err := s.LoadModel(ctx, "missing")
		assert.ErrorIs(t, err, internalerr.ErrNotFound)

		_, err = s.LatestModel(ctx)
		assert.ErrorIs(t, err, internalerr.ErrNotFound)

		assert.ErrorIs(t, s.DeleteModel(ctx, "missing"), internalerr.ErrNotFound)
	})

	t.Run("RejectsEmptyID", func(t *testing.T) {
		s := open(t)
		defer s.Close()

		err := s.SaveModel(context.Background(), Record("", base))
		assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
	})

	t.Run("LatestAndList", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		ctx := context.Background()

		older := Record("01J0000000000000000000000A", base)
		newer := Record("01J0000000000000000000000B", base.Add(time.Hour))
		// saved out of order: latest follows training time
		require.NoError(t, s.SaveModel(ctx, newer))
		require.NoError(t, s.SaveModel(ctx, older))

		latest, err := s.LatestModel(ctx)
		require.NoError(t, err)
		assert.Equal(t, newer.Snapshot.ID, latest.Snapshot.ID)

		infos, err := s.ListModels(ctx)
		require.NoError(t, err)
		require.Len(t, infos, 2)
		assert.Equal(t, newer.Snapshot.ID, infos[0].ID)
		assert.Equal(t, older.Snapshot.ID, infos[1].ID)

		info := infos[0]
		assert.True(t, info.TrainedAt.Equal(newer.Snapshot.TrainedAt))
		assert.Equal(t, 5, info.Documents)
		assert.Equal(t, 5, info.Features)
		assert.Equal(t, []string{"ham", "spam"}, info.Labels)
		assert.Equal(t, "lemma", info.Params["mode"])
	})

	t.Run("Delete", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		ctx := context.Background()

		older := Record("01J0000000000000000000000A", base)
		newer := Record("01J0000000000000000000000B", base.Add(time.Hour))
		require.NoError(t, s.SaveModel(ctx, older))
		require.NoError(t, s.SaveModel(ctx, newer))

		require.NoError(t, s.DeleteModel(ctx, newer.Snapshot.ID))
		_, err := s.LoadModel(ctx, newer.Snapshot.ID)
		assert.ErrorIs(t, err, internalerr.ErrNotFound)

		latest, err := s.LatestModel(ctx)
		require.NoError(t, err)
		assert.Equal(t, older.Snapshot.ID, latest.Snapshot.ID)

		require.NoError(t, s.DeleteModel(ctx, older.Snapshot.ID))
		_, err = s.LatestModel(ctx)
		assert.ErrorIs(t, err, internalerr.ErrNotFound)
	})

	t.Run("Stoplist", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		ctx := context.Background()

		got, err := s.Stoplist(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)

		require.NoError(t, s.UpsertStoplist(ctx, []string{"lor", "ok", ""}))
		require.NoError(t, s.UpsertStoplist(ctx, []string{"da", "ok"}))

		got, err = s.Stoplist(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"da", "lor", "ok"}, got)
	})
}

func assertRecordEqual(t *testing.T, want, got store.Record) {
	t.Helper()
	ws, gs := want.Snapshot, got.Snapshot
	assert.Equal(t, ws.ID, gs.ID)
	assert.True(t, ws.TrainedAt.Equal(gs.TrainedAt), "trained_at %v != %v", ws.TrainedAt, gs.TrainedAt)
	assert.Equal(t, ws.Alpha, gs.Alpha)
	assert.Equal(t, ws.Vocabulary, gs.Vocabulary)
	assert.Equal(t, ws.Labels, gs.Labels)
	assert.Equal(t, want.Params, got.Params)
}
