package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/spamkit/pkg/spamkit/store"
	"github.com/cognicore/spamkit/pkg/spamkit/store/storetest"
)

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.ModelStore {
		s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "models.db"))
		if err != nil {
			t.Fatalf("OpenSQLite: %v", err)
		}
		return s
	})
}

func TestSQLiteReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "models.db")

	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	r := storetest.Record("01J0000000000000000000000A", time.Now())
	if err := s.SaveModel(ctx, r); err != nil {
		t.Fatalf("SaveModel: %v", err)
	}
	s.Close()

	s, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.LatestModel(ctx)
	if err != nil {
		t.Fatalf("LatestModel after reopen: %v", err)
	}
	if got.Snapshot.ID != r.Snapshot.ID {
		t.Errorf("latest = %s, want %s", got.Snapshot.ID, r.Snapshot.ID)
	}
}

func TestSQLiteSparseCounts(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "models.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()

	r := storetest.Record("01J0000000000000000000000A", time.Now())
	if err := s.SaveModel(ctx, r); err != nil {
		t.Fatalf("SaveModel: %v", err)
	}

	db := s.(*sqliteStore).db
	var rows int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM model_counts`).Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	// ham has 2 non-zero counts, spam has 3
	if rows != 5 {
		t.Errorf("expected 5 count rows, got %d", rows)
	}
}
