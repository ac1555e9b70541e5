package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/spamkit/pkg/spamkit/store"
	"github.com/cognicore/spamkit/pkg/spamkit/store/storetest"
)

func TestBoltStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.ModelStore {
		s, err := Open(filepath.Join(t.TempDir(), "models.bolt"))
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		return s
	})
}

func TestBoltReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "models.bolt")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	r := storetest.Record("01J0000000000000000000000A", time.Now())
	if err := s.SaveModel(ctx, r); err != nil {
		t.Fatalf("SaveModel: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(path)
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
