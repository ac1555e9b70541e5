package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/spamkit/pkg/spamkit/internalerr"
	"github.com/cognicore/spamkit/pkg/spamkit/store"
)

// Store is an in-memory implementation of store.ModelStore for tests.
type Store struct {
	mu       sync.RWMutex
	models   map[string]store.Record
	stoplist map[string]struct{}
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		models:   make(map[string]store.Record),
		stoplist: make(map[string]struct{}),
	}
}

// Close implements store.ModelStore.
func (s *Store) Close() error { return nil }

// SaveModel stores a deep copy of r, replacing any model with the same ID.
func (s *Store) SaveModel(ctx context.Context, r store.Record) error {
	if r.Snapshot.ID == "" {
		return fmt.Errorf("model without id: %w", internalerr.ErrInvalidInput)
	}
	cp, err := copyRecord(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[r.Snapshot.ID] = cp
	return nil
}

func (s *Store) LoadModel(ctx context.Context, id string) (store.Record, error) {
	s.mu.RLock()
	r, ok := s.models[id]
	s.mu.RUnlock()
	if !ok {
		return store.Record{}, fmt.Errorf("model %s: %w", id, internalerr.ErrNotFound)
	}
	return copyRecord(r)
}

func (s *Store) LatestModel(ctx context.Context) (store.Record, error) {
	infos, _ := s.ListModels(ctx)
	if len(infos) == 0 {
		return store.Record{}, fmt.Errorf("no stored models: %w", internalerr.ErrNotFound)
	}
	return s.LoadModel(ctx, infos[0].ID)
}

func (s *Store) ListModels(ctx context.Context) ([]store.ModelInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]store.ModelInfo, 0, len(s.models))
	for _, r := range s.models {
		infos = append(infos, r.Info())
	}
	store.SortNewestFirst(infos)
	return infos, nil
}

func (s *Store) DeleteModel(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.models[id]; !ok {
		return fmt.Errorf("model %s: %w", id, internalerr.ErrNotFound)
	}
	delete(s.models, id)
	return nil
}

func (s *Store) UpsertStoplist(ctx context.Context, tokens []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tok := range tokens {
		if tok != "" {
			s.stoplist[tok] = struct{}{}
		}
	}
	return nil
}

func (s *Store) Stoplist(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tokens []string
	for tok := range s.stoplist {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return tokens, nil
}

// copyRecord deep-copies through the same JSON form the bolt backend stores,
// so callers can never alias stored slices.
func copyRecord(r store.Record) (store.Record, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return store.Record{}, err
	}
	var out store.Record
	if err := json.Unmarshal(data, &out); err != nil {
		return store.Record{}, err
	}
	return out, nil
}

var _ store.ModelStore = (*Store)(nil)
