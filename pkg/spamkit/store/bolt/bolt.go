// Package bolt stores models in a single bbolt file, one JSON record per model.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/cognicore/spamkit/pkg/spamkit/internalerr"
	"github.com/cognicore/spamkit/pkg/spamkit/store"
)

var (
	bucketModels   = []byte("models")
	bucketMeta     = []byte("meta")
	bucketStoplist = []byte("stoplist")

	keyLatest = []byte("latest")
)

// Store implements store.ModelStore on bbolt.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketModels, bucketMeta, bucketStoplist} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SaveModel(ctx context.Context, r store.Record) error {
	if r.Snapshot.ID == "" {
		return fmt.Errorf("model without id: %w", internalerr.ErrInvalidInput)
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketModels).Put([]byte(r.Snapshot.ID), data); err != nil {
			return err
		}

		// move the latest pointer only forward in training time
		meta := tx.Bucket(bucketMeta)
		if cur := meta.Get(keyLatest); cur != nil && string(cur) != r.Snapshot.ID {
			prev, err := getRecord(tx, string(cur))
			if err == nil && !store.Newer(r.Info(), prev.Info()) {
				return nil
			}
		}
		return meta.Put(keyLatest, []byte(r.Snapshot.ID))
	})
}

func getRecord(tx *bbolt.Tx, id string) (store.Record, error) {
	data := tx.Bucket(bucketModels).Get([]byte(id))
	if data == nil {
		return store.Record{}, fmt.Errorf("model %s: %w", id, internalerr.ErrNotFound)
	}
	var r store.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return store.Record{}, fmt.Errorf("decode model %s: %w", id, err)
	}
	return r, nil
}

func (s *Store) LoadModel(ctx context.Context, id string) (store.Record, error) {
	var r store.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		r, err = getRecord(tx, id)
		return err
	})
	return r, err
}

func (s *Store) LatestModel(ctx context.Context) (store.Record, error) {
	var r store.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket(bucketMeta).Get(keyLatest)
		if id == nil {
			return fmt.Errorf("no stored models: %w", internalerr.ErrNotFound)
		}
		var err error
		r, err = getRecord(tx, string(id))
		return err
	})
	return r, err
}

func (s *Store) ListModels(ctx context.Context) ([]store.ModelInfo, error) {
	var infos []store.ModelInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketModels).ForEach(func(k, v []byte) error {
			var r store.Record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("decode model %s: %w", k, err)
			}
			infos = append(infos, r.Info())
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	store.SortNewestFirst(infos)
	return infos, nil
}

func (s *Store) DeleteModel(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		models := tx.Bucket(bucketModels)
		if models.Get([]byte(id)) == nil {
			return fmt.Errorf("model %s: %w", id, internalerr.ErrNotFound)
		}
		if err := models.Delete([]byte(id)); err != nil {
			return err
		}

		meta := tx.Bucket(bucketMeta)
		if string(meta.Get(keyLatest)) != id {
			return nil
		}

		// repoint latest at the newest remaining model
		var (
			newest store.ModelInfo
			found  bool
		)
		err := models.ForEach(func(k, v []byte) error {
			var r store.Record
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			if info := r.Info(); !found || store.Newer(info, newest) {
				newest, found = info, true
			}
			return nil
		})
		if err != nil {
			return err
		}
		if !found {
			return meta.Delete(keyLatest)
		}
		return meta.Put(keyLatest, []byte(newest.ID))
	})
}

func (s *Store) UpsertStoplist(ctx context.Context, tokens []string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketStoplist)
		for _, tok := range tokens {
			if tok == "" {
				continue
			}
			if err := b.Put([]byte(tok), []byte{}); err != nil {
				return err
			}
		}
		return nil
	})
}

// Stoplist returns tokens in key order, which bbolt keeps sorted.
func (s *Store) Stoplist(ctx context.Context) ([]string, error) {
	var tokens []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketStoplist).ForEach(func(k, _ []byte) error {
			tokens = append(tokens, string(k))
			return nil
		})
	})
	return tokens, err
}

var _ store.ModelStore = (*Store)(nil)
