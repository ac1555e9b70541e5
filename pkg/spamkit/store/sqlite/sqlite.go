package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/spamkit/pkg/spamkit/internalerr"
	"github.com/cognicore/spamkit/pkg/spamkit/nb"
	"github.com/cognicore/spamkit/pkg/spamkit/store"
)

// sqliteStore implements the ModelStore interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.ModelStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS models (
	id TEXT PRIMARY KEY,
	trained_at INTEGER NOT NULL,
	alpha REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_models_trained_at ON models(trained_at);

CREATE TABLE IF NOT EXISTS model_labels (
	model_id TEXT NOT NULL,
	label TEXT NOT NULL,
	documents INTEGER NOT NULL,
	PRIMARY KEY(model_id, label),
	FOREIGN KEY(model_id) REFERENCES models(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS model_features (
	model_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	token TEXT NOT NULL,
	PRIMARY KEY(model_id, position),
	FOREIGN KEY(model_id) REFERENCES models(id) ON DELETE CASCADE
);

-- sparse: only non-zero counts are stored
CREATE TABLE IF NOT EXISTS model_counts (
	model_id TEXT NOT NULL,
	label TEXT NOT NULL,
	position INTEGER NOT NULL,
	present INTEGER NOT NULL,
	PRIMARY KEY(model_id, label, position),
	FOREIGN KEY(model_id) REFERENCES models(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS model_params (
	model_id TEXT NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY(model_id, key),
	FOREIGN KEY(model_id) REFERENCES models(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS stoplist (
	token TEXT PRIMARY KEY
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveModel inserts or replaces a model and all of its rows
func (s *sqliteStore) SaveModel(ctx context.Context, r store.Record) error {
	snap := r.Snapshot
	if snap.ID == "" {
		return fmt.Errorf("model without id: %w", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := deleteModelRows(ctx, tx, snap.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO models (id, trained_at, alpha) VALUES (?, ?, ?)`,
		snap.ID, snap.TrainedAt.UTC().UnixNano(), snap.Alpha,
	); err != nil {
		return err
	}

	if err := insertFeatures(ctx, tx, snap.ID, snap.Vocabulary); err != nil {
		return err
	}
	if err := insertLabels(ctx, tx, snap.ID, snap.Labels); err != nil {
		return err
	}
	if err := insertParams(ctx, tx, snap.ID, r.Params); err != nil {
		return err
	}

	return tx.Commit()
}

func insertFeatures(ctx context.Context, tx *sql.Tx, modelID string, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO model_features (model_id, position, token) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for pos, tok := range tokens {
		if _, err := stmt.ExecContext(ctx, modelID, pos, tok); err != nil {
			return err
		}
	}
	return nil
}

func insertLabels(ctx context.Context, tx *sql.Tx, modelID string, labels []nb.LabelSnapshot) error {
	labelStmt, err := tx.PrepareContext(ctx, `INSERT INTO model_labels (model_id, label, documents) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer labelStmt.Close()
	countStmt, err := tx.PrepareContext(ctx, `INSERT INTO model_counts (model_id, label, position, present) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer countStmt.Close()

	for _, l := range labels {
		if _, err := labelStmt.ExecContext(ctx, modelID, l.Label, l.Documents); err != nil {
			return err
		}
		for pos, n := range l.Present {
			if n == 0 {
				continue
			}
			if _, err := countStmt.ExecContext(ctx, modelID, l.Label, pos, n); err != nil {
				return err
			}
		}
	}
	return nil
}

func insertParams(ctx context.Context, tx *sql.Tx, modelID string, params map[string]string) error {
	if len(params) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO model_params (model_id, key, value) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for k, v := range params {
		if _, err := stmt.ExecContext(ctx, modelID, k, v); err != nil {
			return err
		}
	}
	return nil
}

// LoadModel retrieves a model by ID
func (s *sqliteStore) LoadModel(ctx context.Context, id string) (store.Record, error) {
	var (
		trainedAt int64
		alpha     float64
	)
	err := s.db.QueryRowContext(ctx, `SELECT trained_at, alpha FROM models WHERE id = ?`, id).Scan(&trainedAt, &alpha)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Record{}, fmt.Errorf("model %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Record{}, err
	}

	r := store.Record{
		Snapshot: nb.Snapshot{
			ID:        id,
			TrainedAt: time.Unix(0, trainedAt).UTC(),
			Alpha:     alpha,
		},
	}

	if r.Snapshot.Vocabulary, err = s.loadFeatures(ctx, id); err != nil {
		return store.Record{}, err
	}
	if r.Snapshot.Labels, err = s.loadLabels(ctx, id, len(r.Snapshot.Vocabulary)); err != nil {
		return store.Record{}, err
	}
	if r.Params, err = s.loadParams(ctx, id); err != nil {
		return store.Record{}, err
	}
	return r, nil
}

func (s *sqliteStore) loadFeatures(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT token FROM model_features WHERE model_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tokens := []string{}
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, rows.Err()
}

func (s *sqliteStore) loadLabels(ctx context.Context, id string, width int) ([]nb.LabelSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT label, documents FROM model_labels WHERE model_id = ? ORDER BY label`, id)
	if err != nil {
		return nil, err
	}
	var labels []nb.LabelSnapshot
	index := make(map[string]int)
	for rows.Next() {
		var l nb.LabelSnapshot
		if err := rows.Scan(&l.Label, &l.Documents); err != nil {
			rows.Close()
			return nil, err
		}
		l.Present = make([]int, width)
		index[l.Label] = len(labels)
		labels = append(labels, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT label, position, present FROM model_counts WHERE model_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			label  string
			pos, n int
		)
		if err := rows.Scan(&label, &pos, &n); err != nil {
			return nil, err
		}
		li, ok := index[label]
		if !ok || pos < 0 || pos >= width {
			return nil, fmt.Errorf("model %s: count row (%s, %d) out of range: %w", id, label, pos, internalerr.ErrInvalidInput)
		}
		labels[li].Present[pos] = n
	}
	return labels, rows.Err()
}

func (s *sqliteStore) loadParams(ctx context.Context, id string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM model_params WHERE model_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	params := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		params[k] = v
	}
	return params, rows.Err()
}

// LatestModel returns the most recently trained model
func (s *sqliteStore) LatestModel(ctx context.Context) (store.Record, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM models ORDER BY trained_at DESC, id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Record{}, fmt.Errorf("no stored models: %w", internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Record{}, err
	}
	return s.LoadModel(ctx, id)
}

// ListModels summarizes stored models, newest first
func (s *sqliteStore) ListModels(ctx context.Context) ([]store.ModelInfo, error) {
	const query = `
SELECT m.id, m.trained_at, m.alpha,
	(SELECT COUNT(*) FROM model_features f WHERE f.model_id = m.id),
	COALESCE((SELECT SUM(documents) FROM model_labels l WHERE l.model_id = m.id), 0),
	COALESCE((SELECT GROUP_CONCAT(label, char(31)) FROM (SELECT label FROM model_labels l WHERE l.model_id = m.id ORDER BY label)), '')
FROM models m
ORDER BY m.trained_at DESC, m.id DESC;
`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	var infos []store.ModelInfo
	for rows.Next() {
		var (
			info      store.ModelInfo
			trainedAt int64
			labels    string
		)
		if err := rows.Scan(&info.ID, &trainedAt, &info.Alpha, &info.Features, &info.Documents, &labels); err != nil {
			rows.Close()
			return nil, err
		}
		info.TrainedAt = time.Unix(0, trainedAt).UTC()
		info.Labels = []string{}
		if labels != "" {
			info.Labels = strings.Split(labels, "\x1f")
			sort.Strings(info.Labels)
		}
		infos = append(infos, info)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range infos {
		if infos[i].Params, err = s.loadParams(ctx, infos[i].ID); err != nil {
			return nil, err
		}
	}
	return infos, nil
}

// DeleteModel removes a model and its rows
func (s *sqliteStore) DeleteModel(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	n, err := deleteModelRows(ctx, tx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("model %s: %w", id, internalerr.ErrNotFound)
	}
	return tx.Commit()
}

// deleteModelRows removes a model from every table and reports whether the
// models row existed. foreign_keys is a per-connection pragma, so cascades
// are not relied on.
func deleteModelRows(ctx context.Context, tx *sql.Tx, id string) (int64, error) {
	for _, table := range []string{"model_counts", "model_labels", "model_features", "model_params"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE model_id=?`, id); err != nil {
			return 0, err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM models WHERE id=?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpsertStoplist adds tokens to the persisted stoplist
func (s *sqliteStore) UpsertStoplist(ctx context.Context, tokens []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO stoplist (token) VALUES (?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, tok); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Stoplist returns the persisted stopwords in alphabetical order
func (s *sqliteStore) Stoplist(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT token FROM stoplist ORDER BY token`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, rows.Err()
}
