package spamkit

import (
	"context"
	"fmt"

	"github.com/cognicore/spamkit/pkg/spamkit/internalerr"
	"github.com/cognicore/spamkit/pkg/spamkit/store"
	"github.com/cognicore/spamkit/pkg/spamkit/store/bolt"
	"github.com/cognicore/spamkit/pkg/spamkit/store/memstore"
	"github.com/cognicore/spamkit/pkg/spamkit/store/sqlite"
)

// OpenStore opens the model store backend named by driver.
func OpenStore(ctx context.Context, driver, path string) (store.ModelStore, error) {
	switch driver {
	case "sqlite":
		return sqlite.OpenSQLite(ctx, path)
	case "bolt":
		return bolt.Open(path)
	case "memory":
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("store driver %q: %w", driver, internalerr.ErrInvalidConfig)
	}
}
