// Package dbtest opens throwaway, fully migrated SQLite databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/eceeb/search-portal/internal/database"
)

// Open returns a migrated in-memory database that is closed when the test
// ends. Every call gets its own database.
func Open(t testing.TB) *database.DB {
	t.Helper()

	url := "sqlite:file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.Open(context.Background(), url, database.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}
