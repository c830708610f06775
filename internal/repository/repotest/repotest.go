// Package repotest opens migrated in-memory SQLite databases for tests.
package repotest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/accountapi/accountapi-go/internal/repository"
)

// NewDB returns a migrated, isolated in-memory database closed on cleanup.
func NewDB(t testing.TB) *repository.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_time_format=sqlite&_pragma=foreign_keys(1)"
	db, err := repository.NewDB(context.Background(), repository.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Migrate(context.Background())
	require.NoError(t, err)

	return db
}
