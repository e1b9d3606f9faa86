package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// newTestDatabase connects to TEST_DATABASE_URL and skips the test when it is unset.
func newTestDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(db.Close)

	ctx := context.Background()
	require.NoError(t, postgresql.EnsureMemberSchema(ctx, db))
	require.NoError(t, postgresql.EnsureNotificationSchema(ctx, db))
	require.NoError(t, postgresql.EnsureUserSchema(ctx, db))
	truncateTables(t, db, "members", "notifications", "users")
	return db
}

func truncateTables(t *testing.T, db *database.DB, tables ...string) {
	t.Helper()
	ctx := context.Background()
	for _, table := range tables {
		_, err := db.Exec(ctx, "TRUNCATE TABLE "+table+" RESTART IDENTITY")
		require.NoError(t, err, "failed to truncate table %s", table)
	}
}
