package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/member"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/repository/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) member.MemberRepository {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewMemberRepository(db)
}

func TestMemberRepository(t *testing.T) {
	repotest.RunMemberRepositoryTests(t, newTestRepo)
}

func TestOpen_CreatesDirectoryForFileDSN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "members.db")
	ctx := context.Background()

	db, err := Open(ctx, "file:"+path)
	require.NoError(t, err)
	repo := NewMemberRepository(db)
	_, err = repo.Create(ctx, repotest.NewMember("persisted"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	reopened, err := Open(ctx, "file:"+path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := NewMemberRepository(reopened).GetByID(ctx, "id-persisted")
	require.NoError(t, err)
	assert.Equal(t, "persisted@example.com", got.Email)
}
