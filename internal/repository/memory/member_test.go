package memory

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/member"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/repository/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberRepository(t *testing.T) {
	repotest.RunMemberRepositoryTests(t, func(t *testing.T) member.MemberRepository {
		return NewMemberRepository()
	})
}

func TestMemberRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemberRepository(repotest.NewMember("x"))
	ctx := context.Background()

	got, err := repo.GetByID(ctx, "id-x")
	require.NoError(t, err)
	got.Teams[0] = "changed"

	again, err := repo.GetByID(ctx, "id-x")
	require.NoError(t, err)
	assert.Equal(t, "플랫폼팀", again.Teams[0])
}
