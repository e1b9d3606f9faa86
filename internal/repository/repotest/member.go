// Package repotest holds behaviour checks shared by every member store.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/member"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewMember builds a valid record; suffix keeps ids and emails distinct.
func NewMember(suffix string) member.Member {
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	return member.Member{
		ID:           "id-" + suffix,
		Name:         "Member " + suffix,
		Email:        suffix + "@example.com",
		JoinDate:     "2024-01-02",
		Organization: "개발본부",
		Teams:        []string{"플랫폼팀"},
		Position:     "팀원",
		Role:         "member",
		Job:          "개발",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// RunMemberRepositoryTests exercises the MemberRepository contract against fresh stores.
func RunMemberRepositoryTests(t *testing.T, newRepo func(t *testing.T) member.MemberRepository) {
	t.Run("CreateListGet", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)

		for _, s := range []string{"a", "b", "c"} {
			_, err := repo.Create(ctx, NewMember(s))
			require.NoError(t, err)
		}

		list, err = repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"id-a", "id-b", "id-c"}, []string{list[0].ID, list[1].ID, list[2].ID})

		got, err := repo.GetByID(ctx, "id-b")
		require.NoError(t, err)
		assert.Equal(t, "b@example.com", got.Email)
		assert.Equal(t, []string{"플랫폼팀"}, got.Teams)

		_, err = repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, member.ErrMemberNotFound)
	})

	t.Run("EmailUniquenessOnCreate", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Create(ctx, NewMember("dup"))
		require.NoError(t, err)

		exists, err := repo.ExistsByEmail(ctx, "DUP@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		again := NewMember("dup")
		again.ID = "id-other"
		_, err = repo.Create(ctx, again)
		assert.ErrorIs(t, err, member.ErrEmailExists)
	})

	t.Run("IDUniquenessOnCreate", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Create(ctx, NewMember("first"))
		require.NoError(t, err)

		clash := NewMember("second")
		clash.ID = "id-first"
		_, err = repo.Create(ctx, clash)
		assert.ErrorIs(t, err, member.ErrMemberIDExists)

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("UpdateAppliesFunction", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		_, err := repo.Create(ctx, NewMember("u"))
		require.NoError(t, err)

		updated, err := repo.Update(ctx, "id-u", func(m member.Member) (member.Member, error) {
			m.Position = "팀장"
			return m, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "팀장", updated.Position)

		got, err := repo.GetByID(ctx, "id-u")
		require.NoError(t, err)
		assert.Equal(t, "팀장", got.Position)
		assert.Equal(t, "Member u", got.Name)

		boom := errors.New("boom")
		_, err = repo.Update(ctx, "id-u", func(m member.Member) (member.Member, error) {
			m.Position = "ignored"
			return m, boom
		})
		assert.ErrorIs(t, err, boom)
		got, err = repo.GetByID(ctx, "id-u")
		require.NoError(t, err)
		assert.Equal(t, "팀장", got.Position)

		_, err = repo.Update(ctx, "missing", func(m member.Member) (member.Member, error) { return m, nil })
		assert.ErrorIs(t, err, member.ErrMemberNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		_, err := repo.Create(ctx, NewMember("d1"))
		require.NoError(t, err)
		_, err = repo.Create(ctx, NewMember("d2"))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, "id-d1"))
		assert.ErrorIs(t, repo.Delete(ctx, "id-d1"), member.ErrMemberNotFound)

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "id-d2", list[0].ID)
	})

	t.Run("ReplaceAll", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		_, err := repo.Create(ctx, NewMember("old"))
		require.NoError(t, err)

		require.NoError(t, repo.ReplaceAll(ctx, []member.Member{NewMember("n1"), NewMember("n2")}))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "id-n1", list[0].ID)

		_, err = repo.GetByID(ctx, "id-old")
		assert.ErrorIs(t, err, member.ErrMemberNotFound)
	})

	t.Run("ConcurrentCreatesAreAllKept", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		const n = 20
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := repo.Create(ctx, NewMember(fmt.Sprintf("c%02d", i)))
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, n)
	})
}
