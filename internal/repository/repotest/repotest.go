// Package repotest holds behaviour checks shared by every UserRepository backend.
package repotest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"users-api/internal/domain"
	"users-api/internal/repository"
)

// NewUser returns a user fixture with the given id.
func NewUser(id, username string) domain.User {
	return domain.User{
		ID:       id,
		Username: username,
		Age:      24,
		Hobbies:  []string{"airsoft", "programming"},
	}
}

// RunUserRepositoryTests exercises the UserRepository contract against a
// fresh repository returned by newRepo for every subtest.
func RunUserRepositoryTests(t *testing.T, newRepo func(t *testing.T) repository.UserRepository) {
	ctx := context.Background()

	t.Run("new repository lists empty slice", func(t *testing.T) {
		repo := newRepo(t)

		users, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)
	})

	t.Run("get missing user", func(t *testing.T) {
		repo := newRepo(t)

		user, err := repo.GetByID(ctx, "53afa42b-2c38-453a-a1b3-10c59766cef0")
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
		assert.Nil(t, user)
	})

	t.Run("insert then get", func(t *testing.T) {
		repo := newRepo(t)
		want := NewUser("53afa42b-2c38-453a-a1b3-10c59766cef0", "Vladislav")

		require.NoError(t, repo.Insert(ctx, want))

		got, err := repo.GetByID(ctx, want.ID)
		require.NoError(t, err)
		assert.Equal(t, want, *got)
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		repo := newRepo(t)
		ids := []string{
			"c1a1c6d2-1b1e-4a4c-9a47-1f4c0d1c0a01",
			"0b9e7c5a-4d8f-4f3e-8a1b-2c3d4e5f6a02",
			"ffe0d1c2-b3a4-4958-8a7b-6c5d4e3f2a03",
		}
		for i, id := range ids {
			require.NoError(t, repo.Insert(ctx, NewUser(id, "user"+string(rune('A'+i)))))
		}

		users, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, len(ids))
		for i, id := range ids {
			assert.Equal(t, id, users[i].ID)
		}
	})

	t.Run("update replaces record in place", func(t *testing.T) {
		repo := newRepo(t)
		first := NewUser("c1a1c6d2-1b1e-4a4c-9a47-1f4c0d1c0a01", "A")
		second := NewUser("0b9e7c5a-4d8f-4f3e-8a1b-2c3d4e5f6a02", "B")
		require.NoError(t, repo.Insert(ctx, first))
		require.NoError(t, repo.Insert(ctx, second))

		first.Username = "A2"
		first.Age = 30
		first.Hobbies = []string{"chess"}
		require.NoError(t, repo.Update(ctx, first))

		users, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, first, users[0])
		assert.Equal(t, second, users[1])
	})

	t.Run("update missing user is a no-op", func(t *testing.T) {
		repo := newRepo(t)
		existing := NewUser("c1a1c6d2-1b1e-4a4c-9a47-1f4c0d1c0a01", "A")
		require.NoError(t, repo.Insert(ctx, existing))

		err := repo.Update(ctx, NewUser("0b9e7c5a-4d8f-4f3e-8a1b-2c3d4e5f6a02", "ghost"))
		require.NoError(t, err)

		users, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.User{existing}, users)
	})

	t.Run("delete reports removal", func(t *testing.T) {
		repo := newRepo(t)
		user := NewUser("c1a1c6d2-1b1e-4a4c-9a47-1f4c0d1c0a01", "A")
		require.NoError(t, repo.Insert(ctx, user))

		removed, err := repo.Delete(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = repo.Delete(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, removed)

		_, err = repo.GetByID(ctx, user.ID)
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
	})

	t.Run("returned users do not alias stored records", func(t *testing.T) {
		repo := newRepo(t)
		user := NewUser("c1a1c6d2-1b1e-4a4c-9a47-1f4c0d1c0a01", "A")
		require.NoError(t, repo.Insert(ctx, user))
		user.Hobbies[0] = "mutated"

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		got.Hobbies[1] = "mutated"

		again, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"airsoft", "programming"}, again.Hobbies)
	})

	t.Run("empty hobbies round trip as empty slice", func(t *testing.T) {
		repo := newRepo(t)
		user := domain.User{ID: "c1a1c6d2-1b1e-4a4c-9a47-1f4c0d1c0a01", Username: "A", Age: 1, Hobbies: []string{}}
		require.NoError(t, repo.Insert(ctx, user))

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.NotNil(t, got.Hobbies)
		assert.Empty(t, got.Hobbies)
	})
}
