package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user on first login", func(t *testing.T) {
		service := NewUserService(NewStubUserRepo())

		created, err := service.EnsureUser(ctx, "alice@example.com", "Alice")

		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", created.Username)
		assert.Equal(t, "Alice", created.DisplayName)
		assert.NotEmpty(t, created.Uid)
		assert.NotZero(t, created.Id)
	})

	t.Run("returns the existing user on a repeat login", func(t *testing.T) {
		service := NewUserService(NewStubUserRepo())

		first, err := service.EnsureUser(ctx, "alice@example.com", "Alice")
		require.NoError(t, err)
		second, err := service.EnsureUser(ctx, "alice@example.com", "Alice A.")
		require.NoError(t, err)

		assert.Equal(t, first.Id, second.Id)
		assert.Equal(t, first.Uid, second.Uid)
		// display name from the first login wins
		assert.Equal(t, "Alice", second.DisplayName)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	service := NewUserService(NewStubUserRepo())

	created, err := service.EnsureUser(ctx, "alice@example.com", "Alice")
	require.NoError(t, err)

	require.NoError(t, service.DeleteUser(ctx, created.Uid))
	assert.ErrorIs(t, service.DeleteUser(ctx, created.Uid), ErrUserNotFound)
}
