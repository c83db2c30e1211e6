package credential

import (
	"context"
	"testing"
	"time"

	"github.com/kalendo/kalendo/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepositoryTest(t *testing.T) (*RepositoryImpl, context.Context) {
	db := test_utils.SetupTestDB(t)
	return NewRepository(db), context.Background()
}

func testCredential(userId int, expiry time.Time) Credential {
	return Credential{
		UserId:       userId,
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		Expiry:       expiry,
		TokenType:    "Bearer",
	}
}

func TestRepositoryImpl_StoreAndGet(t *testing.T) {
	repository, ctx := setupRepositoryTest(t)

	expiry := time.Now().Truncate(time.Second)
	stored, err := repository.Store(ctx, testCredential(1, expiry))
	require.NoError(t, err)

	fetched, err := repository.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, stored.AccessToken, fetched.AccessToken)
	assert.Equal(t, stored.RefreshToken, fetched.RefreshToken)
	assert.Equal(t, expiry.Unix(), fetched.Expiry.Unix())
	assert.Equal(t, "Bearer", fetched.TokenType)
}

func TestRepositoryImpl_GetMissing(t *testing.T) {
	repository, ctx := setupRepositoryTest(t)

	fetched, err := repository.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, fetched)
}

func TestRepositoryImpl_StoreReplacesExisting(t *testing.T) {
	repository, ctx := setupRepositoryTest(t)

	expiry := time.Now().Truncate(time.Second)
	_, err := repository.Store(ctx, testCredential(1, expiry))
	require.NoError(t, err)

	replacement := testCredential(1, expiry.Add(time.Hour))
	replacement.AccessToken = "new-access-token"
	_, err = repository.Store(ctx, replacement)
	require.NoError(t, err)

	fetched, err := repository.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, "new-access-token", fetched.AccessToken)
	assert.Equal(t, expiry.Add(time.Hour).Unix(), fetched.Expiry.Unix())
}

func TestRepositoryImpl_Patch(t *testing.T) {
	repository, ctx := setupRepositoryTest(t)

	expiry := time.Now().Truncate(time.Second)
	_, err := repository.Store(ctx, testCredential(1, expiry))
	require.NoError(t, err)

	newAccess := "patched-access-token"
	newExpiry := expiry.Add(2 * time.Hour)
	patched, err := repository.Patch(ctx, 1, Update{AccessToken: &newAccess, Expiry: &newExpiry})
	require.NoError(t, err)
	require.NotNil(t, patched)
	assert.Equal(t, newAccess, patched.AccessToken)
	assert.Equal(t, newExpiry.Unix(), patched.Expiry.Unix())
	// untouched field
	assert.Equal(t, "refresh-token", patched.RefreshToken)
}

func TestRepositoryImpl_PatchMissing(t *testing.T) {
	repository, ctx := setupRepositoryTest(t)

	newAccess := "patched-access-token"
	patched, err := repository.Patch(ctx, 42, Update{AccessToken: &newAccess})
	require.NoError(t, err)
	assert.Nil(t, patched)
}

func TestRepositoryImpl_Delete(t *testing.T) {
	repository, ctx := setupRepositoryTest(t)

	_, err := repository.Store(ctx, testCredential(1, time.Now()))
	require.NoError(t, err)

	existed, err := repository.Delete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = repository.Delete(ctx, 1)
	require.NoError(t, err)
	assert.False(t, existed)

	fetched, err := repository.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, fetched)
}
