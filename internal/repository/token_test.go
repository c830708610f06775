package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accountapi/accountapi-go/internal/repository"
	"github.com/accountapi/accountapi-go/internal/repository/repotest"
)

func TestTokenRepository_GetOrCreateReuses(t *testing.T) {
	ctx := context.Background()
	db := repotest.NewDB(t)
	users := repository.NewUserRepository(db)
	tokens := repository.NewTokenRepository(db)

	u := newUser("test@tina.be")
	require.NoError(t, users.Create(ctx, u))

	first, err := tokens.GetOrCreate(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, first.Key, 32)
	assert.Equal(t, u.ID, first.UserID)

	second, err := tokens.GetOrCreate(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Key, second.Key)

	byKey, err := tokens.GetByKey(ctx, first.Key)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byKey.UserID)
}

func TestTokenRepository_DeleteByUser(t *testing.T) {
	ctx := context.Background()
	db := repotest.NewDB(t)
	users := repository.NewUserRepository(db)
	tokens := repository.NewTokenRepository(db)

	u := newUser("test@tina.be")
	require.NoError(t, users.Create(ctx, u))

	old, err := tokens.GetOrCreate(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, tokens.DeleteByUser(ctx, u.ID))

	_, err = tokens.GetByKey(ctx, old.Key)
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)

	fresh, err := tokens.GetOrCreate(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, old.Key, fresh.Key)
}

func TestTokenRepository_DeleteWithoutToken(t *testing.T) {
	tokens := repository.NewTokenRepository(repotest.NewDB(t))
	assert.NoError(t, tokens.DeleteByUser(context.Background(), 42))
}
