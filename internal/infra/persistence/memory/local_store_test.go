package memory

import (
	"context"
	"errors"
	"testing"

	"tiffin/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore()

	require.NoError(t, store.Set(ctx, repository.KeyUser, `{"id":1}`))
	value, ok, err := store.Get(ctx, repository.KeyUser)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":1}`, value)

	require.NoError(t, store.Remove(ctx, repository.KeyUser))
	_, ok, _ = store.Get(ctx, repository.KeyUser)
	assert.False(t, ok)
}

func TestLocalStore_Execute(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore()
	require.NoError(t, store.Set(ctx, repository.KeyUser, "kept"))

	errAbort := errors.New("abort")
	err := store.Execute(ctx, func(tx repository.LocalStore) error {
		require.NoError(t, tx.Set(ctx, repository.KeyToken, "token"))
		require.NoError(t, tx.Remove(ctx, repository.KeyUser))

		_, ok, _ := tx.Get(ctx, repository.KeyUser)
		assert.False(t, ok, "pending removal is visible inside the transaction")

		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	_, ok, _ := store.Get(ctx, repository.KeyToken)
	assert.False(t, ok)
	value, _, _ := store.Get(ctx, repository.KeyUser)
	assert.Equal(t, "kept", value)

	require.NoError(t, store.Execute(ctx, func(tx repository.LocalStore) error {
		if err := tx.Set(ctx, repository.KeyToken, "token"); err != nil {
			return err
		}

		return tx.Remove(ctx, repository.KeyUser)
	}))

	value, _, _ = store.Get(ctx, repository.KeyToken)
	assert.Equal(t, "token", value)
	_, ok, _ = store.Get(ctx, repository.KeyUser)
	assert.False(t, ok)
}
