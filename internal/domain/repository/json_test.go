package repository_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"tiffin/internal/domain/repository"
	"tiffin/internal/infra/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestLoadJSON_FailsSoft(t *testing.T) {
	ctx := context.Background()
	store := memory.NewLocalStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, ok := repository.LoadJSON[sample](ctx, store, repository.KeyCart, logger)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, repository.KeyCart, "{not json"))
	_, ok = repository.LoadJSON[sample](ctx, store, repository.KeyCart, logger)
	assert.False(t, ok)

	require.NoError(t, repository.SaveJSON(ctx, store, repository.KeyCart, sample{Name: "a", Count: 2}))
	got, ok := repository.LoadJSON[sample](ctx, store, repository.KeyCart, logger)
	require.True(t, ok)
	assert.Equal(t, sample{Name: "a", Count: 2}, got)
}
