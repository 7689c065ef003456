package repository

import (
	"context"
	"encoding/json"
	"log/slog"

	"tiffin/internal/errors"
)

// LoadJSON reads key and decodes it into T. A missing key, a store failure or
// a value that does not decode all report ok=false; the latter two are logged.
func LoadJSON[T any](ctx context.Context, store LocalStore, key StoreKey, logger *slog.Logger) (T, bool) {
	var zero T

	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		logger.Warn("Failed to read local store", slog.String("key", string(key)), slog.Any("error", err))

		return zero, false
	}
	if !ok || raw == "" {
		return zero, false
	}

	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		logger.Warn("Ignoring corrupt local store entry", slog.String("key", string(key)), slog.Any("error", err))

		return zero, false
	}

	return out, true
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, store LocalStore, key StoreKey, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}

	return errors.Wrapf(store.Set(ctx, key, string(raw)), "store %s", key)
}
