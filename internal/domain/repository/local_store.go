// Package repository defines the interfaces for the persistence layer.
package repository

import "context"

// StoreKey names one entry of the durable local store.
type StoreKey string

const (
	KeyToken              StoreKey = "token"
	KeyUser               StoreKey = "user"
	KeyCart               StoreKey = "cart"
	KeySelectedRestaurant StoreKey = "selectedRestaurant"
	KeyNotifications      StoreKey = "notifications"
)

// SessionKeys are cleared together on sign-out or credential rejection.
var SessionKeys = []StoreKey{KeyToken, KeyUser}

// LocalStore is a small string key-value store that survives restarts.
// Writes are synchronous from the caller's point of view.
type LocalStore interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key StoreKey) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key StoreKey, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key StoreKey) error

	TransactionManager
}
