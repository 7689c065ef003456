package sqlite

import (
	"context"
	"time"

	"tiffin/internal/domain/repository"
	"tiffin/internal/errors"
	"tiffin/internal/infra/persistence/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type localStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewLocalStore creates a LocalStore on top of an opened store database.
func NewLocalStore(db *gorm.DB) repository.LocalStore {
	return &localStore{db: db, now: time.Now}
}

func (s *localStore) Get(ctx context.Context, key repository.StoreKey) (string, bool, error) {
	var entry model.KVEntryModel
	err := s.db.WithContext(ctx).
		Where("store_key = ?", string(key)).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "get %s", key)
	}

	return entry.Value, true, nil
}

func (s *localStore) Set(ctx context.Context, key repository.StoreKey, value string) error {
	entry := model.KVEntryModel{
		StoreKey:  string(key),
		Value:     value,
		UpdatedAt: s.now(),
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return errors.Wrapf(err, "set %s", key)
	}

	return nil
}

func (s *localStore) Remove(ctx context.Context, key repository.StoreKey) error {
	err := s.db.WithContext(ctx).
		Where("store_key = ?", string(key)).
		Delete(&model.KVEntryModel{}).Error
	if err != nil {
		return errors.Wrapf(err, "remove %s", key)
	}

	return nil
}

// Execute runs fn inside a database transaction. A nested call becomes a savepoint.
func (s *localStore) Execute(ctx context.Context, fn func(tx repository.LocalStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&localStore{db: tx, now: s.now})
	})
}
