package model

import "time"

// KVEntryModel mirrors the 'kv_entries' table backing the durable local store.
type KVEntryModel struct {
	StoreKey  string `gorm:"type:varchar(64);primaryKey"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (KVEntryModel) TableName() string {
	return "kv_entries"
}
