package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KVEntry struct {
	Key        string    `gorm:"column:key;primaryKey"`
	Value      string    `gorm:"column:value;type:text"`
	Revision   int64     `gorm:"column:revision"`
	UpdateDate time.Time `gorm:"column:update_date"`
}

func (m *KVEntry) TableName() string {
	return "kv_entries"
}

// GormStore keeps every key as one row of kv_entries. It works with any
// gorm dialect; main wires postgres or sqlite.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&KVEntry{})
}

func (s *GormStore) Get(ctx context.Context, key string) (Entry, error) {

	var row KVEntry

	result := s.db.
		WithContext(ctx).
		Where("key = ?", key).
		Take(&row)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return Entry{Key: key}, ErrKeyNotFound
	}
	if result.Error != nil {
		return Entry{}, result.Error
	}

	return Entry{
		Key:      row.Key,
		Value:    []byte(row.Value),
		Revision: row.Revision,
	}, nil
}

func (s *GormStore) Set(ctx context.Context, key string, value []byte, expectedRevision int64) (int64, error) {

	next := expectedRevision + 1

	if expectedRevision == 0 {
		row := KVEntry{
			Key:        key,
			Value:      string(value),
			Revision:   next,
			UpdateDate: time.Now(),
		}

		result := s.db.
			WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&row)

		if result.Error != nil {
			return 0, result.Error
		}
		if result.RowsAffected == 0 {
			return 0, ErrStaleRevision
		}
		return next, nil
	}

	result := s.db.
		WithContext(ctx).
		Model(&KVEntry{}).
		Where("key = ? AND revision = ?", key, expectedRevision).
		Updates(map[string]any{
			"value":       string(value),
			"revision":    next,
			"update_date": time.Now(),
		})

	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrStaleRevision
	}

	return next, nil
}

func (s *GormStore) Ping(ctx context.Context) error {

	db, err := s.db.DB()
	if err != nil {
		return err
	}

	return db.PingContext(ctx)
}
