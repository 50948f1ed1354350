package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SlotRecord is the row layout shared by the SQL backends
type SlotRecord struct {
	Key       string    `gorm:"column:slot_key;primaryKey;size:191"`
	Data      string    `gorm:"column:data;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName pins the table name used by every SQL backend
func (SlotRecord) TableName() string {
	return "store_slots"
}

// GormSlot stores blobs in a relational table through GORM (PostgreSQL in production)
type GormSlot struct {
	db *gorm.DB
}

// NewGormSlot migrates the slot table and returns the slot
func NewGormSlot(db *gorm.DB) (*GormSlot, error) {
	if err := db.AutoMigrate(&SlotRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate store_slots: %w", err)
	}
	return &GormSlot{db: db}, nil
}

func (s *GormSlot) Load(ctx context.Context, key string) ([]byte, error) {
	var rec SlotRecord
	err := s.db.WithContext(ctx).First(&rec, "slot_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %q: %w", key, err)
	}
	return []byte(rec.Data), nil
}

func (s *GormSlot) Save(ctx context.Context, key string, data []byte) error {
	rec := SlotRecord{Key: key, Data: string(data), UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to save slot %q: %w", key, err)
	}
	return nil
}

func (s *GormSlot) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
