package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	mysqlCreateTable = `CREATE TABLE IF NOT EXISTS store_slots (
	slot_key VARCHAR(191) NOT NULL PRIMARY KEY,
	data LONGTEXT NOT NULL,
	updated_at DATETIME(6) NOT NULL
)`
	mysqlSelect = `SELECT data FROM store_slots WHERE slot_key = ?`
	mysqlUpsert = `INSERT INTO store_slots (slot_key, data, updated_at) VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE data = VALUES(data), updated_at = VALUES(updated_at)`
)

// SQLSlot stores blobs in MySQL through database/sql
type SQLSlot struct {
	db *sql.DB
}

// NewSQLSlot creates the slot table if it is missing
func NewSQLSlot(ctx context.Context, db *sql.DB) (*SQLSlot, error) {
	if _, err := db.ExecContext(ctx, mysqlCreateTable); err != nil {
		return nil, fmt.Errorf("failed to create store_slots: %w", err)
	}
	return &SQLSlot{db: db}, nil
}

func (s *SQLSlot) Load(ctx context.Context, key string) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx, mysqlSelect, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %q: %w", key, err)
	}
	return []byte(data), nil
}

func (s *SQLSlot) Save(ctx context.Context, key string, data []byte) error {
	if _, err := s.db.ExecContext(ctx, mysqlUpsert, key, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save slot %q: %w", key, err)
	}
	return nil
}

func (s *SQLSlot) Close() error {
	return s.db.Close()
}
