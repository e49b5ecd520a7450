package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bitjr/site/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLStore keeps documents as rows of the documents table.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore wraps an already migrated gorm handle.
func NewSQLStore(gdb *gorm.DB) *SQLStore {
	return &SQLStore{db: gdb}
}

// Ping checks the underlying database connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("database handle unavailable: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Load implements Store.
func (s *SQLStore) Load(ctx context.Context, name string, dst any) error {
	var doc db.Document
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load %s: %w", name, err)
	}

	if err := json.Unmarshal([]byte(doc.Body), dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, name, err)
	}
	return nil
}

// Save implements Store.
func (s *SQLStore) Save(ctx context.Context, name string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	row := db.Document{Name: name, Body: string(data), UpdatedAt: time.Now().UTC()}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&row).Error; err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}
