// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BaseRepository provides the single-statement operations shared by every collection
type BaseRepository[T any, F any] struct {
	DB *gorm.DB
}

// NewBaseRepository creates a new base repository instance
func NewBaseRepository[T any, F any](db *gorm.DB) *BaseRepository[T, F] {
	return &BaseRepository[T, F]{
		DB: db,
	}
}

// getDB returns the connection bound to the caller's context
func (r *BaseRepository[T, F]) getDB(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx)
}

// ByID retrieves an entity by its ID; a missing row yields nil, nil
func (r *BaseRepository[T, F]) ByID(ctx context.Context, id uuid.UUID) (*T, error) {
	db := r.getDB(ctx)

	var entity T
	err := db.Where("id = ?", id).Take(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find entity by ID %s: %w", id, err)
	}

	return &entity, nil
}

// Add inserts a new entity and fails with ErrDuplicateKey when the key is taken
func (r *BaseRepository[T, F]) Add(ctx context.Context, entity *T) error {
	db := r.getDB(ctx)

	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(entity)
	if result.Error != nil {
		return fmt.Errorf("failed to add entity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDuplicateKey
	}

	return nil
}
