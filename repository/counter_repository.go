package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/amirphl/tallybook/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterRepositoryImpl implements CounterRepository interface
type CounterRepositoryImpl struct {
	*BaseRepository[models.Counter, models.CounterFilter]
}

// NewCounterRepository creates a new counter repository
func NewCounterRepository(db *gorm.DB) CounterRepository {
	return &CounterRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Counter, models.CounterFilter](db),
	}
}

// All returns every counter, deleted ones included
func (r *CounterRepositoryImpl) All(ctx context.Context) ([]*models.Counter, error) {
	return r.ByFilter(ctx, models.CounterFilter{}, "", 0, 0)
}

// putColumns are the columns Put overwrites on conflict, timestamps included
var putColumns = []string{
	"name", "color", "start_value", "step_value", "order_index", "state", "created_at", "updated_at",
}

// Put inserts the counter or replaces the stored row with the same id in one statement
func (r *CounterRepositoryImpl) Put(ctx context.Context, counter *models.Counter) error {
	db := r.getDB(ctx)

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(putColumns),
	}).Create(counter).Error
	if err != nil {
		return fmt.Errorf("failed to put counter: %w", err)
	}

	return nil
}

// MaxOrderIndex returns the highest order index among live counters, nil when there are none
func (r *CounterRepositoryImpl) MaxOrderIndex(ctx context.Context) (*int64, error) {
	db := r.getDB(ctx)

	var maxIndex sql.NullInt64
	row := db.Model(&models.Counter{}).
		Where("state <> ?", models.LifecycleStateDeleted).
		Select("MAX(order_index)").
		Row()
	if err := row.Scan(&maxIndex); err != nil {
		return nil, fmt.Errorf("failed to read max order index: %w", err)
	}
	if !maxIndex.Valid {
		return nil, nil
	}

	return &maxIndex.Int64, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *CounterRepositoryImpl) applyFilter(query *gorm.DB, filter models.CounterFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.State != nil {
		query = query.Where("state = ?", *filter.State)
	}
	if filter.ExcludeState != nil {
		query = query.Where("state <> ?", *filter.ExcludeState)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves counters based on filter criteria
func (r *CounterRepositoryImpl) ByFilter(ctx context.Context, filter models.CounterFilter, orderBy string, limit, offset int) ([]*models.Counter, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Counter{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "created_at ASC, id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Counter
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list counters: %w", err)
	}
	return rows, nil
}

// Count returns the number of counters matching the filter
func (r *CounterRepositoryImpl) Count(ctx context.Context, filter models.CounterFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Counter{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count counters: %w", err)
	}
	return count, nil
}
