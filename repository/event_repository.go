package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/tallybook/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventRepositoryImpl implements EventRepository interface
type EventRepositoryImpl struct {
	*BaseRepository[models.Event, models.EventFilter]
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &EventRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Event, models.EventFilter](db),
	}
}

// All returns the whole ledger in timestamp order
func (r *EventRepositoryImpl) All(ctx context.Context) ([]*models.Event, error) {
	return r.ByFilter(ctx, models.EventFilter{}, "", 0, 0)
}

// ByCounterID returns the events of one counter, newest first
func (r *EventRepositoryImpl) ByCounterID(ctx context.Context, counterID uuid.UUID) ([]*models.Event, error) {
	filter := models.EventFilter{CounterID: &counterID}
	return r.ByFilter(ctx, filter, "timestamp DESC, id DESC", 0, 0)
}

// applyFilter applies filter criteria to a GORM query
func (r *EventRepositoryImpl) applyFilter(query *gorm.DB, filter models.EventFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.CounterID != nil {
		query = query.Where("counter_id = ?", *filter.CounterID)
	}
	if filter.Date != nil {
		query = query.Where("date = ?", *filter.Date)
	}
	if filter.TimestampFrom != nil {
		query = query.Where("timestamp >= ?", filter.TimestampFrom.UTC())
	}
	if filter.TimestampTo != nil {
		query = query.Where("timestamp < ?", filter.TimestampTo.UTC())
	}
	return query
}

// ByFilter retrieves events based on filter criteria
func (r *EventRepositoryImpl) ByFilter(ctx context.Context, filter models.EventFilter, orderBy string, limit, offset int) ([]*models.Event, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Event{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "timestamp ASC, id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Event
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return rows, nil
}

// Count returns the number of events matching the filter
func (r *EventRepositoryImpl) Count(ctx context.Context, filter models.EventFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Event{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}
