package repository

import (
	"context"

	"github.com/amirphl/tallybook/models"
	"github.com/google/uuid"
)

type Repository[T any, F any] interface {
	All(ctx context.Context) ([]*T, error)
	ByID(ctx context.Context, id uuid.UUID) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Count(ctx context.Context, filter F) (int64, error)
	Add(ctx context.Context, entity *T) error
}

// CounterRepository defines operations for counters
type CounterRepository interface {
	Repository[models.Counter, models.CounterFilter]
	Put(ctx context.Context, counter *models.Counter) error
	MaxOrderIndex(ctx context.Context) (*int64, error)
}

// EventRepository defines operations for the append-only event ledger
type EventRepository interface {
	Repository[models.Event, models.EventFilter]
	ByCounterID(ctx context.Context, counterID uuid.UUID) ([]*models.Event, error)
}
