package testing

import (
	"fmt"
	"time"

	"github.com/amirphl/tallybook/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CounterOption customizes a fixture counter before it is stored
type CounterOption func(*models.Counter)

// WithStart sets the start value
func WithStart(v int64) CounterOption {
	return func(c *models.Counter) { c.StartValue = decimal.NewFromInt(v) }
}

// WithStep sets the step value
func WithStep(v int64) CounterOption {
	return func(c *models.Counter) { c.StepValue = decimal.NewFromInt(v) }
}

// WithState sets the lifecycle state
func WithState(s models.LifecycleState) CounterOption {
	return func(c *models.Counter) { c.State = s }
}

// WithOrderIndex sets the manual order index
func WithOrderIndex(i int64) CounterOption {
	return func(c *models.Counter) { c.OrderIndex = i }
}

// WithCreatedAt sets the creation time
func WithCreatedAt(t time.Time) CounterOption {
	return func(c *models.Counter) { c.CreatedAt = t; c.UpdatedAt = t }
}

// CreateTestCounter inserts an active counter with start 0 and step 1
func (tf *TestFixtures) CreateTestCounter(name string, opts ...CounterOption) (*models.Counter, error) {
	now := time.Now().UTC()
	counter := &models.Counter{
		ID:         uuid.New(),
		Name:       name,
		Color:      models.DefaultColor,
		StartValue: decimal.Zero,
		StepValue:  decimal.NewFromInt(1),
		State:      models.LifecycleStateActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(counter)
	}

	if err := tf.DB.DB.Create(counter).Error; err != nil {
		return nil, fmt.Errorf("failed to create test counter: %w", err)
	}
	return counter, nil
}

// CreateTestEvent appends an event for the counter at the given time
func (tf *TestFixtures) CreateTestEvent(counterID uuid.UUID, at time.Time, delta int64) (*models.Event, error) {
	event := &models.Event{
		ID:        uuid.New(),
		CounterID: counterID,
		Timestamp: at,
		Delta:     decimal.NewFromInt(delta),
	}

	if err := tf.DB.DB.Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to create test event: %w", err)
	}
	return event, nil
}
