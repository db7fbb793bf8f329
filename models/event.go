package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DateLayout is the ISO calendar date format of Event.Date
const DateLayout = "2006-01-02"

// Event is one increment or decrement applied to a counter
// Table: events
// Rows are append-only: never updated, never deleted
// CounterID does not own the counter lifecycle; events outlive soft deletes
// Date is derived from Timestamp (UTC) and is not authoritative
type Event struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CounterID uuid.UUID       `gorm:"type:uuid;not null;index:idx_events_counter_id" json:"counter_id"`
	Timestamp time.Time       `gorm:"not null;index:idx_events_timestamp" json:"timestamp"`
	Date      string          `gorm:"size:10;index:idx_events_date" json:"date,omitempty"`
	Delta     decimal.Decimal `gorm:"type:numeric;not null" json:"delta"`
}

func (Event) TableName() string {
	return "events"
}

// BeforeCreate stores the timestamp in UTC and fills the redundant calendar date
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	e.Timestamp = e.Timestamp.UTC()
	e.Date = e.Timestamp.Format(DateLayout)
	return nil
}

// EventFilter represents filter criteria for event queries
type EventFilter struct {
	ID            *uuid.UUID
	CounterID     *uuid.UUID
	Date          *string
	TimestampFrom *time.Time
	TimestampTo   *time.Time
}
