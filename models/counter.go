// Package models contains domain entities for the counter store
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Counter represents one tracked quantity
// Table: counters
// Holds configuration and display state only; values are derived from events
// StartValue is added to every aggregated sum
// StepValue is the per-action delta; zero means 1
// OrderIndex is the manual sort rank, dense only right after a reorder
// State replaces the archived/deleted flag pair; deleted rows are never erased
type Counter struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string          `gorm:"size:255;not null" json:"name"`
	Color      string          `gorm:"size:32;not null" json:"color"`
	StartValue decimal.Decimal `gorm:"type:numeric;not null" json:"start_value"`
	StepValue  decimal.Decimal `gorm:"type:numeric;not null" json:"step_value"`
	OrderIndex int64           `gorm:"not null;index:idx_counters_order_index" json:"order_index"`
	State      LifecycleState  `gorm:"size:16;not null;index:idx_counters_state" json:"state"`
	CreatedAt  time.Time       `gorm:"not null;index:idx_counters_created_at" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null" json:"updated_at"`
}

func (Counter) TableName() string {
	return "counters"
}

// IsLive reports whether the counter takes part in views and aggregation
func (c *Counter) IsLive() bool {
	return c != nil && c.State != LifecycleStateDeleted
}

// IsArchived mirrors the legacy archived flag
func (c *Counter) IsArchived() bool {
	return c.State == LifecycleStateArchived
}

// IsDeleted mirrors the legacy deleted flag
func (c *Counter) IsDeleted() bool {
	return c.State == LifecycleStateDeleted
}

// EffectiveStep returns the delta applied per user action
func (c *Counter) EffectiveStep() decimal.Decimal {
	if c.StepValue.IsZero() {
		return decimal.NewFromInt(1)
	}
	return c.StepValue
}

// CounterFilter represents filter criteria for counter queries
type CounterFilter struct {
	ID            *uuid.UUID
	Name          *string
	State         *LifecycleState
	ExcludeState  *LifecycleState
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// PresetColors are the swatches offered when creating a counter
var PresetColors = []string{
	"#FADCD9", "#F8E2CF", "#F5EECC", "#C9E4DE",
	"#C6DEF1", "#DBCDF0", "#F2C6DE", "#F7D9C4",
	"#E2E2E2", "#C1E1C1", "#F0E6EF", "#E2D1F9",
}

// DefaultColor is used when a counter is created without a color
var DefaultColor = PresetColors[0]
