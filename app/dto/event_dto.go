package dto

import "github.com/shopspring/decimal"

// EventDTO is the API representation of a ledger entry
type EventDTO struct {
	ID        string          `json:"id"`
	CounterID string          `json:"counter_id"`
	Timestamp string          `json:"timestamp"`
	Date      string          `json:"date"`
	Delta     decimal.Decimal `json:"delta"`
}

// RecordEventRequest appends an arbitrary delta for a counter
type RecordEventRequest struct {
	Delta *decimal.Decimal `json:"delta" validate:"required"`
}

// EventResponse wraps one recorded event
// Applied is false when a step targeted a missing or deleted counter
type EventResponse struct {
	Message string    `json:"message"`
	Applied bool      `json:"applied"`
	Event   *EventDTO `json:"event,omitempty"`
}

// ListEventsResponse lists the events of one counter, newest first
type ListEventsResponse struct {
	CounterID string     `json:"counter_id"`
	Events    []EventDTO `json:"events"`
	Total     int        `json:"total"`
}
