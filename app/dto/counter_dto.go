package dto

import "github.com/shopspring/decimal"

// CounterDTO is the API representation of a counter
// Archived and Deleted mirror State for clients that expect the flag pair
type CounterDTO struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	StartValue decimal.Decimal `json:"start_value"`
	StepValue  decimal.Decimal `json:"step_value"`
	OrderIndex int64           `json:"order_index"`
	State      string          `json:"state"`
	Archived   bool            `json:"archived"`
	Deleted    bool            `json:"deleted"`
	CreatedAt  string          `json:"created_at"`
	UpdatedAt  string          `json:"updated_at"`
}

// CreateCounterRequest carries data to create a counter
// Color defaults to the first preset, StartValue to 0 and StepValue to 1
type CreateCounterRequest struct {
	Name       string           `json:"name" validate:"required,max=255"`
	Color      *string          `json:"color,omitempty" validate:"omitempty,hexcolor"`
	StartValue *decimal.Decimal `json:"start_value,omitempty"`
	StepValue  *decimal.Decimal `json:"step_value,omitempty"`
}

// UpdateCounterRequest carries the mutable counter fields; nil fields are left unchanged
type UpdateCounterRequest struct {
	Name       *string          `json:"name,omitempty" validate:"omitempty,max=255"`
	Color      *string          `json:"color,omitempty" validate:"omitempty,hexcolor"`
	StartValue *decimal.Decimal `json:"start_value,omitempty"`
	StepValue  *decimal.Decimal `json:"step_value,omitempty"`
}

// CounterResponse wraps a single counter
type CounterResponse struct {
	Message string     `json:"message"`
	Counter CounterDTO `json:"counter"`
}

// CounterMutationResponse reports whether a mutation touched a stored counter
// Applied is false when the counter is missing or deleted
type CounterMutationResponse struct {
	Message string      `json:"message"`
	Applied bool        `json:"applied"`
	Counter *CounterDTO `json:"counter,omitempty"`
}

// ReorderCountersRequest lists counter ids in their new manual order
type ReorderCountersRequest struct {
	IDs []string `json:"ids" validate:"required,dive,uuid"`
}

// ReorderCountersResponse reports the applied order
// Order omits ids that were missing or deleted
type ReorderCountersResponse struct {
	Message string   `json:"message"`
	Order   []string `json:"order"`
	Changed int      `json:"changed"`
}
