package dto

import "github.com/shopspring/decimal"

// ViewStateDTO is the API representation of the board view state
type ViewStateDTO struct {
	Sort       string `json:"sort"`
	Period     string `json:"period"`
	Visibility string `json:"visibility"`
	Compact    bool   `json:"compact"`
}

// BoardRowDTO is one aggregated counter on the board
// Value is the start value plus the deltas of the selected period
// Windows holds the same figure for every period
type BoardRowDTO struct {
	Counter        CounterDTO                 `json:"counter"`
	Value          decimal.Decimal            `json:"value"`
	Total          decimal.Decimal            `json:"total"`
	Step           decimal.Decimal            `json:"step"`
	LastEventAt    *string                    `json:"last_event_at"`
	LastEventLabel string                     `json:"last_event_label"`
	Windows        map[string]decimal.Decimal `json:"windows,omitempty"`
}

// BoardResponse is the result of one render pass
type BoardResponse struct {
	View        ViewStateDTO  `json:"view"`
	Counters    []BoardRowDTO `json:"counters"`
	GeneratedAt string        `json:"generated_at"`
}

// BoardQuery carries optional view overrides from the query string
// Nil fields keep the stored preference
type BoardQuery struct {
	Sort    *string
	Period  *string
	View    *string
	Windows bool
}

// UpdatePreferencesRequest carries a partial view-state update
type UpdatePreferencesRequest struct {
	Sort       *string `json:"sort,omitempty" validate:"omitempty,oneof=manual alphabetical highest"`
	Period     *string `json:"period,omitempty" validate:"omitempty"`
	Visibility *string `json:"visibility,omitempty" validate:"omitempty,oneof=active archived"`
	Compact    *bool   `json:"compact,omitempty"`
}

// PreferencesResponse wraps the stored view state
type PreferencesResponse struct {
	Message string       `json:"message"`
	View    ViewStateDTO `json:"view"`
}
