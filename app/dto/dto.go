package dto

// APIResponse represents the standard API response structure
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty" validate:"omitempty"`
	Error   any    `json:"error,omitempty" validate:"omitempty"`
}

// ErrorDetail represents error details in API responses
type ErrorDetail struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty" validate:"omitempty"`
}

// HealthResponse reports service liveness and the storage ping result
type HealthResponse struct {
	Status    string `json:"status"`
	Storage   string `json:"storage"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}
