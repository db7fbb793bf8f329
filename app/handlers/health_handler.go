package handlers

import (
	"context"
	"time"

	"github.com/amirphl/tallybook/app/dto"
	"github.com/amirphl/tallybook/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// StoragePinger is satisfied by *sql.DB
type StoragePinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandlerInterface defines the contract for the health check
type HealthHandlerInterface interface {
	Check(c fiber.Ctx) error
}

// HealthHandler reports liveness and storage reachability
type HealthHandler struct {
	baseHandler
	storage StoragePinger
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(storage StoragePinger, version string, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{baseHandler: newBaseHandler(logger), storage: storage, version: version}
}

// Check pings the storage
// @Summary Health Check
// @Tags Health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse}
// @Failure 503 {object} dto.APIResponse{data=dto.HealthResponse}
// @Router /api/v1/health [get]
func (h *HealthHandler) Check(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result := dto.HealthResponse{
		Status:    "ok",
		Storage:   "ok",
		Version:   h.version,
		Timestamp: utils.UTCNow().Format(time.RFC3339),
	}

	if err := h.storage.PingContext(ctx); err != nil {
		h.logger.WithError(err).Warn("Storage ping failed")
		result.Status = "degraded"
		result.Storage = "unavailable"
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.APIResponse{
			Success: false,
			Message: "Storage unavailable",
			Data:    result,
			Error:   dto.ErrorDetail{Code: "STORAGE_UNAVAILABLE"},
		})
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Service is healthy", result)
}
