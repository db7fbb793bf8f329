package handlers

import (
	"github.com/amirphl/tallybook/app/dto"
	businessflow "github.com/amirphl/tallybook/business_flow"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// PreferenceHandlerInterface defines the contract for view-state preference handlers
type PreferenceHandlerInterface interface {
	Get(c fiber.Ctx) error
	Update(c fiber.Ctx) error
}

// PreferenceHandler reads and writes the stored board view state
type PreferenceHandler struct {
	baseHandler
	flow businessflow.PreferenceFlow
}

// NewPreferenceHandler creates a new preference handler
func NewPreferenceHandler(flow businessflow.PreferenceFlow, logger *logrus.Logger) *PreferenceHandler {
	return &PreferenceHandler{baseHandler: newBaseHandler(logger), flow: flow}
}

// Get returns the stored view state
// @Summary Get Preferences
// @Tags Preferences
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.PreferencesResponse}
// @Failure 503 {object} dto.APIResponse
// @Router /api/v1/preferences [get]
func (h *PreferenceHandler) Get(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.flow.Get(ctx)
	if err != nil {
		return h.flowError(c, err, "Failed to load preferences", "PREFERENCES_UNAVAILABLE")
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Update stores the provided view-state fields
// @Summary Update Preferences
// @Tags Preferences
// @Accept json
// @Produce json
// @Param request body dto.UpdatePreferencesRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.PreferencesResponse}
// @Failure 400 {object} dto.APIResponse
// @Router /api/v1/preferences [put]
func (h *PreferenceHandler) Update(c fiber.Ctx) error {
	var req dto.UpdatePreferencesRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if ok, err := h.validate(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.flow.Update(ctx, &req, h.metadata(c))
	if err != nil {
		return h.flowError(c, err, "Failed to update preferences", "PREFERENCES_UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}
