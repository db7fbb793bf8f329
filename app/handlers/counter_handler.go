package handlers

import (
	"strconv"

	"github.com/amirphl/tallybook/app/dto"
	businessflow "github.com/amirphl/tallybook/business_flow"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// CounterHandlerInterface defines the contract for counter handlers
type CounterHandlerInterface interface {
	Board(c fiber.Ctx) error
	Create(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	Archive(c fiber.Ctx) error
	Unarchive(c fiber.Ctx) error
	Reorder(c fiber.Ctx) error
}

// CounterHandler handles counter configuration, lifecycle and board requests
type CounterHandler struct {
	baseHandler
	counterFlow    businessflow.CounterFlow
	orderingFlow   businessflow.OrderingFlow
	boardFlow      businessflow.BoardFlow
	preferenceFlow businessflow.PreferenceFlow
}

// NewCounterHandler creates a new counter handler
func NewCounterHandler(
	counterFlow businessflow.CounterFlow,
	orderingFlow businessflow.OrderingFlow,
	boardFlow businessflow.BoardFlow,
	preferenceFlow businessflow.PreferenceFlow,
	logger *logrus.Logger,
) *CounterHandler {
	return &CounterHandler{
		baseHandler:    newBaseHandler(logger),
		counterFlow:    counterFlow,
		orderingFlow:   orderingFlow,
		boardFlow:      boardFlow,
		preferenceFlow: preferenceFlow,
	}
}

// Board lists the aggregated counters of the current view
// @Summary Counter Board
// @Tags Counters
// @Produce json
// @Param sort query string false "manual|alphabetical|highest"
// @Param period query string false "hour|day|week|month|year"
// @Param view query string false "active|archived"
// @Param windows query bool false "Include every period sum"
// @Success 200 {object} dto.APIResponse{data=dto.BoardResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/counters [get]
func (h *CounterHandler) Board(c fiber.Ctx) error {
	query := &dto.BoardQuery{}
	if v := c.Query("sort"); v != "" {
		query.Sort = &v
	}
	if v := c.Query("period"); v != "" {
		query.Period = &v
	}
	if v := c.Query("view"); v != "" {
		query.View = &v
	}
	if v := c.Query("windows"); v != "" {
		windows, err := strconv.ParseBool(v)
		if err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "windows must be a boolean", "INVALID_REQUEST", nil)
		}
		query.Windows = windows
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	view, err := h.preferenceFlow.ResolveView(ctx, query)
	if err != nil {
		return h.flowError(c, err, "Invalid view", "INVALID_VIEW")
	}

	result, err := h.boardFlow.Board(ctx, view, query.Windows)
	if err != nil {
		return h.flowError(c, err, "Failed to load counters", "BOARD_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Counters retrieved successfully", result)
}

// Create adds a counter at the end of the manual order
// @Summary Create Counter
// @Tags Counters
// @Accept json
// @Produce json
// @Param request body dto.CreateCounterRequest true "Counter"
// @Success 201 {object} dto.APIResponse{data=dto.CounterResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/counters [post]
func (h *CounterHandler) Create(c fiber.Ctx) error {
	var req dto.CreateCounterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if ok, err := h.validate(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.counterFlow.Create(ctx, &req, h.metadata(c))
	if err != nil {
		return h.flowError(c, err, "Failed to create counter", "COUNTER_CREATION_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result)
}

// Get returns one live counter
// @Summary Get Counter
// @Tags Counters
// @Produce json
// @Param id path string true "Counter ID"
// @Success 200 {object} dto.APIResponse{data=dto.CounterResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /api/v1/counters/{id} [get]
func (h *CounterHandler) Get(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.counterFlow.Get(ctx, c.Params("id"))
	if err != nil {
		return h.flowError(c, err, "Failed to get counter", "COUNTER_LOOKUP_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Update changes the configuration of a live counter
// @Summary Update Counter
// @Tags Counters
// @Accept json
// @Produce json
// @Param id path string true "Counter ID"
// @Param request body dto.UpdateCounterRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.CounterMutationResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/counters/{id} [put]
func (h *CounterHandler) Update(c fiber.Ctx) error {
	var req dto.UpdateCounterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if ok, err := h.validate(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.counterFlow.Update(ctx, c.Params("id"), &req, h.metadata(c))
	if err != nil {
		return h.flowError(c, err, "Failed to update counter", "COUNTER_UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Delete soft-deletes a counter
// @Summary Delete Counter
// @Tags Counters
// @Produce json
// @Param id path string true "Counter ID"
// @Success 200 {object} dto.APIResponse{data=dto.CounterMutationResponse}
// @Failure 400 {object} dto.APIResponse
// @Router /api/v1/counters/{id} [delete]
func (h *CounterHandler) Delete(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.counterFlow.Delete(ctx, c.Params("id"), h.metadata(c))
	if err != nil {
		return h.flowError(c, err, "Failed to delete counter", "COUNTER_TRANSITION_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Archive moves a counter to the archived view
// @Summary Archive Counter
// @Tags Counters
// @Produce json
// @Param id path string true "Counter ID"
// @Success 200 {object} dto.APIResponse{data=dto.CounterMutationResponse}
// @Router /api/v1/counters/{id}/archive [post]
func (h *CounterHandler) Archive(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.counterFlow.Archive(ctx, c.Params("id"), h.metadata(c))
	if err != nil {
		return h.flowError(c, err, "Failed to archive counter", "COUNTER_TRANSITION_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Unarchive moves a counter back to the active view
// @Summary Unarchive Counter
// @Tags Counters
// @Produce json
// @Param id path string true "Counter ID"
// @Success 200 {object} dto.APIResponse{data=dto.CounterMutationResponse}
// @Router /api/v1/counters/{id}/unarchive [post]
func (h *CounterHandler) Unarchive(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.counterFlow.Unarchive(ctx, c.Params("id"), h.metadata(c))
	if err != nil {
		return h.flowError(c, err, "Failed to unarchive counter", "COUNTER_TRANSITION_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Reorder stores a new manual order
// @Summary Reorder Counters
// @Tags Counters
// @Accept json
// @Produce json
// @Param request body dto.ReorderCountersRequest true "Counter ids in display order"
// @Success 200 {object} dto.APIResponse{data=dto.ReorderCountersResponse}
// @Failure 400 {object} dto.APIResponse
// @Router /api/v1/counters/order [put]
func (h *CounterHandler) Reorder(c fiber.Ctx) error {
	var req dto.ReorderCountersRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if ok, err := h.validate(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.orderingFlow.Reorder(ctx, &req, h.metadata(c))
	if err != nil {
		return h.flowError(c, err, "Failed to reorder counters", "REORDER_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}
