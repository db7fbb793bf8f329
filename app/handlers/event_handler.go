package handlers

import (
	"github.com/amirphl/tallybook/app/dto"
	businessflow "github.com/amirphl/tallybook/business_flow"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// EventHandlerInterface defines the contract for event ledger handlers
type EventHandlerInterface interface {
	Increment(c fiber.Ctx) error
	Decrement(c fiber.Ctx) error
	Record(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// EventHandler handles requests that append to or read the event ledger
type EventHandler struct {
	baseHandler
	flow businessflow.EventFlow
}

// NewEventHandler creates a new event handler
func NewEventHandler(flow businessflow.EventFlow, logger *logrus.Logger) *EventHandler {
	return &EventHandler{baseHandler: newBaseHandler(logger), flow: flow}
}

// Increment records one step up
// @Summary Increment Counter
// @Tags Events
// @Produce json
// @Param id path string true "Counter ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse}
// @Failure 400 {object} dto.APIResponse
// @Router /api/v1/counters/{id}/increment [post]
func (h *EventHandler) Increment(c fiber.Ctx) error {
	return h.step(c, businessflow.DirectionIncrement)
}

// Decrement records one step down
// @Summary Decrement Counter
// @Tags Events
// @Produce json
// @Param id path string true "Counter ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse}
// @Failure 400 {object} dto.APIResponse
// @Router /api/v1/counters/{id}/decrement [post]
func (h *EventHandler) Decrement(c fiber.Ctx) error {
	return h.step(c, businessflow.DirectionDecrement)
}

func (h *EventHandler) step(c fiber.Ctx, direction businessflow.Direction) error {
	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.flow.StepCounter(ctx, c.Params("id"), direction, h.metadata(c))
	if err != nil {
		return h.flowError(c, err, "Failed to record event", "EVENT_RECORD_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Record appends an explicit delta
// @Summary Record Event
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Counter ID"
// @Param request body dto.RecordEventRequest true "Delta"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse}
// @Failure 400 {object} dto.APIResponse
// @Router /api/v1/counters/{id}/events [post]
func (h *EventHandler) Record(c fiber.Ctx) error {
	var req dto.RecordEventRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if ok, err := h.validate(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.flow.RecordCounterEvent(ctx, c.Params("id"), &req, h.metadata(c))
	if err != nil {
		return h.flowError(c, err, "Failed to record event", "EVENT_RECORD_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result)
}

// List returns a counter's events, newest first
// @Summary List Counter Events
// @Tags Events
// @Produce json
// @Param id path string true "Counter ID"
// @Success 200 {object} dto.APIResponse{data=dto.ListEventsResponse}
// @Failure 400 {object} dto.APIResponse
// @Router /api/v1/counters/{id}/events [get]
func (h *EventHandler) List(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.flow.ListCounterEvents(ctx, c.Params("id"))
	if err != nil {
		return h.flowError(c, err, "Failed to list events", "LIST_EVENTS_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Events retrieved successfully", result)
}
