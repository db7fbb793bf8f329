// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirphl/tallybook/app/dto"
	businessflow "github.com/amirphl/tallybook/business_flow"
	"github.com/amirphl/tallybook/config"
	"github.com/amirphl/tallybook/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/sirupsen/logrus"
)

const requestTimeout = 10 * time.Second

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "hexcolor":
		return err.Field() + " must be a hex color such as #ffd1dc"
	case "uuid":
		return err.Field() + " must be a UUID"
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}

// baseHandler holds what every handler needs to answer a request
type baseHandler struct {
	validator *validator.Validate
	logger    *logrus.Logger
}

func newBaseHandler(logger *logrus.Logger) baseHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return baseHandler{validator: validator.New(), logger: logger}
}

func (h *baseHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *baseHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// validate runs struct validation and answers 400 on failure; ok is false when a response was written
func (h *baseHandler) validate(c fiber.Ctx, req any) (bool, error) {
	err := h.validator.Struct(req)
	if err == nil {
		return true, nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return false, h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
	}
	var validationErrors []string
	for _, fe := range fieldErrors {
		validationErrors = append(validationErrors, getValidationErrorMessage(fe))
	}
	return false, h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
}

// flowError maps a business flow error to a status code and error code
func (h *baseHandler) flowError(c fiber.Ctx, err error, message, fallbackCode string) error {
	code := fallbackCode
	details := any(nil)
	var be *businessflow.BusinessError
	if errors.As(err, &be) {
		code = be.Code
		details = be.Message
	}

	switch {
	case businessflow.IsInvalidInput(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, message, code, details)
	case businessflow.IsCounterNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Counter not found", "COUNTER_NOT_FOUND", nil)
	case businessflow.IsNothingToExport(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "There are no events to export", "NOTHING_TO_EXPORT", nil)
	case businessflow.IsInvalidTransition(err):
		return h.ErrorResponse(c, fiber.StatusConflict, message, "INVALID_TRANSITION", details)
	}

	config.LogError(h.logger.WithField("request_id", requestid.FromContext(c)), "Handlers", c.Route().Path, message, nil, err)

	switch {
	case businessflow.IsDuplicateKey(err):
		return h.ErrorResponse(c, fiber.StatusInternalServerError, message, "DUPLICATE_KEY", nil)
	case businessflow.IsStorageUnavailable(err):
		return h.ErrorResponse(c, fiber.StatusInternalServerError, message, "STORAGE_UNAVAILABLE", nil)
	case businessflow.IsPreferencesUnavailable(err):
		return h.ErrorResponse(c, fiber.StatusServiceUnavailable, message, "PREFERENCES_UNAVAILABLE", nil)
	}
	return h.ErrorResponse(c, fiber.StatusInternalServerError, message, code, nil)
}

func (h *baseHandler) metadata(c fiber.Ctx) *businessflow.ClientMetadata {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(requestid.FromContext(c))
	return metadata
}

// createRequestContext bounds the flow call; the caller must invoke the returned cancel
func (h *baseHandler) createRequestContext(c fiber.Ctx) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, requestid.FromContext(c))
	return ctx, cancel
}
