// Package businessflow contains the core business logic and use cases of the counter store
package businessflow

import (
	"errors"
	"fmt"

	"github.com/amirphl/tallybook/models"
	"github.com/amirphl/tallybook/repository"
)

// Business flow error constants
var (
	// ErrInvalidInput is the parent of every validation error
	ErrInvalidInput = errors.New("invalid input")

	// Counter-related errors
	ErrCounterNotFound     = errors.New("counter not found")
	ErrCounterNameRequired = fmt.Errorf("%w: counter name is required", ErrInvalidInput)
	ErrCounterNameTooLong  = fmt.Errorf("%w: counter name is too long", ErrInvalidInput)
	ErrInvalidCounterID    = fmt.Errorf("%w: counter id must be a UUID", ErrInvalidInput)
	ErrInvalidColor        = fmt.Errorf("%w: color must be a hex color", ErrInvalidInput)
	ErrUpdateRequired      = fmt.Errorf("%w: at least one field must be provided for update", ErrInvalidInput)
	ErrDeltaRequired       = fmt.Errorf("%w: delta is required", ErrInvalidInput)

	// Ordering errors
	ErrDuplicateIDs = fmt.Errorf("%w: ids must not repeat", ErrInvalidInput)

	// View-state errors
	ErrInvalidSortMethod = fmt.Errorf("%w: unknown sort method", ErrInvalidInput)
	ErrInvalidPeriod     = fmt.Errorf("%w: unknown period", ErrInvalidInput)
	ErrInvalidVisibility = fmt.Errorf("%w: unknown visibility", ErrInvalidInput)

	// Export errors
	ErrNothingToExport = errors.New("no events to export")

	// Preference errors
	ErrPreferencesUnavailable = errors.New("preferences unavailable")
)

// BusinessError carries a stable code for the API layer next to the wrapped cause
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsCounterNotFound(err error) bool {
	return errors.Is(err, ErrCounterNotFound)
}

func IsCounterNameRequired(err error) bool {
	return errors.Is(err, ErrCounterNameRequired)
}

func IsDuplicateIDs(err error) bool {
	return errors.Is(err, ErrDuplicateIDs)
}

func IsNothingToExport(err error) bool {
	return errors.Is(err, ErrNothingToExport)
}

func IsInvalidTransition(err error) bool {
	return errors.Is(err, models.ErrInvalidTransition)
}

func IsDuplicateKey(err error) bool {
	return errors.Is(err, repository.ErrDuplicateKey)
}

func IsStorageUnavailable(err error) bool {
	return errors.Is(err, repository.ErrStorageUnavailable)
}

func IsPreferencesUnavailable(err error) bool {
	return errors.Is(err, ErrPreferencesUnavailable)
}
