package businessflow

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/amirphl/tallybook/app/dto"
	"github.com/amirphl/tallybook/config"
	"github.com/amirphl/tallybook/models"
	"github.com/amirphl/tallybook/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const maxCounterNameLen = 255

var hexColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// CounterFlow manages counter configuration and lifecycle
type CounterFlow interface {
	Create(ctx context.Context, req *dto.CreateCounterRequest, metadata *ClientMetadata) (*dto.CounterResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCounterRequest, metadata *ClientMetadata) (*dto.CounterMutationResponse, error)
	Archive(ctx context.Context, id string, metadata *ClientMetadata) (*dto.CounterMutationResponse, error)
	Unarchive(ctx context.Context, id string, metadata *ClientMetadata) (*dto.CounterMutationResponse, error)
	Delete(ctx context.Context, id string, metadata *ClientMetadata) (*dto.CounterMutationResponse, error)
	Get(ctx context.Context, id string) (*dto.CounterResponse, error)
}

// CounterFlowImpl implements CounterFlow
type CounterFlowImpl struct {
	counterRepo repository.CounterRepository
	ordering    OrderingFlow
	clock       Clock
	logger      *logrus.Logger
}

func NewCounterFlow(counterRepo repository.CounterRepository, ordering OrderingFlow, clock Clock, logger *logrus.Logger) CounterFlow {
	return &CounterFlowImpl{
		counterRepo: counterRepo,
		ordering:    ordering,
		clock:       orDefaultClock(clock),
		logger:      orDefaultLogger(logger),
	}
}

// Create stores a new active counter at the end of the manual order
func (f *CounterFlowImpl) Create(ctx context.Context, req *dto.CreateCounterRequest, metadata *ClientMetadata) (*dto.CounterResponse, error) {
	name, err := validateCounterName(req.Name)
	if err != nil {
		return nil, err
	}

	color := models.DefaultColor
	if req.Color != nil {
		if !hexColorPattern.MatchString(*req.Color) {
			return nil, NewBusinessError("INVALID_COLOR", "Color must be a hex color", ErrInvalidColor)
		}
		color = *req.Color
	}

	start := decimal.Zero
	if req.StartValue != nil {
		start = *req.StartValue
	}
	step := decimal.NewFromInt(1)
	if req.StepValue != nil {
		step = *req.StepValue
	}

	index, err := f.ordering.AssignInitialIndex(ctx)
	if err != nil {
		return nil, err
	}

	now := f.clock()
	counter := &models.Counter{
		ID:         uuid.New(),
		Name:       name,
		Color:      color,
		StartValue: start,
		StepValue:  step,
		OrderIndex: index,
		State:      models.LifecycleStateActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := f.counterRepo.Add(ctx, counter); err != nil {
		config.LogError(f.logger.WithFields(metadata.logFields()), "CounterFlow", "Create", "Add", counter.Name, err)
		return nil, NewBusinessError("COUNTER_CREATION_FAILED", "Counter creation failed", err)
	}
	counterLifecycleTotal.WithLabelValues("create").Inc()

	return &dto.CounterResponse{
		Message: "Counter created successfully",
		Counter: ToCounterDTO(*counter),
	}, nil
}

// Update changes name, color, start and step of a live counter; order and state are left alone
func (f *CounterFlowImpl) Update(ctx context.Context, id string, req *dto.UpdateCounterRequest, metadata *ClientMetadata) (*dto.CounterMutationResponse, error) {
	if req.Name == nil && req.Color == nil && req.StartValue == nil && req.StepValue == nil {
		return nil, NewBusinessError("UPDATE_REQUIRED", "At least one field must be provided for update", ErrUpdateRequired)
	}

	var name string
	if req.Name != nil {
		var err error
		if name, err = validateCounterName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Color != nil && !hexColorPattern.MatchString(*req.Color) {
		return nil, NewBusinessError("INVALID_COLOR", "Color must be a hex color", ErrInvalidColor)
	}

	counter, err := f.liveCounter(ctx, id, "Update", metadata)
	if err != nil {
		return nil, err
	}
	if counter == nil {
		return notApplied("Counter not found; nothing updated"), nil
	}

	if req.Name != nil {
		counter.Name = name
	}
	if req.Color != nil {
		counter.Color = *req.Color
	}
	if req.StartValue != nil {
		counter.StartValue = *req.StartValue
	}
	if req.StepValue != nil {
		counter.StepValue = *req.StepValue
	}
	counter.UpdatedAt = f.clock()

	if err := f.counterRepo.Put(ctx, counter); err != nil {
		config.LogError(f.logger.WithFields(metadata.logFields()), "CounterFlow", "Update", "Put", id, err)
		return nil, NewBusinessError("COUNTER_UPDATE_FAILED", "Counter update failed", err)
	}

	out := ToCounterDTO(*counter)
	return &dto.CounterMutationResponse{
		Message: "Counter updated successfully",
		Applied: true,
		Counter: &out,
	}, nil
}

// Archive hides a counter from the active view without touching its events
func (f *CounterFlowImpl) Archive(ctx context.Context, id string, metadata *ClientMetadata) (*dto.CounterMutationResponse, error) {
	return f.transition(ctx, id, models.LifecycleStateArchived, "archive", metadata)
}

// Unarchive moves a counter back to the active view
func (f *CounterFlowImpl) Unarchive(ctx context.Context, id string, metadata *ClientMetadata) (*dto.CounterMutationResponse, error) {
	return f.transition(ctx, id, models.LifecycleStateActive, "unarchive", metadata)
}

// Delete soft-deletes a counter; the row and its events stay in storage
func (f *CounterFlowImpl) Delete(ctx context.Context, id string, metadata *ClientMetadata) (*dto.CounterMutationResponse, error) {
	return f.transition(ctx, id, models.LifecycleStateDeleted, "delete", metadata)
}

// Get returns a live counter
func (f *CounterFlowImpl) Get(ctx context.Context, id string) (*dto.CounterResponse, error) {
	counter, err := f.liveCounter(ctx, id, "Get", nil)
	if err != nil {
		return nil, err
	}
	if counter == nil {
		return nil, NewBusinessError("COUNTER_NOT_FOUND", "Counter not found", ErrCounterNotFound)
	}

	return &dto.CounterResponse{
		Message: "Counter retrieved successfully",
		Counter: ToCounterDTO(*counter),
	}, nil
}

func (f *CounterFlowImpl) transition(ctx context.Context, id string, target models.LifecycleState, action string, metadata *ClientMetadata) (*dto.CounterMutationResponse, error) {
	counter, err := f.liveCounter(ctx, id, action, metadata)
	if err != nil {
		return nil, err
	}
	if counter == nil {
		return notApplied("Counter not found; nothing changed"), nil
	}

	next, err := counter.State.Transition(target)
	if err != nil {
		return nil, NewBusinessErrorf("INVALID_TRANSITION", "Cannot %s a %s counter", err, action, counter.State)
	}

	if next != counter.State {
		counter.State = next
		counter.UpdatedAt = f.clock()
		if err := f.counterRepo.Put(ctx, counter); err != nil {
			config.LogError(f.logger.WithFields(metadata.logFields()), "CounterFlow", action, "Put", id, err)
			return nil, NewBusinessErrorf("COUNTER_TRANSITION_FAILED", "Failed to %s counter", err, action)
		}
		counterLifecycleTotal.WithLabelValues(action).Inc()
	}

	out := ToCounterDTO(*counter)
	return &dto.CounterMutationResponse{
		Message: "Counter " + string(counter.State),
		Applied: true,
		Counter: &out,
	}, nil
}

// liveCounter loads a counter by its string id; missing and deleted counters yield nil, nil
func (f *CounterFlowImpl) liveCounter(ctx context.Context, id string, funcName string, metadata *ClientMetadata) (*models.Counter, error) {
	counterID, err := parseCounterID(id)
	if err != nil {
		return nil, err
	}

	counter, err := f.counterRepo.ByID(ctx, counterID)
	if err != nil {
		config.LogError(f.logger.WithFields(metadata.logFields()), "CounterFlow", funcName, "ByID", id, err)
		return nil, NewBusinessError("COUNTER_LOOKUP_FAILED", "Failed to lookup counter", err)
	}
	if !counter.IsLive() {
		return nil, nil
	}
	return counter, nil
}

func parseCounterID(id string) (uuid.UUID, error) {
	counterID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, NewBusinessError("INVALID_COUNTER_ID", "Counter id must be a UUID", ErrInvalidCounterID)
	}
	return counterID, nil
}

func validateCounterName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", NewBusinessError("COUNTER_NAME_REQUIRED", "Counter name is required", ErrCounterNameRequired)
	}
	if utf8.RuneCountInString(name) > maxCounterNameLen {
		return "", NewBusinessError("COUNTER_NAME_TOO_LONG", "Counter name is too long", ErrCounterNameTooLong)
	}
	return name, nil
}

func notApplied(message string) *dto.CounterMutationResponse {
	return &dto.CounterMutationResponse{Message: message, Applied: false}
}
