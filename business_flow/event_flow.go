package businessflow

import (
	"context"

	"github.com/amirphl/tallybook/app/dto"
	"github.com/amirphl/tallybook/config"
	"github.com/amirphl/tallybook/models"
	"github.com/amirphl/tallybook/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Direction is the sign applied to a counter's step
type Direction int

const (
	DirectionIncrement Direction = 1
	DirectionDecrement Direction = -1
)

func (d Direction) String() string {
	if d == DirectionDecrement {
		return "decrement"
	}
	return "increment"
}

// EventFlow appends to the event ledger
type EventFlow interface {
	RecordEvent(ctx context.Context, counterID uuid.UUID, delta decimal.Decimal) (*models.Event, error)
	Step(ctx context.Context, counterID uuid.UUID, direction Direction) (*models.Event, error)
	StepCounter(ctx context.Context, id string, direction Direction, metadata *ClientMetadata) (*dto.EventResponse, error)
	RecordCounterEvent(ctx context.Context, id string, req *dto.RecordEventRequest, metadata *ClientMetadata) (*dto.EventResponse, error)
	ListCounterEvents(ctx context.Context, id string) (*dto.ListEventsResponse, error)
}

// EventFlowImpl implements EventFlow
type EventFlowImpl struct {
	counterRepo repository.CounterRepository
	eventRepo   repository.EventRepository
	clock       Clock
	logger      *logrus.Logger
}

func NewEventFlow(counterRepo repository.CounterRepository, eventRepo repository.EventRepository, clock Clock, logger *logrus.Logger) EventFlow {
	return &EventFlowImpl{
		counterRepo: counterRepo,
		eventRepo:   eventRepo,
		clock:       orDefaultClock(clock),
		logger:      orDefaultLogger(logger),
	}
}

// RecordEvent appends one event stamped with the current time.
// The counter's state is not consulted.
func (f *EventFlowImpl) RecordEvent(ctx context.Context, counterID uuid.UUID, delta decimal.Decimal) (*models.Event, error) {
	event := &models.Event{
		ID:        uuid.New(),
		CounterID: counterID,
		Timestamp: f.clock(),
		Delta:     delta,
	}

	if err := f.eventRepo.Add(ctx, event); err != nil {
		return nil, err
	}
	eventsRecordedTotal.WithLabelValues(directionLabel(delta)).Inc()

	return event, nil
}

// Step records plus or minus the counter's step; missing and deleted counters yield nil, nil
func (f *EventFlowImpl) Step(ctx context.Context, counterID uuid.UUID, direction Direction) (*models.Event, error) {
	counter, err := f.counterRepo.ByID(ctx, counterID)
	if err != nil {
		return nil, err
	}
	if !counter.IsLive() {
		return nil, nil
	}

	delta := counter.EffectiveStep()
	if direction == DirectionDecrement {
		delta = delta.Neg()
	}
	return f.RecordEvent(ctx, counter.ID, delta)
}

// StepCounter is Step for an id coming from the API
func (f *EventFlowImpl) StepCounter(ctx context.Context, id string, direction Direction, metadata *ClientMetadata) (*dto.EventResponse, error) {
	counterID, err := parseCounterID(id)
	if err != nil {
		return nil, err
	}

	event, err := f.Step(ctx, counterID, direction)
	if err != nil {
		config.LogError(f.logger.WithFields(metadata.logFields()), "EventFlow", "StepCounter", direction.String(), id, err)
		return nil, NewBusinessError("EVENT_RECORD_FAILED", "Failed to record event", err)
	}
	if event == nil {
		return &dto.EventResponse{Message: "Counter not found; nothing recorded", Applied: false}, nil
	}

	out := ToEventDTO(*event)
	return &dto.EventResponse{
		Message: "Event recorded successfully",
		Applied: true,
		Event:   &out,
	}, nil
}

// RecordCounterEvent appends an explicit delta for an id coming from the API
func (f *EventFlowImpl) RecordCounterEvent(ctx context.Context, id string, req *dto.RecordEventRequest, metadata *ClientMetadata) (*dto.EventResponse, error) {
	if req.Delta == nil {
		return nil, NewBusinessError("DELTA_REQUIRED", "Delta is required", ErrDeltaRequired)
	}
	counterID, err := parseCounterID(id)
	if err != nil {
		return nil, err
	}

	event, err := f.RecordEvent(ctx, counterID, *req.Delta)
	if err != nil {
		config.LogError(f.logger.WithFields(metadata.logFields()), "EventFlow", "RecordCounterEvent", "Add", id, err)
		return nil, NewBusinessError("EVENT_RECORD_FAILED", "Failed to record event", err)
	}

	out := ToEventDTO(*event)
	return &dto.EventResponse{
		Message: "Event recorded successfully",
		Applied: true,
		Event:   &out,
	}, nil
}

// ListCounterEvents returns a counter's events, newest first, deleted counters included
func (f *EventFlowImpl) ListCounterEvents(ctx context.Context, id string) (*dto.ListEventsResponse, error) {
	counterID, err := parseCounterID(id)
	if err != nil {
		return nil, err
	}

	events, err := f.eventRepo.ByCounterID(ctx, counterID)
	if err != nil {
		config.LogError(f.logger, "EventFlow", "ListCounterEvents", "ByCounterID", id, err)
		return nil, NewBusinessError("LIST_EVENTS_FAILED", "Failed to list events", err)
	}

	items := make([]dto.EventDTO, 0, len(events))
	for _, ev := range events {
		items = append(items, ToEventDTO(*ev))
	}

	return &dto.ListEventsResponse{
		CounterID: counterID.String(),
		Events:    items,
		Total:     len(items),
	}, nil
}
