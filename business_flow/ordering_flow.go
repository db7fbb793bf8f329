package businessflow

import (
	"context"

	"github.com/amirphl/tallybook/app/dto"
	"github.com/amirphl/tallybook/config"
	"github.com/amirphl/tallybook/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// OrderingFlow maintains the manual order index of counters
type OrderingFlow interface {
	Reorder(ctx context.Context, req *dto.ReorderCountersRequest, metadata *ClientMetadata) (*dto.ReorderCountersResponse, error)
	AssignInitialIndex(ctx context.Context) (int64, error)
}

// OrderingFlowImpl implements OrderingFlow
type OrderingFlowImpl struct {
	counterRepo repository.CounterRepository
	clock       Clock
	logger      *logrus.Logger
}

func NewOrderingFlow(counterRepo repository.CounterRepository, clock Clock, logger *logrus.Logger) OrderingFlow {
	return &OrderingFlowImpl{counterRepo: counterRepo, clock: orDefaultClock(clock), logger: orDefaultLogger(logger)}
}

// Reorder assigns 0..n-1 to the live counters of req.IDs in the given order.
// Missing and deleted ids are dropped before numbering; counters outside the call keep their index.
// Only counters whose index changes are written.
func (f *OrderingFlowImpl) Reorder(ctx context.Context, req *dto.ReorderCountersRequest, metadata *ClientMetadata) (*dto.ReorderCountersResponse, error) {
	ids := make([]uuid.UUID, 0, len(req.IDs))
	seen := make(map[uuid.UUID]struct{}, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, NewBusinessError("INVALID_COUNTER_ID", "Counter id must be a UUID", ErrInvalidCounterID)
		}
		if _, dup := seen[id]; dup {
			return nil, NewBusinessError("DUPLICATE_IDS", "Reorder ids must not repeat", ErrDuplicateIDs)
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	now := f.clock()
	order := make([]string, 0, len(ids))
	changed := 0
	for _, id := range ids {
		counter, err := f.counterRepo.ByID(ctx, id)
		if err != nil {
			config.LogError(f.logger.WithFields(metadata.logFields()), "OrderingFlow", "Reorder", "ByID", id.String(), err)
			return nil, NewBusinessError("COUNTER_LOOKUP_FAILED", "Failed to lookup counter", err)
		}
		if !counter.IsLive() {
			continue
		}

		index := int64(len(order))
		order = append(order, id.String())
		if counter.OrderIndex == index {
			continue
		}

		counter.OrderIndex = index
		counter.UpdatedAt = now
		if err := f.counterRepo.Put(ctx, counter); err != nil {
			config.LogError(f.logger.WithFields(metadata.logFields()), "OrderingFlow", "Reorder", "Put", id.String(), err)
			return nil, NewBusinessError("REORDER_FAILED", "Failed to store counter order", err)
		}
		changed++
	}

	return &dto.ReorderCountersResponse{
		Message: "Counters reordered successfully",
		Order:   order,
		Changed: changed,
	}, nil
}

// AssignInitialIndex returns the index for a new counter: one past the highest live index, 0 when there is none
func (f *OrderingFlowImpl) AssignInitialIndex(ctx context.Context) (int64, error) {
	maxIndex, err := f.counterRepo.MaxOrderIndex(ctx)
	if err != nil {
		return 0, NewBusinessError("ORDER_INDEX_LOOKUP_FAILED", "Failed to read order index", err)
	}
	if maxIndex == nil {
		return 0, nil
	}
	return *maxIndex + 1, nil
}
