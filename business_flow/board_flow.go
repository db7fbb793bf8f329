package businessflow

import (
	"context"
	"time"

	"github.com/amirphl/tallybook/aggregation"
	"github.com/amirphl/tallybook/app/dto"
	"github.com/amirphl/tallybook/config"
	"github.com/amirphl/tallybook/models"
	"github.com/amirphl/tallybook/repository"
	"github.com/amirphl/tallybook/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// BoardFlow runs one render pass over the whole store
type BoardFlow interface {
	Board(ctx context.Context, view models.ViewState, includeWindows bool) (*dto.BoardResponse, error)
}

// BoardFlowImpl implements BoardFlow
type BoardFlowImpl struct {
	counterRepo repository.CounterRepository
	eventRepo   repository.EventRepository
	clock       Clock
	location    *time.Location
	locale      language.Tag
	logger      *logrus.Logger
}

func NewBoardFlow(
	counterRepo repository.CounterRepository,
	eventRepo repository.EventRepository,
	clock Clock,
	location *time.Location,
	locale language.Tag,
	logger *logrus.Logger,
) BoardFlow {
	if location == nil {
		location = time.Local
	}
	return &BoardFlowImpl{
		counterRepo: counterRepo,
		eventRepo:   eventRepo,
		clock:       orDefaultClock(clock),
		location:    location,
		locale:      locale,
		logger:      orDefaultLogger(logger),
	}
}

// Board re-reads every counter and event, aggregates for view.Period,
// keeps the counters of view.Visibility and sorts them by view.Sort
func (f *BoardFlowImpl) Board(ctx context.Context, view models.ViewState, includeWindows bool) (*dto.BoardResponse, error) {
	view = view.Normalize(models.DefaultViewState())

	counters, err := f.counterRepo.All(ctx)
	if err != nil {
		config.LogError(f.logger, "BoardFlow", "Board", "counters", nil, err)
		return nil, NewBusinessError("BOARD_COUNTERS_FAILED", "Failed to read counters", err)
	}
	events, err := f.eventRepo.All(ctx)
	if err != nil {
		config.LogError(f.logger, "BoardFlow", "Board", "events", nil, err)
		return nil, NewBusinessError("BOARD_EVENTS_FAILED", "Failed to read events", err)
	}

	now := f.clock().In(f.location)
	stats := aggregation.Aggregate(counters, events, now, view.Period)

	var windows map[uuid.UUID]aggregation.WindowSums
	if includeWindows {
		windows = aggregation.AggregateAll(counters, events, now)
	}

	rows := make([]aggregation.Row, 0, len(stats))
	for _, c := range counters {
		if !view.Visibility.Includes(c.State) {
			continue
		}
		s, ok := stats[c.ID]
		if !ok {
			continue
		}
		rows = append(rows, aggregation.Row{Counter: c, Stats: s})
	}
	aggregation.Sort(rows, view.Sort, f.locale)

	items := make([]dto.BoardRowDTO, 0, len(rows))
	for _, row := range rows {
		var w *aggregation.WindowSums
		if sums, ok := windows[row.Counter.ID]; ok {
			w = &sums
		}
		item := ToBoardRowDTO(row, w)
		item.LastEventLabel = utils.FormatSince(row.Stats.LastEventAt, now)
		items = append(items, item)
	}

	return &dto.BoardResponse{
		View:        ToViewStateDTO(view),
		Counters:    items,
		GeneratedAt: now.Format(time.RFC3339),
	}, nil
}
