package businessflow_test

import (
	"sync"
	"testing"
	"time"

	"github.com/amirphl/tallybook/app/dto"
	"github.com/amirphl/tallybook/app/services"
	businessflow "github.com/amirphl/tallybook/business_flow"
	"github.com/amirphl/tallybook/models"
	"github.com/amirphl/tallybook/repository"
	testingutil "github.com/amirphl/tallybook/testing"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

// Wednesday
var refNow = time.Date(2026, time.October, 14, 10, 30, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(t time.Time) *testClock {
	return &testClock{now: t}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type flows struct {
	counterRepo repository.CounterRepository
	eventRepo   repository.EventRepository
	counters    businessflow.CounterFlow
	events      businessflow.EventFlow
	ordering    businessflow.OrderingFlow
	board       businessflow.BoardFlow
	export      businessflow.ExportFlow
	preferences businessflow.PreferenceFlow
	clock       *testClock
	logs        *test.Hook
}

func newFlows(testDB *testingutil.TestDB) *flows {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	clock := newTestClock(refNow)
	counterRepo := repository.NewCounterRepository(testDB.DB)
	eventRepo := repository.NewEventRepository(testDB.DB)
	ordering := businessflow.NewOrderingFlow(counterRepo, clock.Now, logger)

	return &flows{
		counterRepo: counterRepo,
		eventRepo:   eventRepo,
		counters:    businessflow.NewCounterFlow(counterRepo, ordering, clock.Now, logger),
		events:      businessflow.NewEventFlow(counterRepo, eventRepo, clock.Now, logger),
		ordering:    ordering,
		board:       businessflow.NewBoardFlow(counterRepo, eventRepo, clock.Now, time.UTC, language.English, logger),
		export:      businessflow.NewExportFlow(counterRepo, eventRepo, clock.Now, time.UTC, logger),
		preferences: businessflow.NewPreferenceFlow(services.NewMemoryPreferenceStore(), models.DefaultViewState(), logger),
		clock:       clock,
		logs:        hook,
	}
}

func (f *flows) createCounter(t *testing.T, name string, start, step int64) dto.CounterDTO {
	t.Helper()
	s := decimal.NewFromInt(start)
	st := decimal.NewFromInt(step)
	resp, err := f.counters.Create(testingutil.CreateTestContext(), &dto.CreateCounterRequest{
		Name:       name,
		StartValue: &s,
		StepValue:  &st,
	}, nil)
	require.NoError(t, err)
	return resp.Counter
}

func boardNames(resp *dto.BoardResponse) []string {
	out := make([]string, 0, len(resp.Counters))
	for _, row := range resp.Counters {
		out = append(out, row.Counter.Name)
	}
	return out
}

func boardRow(t *testing.T, resp *dto.BoardResponse, id string) dto.BoardRowDTO {
	t.Helper()
	for _, row := range resp.Counters {
		if row.Counter.ID == id {
			return row
		}
	}
	require.Failf(t, "row not found", "counter %s is not on the board", id)
	return dto.BoardRowDTO{}
}
