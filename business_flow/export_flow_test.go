package businessflow_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	businessflow "github.com/amirphl/tallybook/business_flow"
	testingutil "github.com/amirphl/tallybook/testing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// seedExport stores three events: an orphan, a deleted counter's and a quoted name's
func seedExport(t *testing.T, f *flows) (orphanEvent, deletedEvent, quotedEvent string) {
	t.Helper()
	ctx := testingutil.CreateTestContext()

	quoted := f.createCounter(t, `Tea, "green"`, 0, 1)
	deleted := f.createCounter(t, "Old habit", 0, 3)

	f.clock.Set(refNow.Add(-3 * time.Hour))
	ev, err := f.events.RecordEvent(ctx, uuid.New(), decimal.NewFromInt(1))
	require.NoError(t, err)
	orphanEvent = ev.ID.String()

	f.clock.Set(refNow.Add(-2 * time.Hour))
	ev, err = f.events.Step(ctx, uuid.MustParse(deleted.ID), businessflow.DirectionDecrement)
	require.NoError(t, err)
	deletedEvent = ev.ID.String()
	_, err = f.counters.Delete(ctx, deleted.ID, nil)
	require.NoError(t, err)

	f.clock.Set(refNow.Add(-1 * time.Hour))
	ev, err = f.events.Step(ctx, uuid.MustParse(quoted.ID), businessflow.DirectionIncrement)
	require.NoError(t, err)
	quotedEvent = ev.ID.String()

	f.clock.Set(refNow)
	return orphanEvent, deletedEvent, quotedEvent
}

func TestExportFlow_ExportCSV(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		ctx := testingutil.CreateTestContext()

		t.Run("NothingToExport", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			f := newFlows(testDB)
			f.createCounter(t, "Unused", 0, 1)

			_, data, err := f.export.ExportCSV(ctx)
			require.Error(t, err)
			assert.True(t, businessflow.IsNothingToExport(err))
			assert.Nil(t, data)
		})

		t.Run("RowsInTimestampOrder", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			f := newFlows(testDB)
			orphanEvent, deletedEvent, quotedEvent := seedExport(t, f)

			filename, data, err := f.export.ExportCSV(ctx)
			require.NoError(t, err)
			assert.Equal(t, "tally-export-2026-10-14.csv", filename)

			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			assert.Equal(t, "Date,Time,Counter Name,Delta,Event ID", lines[0])
			assert.Contains(t, string(data), `"Tea, ""green"""`)

			records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
			require.NoError(t, err)
			require.Len(t, records, 4)

			assert.Equal(t, []string{"2026-10-14", "07:30:00", "Unknown", "1", orphanEvent}, records[1])
			assert.Equal(t, []string{"2026-10-14", "08:30:00", "Old habit", "-3", deletedEvent}, records[2])
			assert.Equal(t, []string{"2026-10-14", "09:30:00", `Tea, "green"`, "1", quotedEvent}, records[3])
		})

		return nil
	})
	require.NoError(t, err)
}

func TestExportFlow_ExportXLSX(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		ctx := testingutil.CreateTestContext()

		t.Run("NothingToExport", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			f := newFlows(testDB)

			_, _, err := f.export.ExportXLSX(ctx)
			require.Error(t, err)
			assert.True(t, businessflow.IsNothingToExport(err))
		})

		t.Run("SameRowsAsCSV", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			f := newFlows(testDB)
			_, _, quotedEvent := seedExport(t, f)

			filename, data, err := f.export.ExportXLSX(ctx)
			require.NoError(t, err)
			assert.Equal(t, "tally-export-2026-10-14.xlsx", filename)

			xl, err := excelize.OpenReader(bytes.NewReader(data))
			require.NoError(t, err)
			defer func() { _ = xl.Close() }()

			assert.Equal(t, []string{"Events"}, xl.GetSheetList())
			rows, err := xl.GetRows("Events")
			require.NoError(t, err)
			require.Len(t, rows, 4)
			assert.Equal(t, []string{"Date", "Time", "Counter Name", "Delta", "Event ID"}, rows[0])
			assert.Equal(t, "Unknown", rows[1][2])
			assert.Equal(t, []string{"2026-10-14", "09:30:00", `Tea, "green"`, "1", quotedEvent}, rows[3])
		})

		return nil
	})
	require.NoError(t, err)
}
