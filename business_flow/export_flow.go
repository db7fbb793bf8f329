package businessflow

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	"github.com/amirphl/tallybook/config"
	"github.com/amirphl/tallybook/models"
	"github.com/amirphl/tallybook/repository"
	"github.com/amirphl/tallybook/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheetName   = "Events"
	exportUnknownName = "Unknown"
	exportTimeLayout  = "15:04:05"
)

var exportHeader = []string{"Date", "Time", "Counter Name", "Delta", "Event ID"}

// ExportFlow writes the whole event ledger as a file
type ExportFlow interface {
	ExportCSV(ctx context.Context) (string, []byte, error)
	ExportXLSX(ctx context.Context) (string, []byte, error)
}

// ExportFlowImpl implements ExportFlow
type ExportFlowImpl struct {
	counterRepo repository.CounterRepository
	eventRepo   repository.EventRepository
	clock       Clock
	location    *time.Location
	logger      *logrus.Logger
}

func NewExportFlow(counterRepo repository.CounterRepository, eventRepo repository.EventRepository, clock Clock, location *time.Location, logger *logrus.Logger) ExportFlow {
	if location == nil {
		location = time.Local
	}
	return &ExportFlowImpl{
		counterRepo: counterRepo,
		eventRepo:   eventRepo,
		clock:       orDefaultClock(clock),
		location:    location,
		logger:      orDefaultLogger(logger),
	}
}

// ExportCSV returns one row per event in timestamp order.
// Fields holding a comma, quote or line break are quoted with inner quotes doubled.
func (f *ExportFlowImpl) ExportCSV(ctx context.Context) (string, []byte, error) {
	records, err := f.records(ctx)
	if err != nil {
		return "", nil, err
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(exportHeader); err != nil {
		return "", nil, NewBusinessError("CSV_WRITE_ERROR", "Failed to write CSV header", err)
	}
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return "", nil, NewBusinessError("CSV_WRITE_ERROR", "Failed to write CSV row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, NewBusinessError("CSV_WRITE_ERROR", "Failed to flush CSV", err)
	}

	exportsTotal.WithLabelValues("csv").Inc()
	return f.filename("csv"), buf.Bytes(), nil
}

// ExportXLSX returns the same rows as ExportCSV in a workbook with a single sheet
func (f *ExportFlowImpl) ExportXLSX(ctx context.Context) (string, []byte, error) {
	records, err := f.records(ctx)
	if err != nil {
		return "", nil, err
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := xl.SetSheetName(xl.GetSheetName(0), exportSheetName); err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to name sheet", err)
	}
	header := exportHeader
	if err := xl.SetSheetRow(exportSheetName, "A1", &header); err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write header", err)
	}
	for i, record := range records {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to address row", err)
		}
		if err := xl.SetSheetRow(exportSheetName, cellRef, &record); err != nil {
			return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write row", err)
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	exportsTotal.WithLabelValues("xlsx").Inc()
	return f.filename("xlsx"), buf.Bytes(), nil
}

// records builds the export rows; deleted counters keep their names
func (f *ExportFlowImpl) records(ctx context.Context) ([][]string, error) {
	events, err := f.eventRepo.All(ctx)
	if err != nil {
		config.LogError(f.logger, "ExportFlow", "records", "events", nil, err)
		return nil, NewBusinessError("EXPORT_EVENTS_FAILED", "Failed to read events", err)
	}
	if len(events) == 0 {
		return nil, NewBusinessError("NOTHING_TO_EXPORT", "There are no events to export", ErrNothingToExport)
	}

	counters, err := f.counterRepo.All(ctx)
	if err != nil {
		config.LogError(f.logger, "ExportFlow", "records", "counters", nil, err)
		return nil, NewBusinessError("EXPORT_COUNTERS_FAILED", "Failed to read counters", err)
	}
	names := make(map[uuid.UUID]string, len(counters))
	for _, c := range counters {
		names[c.ID] = c.Name
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	records := make([][]string, 0, len(events))
	for _, ev := range events {
		records = append(records, f.record(ev, names))
	}
	return records, nil
}

func (f *ExportFlowImpl) record(ev *models.Event, names map[uuid.UUID]string) []string {
	name, ok := names[ev.CounterID]
	if !ok {
		name = exportUnknownName
	}
	local := ev.Timestamp.In(f.location)
	return []string{
		local.Format(models.DateLayout),
		local.Format(exportTimeLayout),
		name,
		ev.Delta.String(),
		ev.ID.String(),
	}
}

func (f *ExportFlowImpl) filename(ext string) string {
	return fmt.Sprintf("%s%s.%s", utils.ExportFilePrefix, f.clock().In(f.location).Format(models.DateLayout), ext)
}
