package handlers

import (
	businessflow "github.com/amirphl/tallybook/business_flow"
	"github.com/amirphl/tallybook/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// ExportHandlerInterface defines the contract for export handlers
type ExportHandlerInterface interface {
	CSV(c fiber.Ctx) error
	XLSX(c fiber.Ctx) error
}

// ExportHandler serves the event ledger as a download
type ExportHandler struct {
	baseHandler
	flow businessflow.ExportFlow
}

// NewExportHandler creates a new export handler
func NewExportHandler(flow businessflow.ExportFlow, logger *logrus.Logger) *ExportHandler {
	return &ExportHandler{baseHandler: newBaseHandler(logger), flow: flow}
}

// CSV downloads every event as CSV
// @Summary Export CSV
// @Tags Export
// @Produce text/csv
// @Success 200 {string} string "CSV file"
// @Failure 404 {object} dto.APIResponse "No events"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) CSV(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	filename, data, err := h.flow.ExportCSV(ctx)
	if err != nil {
		return h.flowError(c, err, "Failed to generate CSV", "EXPORT_FAILED")
	}
	c.Set("Content-Type", utils.CSVContentType)
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}

// XLSX downloads every event as an Excel workbook
// @Summary Export Excel
// @Tags Export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {string} string "Excel file"
// @Failure 404 {object} dto.APIResponse "No events"
// @Router /api/v1/export/xlsx [get]
func (h *ExportHandler) XLSX(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	filename, data, err := h.flow.ExportXLSX(ctx)
	if err != nil {
		return h.flowError(c, err, "Failed to generate Excel file", "EXPORT_FAILED")
	}
	c.Set("Content-Type", utils.XLSXContentType)
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}
