package utils

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Export constants
const (
	// ExportFilePrefix starts every export file name
	ExportFilePrefix = "tally-export-"

	// CSVContentType is the media type of CSV exports
	CSVContentType = "text/csv; charset=utf-8"

	// XLSXContentType is the media type of workbook exports
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type contextKey string

// RequestIDKey is the context key carrying the request ID
const RequestIDKey contextKey = "request_id"
