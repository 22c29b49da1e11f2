// Package export writes a user's application pipeline to Google Sheets.
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/pkg/logging"
)

const defaultTab = "Applications"

// Header is the first row written to an empty or cleared tab
var Header = []any{"Title", "Company", "Location", "URL", "Status", "Color", "Notes", "Submitted At"}

// statusColors maps pipeline status to a row highlight
var statusColors = map[string]string{
	"submitted":    "#3B82F6",
	"applied":      "#3B82F6",
	"interviewing": "#F59E0B",
	"offer":        "#10B981",
	"accepted":     "#10B981",
	"rejected":     "#EF4444",
	"withdrawn":    "#9CA3AF",
}

// SheetWriter is the part of the Sheets client the exporter uses
type SheetWriter interface {
	Append(ctx context.Context, spreadsheetID, a1Range string, rows [][]any) error
	Update(ctx context.Context, spreadsheetID, a1Range string, rows [][]any) error
	Clear(ctx context.Context, spreadsheetID, a1Range string) error
}

// HistorySource lists submitted applications
type HistorySource interface {
	GetApplicationHistory(ctx context.Context, id domain.UserID) []domain.ApplicationRecord
}

// SheetTarget selects the destination spreadsheet and tab
type SheetTarget struct {
	SpreadsheetID string
	Tab           string
	// ClearTab rewrites the tab from the header down instead of appending
	ClearTab bool
}

// Result summarizes an export
type Result struct {
	SpreadsheetID string    `json:"spreadsheet_id"`
	Tab           string    `json:"tab"`
	WrittenRows   int       `json:"written_rows"`
	Mode          string    `json:"mode"`
	CompletedAt   time.Time `json:"completed_at"`
}

// ApplicationExporter copies application history into a sheet
type ApplicationExporter struct {
	writer             SheetWriter
	history            HistorySource
	defaultSpreadsheet string
	log                *logging.Logger
	now                func() time.Time
}

// NewApplicationExporter creates an exporter; defaultSpreadsheet is used when
// a target leaves SpreadsheetID empty
func NewApplicationExporter(writer SheetWriter, history HistorySource, defaultSpreadsheet string, logger *logging.Logger) *ApplicationExporter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ApplicationExporter{
		writer:             writer,
		history:            history,
		defaultSpreadsheet: defaultSpreadsheet,
		log:                logger.Named("export"),
		now:                time.Now,
	}
}

// Export writes the user's application history to target
func (e *ApplicationExporter) Export(ctx context.Context, userID domain.UserID, target SheetTarget) (Result, error) {
	if target.SpreadsheetID == "" {
		target.SpreadsheetID = e.defaultSpreadsheet
	}
	if target.SpreadsheetID == "" {
		return Result{}, fmt.Errorf("export: spreadsheet id is required")
	}
	if target.Tab == "" {
		target.Tab = defaultTab
	}

	records := e.history.GetApplicationHistory(ctx, userID)
	rows := Rows(records)

	res := Result{SpreadsheetID: target.SpreadsheetID, Tab: target.Tab, Mode: "append"}

	if target.ClearTab {
		res.Mode = "rewrite"
		if err := e.writer.Clear(ctx, target.SpreadsheetID, target.Tab+"!A:Z"); err != nil {
			return res, fmt.Errorf("export: %w", err)
		}
		values := append([][]any{Header}, rows...)
		if err := e.writer.Update(ctx, target.SpreadsheetID, target.Tab+"!A1", values); err != nil {
			return res, fmt.Errorf("export: %w", err)
		}
	} else if len(rows) > 0 {
		if err := e.writer.Append(ctx, target.SpreadsheetID, target.Tab+"!A1", rows); err != nil {
			return res, fmt.Errorf("export: %w", err)
		}
	}

	res.WrittenRows = len(rows)
	res.CompletedAt = e.now().UTC()
	e.log.Info("applications exported",
		"user_id", userID.String(),
		"spreadsheet_id", target.SpreadsheetID,
		"tab", target.Tab,
		"rows", res.WrittenRows,
		"mode", res.Mode,
	)
	return res, nil
}

// Rows renders application records as sheet rows in Header order
func Rows(records []domain.ApplicationRecord) [][]any {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		submitted := ""
		if !r.SubmittedAt.IsZero() {
			submitted = r.SubmittedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, []any{
			r.Job.Title,
			r.Company.Name,
			r.Job.Location,
			r.Job.URL,
			r.Status,
			StatusColor(r.Status),
			r.Notes,
			submitted,
		})
	}
	return rows
}

// StatusColor returns the highlight for a pipeline status, empty when unknown
func StatusColor(status string) string {
	return statusColors[strings.ToLower(strings.TrimSpace(status))]
}
