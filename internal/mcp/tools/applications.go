package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/export"
)

// ApplicationService reads application tracking data
type ApplicationService interface {
	GetPendingApplications(ctx context.Context, id domain.UserID) []domain.PendingApplication
	GetApplicationHistory(ctx context.Context, id domain.UserID) []domain.ApplicationRecord
}

// Exporter copies a user's application history to a spreadsheet
type Exporter interface {
	Export(ctx context.Context, userID domain.UserID, target export.SheetTarget) (export.Result, error)
}

// ExportApplicationsParams defines the arguments for the export_applications tool
type ExportApplicationsParams struct {
	UserID        string `json:"user_id" jsonschema:"Authenticated user UUID"`
	SpreadsheetID string `json:"spreadsheet_id,omitempty" jsonschema:"Target spreadsheet; defaults to SHEETS_SPREADSHEET_ID"`
	Tab           string `json:"tab,omitempty" jsonschema:"Target tab (default Applications)"`
	ClearTab      bool   `json:"clear_tab,omitempty" jsonschema:"Rewrite the tab instead of appending"`
}

type applicationTools struct {
	apps     ApplicationService
	exporter Exporter
}

// WithApplicationTools registers the application tracking tools.
// export_applications is only registered when exporter is set.
func WithApplicationTools(apps ApplicationService, exporter Exporter) Option {
	return func(reg *registry) {
		if apps == nil {
			reg.logger.Warn("application service not configured, application tools skipped")
			return
		}
		t := applicationTools{apps: apps, exporter: exporter}

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "pending_applications",
			Description: "List applications the user has queued but not yet submitted",
		}, t.pending)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "application_history",
			Description: "List submitted applications, newest first",
		}, t.history)
		reg.add("pending_applications")
		reg.add("application_history")

		if exporter == nil {
			reg.logger.Info("sheets export disabled, export_applications skipped")
			return
		}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "export_applications",
			Description: "Export the user's application history to Google Sheets",
		}, t.export)
		reg.add("export_applications")
	}
}

func (t applicationTools) pending(ctx context.Context, _ *sdkmcp.CallToolRequest, params UserParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseUserID(params.UserID)
	if err != nil {
		return nil, nil, err
	}
	apps := t.apps.GetPendingApplications(ctx, id)

	msg := fmt.Sprintf("[pending_applications] %d pending", len(apps))
	for _, a := range apps {
		msg += fmt.Sprintf("\n• %s at %s (%s)", a.Job.Title, a.Company.Name, a.Status)
	}
	return textResult(msg), map[string]any{"applications": apps}, nil
}

func (t applicationTools) history(ctx context.Context, _ *sdkmcp.CallToolRequest, params UserParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseUserID(params.UserID)
	if err != nil {
		return nil, nil, err
	}
	records := t.apps.GetApplicationHistory(ctx, id)

	msg := fmt.Sprintf("[application_history] %d application(s)", len(records))
	for _, r := range records {
		msg += fmt.Sprintf("\n• %s at %s: %s", r.Job.Title, r.Company.Name, r.Status)
	}
	return textResult(msg), map[string]any{"applications": records}, nil
}

func (t applicationTools) export(ctx context.Context, _ *sdkmcp.CallToolRequest, params ExportApplicationsParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseUserID(params.UserID)
	if err != nil {
		return nil, nil, err
	}
	res, err := t.exporter.Export(ctx, id, export.SheetTarget{
		SpreadsheetID: params.SpreadsheetID,
		Tab:           params.Tab,
		ClearTab:      params.ClearTab,
	})
	if err != nil {
		return nil, nil, err
	}
	msg := fmt.Sprintf("[export_applications] %d row(s) written to %s!%s (%s)", res.WrittenRows, res.SpreadsheetID, res.Tab, res.Mode)
	return textResult(msg), res, nil
}
