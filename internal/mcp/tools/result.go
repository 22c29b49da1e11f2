package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/pkg/discovery"
)

// textResult returns a text-only ToolResult
func textResult(msg string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: msg},
		},
	}
}

// parseUserID validates a user_id argument
func parseUserID(raw string) (domain.UserID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("user_id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("user_id %q is not a valid UUID", raw)
	}
	return id, nil
}

// PreferenceSource derives search criteria from a user's stored preferences
type PreferenceSource interface {
	PreferencesFor(ctx context.Context, id domain.UserID) discovery.UserPreferences
}

// resolvePreferences picks explicit criteria first, then the user's stored
// preferences, then the defaults
func resolvePreferences(ctx context.Context, src PreferenceSource, explicit *discovery.UserPreferences, rawUserID string) (discovery.UserPreferences, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if strings.TrimSpace(rawUserID) != "" && src != nil {
		id, err := parseUserID(rawUserID)
		if err != nil {
			return discovery.UserPreferences{}, err
		}
		return src.PreferencesFor(ctx, id), nil
	}
	return discovery.DefaultUserPreferences(), nil
}

// summarizeRanked renders one line per ranked job
func summarizeRanked(jobs []discovery.RankedJob, limit int) string {
	var b strings.Builder
	for i, rj := range jobs {
		if limit > 0 && i == limit {
			fmt.Fprintf(&b, "\n… and %d more", len(jobs)-limit)
			break
		}
		fmt.Fprintf(&b, "\n• %s at %s: %s", rj.Job.Title, rj.Job.Company, discovery.FormatMatchScore(rj.OverallScore))
	}
	return b.String()
}
