package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobmatch/pkg/discovery"
	"github.com/honeycarbs/jobmatch/pkg/logging"
)

// DiscoveryClient is the job discovery backend surface the tools expose
type DiscoveryClient interface {
	SearchSingleCompany(ctx context.Context, name, website string, prefs discovery.UserPreferences, opts discovery.SearchOptions) (*discovery.JobSearchResult, error)
	AnalyzeJobFit(ctx context.Context, jobURL string, prefs discovery.UserPreferences) (discovery.Opaque, error)
	ServiceStats(ctx context.Context) (discovery.Opaque, error)
	ClearCache(ctx context.Context) error
	SearchHistory(ctx context.Context, limit int) ([]discovery.JobSearchResult, error)
	HealthCheck(ctx context.Context) (discovery.Opaque, error)
}

// SearchCompanyParams defines the arguments for the search_company tool
type SearchCompanyParams struct {
	Company     string                     `json:"company" jsonschema:"Company name"`
	Website     string                     `json:"website" jsonschema:"Company careers or home page"`
	UserID      string                     `json:"user_id,omitempty" jsonschema:"Use this user's stored preferences when preferences is omitted"`
	Preferences *discovery.UserPreferences `json:"preferences,omitempty" jsonschema:"Explicit search criteria"`
	TopK        int                        `json:"top_k,omitempty" jsonschema:"Maximum matches to return (default 10)"`
	UseCache    *bool                      `json:"use_cache,omitempty" jsonschema:"Allow cached backend results (default true)"`
}

// AnalyzeJobFitParams defines the arguments for the analyze_job_fit tool
type AnalyzeJobFitParams struct {
	JobURL      string                     `json:"job_url" jsonschema:"Posting URL to analyze"`
	UserID      string                     `json:"user_id,omitempty" jsonschema:"Use this user's stored preferences when preferences is omitted"`
	Preferences *discovery.UserPreferences `json:"preferences,omitempty" jsonschema:"Explicit search criteria"`
}

// SearchHistoryParams defines the arguments for the search_history tool
type SearchHistoryParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum entries; omitted or 0 lets the backend decide"`
}

// NoParams is the input of tools without arguments
type NoParams struct{}

type discoveryTools struct {
	client DiscoveryClient
	prefs  PreferenceSource
	logger *logging.Logger
}

// WithDiscoveryTools registers the backend pass-through tools. prefs may be nil.
func WithDiscoveryTools(client DiscoveryClient, prefs PreferenceSource) Option {
	return func(reg *registry) {
		if client == nil {
			reg.logger.Warn("discovery client not configured, discovery tools skipped")
			return
		}
		t := discoveryTools{client: client, prefs: prefs, logger: reg.logger}

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "search_company",
			Description: "Search one company's open positions and rank them against the candidate's preferences",
		}, t.searchCompany)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "analyze_job_fit",
			Description: "Analyze how well a single job posting fits the candidate",
		}, t.analyzeJobFit)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "discovery_stats",
			Description: "Report job discovery backend statistics",
		}, t.stats)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "clear_discovery_cache",
			Description: "Clear the job discovery backend's search cache",
		}, t.clearCache)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "search_history",
			Description: "List recent company searches performed by the backend",
		}, t.history)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "discovery_health",
			Description: "Check job discovery backend health",
		}, t.health)

		for _, n := range []string{"search_company", "analyze_job_fit", "discovery_stats", "clear_discovery_cache", "search_history", "discovery_health"} {
			reg.add(n)
		}
	}
}

func (t discoveryTools) searchCompany(ctx context.Context, _ *sdkmcp.CallToolRequest, params SearchCompanyParams) (*sdkmcp.CallToolResult, any, error) {
	if params.Company == "" {
		return nil, nil, fmt.Errorf("company is required")
	}
	prefs, err := resolvePreferences(ctx, t.prefs, params.Preferences, params.UserID)
	if err != nil {
		return nil, nil, err
	}

	res, err := t.client.SearchSingleCompany(ctx, params.Company, params.Website, prefs, discovery.SearchOptions{
		TopK:     params.TopK,
		UseCache: params.UseCache,
	})
	if err != nil {
		t.logger.Warn("search_company failed", "company", params.Company, "err", err)
		return nil, nil, fmt.Errorf("search company: %w", err)
	}

	msg := fmt.Sprintf("[search_company] %s: %d job(s) found, %d after filtering, %d top match(es)%s",
		res.Company, res.TotalJobsFound, res.JobsAfterFiltering, len(res.TopMatches), summarizeRanked(res.TopMatches, 10))
	return textResult(msg), res, nil
}

func (t discoveryTools) analyzeJobFit(ctx context.Context, _ *sdkmcp.CallToolRequest, params AnalyzeJobFitParams) (*sdkmcp.CallToolResult, any, error) {
	if params.JobURL == "" {
		return nil, nil, fmt.Errorf("job_url is required")
	}
	prefs, err := resolvePreferences(ctx, t.prefs, params.Preferences, params.UserID)
	if err != nil {
		return nil, nil, err
	}

	analysis, err := t.client.AnalyzeJobFit(ctx, params.JobURL, prefs)
	if err != nil {
		t.logger.Warn("analyze_job_fit failed", "job_url", params.JobURL, "err", err)
		return nil, nil, fmt.Errorf("analyze job fit: %w", err)
	}

	msg := fmt.Sprintf("[analyze_job_fit] analysis ready for %s", params.JobURL)
	if score, ok := analysis["overall_score"].(float64); ok {
		msg += ": " + discovery.FormatMatchScore(score)
	}
	return textResult(msg), analysis, nil
}

func (t discoveryTools) stats(ctx context.Context, _ *sdkmcp.CallToolRequest, _ NoParams) (*sdkmcp.CallToolResult, any, error) {
	stats, err := t.client.ServiceStats(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("discovery stats: %w", err)
	}
	return textResult(fmt.Sprintf("[discovery_stats] %d metric(s)", len(stats))), stats, nil
}

func (t discoveryTools) clearCache(ctx context.Context, _ *sdkmcp.CallToolRequest, _ NoParams) (*sdkmcp.CallToolResult, any, error) {
	if err := t.client.ClearCache(ctx); err != nil {
		return nil, nil, fmt.Errorf("clear cache: %w", err)
	}
	t.logger.Info("discovery cache cleared")
	return textResult("[clear_discovery_cache] cache cleared"), map[string]bool{"cleared": true}, nil
}

func (t discoveryTools) history(ctx context.Context, _ *sdkmcp.CallToolRequest, params SearchHistoryParams) (*sdkmcp.CallToolResult, any, error) {
	history, err := t.client.SearchHistory(ctx, params.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("search history: %w", err)
	}
	return textResult(fmt.Sprintf("[search_history] %d search(es)", len(history))), map[string]any{"history": history}, nil
}

func (t discoveryTools) health(ctx context.Context, _ *sdkmcp.CallToolRequest, _ NoParams) (*sdkmcp.CallToolResult, any, error) {
	health, err := t.client.HealthCheck(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("discovery health: %w", err)
	}
	status, _ := health["status"].(string)
	if status == "" {
		status = "ok"
	}
	return textResult("[discovery_health] " + status), health, nil
}
