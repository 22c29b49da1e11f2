package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobmatch/internal/domain/job"
	"github.com/honeycarbs/jobmatch/pkg/discovery"
	"github.com/honeycarbs/jobmatch/pkg/logging"
)

// BatchDiscoverer runs explicit multi-company searches
type BatchDiscoverer interface {
	DiscoverJobs(ctx context.Context, companies []discovery.Company, prefs discovery.UserPreferences, topK int) (*discovery.JobSearchBatchResult, error)
}

// DiscoverJobsParams defines the arguments for the discover_jobs tool
type DiscoverJobsParams struct {
	Companies   []discovery.Company        `json:"companies,omitempty" jsonschema:"Companies to search; omitted means every company the user has not excluded"`
	UserID      string                     `json:"user_id,omitempty" jsonschema:"Authenticated user UUID"`
	Preferences *discovery.UserPreferences `json:"preferences,omitempty" jsonschema:"Explicit search criteria"`
	TopK        int                        `json:"top_k,omitempty" jsonschema:"Top matches per company (default 5)"`
}

// JobRecommendationsParams defines the arguments for the job_recommendations tool
type JobRecommendationsParams struct {
	UserID          string                     `json:"user_id" jsonschema:"Authenticated user UUID"`
	Preferences     *discovery.UserPreferences `json:"preferences,omitempty" jsonschema:"Explicit search criteria"`
	TargetCompanies []discovery.Company        `json:"target_companies,omitempty" jsonschema:"Restrict recommendations to these companies"`
	MinScore        *float64                   `json:"min_score,omitempty" jsonschema:"Minimum overall match score (default 70)"`
	MaxCount        int                        `json:"max_count,omitempty" jsonschema:"Maximum recommendations (default 20)"`
}

// SkillGapsParams defines the arguments for the skill_gaps tool
type SkillGapsParams struct {
	UserID string `json:"user_id" jsonschema:"Authenticated user UUID"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum skills to return (default 10)"`
}

type jobTools struct {
	jobs   job.Service
	batch  BatchDiscoverer
	logger *logging.Logger
}

// WithJobTools registers discovery tools that need user context
func WithJobTools(jobs job.Service, batch BatchDiscoverer) Option {
	return func(reg *registry) {
		if jobs == nil || batch == nil {
			reg.logger.Warn("job service not configured, job tools skipped")
			return
		}
		t := jobTools{jobs: jobs, batch: batch, logger: reg.logger}

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "discover_jobs",
			Description: "Search several companies at once and rank their open positions for the candidate",
		}, t.discover)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "job_recommendations",
			Description: "Get ranked job recommendations for a user and remember them for skill gap analysis",
		}, t.recommend)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "skill_gaps",
			Description: "List skills the user most often lacks across recommended jobs",
		}, t.skillGaps)

		reg.add("discover_jobs")
		reg.add("job_recommendations")
		reg.add("skill_gaps")
	}
}

func (t jobTools) discover(ctx context.Context, _ *sdkmcp.CallToolRequest, params DiscoverJobsParams) (*sdkmcp.CallToolResult, any, error) {
	prefs, err := resolvePreferences(ctx, t.jobs, params.Preferences, params.UserID)
	if err != nil {
		return nil, nil, err
	}

	var res *discovery.JobSearchBatchResult
	switch {
	case len(params.Companies) > 0:
		res, err = t.batch.DiscoverJobs(ctx, params.Companies, prefs, params.TopK)
	case strings.TrimSpace(params.UserID) != "":
		id, perr := parseUserID(params.UserID)
		if perr != nil {
			return nil, nil, perr
		}
		res, err = t.jobs.DiscoverForUser(ctx, id, prefs, params.TopK)
	default:
		return nil, nil, fmt.Errorf("companies or user_id is required")
	}
	if err != nil {
		t.logger.Warn("discover_jobs failed", "companies", len(params.Companies), "err", err)
		return nil, nil, fmt.Errorf("discover jobs: %w", err)
	}

	msg := fmt.Sprintf("[discover_jobs] %d/%d companies searched, %d job(s) found%s",
		res.SuccessfulSearches, res.TotalCompanies, res.TotalJobsFound, summarizeRanked(res.TopMatches, 10))
	for company, reason := range res.Errors {
		msg += fmt.Sprintf("\n! %s: %s", company, reason)
	}
	return textResult(msg), res, nil
}

func (t jobTools) recommend(ctx context.Context, _ *sdkmcp.CallToolRequest, params JobRecommendationsParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseUserID(params.UserID)
	if err != nil {
		return nil, nil, err
	}
	prefs, err := resolvePreferences(ctx, t.jobs, params.Preferences, params.UserID)
	if err != nil {
		return nil, nil, err
	}

	jobs, err := t.jobs.Recommend(ctx, id, prefs, discovery.RecommendationOptions{
		TargetCompanies: params.TargetCompanies,
		MinScore:        params.MinScore,
		MaxCount:        params.MaxCount,
	})
	if err != nil {
		t.logger.Warn("job_recommendations failed", "user_id", id.String(), "err", err)
		return nil, nil, fmt.Errorf("job recommendations: %w", err)
	}

	msg := fmt.Sprintf("[job_recommendations] %d recommendation(s)%s", len(jobs), summarizeRanked(jobs, 10))
	return textResult(msg), map[string]any{"recommendations": jobs}, nil
}

func (t jobTools) skillGaps(ctx context.Context, _ *sdkmcp.CallToolRequest, params SkillGapsParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseUserID(params.UserID)
	if err != nil {
		return nil, nil, err
	}

	gaps, err := t.jobs.SkillGaps(ctx, id, params.Limit)
	if errors.Is(err, job.ErrGraphDisabled) {
		return nil, nil, fmt.Errorf("skill gaps need the job graph (set NEO4J_URI)")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("skill gaps: %w", err)
	}

	msg := fmt.Sprintf("[skill_gaps] %d skill(s)", len(gaps))
	for _, g := range gaps {
		msg += fmt.Sprintf("\n• %s (%d job(s))", g.Skill, g.Jobs)
	}
	return textResult(msg), map[string]any{"skill_gaps": gaps}, nil
}
