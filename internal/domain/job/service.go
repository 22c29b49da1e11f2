package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/repository"
	"github.com/honeycarbs/jobmatch/pkg/discovery"
	"github.com/honeycarbs/jobmatch/pkg/logging"
)

// ErrGraphDisabled is returned by graph-backed operations when no graph is configured
var ErrGraphDisabled = errors.New("job graph is not configured")

type Service interface {
	// Recommend fetches ranked jobs and records them for the user
	Recommend(ctx context.Context, userID domain.UserID, prefs discovery.UserPreferences, opts discovery.RecommendationOptions) ([]discovery.RankedJob, error)
	// DiscoverForUser searches every company the user has not excluded
	DiscoverForUser(ctx context.Context, userID domain.UserID, prefs discovery.UserPreferences, topK int) (*discovery.JobSearchBatchResult, error)
	// PreferencesFor builds search criteria from the user's stored preferences
	PreferencesFor(ctx context.Context, userID domain.UserID) discovery.UserPreferences
	// SkillGaps lists the skills most often missing across recorded recommendations
	SkillGaps(ctx context.Context, userID domain.UserID, limit int) ([]domain.SkillGap, error)
}

// Option configures Service
type Option func(*config)

type config struct {
	discovery Discoverer
	users     UserData
	graph     repository.JobGraphRepository
	logger    *logging.Logger
}

// WithDiscovery sets the discovery backend client
func WithDiscovery(d Discoverer) Option {
	return func(c *config) {
		c.discovery = d
	}
}

// WithUserData sets the source of companies and stored preferences
func WithUserData(u UserData) Option {
	return func(c *config) {
		c.users = u
	}
}

// WithGraph sets the optional job graph
func WithGraph(g repository.JobGraphRepository) Option {
	return func(c *config) {
		c.graph = g
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// NewService builds Service from options
func NewService(opts ...Option) (Service, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.discovery == nil {
		return nil, fmt.Errorf("job.Service: discovery client is required")
	}
	if cfg.users == nil {
		return nil, fmt.Errorf("job.Service: user data is required")
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}

	return &service{
		discovery: cfg.discovery,
		users:     cfg.users,
		graph:     cfg.graph,
		log:       cfg.logger.Named("job"),
	}, nil
}

// NewServiceWithDeps creates a Service with direct dependencies (Wire-compatible).
// graph may be nil.
func NewServiceWithDeps(d Discoverer, users UserData, graph repository.JobGraphRepository, logger *logging.Logger) (Service, error) {
	return NewService(
		WithDiscovery(d),
		WithUserData(users),
		WithGraph(graph),
		WithLogger(logger),
	)
}

type service struct {
	discovery Discoverer
	users     UserData
	graph     repository.JobGraphRepository
	log       *logging.Logger
}

func (s *service) Recommend(
	ctx context.Context,
	userID domain.UserID,
	prefs discovery.UserPreferences,
	opts discovery.RecommendationOptions,
) ([]discovery.RankedJob, error) {
	jobs, err := s.discovery.JobRecommendations(ctx, prefs, opts)
	if err != nil {
		return nil, err
	}

	if s.graph != nil && len(jobs) > 0 {
		if err := s.graph.RecordRecommendations(ctx, userID, jobs); err != nil {
			s.log.Warn("failed to record recommendations", "user_id", userID.String(), "count", len(jobs), "err", err)
		}
	}
	return jobs, nil
}

func (s *service) DiscoverForUser(
	ctx context.Context,
	userID domain.UserID,
	prefs discovery.UserPreferences,
	topK int,
) (*discovery.JobSearchBatchResult, error) {
	companies, err := s.users.GetFilteredCompanies(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("discover for user: %w", err)
	}

	targets := make([]discovery.Company, 0, len(companies))
	for _, c := range companies {
		if c.Name == "" {
			continue
		}
		targets = append(targets, discovery.Company{Name: c.Name, Website: c.Website})
	}
	if len(targets) == 0 {
		return &discovery.JobSearchBatchResult{
			TopMatches: []discovery.RankedJob{},
			Results:    []discovery.JobSearchResult{},
		}, nil
	}

	result, err := s.discovery.DiscoverJobs(ctx, targets, prefs, topK)
	if err != nil {
		return nil, err
	}

	if s.graph != nil && len(result.TopMatches) > 0 {
		if err := s.graph.RecordRecommendations(ctx, userID, result.TopMatches); err != nil {
			s.log.Warn("failed to record discovered jobs", "user_id", userID.String(), "err", err)
		}
	}
	return result, nil
}

func (s *service) PreferencesFor(ctx context.Context, userID domain.UserID) discovery.UserPreferences {
	return SearchPreferences(s.users.GetUserPreferences(ctx, userID))
}

func (s *service) SkillGaps(ctx context.Context, userID domain.UserID, limit int) ([]domain.SkillGap, error) {
	if s.graph == nil {
		return nil, ErrGraphDisabled
	}
	return s.graph.SkillGaps(ctx, userID, limit)
}

// SearchPreferences overlays stored preferences on the default search
// criteria. A nil row yields the defaults.
func SearchPreferences(stored *domain.UserPreferences) discovery.UserPreferences {
	prefs := discovery.DefaultUserPreferences()
	if stored == nil {
		return prefs
	}

	if len(stored.Skills) > 0 {
		prefs.Skills = append([]string(nil), stored.Skills...)
	}
	if len(stored.Locations) > 0 {
		prefs.PreferredLocations = append([]string(nil), stored.Locations...)
	}
	if stored.RemotePreference == domain.RemoteOnly && !contains(prefs.PreferredLocations, "Remote") {
		prefs.PreferredLocations = append(prefs.PreferredLocations, "Remote")
	}
	if len(stored.JobTypes) > 0 {
		prefs.JobTypes = append([]string(nil), stored.JobTypes...)
	}
	if stored.SalaryMin != nil {
		prefs.SalaryMin = *stored.SalaryMin
	}
	if stored.SalaryMax != nil {
		prefs.SalaryMax = *stored.SalaryMax
	}
	if len(stored.Industries) > 0 {
		prefs.IndustryPreference = append([]string(nil), stored.Industries...)
	}
	if len(stored.CompanySizes) > 0 {
		prefs.CompanySizePreference = append([]string(nil), stored.CompanySizes...)
	}
	return prefs
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
