package job

import (
	"context"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/pkg/discovery"
)

// Discoverer is the part of the discovery backend client the service uses
type Discoverer interface {
	DiscoverJobs(ctx context.Context, companies []discovery.Company, prefs discovery.UserPreferences, topK int) (*discovery.JobSearchBatchResult, error)
	JobRecommendations(ctx context.Context, prefs discovery.UserPreferences, opts discovery.RecommendationOptions) ([]discovery.RankedJob, error)
}

// UserData supplies per-user company filters and stored preferences
type UserData interface {
	GetFilteredCompanies(ctx context.Context, id domain.UserID) ([]domain.Company, error)
	GetUserPreferences(ctx context.Context, id domain.UserID) *domain.UserPreferences
}
