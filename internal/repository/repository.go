package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/pkg/discovery"
)

var (
	// ErrNotFound is returned when no row matches
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a unique key
	ErrDuplicate = errors.New("duplicate entry")
)

// ProfileRepository reads and writes the users table
type ProfileRepository interface {
	GetProfile(ctx context.Context, id domain.UserID) (*domain.UserProfile, error)
	InsertProfile(ctx context.Context, profile domain.UserProfile) error
	UpdateProfile(ctx context.Context, id domain.UserID, upd domain.ProfileUpdate) (*domain.UserProfile, error)
}

// PreferencesRepository reads and writes user_preferences
type PreferencesRepository interface {
	GetPreferences(ctx context.Context, id domain.UserID) (*domain.UserPreferences, error)
	InsertPreferences(ctx context.Context, prefs domain.UserPreferences) error
	UpdatePreferences(ctx context.Context, id domain.UserID, upd domain.PreferencesUpdate) (*domain.UserPreferences, error)
}

// CVAssetRepository manages cv_assets
type CVAssetRepository interface {
	// ListAssets returns newest first; an empty assetType means all types
	ListAssets(ctx context.Context, userID domain.UserID, assetType domain.CVAssetType) ([]domain.CVAsset, error)
	InsertAsset(ctx context.Context, asset domain.CVAsset) (*domain.CVAsset, error)
	UpdateAsset(ctx context.Context, id uuid.UUID, upd domain.CVAssetUpdate) (*domain.CVAsset, error)
	DeleteAsset(ctx context.Context, id uuid.UUID) error
}

// ApplicationRepository reads the joined application views
type ApplicationRepository interface {
	ListPending(ctx context.Context, userID domain.UserID) ([]domain.PendingApplication, error)
	ListHistory(ctx context.Context, userID domain.UserID) ([]domain.ApplicationRecord, error)
}

// CompanyRepository reads the companies table
type CompanyRepository interface {
	ListCompanies(ctx context.Context) ([]domain.Company, error)
}

// JobGraphRepository keeps recommended jobs and their skills as a graph
type JobGraphRepository interface {
	RecordRecommendations(ctx context.Context, userID domain.UserID, jobs []discovery.RankedJob) error
	// SkillGaps returns missing skills ordered by how many jobs mention them
	SkillGaps(ctx context.Context, userID domain.UserID, limit int) ([]domain.SkillGap, error)
}
