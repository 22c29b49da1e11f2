package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserID identifies a user across every table
type UserID = uuid.UUID

// RemotePreference enumerates the accepted remote_preference values
type RemotePreference string

const (
	RemoteOnly   RemotePreference = "remote"
	RemoteHybrid RemotePreference = "hybrid"
	RemoteOnsite RemotePreference = "onsite"
	RemoteAny    RemotePreference = "any"
)

// CVAssetType enumerates portfolio artifact kinds
type CVAssetType string

const (
	AssetResume      CVAssetType = "resume"
	AssetCoverLetter CVAssetType = "cover_letter"
	AssetPortfolio   CVAssetType = "portfolio"
	AssetCertificate CVAssetType = "certificate"
	AssetProject     CVAssetType = "project"
)

// AuthUser is the identity handed over after sign-in
type AuthUser struct {
	ID       UserID
	Email    string
	Metadata map[string]any
}

// UserProfile is a row of the users table
type UserProfile struct {
	ID               UserID    `json:"id"`
	Email            string    `json:"email"`
	FullName         string    `json:"full_name,omitempty"`
	GitHubUsername   string    `json:"github_username,omitempty"`
	LinkedInUsername string    `json:"linkedin_username,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProfileUpdate carries the profile fields to change; nil means unchanged
type ProfileUpdate struct {
	FullName         *string `json:"full_name,omitempty"`
	GitHubUsername   *string `json:"github_username,omitempty"`
	LinkedInUsername *string `json:"linkedin_username,omitempty"`
}

// Empty reports whether the update changes nothing
func (u ProfileUpdate) Empty() bool {
	return u.FullName == nil && u.GitHubUsername == nil && u.LinkedInUsername == nil
}

// UserPreferences is the stored user_preferences row
type UserPreferences struct {
	UserID            UserID           `json:"user_id"`
	Locations         []string         `json:"locations"`
	RemotePreference  RemotePreference `json:"remote_preference"`
	JobTypes          []string         `json:"job_types"`
	SalaryMin         *int             `json:"salary_min"`
	SalaryMax         *int             `json:"salary_max"`
	Industries        []string         `json:"industries"`
	CompanySizes      []string         `json:"company_sizes"`
	Skills            []string         `json:"skills"`
	ExcludedCompanies []string         `json:"excluded_companies"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// DefaultPreferences is the neutral row created for a new user
func DefaultPreferences(userID UserID) UserPreferences {
	return UserPreferences{
		UserID:            userID,
		Locations:         []string{},
		RemotePreference:  RemoteAny,
		JobTypes:          []string{"full-time"},
		Industries:        []string{},
		CompanySizes:      []string{},
		Skills:            []string{},
		ExcludedCompanies: []string{},
	}
}

// IsExcluded reports whether companyID is in the exclusion set
func (p UserPreferences) IsExcluded(companyID string) bool {
	for _, id := range p.ExcludedCompanies {
		if id == companyID {
			return true
		}
	}
	return false
}

// PreferencesUpdate carries the preference fields to change; nil means unchanged
type PreferencesUpdate struct {
	Locations         *[]string         `json:"locations,omitempty"`
	RemotePreference  *RemotePreference `json:"remote_preference,omitempty"`
	JobTypes          *[]string         `json:"job_types,omitempty"`
	SalaryMin         *int              `json:"salary_min,omitempty"`
	SalaryMax         *int              `json:"salary_max,omitempty"`
	Industries        *[]string         `json:"industries,omitempty"`
	CompanySizes      *[]string         `json:"company_sizes,omitempty"`
	Skills            *[]string         `json:"skills,omitempty"`
	ExcludedCompanies *[]string         `json:"excluded_companies,omitempty"`
}

// CVAsset is a user-owned portfolio or CV artifact
type CVAsset struct {
	ID          uuid.UUID      `json:"id"`
	UserID      UserID         `json:"user_id"`
	Type        CVAssetType    `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Tags        []string       `json:"tags"`
	ExternalURL string         `json:"external_url,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// CVAssetUpdate carries the asset fields to change; nil means unchanged
type CVAssetUpdate struct {
	Type        *CVAssetType    `json:"type,omitempty"`
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Metadata    *map[string]any `json:"metadata,omitempty"`
	Tags        *[]string       `json:"tags,omitempty"`
	ExternalURL *string         `json:"external_url,omitempty"`
}

// Company is a row of the companies table
type Company struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Website  string `json:"website,omitempty"`
	Industry string `json:"industry,omitempty"`
	Size     string `json:"size,omitempty"`
}

// JobListingRef is the job_listings projection joined into application views
type JobListingRef struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location,omitempty"`
	URL      string `json:"url,omitempty"`
}

// PendingApplication joins pending_applications with its listing and company
type PendingApplication struct {
	ID           string        `json:"id"`
	UserID       UserID        `json:"user_id"`
	JobListingID string        `json:"job_listing_id"`
	Status       string        `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	Job          JobListingRef `json:"job"`
	Company      Company       `json:"company"`
}

// ApplicationRecord joins application_history with its listing and company
type ApplicationRecord struct {
	ID           string        `json:"id"`
	UserID       UserID        `json:"user_id"`
	JobListingID string        `json:"job_listing_id"`
	Status       string        `json:"status"`
	Notes        string        `json:"notes,omitempty"`
	SubmittedAt  time.Time     `json:"submitted_at"`
	Job          JobListingRef `json:"job"`
	Company      Company       `json:"company"`
}

// SkillGap is a skill the user repeatedly lacks across recommended jobs
type SkillGap struct {
	Skill string `json:"skill"`
	Jobs  int    `json:"jobs"`
}
