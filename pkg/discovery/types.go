package discovery

import (
	"encoding/json"
	"net/http"
	"time"
)

// Config defines job discovery backend client settings
type Config struct {
	BaseURL    string // scheme and host, e.g. http://localhost:8000
	BasePath   string // default /api/gemini
	HTTPClient *http.Client
	Timeout    time.Duration // ignored when HTTPClient is set
}

// Client calls the job discovery backend
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// UserPreferences are the search criteria sent with every matching request
type UserPreferences struct {
	Skills                []string `json:"skills"`
	ExperienceLevel       string   `json:"experience_level"`
	YearsOfExperience     int      `json:"years_of_experience"`
	DesiredRoles          []string `json:"desired_roles"`
	PreferredLocations    []string `json:"preferred_locations"`
	JobTypes              []string `json:"job_types"`
	SalaryMin             int      `json:"salary_min,omitempty"`
	SalaryMax             int      `json:"salary_max,omitempty"`
	SalaryCurrency        string   `json:"salary_currency,omitempty"`
	CompanySizePreference []string `json:"company_size_preference,omitempty"`
	IndustryPreference    []string `json:"industry_preference,omitempty"`

	SkillWeight      float64 `json:"skill_weight"`
	ExperienceWeight float64 `json:"experience_weight"`
	LocationWeight   float64 `json:"location_weight"`
	SalaryWeight     float64 `json:"salary_weight"`
	CompanyWeight    float64 `json:"company_weight"`
}

// Company is a target employer to search
type Company struct {
	Name    string `json:"name"`
	Website string `json:"website"`
}

// JobListing is a posting discovered by the backend
type JobListing struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	JobType          string   `json:"job_type,omitempty"`
	Remote           bool     `json:"remote,omitempty"`
	SkillsRequired   []string `json:"skills_required"`
	SkillsNiceToHave []string `json:"skills_nice_to_have,omitempty"`
	SalaryMin        *float64 `json:"salary_min,omitempty"`
	SalaryMax        *float64 `json:"salary_max,omitempty"`
	SalaryCurrency   string   `json:"salary_currency,omitempty"`
	Description      string   `json:"description"`
	URL              string   `json:"url"`
	Source           string   `json:"source"`
	PostedDate       string   `json:"posted_date,omitempty"`
	ScrapedAt        string   `json:"scraped_at,omitempty"`
}

// RankedJob is a listing with the backend's match metrics
type RankedJob struct {
	Job                  JobListing `json:"job"`
	OverallScore         float64    `json:"overall_score"`
	SkillMatchScore      float64    `json:"skill_match_score"`
	ExperienceMatchScore float64    `json:"experience_match_score"`
	LocationMatchScore   float64    `json:"location_match_score"`
	SalaryMatchScore     float64    `json:"salary_match_score"`
	CompanyMatchScore    float64    `json:"company_match_score"`
	Explanation          string     `json:"explanation"`
	MatchingSkills       []string   `json:"matching_skills"`
	MissingSkills        []string   `json:"missing_skills"`
	Recommendation       string     `json:"recommendation"`
	RankingVersion       string     `json:"ranking_version,omitempty"`
}

// JobSearchResult is the outcome of searching one company
type JobSearchResult struct {
	Company            string      `json:"company"`
	Website            string      `json:"website,omitempty"`
	TotalJobsFound     int         `json:"total_jobs_found"`
	JobsAfterFiltering int         `json:"jobs_after_filtering"`
	TopMatches         []RankedJob `json:"top_matches"`
	SearchDurationMs   float64     `json:"search_duration_ms"`
	FromCache          bool        `json:"from_cache"`
	SearchedAt         string      `json:"searched_at,omitempty"`
}

// JobSearchBatchResult aggregates a multi-company search
type JobSearchBatchResult struct {
	TotalCompanies     int               `json:"total_companies"`
	SuccessfulSearches int               `json:"successful_searches"`
	FailedSearches     int               `json:"failed_searches"`
	TotalJobsFound     int               `json:"total_jobs_found"`
	TotalDurationMs    float64           `json:"total_duration_ms"`
	TopMatches         []RankedJob       `json:"top_matches"`
	Results            []JobSearchResult `json:"results"`
	Errors             map[string]string `json:"errors,omitempty"`
}

// Opaque holds payloads the client does not interpret (stats, health, fit analysis)
type Opaque = map[string]any

// SearchOptions tunes SearchSingleCompany
type SearchOptions struct {
	TopK     int   // default 10
	UseCache *bool // default true
}

// RecommendationOptions tunes JobRecommendations
type RecommendationOptions struct {
	TargetCompanies []Company
	MinScore        *float64 // nil means 70; 0 returns every match
	MaxCount        int      // default 20
}

// Envelope is the uniform wrapper every backend response uses
type Envelope struct {
	Status    string          `json:"status"`
	Message   string          `json:"message,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp"`
}

type searchJobsRequest struct {
	Companies       []Company       `json:"companies"`
	UserPreferences UserPreferences `json:"user_preferences"`
	TopK            int             `json:"top_k"`
	EnableCaching   bool            `json:"enable_caching"`
}

type searchSingleCompanyRequest struct {
	Company         string          `json:"company"`
	Website         string          `json:"website"`
	UserPreferences UserPreferences `json:"user_preferences"`
	TopK            int             `json:"top_k"`
	UseCache        bool            `json:"use_cache"`
}

type analyzeJobFitRequest struct {
	JobURL          string          `json:"job_url"`
	UserPreferences UserPreferences `json:"user_preferences"`
}

type recommendationsRequest struct {
	UserPreferences    UserPreferences `json:"user_preferences"`
	TargetCompanies    []Company       `json:"target_companies,omitempty"`
	MinMatchScore      float64         `json:"min_match_score"`
	MaxRecommendations int             `json:"max_recommendations"`
}

type recommendationsPayload struct {
	Recommendations []RankedJob `json:"recommendations"`
}

type historyPayload struct {
	History []JobSearchResult `json:"history"`
}
