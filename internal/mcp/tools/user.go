package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobmatch/internal/domain"
)

// UserService is the user data surface behind the profile and preference tools
type UserService interface {
	InitializeUserData(ctx context.Context, user domain.AuthUser)
	GetUserProfile(ctx context.Context, id domain.UserID) *domain.UserProfile
	UpdateUserProfile(ctx context.Context, id domain.UserID, upd domain.ProfileUpdate) (*domain.UserProfile, error)
	GetUserPreferences(ctx context.Context, id domain.UserID) *domain.UserPreferences
	UpdateUserPreferences(ctx context.Context, id domain.UserID, upd domain.PreferencesUpdate) (*domain.UserPreferences, error)
	ExcludeCompany(ctx context.Context, id domain.UserID, companyID string) (*domain.UserPreferences, error)
	IncludeCompany(ctx context.Context, id domain.UserID, companyID string) (*domain.UserPreferences, error)
	GetFilteredCompanies(ctx context.Context, id domain.UserID) ([]domain.Company, error)
}

// InitializeUserParams defines the arguments for the initialize_user tool
type InitializeUserParams struct {
	UserID   string         `json:"user_id" jsonschema:"Authenticated user UUID"`
	Email    string         `json:"email" jsonschema:"Email reported by the identity provider"`
	Metadata map[string]any `json:"metadata,omitempty" jsonschema:"Identity provider user metadata"`
}

// UserParams is the input of tools that only need a user
type UserParams struct {
	UserID string `json:"user_id" jsonschema:"Authenticated user UUID"`
}

// UpdateProfileParams defines the arguments for the update_profile tool
type UpdateProfileParams struct {
	UserID           string  `json:"user_id" jsonschema:"Authenticated user UUID"`
	FullName         *string `json:"full_name,omitempty"`
	GitHubUsername   *string `json:"github_username,omitempty"`
	LinkedInUsername *string `json:"linkedin_username,omitempty"`
}

// UpdatePreferencesParams defines the arguments for the update_preferences tool
type UpdatePreferencesParams struct {
	UserID  string                   `json:"user_id" jsonschema:"Authenticated user UUID"`
	Changes domain.PreferencesUpdate `json:"changes" jsonschema:"Fields to change; omitted fields keep their value"`
}

// CompanyParams defines the arguments for exclude_company and include_company
type CompanyParams struct {
	UserID    string `json:"user_id" jsonschema:"Authenticated user UUID"`
	CompanyID string `json:"company_id" jsonschema:"Company identifier"`
}

type userTools struct {
	users UserService
}

// WithUserTools registers the profile, preference and company tools
func WithUserTools(users UserService) Option {
	return func(reg *registry) {
		if users == nil {
			reg.logger.Warn("user service not configured, user tools skipped")
			return
		}
		t := userTools{users: users}

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "initialize_user",
			Description: "Create the profile and default preferences of a signed-in user if missing",
		}, t.initialize)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "get_profile",
			Description: "Fetch a user's profile",
		}, t.getProfile)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "update_profile",
			Description: "Change profile fields",
		}, t.updateProfile)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "get_preferences",
			Description: "Fetch a user's job preferences, creating defaults when missing",
		}, t.getPreferences)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "update_preferences",
			Description: "Change job preference fields",
		}, t.updatePreferences)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "exclude_company",
			Description: "Hide a company from the user's searches",
		}, t.exclude)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "include_company",
			Description: "Show a previously excluded company again",
		}, t.include)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "list_companies",
			Description: "List the companies the user has not excluded",
		}, t.listCompanies)

		for _, n := range []string{"initialize_user", "get_profile", "update_profile", "get_preferences", "update_preferences", "exclude_company", "include_company", "list_companies"} {
			reg.add(n)
		}
	}
}

func (t userTools) initialize(ctx context.Context, _ *sdkmcp.CallToolRequest, params InitializeUserParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseUserID(params.UserID)
	if err != nil {
		return nil, nil, err
	}
	t.users.InitializeUserData(ctx, domain.AuthUser{ID: id, Email: params.Email, Metadata: params.Metadata})

	// initialization never fails the caller, so report what is stored now
	profile := t.users.GetUserProfile(ctx, id)
	if profile == nil {
		return textResult("[initialize_user] user data unavailable, continuing without persisted data"), map[string]any{"initialized": false}, nil
	}
	return textResult("[initialize_user] ready for " + profile.Email), map[string]any{"initialized": true, "profile": profile}, nil
}

func (t userTools) getProfile(ctx context.Context, _ *sdkmcp.CallToolRequest, params UserParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseUserID(params.UserID)
	if err != nil {
		return nil, nil, err
	}
	profile := t.users.GetUserProfile(ctx, id)
	if profile == nil {
		return textResult("[get_profile] no profile for " + id.String()), map[string]any{"profile": nil}, nil
	}
	return textResult(fmt.Sprintf("[get_profile] %s <%s>", displayName(profile), profile.Email)), map[string]any{"profile": profile}, nil
}

func (t userTools) updateProfile(ctx context.Context, _ *sdkmcp.CallToolRequest, params UpdateProfileParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseUserID(params.UserID)
	if err != nil {
		return nil, nil, err
	}
	profile, err := t.users.UpdateUserProfile(ctx, id, domain.ProfileUpdate{
		FullName:         params.FullName,
		GitHubUsername:   params.GitHubUsername,
		LinkedInUsername: params.LinkedInUsername,
	})
	if err != nil {
		return nil, nil, err
	}
	return textResult("[update_profile] updated " + displayName(profile)), map[string]any{"profile": profile}, nil
}

func (t userTools) getPreferences(ctx context.Context, _ *sdkmcp.CallToolRequest, params UserParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseUserID(params.UserID)
	if err != nil {
		return nil, nil, err
	}
	prefs := t.users.GetUserPreferences(ctx, id)
	if prefs == nil {
		return textResult("[get_preferences] preferences unavailable for " + id.String()), map[string]any{"preferences": nil}, nil
	}
	return textResult("[get_preferences] " + describePreferences(prefs)), map[string]any{"preferences": prefs}, nil
}

func (t userTools) updatePreferences(ctx context.Context, _ *sdkmcp.CallToolRequest, params UpdatePreferencesParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseUserID(params.UserID)
	if err != nil {
		return nil, nil, err
	}
	prefs, err := t.users.UpdateUserPreferences(ctx, id, params.Changes)
	if err != nil {
		return nil, nil, err
	}
	return textResult("[update_preferences] " + describePreferences(prefs)), map[string]any{"preferences": prefs}, nil
}

func (t userTools) exclude(ctx context.Context, _ *sdkmcp.CallToolRequest, params CompanyParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseUserID(params.UserID)
	if err != nil {
		return nil, nil, err
	}
	prefs, err := t.users.ExcludeCompany(ctx, id, params.CompanyID)
	if err != nil {
		return nil, nil, err
	}
	msg := fmt.Sprintf("[exclude_company] %s excluded (%d total)", params.CompanyID, len(prefs.ExcludedCompanies))
	return textResult(msg), map[string]any{"excluded_companies": prefs.ExcludedCompanies}, nil
}

func (t userTools) include(ctx context.Context, _ *sdkmcp.CallToolRequest, params CompanyParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseUserID(params.UserID)
	if err != nil {
		return nil, nil, err
	}
	prefs, err := t.users.IncludeCompany(ctx, id, params.CompanyID)
	if err != nil {
		return nil, nil, err
	}
	msg := fmt.Sprintf("[include_company] %s included (%d still excluded)", params.CompanyID, len(prefs.ExcludedCompanies))
	return textResult(msg), map[string]any{"excluded_companies": prefs.ExcludedCompanies}, nil
}

func (t userTools) listCompanies(ctx context.Context, _ *sdkmcp.CallToolRequest, params UserParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseUserID(params.UserID)
	if err != nil {
		return nil, nil, err
	}
	companies, err := t.users.GetFilteredCompanies(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[list_companies] %d compan(ies)", len(companies))
	for _, c := range companies {
		fmt.Fprintf(&b, "\n• %s", c.Name)
		if c.Website != "" {
			fmt.Fprintf(&b, " (%s)", c.Website)
		}
	}
	return textResult(b.String()), map[string]any{"companies": companies}, nil
}

func displayName(p *domain.UserProfile) string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

func describePreferences(p *domain.UserPreferences) string {
	parts := []string{"remote: " + string(p.RemotePreference)}
	if len(p.Locations) > 0 {
		parts = append(parts, "locations: "+strings.Join(p.Locations, ", "))
	}
	if len(p.Skills) > 0 {
		parts = append(parts, "skills: "+strings.Join(p.Skills, ", "))
	}
	if len(p.JobTypes) > 0 {
		parts = append(parts, "job types: "+strings.Join(p.JobTypes, ", "))
	}
	if len(p.ExcludedCompanies) > 0 {
		parts = append(parts, fmt.Sprintf("%d excluded compan(ies)", len(p.ExcludedCompanies)))
	}
	return strings.Join(parts, "; ")
}
