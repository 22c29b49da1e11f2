package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/repository"
)

// InitializeUserData makes sure a signed-in user has a profile and a
// preferences row. It is idempotent and never fails the caller: every error
// is logged and sign-in proceeds without persisted data.
func (s *Service) InitializeUserData(ctx context.Context, user domain.AuthUser) {
	log := s.log.With("user_id", user.ID.String())

	existing, err := bounded(ctx, s.initTimeout, func(ctx context.Context) (*domain.UserProfile, error) {
		return s.profiles.GetProfile(ctx, user.ID)
	})
	switch {
	case err == nil && existing != nil:
		log.Debug("user data already initialized")
		return
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		log.Warn("profile existence check failed, skipping initialization", "err", err)
		return
	}

	// a database trigger may create the row concurrently
	if err := s.profiles.InsertProfile(ctx, profileFromIdentity(user)); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		log.Error("failed to create user profile", "err", err)
		return
	}

	if err := s.CreateDefaultUserPreferences(ctx, user.ID); err != nil {
		log.Error("failed to create default preferences", "err", err)
		return
	}

	log.Info("user data initialized")
}

// GetUserProfile returns the profile or nil when it is missing, unreadable
// or slower than the read timeout.
func (s *Service) GetUserProfile(ctx context.Context, id domain.UserID) *domain.UserProfile {
	profile, err := bounded(ctx, s.readTimeout, func(ctx context.Context) (*domain.UserProfile, error) {
		return s.profiles.GetProfile(ctx, id)
	})
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("failed to load user profile", "user_id", id.String(), "err", err)
		}
		return nil
	}
	return profile
}

// UpdateUserProfile applies a partial update and returns the stored row
func (s *Service) UpdateUserProfile(ctx context.Context, id domain.UserID, upd domain.ProfileUpdate) (*domain.UserProfile, error) {
	if upd.Empty() {
		return nil, fmt.Errorf("update profile: no fields to update")
	}

	profile, err := s.profiles.UpdateProfile(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("update profile %s: %w", id, err)
	}
	return profile, nil
}

func profileFromIdentity(user domain.AuthUser) domain.UserProfile {
	return domain.UserProfile{
		ID:               user.ID,
		Email:            user.Email,
		FullName:         firstString(user.Metadata, "full_name", "name"),
		GitHubUsername:   firstString(user.Metadata, "user_name", "preferred_username"),
		LinkedInUsername: firstString(user.Metadata, "linkedin_username"),
	}
}

func firstString(meta map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := meta[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
