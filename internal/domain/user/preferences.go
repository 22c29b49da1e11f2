package user

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/repository"
)

// CreateDefaultUserPreferences inserts the neutral preferences row.
// An existing row counts as success.
func (s *Service) CreateDefaultUserPreferences(ctx context.Context, id domain.UserID) error {
	err := s.preferences.InsertPreferences(ctx, domain.DefaultPreferences(id))
	if err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("create default preferences %s: %w", id, err)
	}
	return nil
}

// GetUserPreferences returns the user's preferences, creating the default row
// when none exists. The re-fetch after creation happens at most once; nil is
// returned when the row still cannot be read.
func (s *Service) GetUserPreferences(ctx context.Context, id domain.UserID) *domain.UserPreferences {
	log := s.log.With("user_id", id.String())

	prefs, err := s.readPreferences(ctx, id)
	if err == nil {
		return prefs
	}
	if !errors.Is(err, repository.ErrNotFound) {
		log.Warn("failed to load user preferences", "err", err)
		return nil
	}

	log.Info("preferences missing, creating defaults")
	if err := s.CreateDefaultUserPreferences(ctx, id); err != nil {
		log.Error("read-repair failed", "err", err)
		return nil
	}

	prefs, err = s.readPreferences(ctx, id)
	if err != nil {
		log.Error("preferences still unreadable after read-repair", "err", err)
		return nil
	}
	return prefs
}

func (s *Service) readPreferences(ctx context.Context, id domain.UserID) (*domain.UserPreferences, error) {
	return bounded(ctx, s.readTimeout, func(ctx context.Context) (*domain.UserPreferences, error) {
		return s.preferences.GetPreferences(ctx, id)
	})
}

// UpdateUserPreferences applies a partial update and returns the stored row
func (s *Service) UpdateUserPreferences(ctx context.Context, id domain.UserID, upd domain.PreferencesUpdate) (*domain.UserPreferences, error) {
	prefs, err := s.preferences.UpdatePreferences(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("update preferences %s: %w", id, err)
	}
	return prefs, nil
}

// ExcludeCompany adds companyID to the user's exclusion set. Nothing is
// written when it is already excluded.
func (s *Service) ExcludeCompany(ctx context.Context, id domain.UserID, companyID string) (*domain.UserPreferences, error) {
	prefs, err := s.preferences.GetPreferences(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("exclude company: load preferences %s: %w", id, err)
	}
	if prefs.IsExcluded(companyID) {
		return prefs, nil
	}

	excluded := make([]string, 0, len(prefs.ExcludedCompanies)+1)
	excluded = append(excluded, prefs.ExcludedCompanies...)
	excluded = append(excluded, companyID)

	return s.writeExclusions(ctx, id, excluded)
}

// IncludeCompany removes companyID from the user's exclusion set. Nothing is
// written when it is not excluded.
func (s *Service) IncludeCompany(ctx context.Context, id domain.UserID, companyID string) (*domain.UserPreferences, error) {
	prefs, err := s.preferences.GetPreferences(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("include company: load preferences %s: %w", id, err)
	}
	if !prefs.IsExcluded(companyID) {
		return prefs, nil
	}

	excluded := make([]string, 0, len(prefs.ExcludedCompanies))
	for _, c := range prefs.ExcludedCompanies {
		if c != companyID {
			excluded = append(excluded, c)
		}
	}

	return s.writeExclusions(ctx, id, excluded)
}

func (s *Service) writeExclusions(ctx context.Context, id domain.UserID, excluded []string) (*domain.UserPreferences, error) {
	updated, err := s.preferences.UpdatePreferences(ctx, id, domain.PreferencesUpdate{ExcludedCompanies: &excluded})
	if err != nil {
		return nil, fmt.Errorf("update excluded companies %s: %w", id, err)
	}
	return updated, nil
}

// GetFilteredCompanies lists every company the user has not excluded,
// keeping the repository order. Companies and preferences load concurrently.
func (s *Service) GetFilteredCompanies(ctx context.Context, id domain.UserID) ([]domain.Company, error) {
	var (
		companies []domain.Company
		prefs     *domain.UserPreferences
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		companies, err = s.companies.ListCompanies(gctx)
		if err != nil {
			return fmt.Errorf("list companies: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		prefs = s.GetUserPreferences(gctx, id)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if prefs == nil || len(prefs.ExcludedCompanies) == 0 {
		return companies, nil
	}

	excluded := make(map[string]struct{}, len(prefs.ExcludedCompanies))
	for _, c := range prefs.ExcludedCompanies {
		excluded[c] = struct{}{}
	}

	filtered := make([]domain.Company, 0, len(companies))
	for _, c := range companies {
		if _, skip := excluded[c.ID]; !skip {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}
