package user

import (
	"context"

	"github.com/honeycarbs/jobmatch/internal/domain"
)

// GetPendingApplications returns queued applications, newest first.
// Failures yield an empty list.
func (s *Service) GetPendingApplications(ctx context.Context, id domain.UserID) []domain.PendingApplication {
	apps, err := s.applications.ListPending(ctx, id)
	if err != nil {
		s.log.Warn("failed to list pending applications", "user_id", id.String(), "err", err)
		return []domain.PendingApplication{}
	}
	if apps == nil {
		return []domain.PendingApplication{}
	}
	return apps
}

// GetApplicationHistory returns submitted applications, latest submission first.
// Failures yield an empty list.
func (s *Service) GetApplicationHistory(ctx context.Context, id domain.UserID) []domain.ApplicationRecord {
	records, err := s.applications.ListHistory(ctx, id)
	if err != nil {
		s.log.Warn("failed to list application history", "user_id", id.String(), "err", err)
		return []domain.ApplicationRecord{}
	}
	if records == nil {
		return []domain.ApplicationRecord{}
	}
	return records
}
