package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/honeycarbs/jobmatch/internal/domain"
)

// GetUserCVAssets lists the user's assets newest first, optionally filtered
// by type. Failures yield an empty list.
func (s *Service) GetUserCVAssets(ctx context.Context, id domain.UserID, assetType domain.CVAssetType) []domain.CVAsset {
	assets, err := s.assets.ListAssets(ctx, id, assetType)
	if err != nil {
		s.log.Warn("failed to list cv assets", "user_id", id.String(), "type", string(assetType), "err", err)
		return []domain.CVAsset{}
	}
	if assets == nil {
		return []domain.CVAsset{}
	}
	return assets
}

// CreateCVAsset stores a new asset and returns it with its generated fields
func (s *Service) CreateCVAsset(ctx context.Context, asset domain.CVAsset) (*domain.CVAsset, error) {
	if asset.UserID == uuid.Nil {
		return nil, fmt.Errorf("create cv asset: user id is required")
	}
	if strings.TrimSpace(asset.Title) == "" {
		return nil, fmt.Errorf("create cv asset: title is required")
	}
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	if asset.Tags == nil {
		asset.Tags = []string{}
	}

	created, err := s.assets.InsertAsset(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("create cv asset: %w", err)
	}
	return created, nil
}

// UpdateCVAsset applies a partial update to an asset
func (s *Service) UpdateCVAsset(ctx context.Context, id uuid.UUID, upd domain.CVAssetUpdate) (*domain.CVAsset, error) {
	updated, err := s.assets.UpdateAsset(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("update cv asset %s: %w", id, err)
	}
	return updated, nil
}

// DeleteCVAsset removes an asset
func (s *Service) DeleteCVAsset(ctx context.Context, id uuid.UUID) error {
	if err := s.assets.DeleteAsset(ctx, id); err != nil {
		return fmt.Errorf("delete cv asset %s: %w", id, err)
	}
	return nil
}
