package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/repository"
)

var _ repository.CVAssetRepository = (*CVAssetRepository)(nil)

const assetColumns = `id, user_id, type, title, COALESCE(description, ''), metadata, tags,
	COALESCE(external_url, ''), created_at, updated_at`

// CVAssetRepository stores rows of cv_assets
type CVAssetRepository struct {
	db DB
}

// NewCVAssetRepository creates a CVAssetRepository
func NewCVAssetRepository(db DB) *CVAssetRepository {
	return &CVAssetRepository{db: db}
}

func (r *CVAssetRepository) ListAssets(ctx context.Context, userID domain.UserID, assetType domain.CVAssetType) ([]domain.CVAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM cv_assets WHERE user_id = $1`
	args := []any{userID}
	if assetType != "" {
		query += ` AND type = $2`
		args = append(args, string(assetType))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr("list cv assets", err)
	}
	defer rows.Close()

	assets := make([]domain.CVAsset, 0)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, mapErr("scan cv asset", err)
		}
		assets = append(assets, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list cv assets", err)
	}
	return assets, nil
}

func (r *CVAssetRepository) InsertAsset(ctx context.Context, a domain.CVAsset) (*domain.CVAsset, error) {
	meta, err := marshalMetadata(a.Metadata)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO cv_assets (id, user_id, type, title, description, metadata, tags, external_url)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, NULLIF($8, ''))
		 RETURNING `+assetColumns,
		a.ID, a.UserID, string(a.Type), a.Title, a.Description, meta, orEmpty(a.Tags), a.ExternalURL)
	created, err := scanAsset(row)
	if err != nil {
		return nil, mapErr("insert cv asset", err)
	}
	return created, nil
}

func (r *CVAssetRepository) UpdateAsset(ctx context.Context, id uuid.UUID, upd domain.CVAssetUpdate) (*domain.CVAsset, error) {
	var p patch
	if upd.Type != nil {
		p.set("type", string(*upd.Type))
	}
	if upd.Title != nil {
		p.set("title", *upd.Title)
	}
	if upd.Description != nil {
		p.set("description", *upd.Description)
	}
	if upd.Metadata != nil {
		meta, err := marshalMetadata(*upd.Metadata)
		if err != nil {
			return nil, err
		}
		p.set("metadata", meta)
	}
	if upd.Tags != nil {
		p.set("tags", orEmpty(*upd.Tags))
	}
	if upd.ExternalURL != nil {
		p.set("external_url", *upd.ExternalURL)
	}
	if p.empty() {
		return nil, fmt.Errorf("update cv asset: no fields to update")
	}

	sql, args := p.build("cv_assets", "id", id, assetColumns)
	updated, err := scanAsset(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapErr("update cv asset", err)
	}
	return updated, nil
}

func (r *CVAssetRepository) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cv_assets WHERE id = $1`, id)
	if err != nil {
		return mapErr("delete cv asset", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete cv asset: %w", repository.ErrNotFound)
	}
	return nil
}

func marshalMetadata(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal cv asset metadata: %w", err)
	}
	return b, nil
}

func scanAsset(row scanner) (*domain.CVAsset, error) {
	var (
		a    domain.CVAsset
		kind string
		meta []byte
	)
	if err := row.Scan(&a.ID, &a.UserID, &kind, &a.Title, &a.Description, &meta,
		&a.Tags, &a.ExternalURL, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Type = domain.CVAssetType(kind)
	a.Tags = orEmpty(a.Tags)
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &a.Metadata); err != nil {
			return nil, fmt.Errorf("decode cv asset metadata: %w", err)
		}
	}
	return &a, nil
}
