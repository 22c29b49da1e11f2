package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobmatch/internal/domain"
)

// AssetService manages CV and portfolio assets
type AssetService interface {
	GetUserCVAssets(ctx context.Context, id domain.UserID, assetType domain.CVAssetType) []domain.CVAsset
	CreateCVAsset(ctx context.Context, asset domain.CVAsset) (*domain.CVAsset, error)
	UpdateCVAsset(ctx context.Context, id uuid.UUID, upd domain.CVAssetUpdate) (*domain.CVAsset, error)
	DeleteCVAsset(ctx context.Context, id uuid.UUID) error
}

// ListAssetsParams defines the arguments for the list_cv_assets tool
type ListAssetsParams struct {
	UserID string `json:"user_id" jsonschema:"Authenticated user UUID"`
	Type   string `json:"type,omitempty" jsonschema:"Only this asset type: resume, cover_letter, portfolio, certificate or project"`
}

// CreateAssetParams defines the arguments for the create_cv_asset tool
type CreateAssetParams struct {
	UserID      string         `json:"user_id" jsonschema:"Authenticated user UUID"`
	Type        string         `json:"type" jsonschema:"resume, cover_letter, portfolio, certificate or project"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	ExternalURL string         `json:"external_url,omitempty"`
}

// UpdateAssetParams defines the arguments for the update_cv_asset tool
type UpdateAssetParams struct {
	AssetID string               `json:"asset_id" jsonschema:"Asset UUID"`
	Changes domain.CVAssetUpdate `json:"changes" jsonschema:"Fields to change; omitted fields keep their value"`
}

// DeleteAssetParams defines the arguments for the delete_cv_asset tool
type DeleteAssetParams struct {
	AssetID string `json:"asset_id" jsonschema:"Asset UUID"`
}

type assetTools struct {
	assets AssetService
}

// WithAssetTools registers the CV asset tools
func WithAssetTools(assets AssetService) Option {
	return func(reg *registry) {
		if assets == nil {
			reg.logger.Warn("asset service not configured, asset tools skipped")
			return
		}
		t := assetTools{assets: assets}

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "list_cv_assets",
			Description: "List a user's CV and portfolio assets, newest first",
		}, t.list)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "create_cv_asset",
			Description: "Store a new CV or portfolio asset",
		}, t.create)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "update_cv_asset",
			Description: "Change fields of a CV asset",
		}, t.update)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "delete_cv_asset",
			Description: "Remove a CV asset",
		}, t.remove)

		for _, n := range []string{"list_cv_assets", "create_cv_asset", "update_cv_asset", "delete_cv_asset"} {
			reg.add(n)
		}
	}
}

func (t assetTools) list(ctx context.Context, _ *sdkmcp.CallToolRequest, params ListAssetsParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseUserID(params.UserID)
	if err != nil {
		return nil, nil, err
	}
	assetType, err := parseAssetType(params.Type, true)
	if err != nil {
		return nil, nil, err
	}

	assets := t.assets.GetUserCVAssets(ctx, id, assetType)

	var b strings.Builder
	fmt.Fprintf(&b, "[list_cv_assets] %d asset(s)", len(assets))
	for _, a := range assets {
		fmt.Fprintf(&b, "\n• [%s] %s", a.Type, a.Title)
	}
	return textResult(b.String()), map[string]any{"assets": assets}, nil
}

func (t assetTools) create(ctx context.Context, _ *sdkmcp.CallToolRequest, params CreateAssetParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseUserID(params.UserID)
	if err != nil {
		return nil, nil, err
	}
	assetType, err := parseAssetType(params.Type, false)
	if err != nil {
		return nil, nil, err
	}

	created, err := t.assets.CreateCVAsset(ctx, domain.CVAsset{
		UserID:      id,
		Type:        assetType,
		Title:       params.Title,
		Description: params.Description,
		Metadata:    params.Metadata,
		Tags:        params.Tags,
		ExternalURL: params.ExternalURL,
	})
	if err != nil {
		return nil, nil, err
	}
	return textResult(fmt.Sprintf("[create_cv_asset] %s created (%s)", created.Title, created.ID)), map[string]any{"asset": created}, nil
}

func (t assetTools) update(ctx context.Context, _ *sdkmcp.CallToolRequest, params UpdateAssetParams) (*sdkmcp.CallToolResult, any, error) {
	assetID, err := uuid.Parse(strings.TrimSpace(params.AssetID))
	if err != nil {
		return nil, nil, fmt.Errorf("asset_id %q is not a valid UUID", params.AssetID)
	}
	if params.Changes.Type != nil {
		if _, err := parseAssetType(string(*params.Changes.Type), false); err != nil {
			return nil, nil, err
		}
	}

	updated, err := t.assets.UpdateCVAsset(ctx, assetID, params.Changes)
	if err != nil {
		return nil, nil, err
	}
	return textResult("[update_cv_asset] " + updated.Title + " updated"), map[string]any{"asset": updated}, nil
}

func (t assetTools) remove(ctx context.Context, _ *sdkmcp.CallToolRequest, params DeleteAssetParams) (*sdkmcp.CallToolResult, any, error) {
	assetID, err := uuid.Parse(strings.TrimSpace(params.AssetID))
	if err != nil {
		return nil, nil, fmt.Errorf("asset_id %q is not a valid UUID", params.AssetID)
	}
	if err := t.assets.DeleteCVAsset(ctx, assetID); err != nil {
		return nil, nil, err
	}
	return textResult("[delete_cv_asset] " + assetID.String() + " deleted"), map[string]any{"deleted": true}, nil
}

func parseAssetType(raw string, optional bool) (domain.CVAssetType, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" && optional {
		return "", nil
	}
	switch t := domain.CVAssetType(raw); t {
	case domain.AssetResume, domain.AssetCoverLetter, domain.AssetPortfolio, domain.AssetCertificate, domain.AssetProject:
		return t, nil
	}
	return "", fmt.Errorf("unknown asset type %q", raw)
}
