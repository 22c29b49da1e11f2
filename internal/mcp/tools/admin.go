package tools

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AdminStore reads and replaces user-owned rows with the privileged credential
type AdminStore interface {
	Available() bool
	Save(ctx context.Context, table string, records []map[string]any, userID uuid.UUID, idField string) bool
	Load(ctx context.Context, table string, userID uuid.UUID, idField string) ([]map[string]any, bool)
}

// SaveRecordsParams defines the arguments for the save_user_records tool
type SaveRecordsParams struct {
	Table   string           `json:"table" jsonschema:"Target table"`
	UserID  string           `json:"user_id" jsonschema:"Owner of the rows"`
	IDField string           `json:"id_field,omitempty" jsonschema:"Ownership column (default user_id)"`
	Records []map[string]any `json:"records" jsonschema:"Rows that replace every row the user owns in the table"`
}

// LoadRecordsParams defines the arguments for the load_user_records tool
type LoadRecordsParams struct {
	Table   string `json:"table" jsonschema:"Source table"`
	UserID  string `json:"user_id" jsonschema:"Owner of the rows"`
	IDField string `json:"id_field,omitempty" jsonschema:"Ownership column (default user_id)"`
}

type adminTools struct {
	store AdminStore
}

// WithAdminTools registers the privileged save/load tools when a
// service-role credential is configured. They bypass row-level security;
// operators must not expose a server carrying them publicly.
func WithAdminTools(store AdminStore) Option {
	return func(reg *registry) {
		if store == nil || !store.Available() {
			reg.logger.Info("privileged store disabled, admin tools skipped")
			return
		}
		t := adminTools{store: store}

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "save_user_records",
			Description: "Replace every row a user owns in a table, bypassing row-level security",
		}, t.save)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "load_user_records",
			Description: "Read every row a user owns in a table, most recently updated first",
		}, t.load)
		reg.add("save_user_records")
		reg.add("load_user_records")
	}
}

func (t adminTools) save(ctx context.Context, _ *sdkmcp.CallToolRequest, params SaveRecordsParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseUserID(params.UserID)
	if err != nil {
		return nil, nil, err
	}
	if params.Records == nil {
		params.Records = []map[string]any{}
	}

	ok := t.store.Save(ctx, params.Table, params.Records, id, params.IDField)
	if !ok {
		return textResult(fmt.Sprintf("[save_user_records] %s not saved, see server logs", params.Table)), map[string]any{"saved": false}, nil
	}
	msg := fmt.Sprintf("[save_user_records] %d row(s) stored in %s", len(params.Records), params.Table)
	return textResult(msg), map[string]any{"saved": true, "count": len(params.Records)}, nil
}

func (t adminTools) load(ctx context.Context, _ *sdkmcp.CallToolRequest, params LoadRecordsParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := parseUserID(params.UserID)
	if err != nil {
		return nil, nil, err
	}

	rows, ok := t.store.Load(ctx, params.Table, id, params.IDField)
	if !ok {
		return textResult(fmt.Sprintf("[load_user_records] %s could not be read, see server logs", params.Table)), map[string]any{"loaded": false}, nil
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	msg := fmt.Sprintf("[load_user_records] %d row(s) from %s", len(rows), params.Table)
	return textResult(msg), map[string]any{"loaded": true, "records": rows}, nil
}
