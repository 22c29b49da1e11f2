package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client writes cell values to Google Sheets
type Client struct {
	service *sheets.Service
}

// Config selects service account credentials, from a file or inline JSON
type Config struct {
	CredentialsPath string
	CredentialsJSON []byte
}

// NewClient builds a Sheets client scoped to spreadsheet editing
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}

	switch {
	case cfg.CredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	case len(cfg.CredentialsJSON) > 0:
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	default:
		return nil, fmt.Errorf("sheets: credentials path or JSON is required")
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}

	return &Client{service: service}, nil
}

// Append adds rows after the last filled row of a1Range
func (c *Client) Append(ctx context.Context, spreadsheetID, a1Range string, rows [][]any) error {
	_, err := c.service.Spreadsheets.Values.Append(spreadsheetID, a1Range, &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append %s: %w", a1Range, err)
	}
	return nil
}

// Update overwrites the cells starting at a1Range
func (c *Client) Update(ctx context.Context, spreadsheetID, a1Range string, rows [][]any) error {
	_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, a1Range, &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: update %s: %w", a1Range, err)
	}
	return nil
}

// Clear empties the cells of a1Range
func (c *Client) Clear(ctx context.Context, spreadsheetID, a1Range string) error {
	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, a1Range, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: clear %s: %w", a1Range, err)
	}
	return nil
}
