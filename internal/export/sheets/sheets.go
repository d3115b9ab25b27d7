// Package sheets uploads the export table to a Google Sheets tab.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"budget/internal/core"
	"budget/internal/export"
)

// Config selects the destination and the service account credentials.
type Config struct {
	SpreadsheetID string
	SheetName     string
	// Exactly one of CredentialsJSON or CredentialsFile is used, JSON first.
	CredentialsJSON string
	CredentialsFile string
}

type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// New creates an exporter authenticated with a service account. Extra client
// options are appended after the credentials.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Exporter, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	credentialsJSON, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	all := append([]goption.ClientOption{
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope),
	}, opts...)
	svc, err := gsheet.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets exporter ready", "spreadsheet_id", cfg.SpreadsheetID, "sheet", sheetName(cfg.SheetName))
	return NewWithService(svc, cfg.SpreadsheetID, cfg.SheetName), nil
}

// NewWithService wraps an already configured Sheets service.
func NewWithService(svc *gsheet.Service, spreadsheetID, sheet string) *Exporter {
	return &Exporter{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName(sheet)}
}

// Export replaces the content of the target tab with the header and one row
// per record.
func (e *Exporter) Export(ctx context.Context, records []core.Transaction) error {
	if len(records) == 0 {
		return export.ErrNothingToExport
	}
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	values := make([][]interface{}, 0, len(records)+1)
	values = append(values, toRow(export.Header))
	for _, row := range export.Rows(records) {
		values = append(values, toRow(row))
	}
	if err := e.replace(ctx, values); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transactions exported to Google Sheets",
		"spreadsheet_id", e.spreadsheetID,
		"sheet", e.sheetName,
		"rows", len(records))
	return nil
}

// Clear empties the target tab, leaving only the header row. It is used when
// the ledger has no records left.
func (e *Exporter) Clear(ctx context.Context) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if err := e.replace(ctx, [][]interface{}{toRow(export.Header)}); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Google Sheets tab cleared", "spreadsheet_id", e.spreadsheetID, "sheet", e.sheetName)
	return nil
}

func (e *Exporter) replace(ctx context.Context, values [][]interface{}) error {
	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, e.sheetName, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", e.sheetName, err)
	}

	writeRange := fmt.Sprintf("%s!A1", e.sheetName)
	_, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, writeRange, &gsheet.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write %s: %w", writeRange, err)
	}
	return nil
}

func loadCredentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
}

func sheetName(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return "Transactions"
}

func toRow(cells []string) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}
