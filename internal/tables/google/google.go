// Package google implements tables.Store on a Google Sheets spreadsheet.
// Each month ledger is one worksheet addressed by title.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"expenses/internal/tables"
)

type Store struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ tables.Store = (*Store)(nil)

// NewFromEnv creates a Sheets-backed store using Service Account credentials.
// Required: GOOGLE_SPREADSHEET_ID. Credentials come from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Store, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Store{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	inlineJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	credFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if inlineJSON == "" && credFile == "" {
		credFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case inlineJSON != "":
		credentialsJSON = []byte(inlineJSON)
	case credFile != "":
		b, err := os.ReadFile(credFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

func (s *Store) Lookup(ctx context.Context, title string) (tables.Table, bool, error) {
	meta, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, false, fmt.Errorf("get spreadsheet metadata: %w", err)
	}
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return s.table(title, sheet.Properties.SheetId), true, nil
		}
	}
	return nil, false, nil
}

func (s *Store) Create(ctx context.Context, title string, rows, cols int) (tables.Table, error) {
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{
					Title: title,
					GridProperties: &gsheet.GridProperties{
						RowCount:    int64(rows),
						ColumnCount: int64(cols),
					},
				},
			},
		}},
	}
	resp, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("add sheet %q: %w", title, err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return nil, fmt.Errorf("add sheet %q: empty reply", title)
	}
	return s.table(title, resp.Replies[0].AddSheet.Properties.SheetId), nil
}

func (s *Store) table(title string, sheetID int64) *Table {
	return &Table{svc: s.svc, spreadsheetID: s.spreadsheetID, title: title, sheetID: sheetID}
}

// Table is one worksheet. Only the four ledger columns A:D are addressed.
type Table struct {
	svc           *gsheet.Service
	spreadsheetID string
	title         string
	sheetID       int64
}

var (
	_ tables.Table           = (*Table)(nil)
	_ tables.HeaderFormatter = (*Table)(nil)
)

func (t *Table) Rows(ctx context.Context) ([][]string, error) {
	resp, err := t.svc.Spreadsheets.Values.Get(t.spreadsheetID, t.dataRange()).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.dataRange(), err)
	}
	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		out = append(out, toStrings(row))
	}
	return out, nil
}

func (t *Table) Records(ctx context.Context) ([]map[string]string, error) {
	rows, err := t.Rows(ctx)
	if err != nil {
		return nil, err
	}
	return tables.RecordsFromRows(rows), nil
}

func (t *Table) Append(ctx context.Context, row []string) error {
	vr := &gsheet.ValueRange{Values: [][]any{toValues(row)}}
	_, err := t.svc.Spreadsheets.Values.Append(t.spreadsheetID, t.dataRange(), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %q: %w", t.title, err)
	}
	return nil
}

func (t *Table) InsertAt(ctx context.Context, index int, row []string) error {
	if index < 1 {
		return fmt.Errorf("insert into %q: index %d out of range", t.title, index)
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			InsertDimension: &gsheet.InsertDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    t.sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(index - 1),
					EndIndex:   int64(index),
				},
				InheritFromBefore: false,
			},
		}},
	}
	if _, err := t.svc.Spreadsheets.BatchUpdate(t.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("insert row %d into %q: %w", index, t.title, err)
	}

	rng := fmt.Sprintf("'%s'!A%d:D%d", t.title, index, index)
	vr := &gsheet.ValueRange{Values: [][]any{toValues(row)}}
	_, err := t.svc.Spreadsheets.Values.Update(t.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("fill inserted row %d of %q: %w", index, t.title, err)
	}
	return nil
}

func (t *Table) UpdateCell(ctx context.Context, row, col int, value string) error {
	letter, err := columnLetter(col)
	if err != nil {
		return fmt.Errorf("update %q: %w", t.title, err)
	}
	rng := fmt.Sprintf("'%s'!%s%d", t.title, letter, row)
	vr := &gsheet.ValueRange{Values: [][]any{{value}}}
	_, err = t.svc.Spreadsheets.Values.Update(t.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

// FormatHeader applies bold text and a bottom border to the header row.
// Callers treat a failure here as cosmetic and keep going.
func (t *Table) FormatHeader(ctx context.Context) error {
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			RepeatCell: &gsheet.RepeatCellRequest{
				Range: &gsheet.GridRange{
					SheetId:          t.sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   4,
				},
				Cell: &gsheet.CellData{
					UserEnteredFormat: &gsheet.CellFormat{
						TextFormat: &gsheet.TextFormat{Bold: true, FontSize: 11},
						Borders:    &gsheet.Borders{Bottom: &gsheet.Border{Style: "SOLID"}},
					},
				},
				Fields: "userEnteredFormat(textFormat,borders)",
			},
		}},
	}
	if _, err := t.svc.Spreadsheets.BatchUpdate(t.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("format header of %q: %w", t.title, err)
	}
	return nil
}

func (t *Table) dataRange() string {
	return fmt.Sprintf("'%s'!A:D", t.title)
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func toValues(row []string) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}

// columnLetter maps a 1-based column index to its A1-notation letter.
// The ledger only addresses A:D, so a single letter is enough.
func columnLetter(col int) (string, error) {
	if col < 1 || col > 26 {
		return "", fmt.Errorf("column %d out of range [1,26]", col)
	}
	return string(rune('A' + col - 1)), nil
}
