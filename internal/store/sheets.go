package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"remindly/internal/model"
)

// headers is the schema the sheet's first row must declare, in this order.
var headers = []string{"Recipient", "Task", "Time", "Status"}

// ServiceAccount holds the Google service-account fields, loaded from
// individual environment variables rather than a key file.
type ServiceAccount struct {
	ProjectID     string
	PrivateKeyID  string
	PrivateKey    string
	ClientEmail   string
	ClientID      string
	ClientCertURL string
}

func (sa ServiceAccount) credentialsJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"type":                        "service_account",
		"project_id":                  sa.ProjectID,
		"private_key_id":              sa.PrivateKeyID,
		"private_key":                 sa.PrivateKey,
		"client_email":                sa.ClientEmail,
		"client_id":                   sa.ClientID,
		"auth_uri":                    "https://accounts.google.com/o/oauth2/auth",
		"token_uri":                   "https://oauth2.googleapis.com/token",
		"auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
		"client_x509_cert_url":        sa.ClientCertURL,
		"universe_domain":             "googleapis.com",
	})
}

// SheetStore keeps reminders in a Google Sheet: a header row followed by one
// reminder per row. Row id N lives in sheet row N+1.
type SheetStore struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string

	// statusCol is the status column letter, resolved by VerifySchema.
	// Overlapping scan passes re-verify concurrently, so access goes
	// through the mutex.
	mu        sync.Mutex
	statusCol string
}

// NewSheetStore authenticates against the Sheets API with the given service
// account and binds to one sheet of one spreadsheet.
func NewSheetStore(ctx context.Context, sa ServiceAccount, spreadsheetID, sheetName string) (*SheetStore, error) {
	creds, err := sa.credentialsJSON()
	if err != nil {
		return nil, fmt.Errorf("encode service account: %w", err)
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &SheetStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// VerifySchema reads the header row and resolves the status column. Any
// deviation from the expected headers is a hard failure.
func (s *SheetStore) VerifySchema(ctx context.Context) error {
	rng := fmt.Sprintf("%s!1:1", s.sheetName)
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header row: %w", err)
	}
	if len(resp.Values) == 0 {
		return fmt.Errorf("sheet %q has no header row", s.sheetName)
	}

	statusIdx, err := checkHeader(resp.Values[0])
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.statusCol = columnLetter(statusIdx)
	s.mu.Unlock()
	return nil
}

func (s *SheetStore) statusColumn() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusCol
}

func (s *SheetStore) Append(ctx context.Context, rec model.Reminder) (int, error) {
	vr := &sheets.ValueRange{
		Values: [][]interface{}{{rec.Recipient, rec.Task, rec.Time, string(rec.Status)}},
	}
	rng := fmt.Sprintf("%s!A:D", s.sheetName)

	resp, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("append row: %w", err)
	}
	if resp.Updates == nil {
		return 0, fmt.Errorf("append row: response carries no updated range")
	}

	sheetRow, err := rowFromRange(resp.Updates.UpdatedRange)
	if err != nil {
		return 0, fmt.Errorf("append row: %w", err)
	}
	return sheetRow - 1, nil
}

func (s *SheetStore) ListAll(ctx context.Context) ([]Row, error) {
	rng := fmt.Sprintf("%s!A2:D", s.sheetName)
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	rows := make([]Row, 0, len(resp.Values))
	for i, cells := range resp.Values {
		rows = append(rows, decodeCells(i+1, cells))
	}
	return rows, nil
}

func (s *SheetStore) UpdateStatus(ctx context.Context, id int, status model.Status) error {
	col := s.statusColumn()
	if col == "" {
		return fmt.Errorf("status column not resolved; VerifySchema must run first")
	}

	rng := fmt.Sprintf("%s!%s%d", s.sheetName, col, id+1)
	vr := &sheets.ValueRange{Values: [][]interface{}{{string(status)}}}

	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update status of row %d: %w", id, err)
	}
	return nil
}

// checkHeader compares a raw header row against the expected schema and
// returns the status column index.
func checkHeader(got []interface{}) (int, error) {
	if len(got) < len(headers) {
		return 0, fmt.Errorf("header row has %d columns, want %d (%s)", len(got), len(headers), strings.Join(headers, ", "))
	}
	statusIdx := -1
	for i, want := range headers {
		name := strings.TrimSpace(fmt.Sprint(got[i]))
		if !strings.EqualFold(name, want) {
			return 0, fmt.Errorf("header column %d is %q, want %q", i+1, name, want)
		}
		if want == "Status" {
			statusIdx = i
		}
	}
	return statusIdx, nil
}

// decodeCells turns one raw sheet row into a Row. Short rows are padded with
// empty strings so decodeRow reports the first missing field.
func decodeCells(id int, cells []interface{}) Row {
	field := func(i int) string {
		if i >= len(cells) {
			return ""
		}
		return fmt.Sprint(cells[i])
	}
	return decodeRow(id, field(0), field(1), field(2), field(3))
}

// columnLetter maps a zero-based column index to its A1-notation letter.
// The schema has four columns, so a single letter is always enough.
func columnLetter(idx int) string {
	return string(rune('A' + idx))
}

// rowFromRange extracts the first row number of an A1 range such as
// "Sheet1!A5:D5".
func rowFromRange(a1 string) (int, error) {
	_, ref, found := strings.Cut(a1, "!")
	if !found {
		ref = a1
	}
	cell, _, _ := strings.Cut(ref, ":")

	digits := strings.TrimLeft(cell, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	row, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("no row number in range %q", a1)
	}
	return row, nil
}
