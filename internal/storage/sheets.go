package storage

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"tg-reminder/internal/config"
	"tg-reminder/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Worksheet column layout, one reminder per row:
//
//	A datetime | B text | C timezone | D sent | E status | F comment
//
// Row 1 is the header, data starts at row 2. The sheet row number is the
// reminder's id.
const (
	sheetsSentMarker = "TRUE"
	sheetsFirstRow   = 2
)

// SheetsStore persists reminders in a Google Sheets worksheet, which keeps
// them hand-editable in a browser.
type SheetsStore struct {
	service       *sheets.Service
	spreadsheetID string
	worksheet     string
}

// NewSheetsStore authenticates with a service account key file and opens the
// configured worksheet.
func NewSheetsStore(ctx context.Context, cfg config.SheetsConfig) (*SheetsStore, error) {
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsStore{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		worksheet:     cfg.Worksheet,
	}, nil
}

// Create appends a reminder row and returns its sheet row number.
func (s *SheetsStore) Create(reminder *models.Reminder) (int64, error) {
	values := &sheets.ValueRange{
		Values: [][]interface{}{{
			reminder.ScheduledAt,
			reminder.Text,
			reminder.Timezone,
			"",
			reminder.Status,
			reminder.Comment,
		}},
	}

	resp, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, s.worksheet+"!A:F", values).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(context.Background()).
		Do()
	if err != nil {
		return 0, fmt.Errorf("failed to append reminder row: %w", err)
	}

	row, err := rowFromRange(resp.Updates.UpdatedRange)
	if err != nil {
		return 0, err
	}

	reminder.ID = uint(row)
	return row, nil
}

// ListUnsent returns reminders that are not yet delivered. Status is not
// part of the filter: it is advisory metadata, a closed reminder still
// fires.
func (s *SheetsStore) ListUnsent() ([]models.Reminder, error) {
	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, fmt.Sprintf("%s!A%d:F", s.worksheet, sheetsFirstRow)).
		Context(context.Background()).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read reminder rows: %w", err)
	}

	var reminders []models.Reminder
	for i, row := range resp.Values {
		reminder := reminderFromRow(int64(i+sheetsFirstRow), row)
		if reminder.Sent {
			continue
		}
		reminders = append(reminders, reminder)
	}
	return reminders, nil
}

// MarkSent flags a delivered reminder so it is never dispatched again.
func (s *SheetsStore) MarkSent(row int64) error {
	return s.updateCell("D", row, sheetsSentMarker)
}

// SetStatus records a terminal status on a reminder.
func (s *SheetsStore) SetStatus(row int64, status string) error {
	return s.updateCell("E", row, status)
}

// SetComment attaches or replaces the free-form comment on a reminder.
func (s *SheetsStore) SetComment(row int64, comment string) error {
	return s.updateCell("F", row, comment)
}

// Get fetches one reminder by sheet row number.
func (s *SheetsStore) Get(row int64) (*models.Reminder, error) {
	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, fmt.Sprintf("%s!A%d:F%d", s.worksheet, row, row)).
		Context(context.Background()).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read reminder row %d: %w", row, err)
	}
	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("reminder row %d not found", row)
	}

	reminder := reminderFromRow(row, resp.Values[0])
	return &reminder, nil
}

func (s *SheetsStore) updateCell(column string, row int64, value string) error {
	rangeRef := fmt.Sprintf("%s!%s%d", s.worksheet, column, row)
	_, err := s.service.Spreadsheets.Values.
		Update(s.spreadsheetID, rangeRef, &sheets.ValueRange{
			Values: [][]interface{}{{value}},
		}).
		ValueInputOption("RAW").
		Context(context.Background()).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", rangeRef, err)
	}
	return nil
}

func reminderFromRow(row int64, cells []interface{}) models.Reminder {
	return models.Reminder{
		ID:          uint(row),
		ScheduledAt: cellString(cells, 0),
		Text:        cellString(cells, 1),
		Timezone:    cellString(cells, 2),
		Sent:        strings.EqualFold(cellString(cells, 3), sheetsSentMarker),
		Status:      cellString(cells, 4),
		Comment:     cellString(cells, 5),
	}
}

func cellString(cells []interface{}, index int) string {
	if index >= len(cells) {
		return ""
	}
	value, ok := cells[index].(string)
	if !ok {
		return fmt.Sprint(cells[index])
	}
	return strings.TrimSpace(value)
}

// rowFromRange extracts the row number from an updated range reference such
// as "reminders!A7:F7".
func rowFromRange(updatedRange string) (int64, error) {
	ref := updatedRange
	if idx := strings.IndexByte(ref, '!'); idx >= 0 {
		ref = ref[idx+1:]
	}
	if idx := strings.IndexByte(ref, ':'); idx >= 0 {
		ref = ref[:idx]
	}
	digits := strings.TrimLeft(ref, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	row, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected updated range %q: %w", updatedRange, err)
	}
	return row, nil
}
