// Package sheets implements the storage contract on top of Google Sheets,
// matching the spreadsheet layout the dashboard originally ran against:
// one spreadsheet per log, a header row, and append-only data rows below it.
package sheets

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/claude/liftsheet/internal/config"
	"github.com/claude/liftsheet/internal/models"
	"github.com/claude/liftsheet/internal/storage"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Cell timestamp layouts. Writes use the first; reads tolerate both since
// hand-edited rows sometimes carry bare dates.
const (
	cellTimeLayout = "2006-01-02 15:04:05"
	cellDateLayout = "2006-01-02"
)

// Client talks to the three spreadsheets (sets, body, calories).
//
// Sheet rows carry no ID column, so sets read back from this backend have
// a zero UUID. Insertion order is sheet row order.
type Client struct {
	svc *sheets.Service
	cfg config.SheetsConfig
}

var _ storage.Store = (*Client)(nil)

// New creates a Sheets-backed store using service-account credentials.
func New(ctx context.Context, cfg config.SheetsConfig) (*Client, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return &Client{svc: svc, cfg: cfg}, nil
}

// Close is a no-op; the sheets service holds no persistent connection.
func (c *Client) Close() error { return nil }

func (c *Client) AppendSet(ctx context.Context, s models.LoggedSet) error {
	row := []any{
		s.Date.Format(cellTimeLayout), s.MuscleGroup, s.Exercise,
		s.SetNumber, s.MassKg, s.MassLb, s.Reps, s.Location,
	}
	return c.appendRow(ctx, c.cfg.SetsSpreadsheetID, row)
}

func (c *Client) ReadAllSets(ctx context.Context) ([]models.LoggedSet, error) {
	rows, err := c.dataRows(ctx, c.cfg.SetsSpreadsheetID)
	if err != nil {
		return nil, err
	}

	var result []models.LoggedSet
	for i, row := range rows {
		if len(row) < 7 {
			return nil, fmt.Errorf("sets row %d: want at least 7 cells, got %d", i+2, len(row))
		}
		date, err := parseCellTime(row[0])
		if err != nil {
			return nil, fmt.Errorf("sets row %d: %w", i+2, err)
		}
		s := models.LoggedSet{
			Date:        date,
			MuscleGroup: cellString(row[1]),
			Exercise:    cellString(row[2]),
			SetNumber:   int(cellFloat(row[3])),
			MassKg:      cellFloat(row[4]),
			MassLb:      cellFloat(row[5]),
			Reps:        int(cellFloat(row[6])),
		}
		if len(row) > 7 {
			s.Location = cellString(row[7])
		}
		result = append(result, s)
	}
	return result, nil
}

func (c *Client) DeleteLastSet(ctx context.Context) error {
	return c.deleteLastRow(ctx, c.cfg.SetsSpreadsheetID)
}

func (c *Client) AppendMeasurement(ctx context.Context, m models.BodyMeasurement) error {
	row := []any{m.Date.Format(cellTimeLayout), m.BodyFatPct, m.WeightKg}
	return c.appendRow(ctx, c.cfg.BodySpreadsheetID, row)
}

func (c *Client) ReadAllMeasurements(ctx context.Context) ([]models.BodyMeasurement, error) {
	rows, err := c.dataRows(ctx, c.cfg.BodySpreadsheetID)
	if err != nil {
		return nil, err
	}

	var result []models.BodyMeasurement
	for i, row := range rows {
		if len(row) < 3 {
			return nil, fmt.Errorf("body row %d: want 3 cells, got %d", i+2, len(row))
		}
		date, err := parseCellTime(row[0])
		if err != nil {
			return nil, fmt.Errorf("body row %d: %w", i+2, err)
		}
		result = append(result, models.BodyMeasurement{
			Date:       date,
			BodyFatPct: cellFloat(row[1]),
			WeightKg:   cellFloat(row[2]),
		})
	}
	return result, nil
}

func (c *Client) AppendCalorieEntry(ctx context.Context, e models.CalorieEntry) error {
	row := []any{e.Date.Format(cellTimeLayout), e.Kcal}
	return c.appendRow(ctx, c.cfg.CaloriesSpreadsheetID, row)
}

func (c *Client) ReadAllCalorieEntries(ctx context.Context) ([]models.CalorieEntry, error) {
	rows, err := c.dataRows(ctx, c.cfg.CaloriesSpreadsheetID)
	if err != nil {
		return nil, err
	}

	var result []models.CalorieEntry
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("calorie row %d: want 2 cells, got %d", i+2, len(row))
		}
		date, err := parseCellTime(row[0])
		if err != nil {
			return nil, fmt.Errorf("calorie row %d: %w", i+2, err)
		}
		result = append(result, models.CalorieEntry{Date: date, Kcal: cellFloat(row[1])})
	}
	return result, nil
}

func (c *Client) appendRow(ctx context.Context, spreadsheetID string, row []any) error {
	vr := &sheets.ValueRange{Values: [][]any{row}}
	_, err := c.svc.Spreadsheets.Values.
		Append(spreadsheetID, c.cfg.WorksheetName, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending row to %s: %w", spreadsheetID, err)
	}
	return nil
}

// dataRows returns all rows below the header, in sheet order.
func (c *Client) dataRows(ctx context.Context, spreadsheetID string) ([][]any, error) {
	resp, err := c.svc.Spreadsheets.Values.
		Get(spreadsheetID, c.cfg.WorksheetName).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", spreadsheetID, err)
	}
	if len(resp.Values) <= 1 {
		return nil, nil
	}
	return resp.Values[1:], nil
}

// deleteLastRow removes the last data row via a DeleteDimension request.
// The header row is never removed.
func (c *Client) deleteLastRow(ctx context.Context, spreadsheetID string) error {
	resp, err := c.svc.Spreadsheets.Values.
		Get(spreadsheetID, c.cfg.WorksheetName).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("reading %s: %w", spreadsheetID, err)
	}
	lastRow := len(resp.Values)
	if lastRow <= 1 {
		return storage.ErrEmptyLog
	}

	sheetID, err := c.worksheetID(ctx, spreadsheetID)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(lastRow - 1),
					EndIndex:   int64(lastRow),
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("deleting last row of %s: %w", spreadsheetID, err)
	}
	return nil
}

// worksheetID resolves the configured worksheet title to its numeric sheet ID.
func (c *Client) worksheetID(ctx context.Context, spreadsheetID string) (int64, error) {
	meta, err := c.svc.Spreadsheets.Get(spreadsheetID).
		Fields("sheets(properties(sheetId,title))").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("fetching spreadsheet metadata: %w", err)
	}
	for _, sh := range meta.Sheets {
		if sh.Properties.Title == c.cfg.WorksheetName {
			return sh.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("worksheet %q not found in %s", c.cfg.WorksheetName, spreadsheetID)
}

func cellString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func cellFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func parseCellTime(v any) (time.Time, error) {
	s := cellString(v)
	if t, err := time.Parse(cellTimeLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(cellDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing cell time %q: %w", s, err)
	}
	return t, nil
}
