package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/claude/liftsheet/internal/models"
	"github.com/claude/liftsheet/internal/storage"
	"github.com/google/uuid"
)

// Stats tracks import progress.
type Stats struct {
	SetsImported         int
	MeasurementsImported int
	CaloriesImported     int
	RowsSkipped          int
	RowsErrored          int
}

// Importer reads CSV exports of the original spreadsheet log and appends
// the rows to a Store in file order, preserving insertion precedence.
type Importer struct {
	store  storage.Store
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer.
func New(store storage.Store, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{store: store, log: log, dryRun: dryRun}
}

// Stats returns the counters accumulated so far.
func (imp *Importer) Stats() Stats { return imp.stats }

// ImportSets imports a set-log CSV. Expected columns, by header name:
// fecha/date, grupo/muscle_group, ejercicio/exercise, set/set_number,
// kilos/mass_kg, libras/mass_lb, reps, location. Kilos win when both mass
// columns carry a value; either alone is enough.
func (imp *Importer) ImportSets(ctx context.Context, path string) error {
	return imp.importFile(path, func(row map[string]string, line int) error {
		date, err := parseSheetDate(row["fecha"], row["date"])
		if err != nil {
			return err
		}
		group := firstOf(row, "grupo", "muscle_group")
		exercise := firstOf(row, "ejercicio", "exercise")
		if group == "" || exercise == "" {
			return fmt.Errorf("missing group or exercise")
		}
		reps, err := parseIntCell(firstOf(row, "reps"))
		if err != nil || reps <= 0 {
			return fmt.Errorf("bad reps %q", row["reps"])
		}

		kgCell := firstOf(row, "kilos", "mass_kg")
		lbCell := firstOf(row, "libras", "mass_lb")
		kg, lb := models.ResolveMass(parseFloatCell(kgCell), parseFloatCell(lbCell))
		if kg <= 0 {
			return fmt.Errorf("no usable mass in %q / %q", kgCell, lbCell)
		}

		setNumber, _ := parseIntCell(firstOf(row, "set", "set_number"))

		s := models.LoggedSet{
			ID:          uuid.New(),
			Date:        date,
			MuscleGroup: group,
			Exercise:    exercise,
			SetNumber:   setNumber,
			MassKg:      kg,
			MassLb:      lb,
			Reps:        reps,
			Location:    firstOf(row, "location", "lugar"),
		}

		if imp.dryRun {
			imp.stats.SetsImported++
			return nil
		}
		if err := imp.store.AppendSet(ctx, s); err != nil {
			return &storeFailure{fmt.Errorf("appending set: %w", err)}
		}
		imp.stats.SetsImported++
		return nil
	})
}

// ImportMeasurements imports a body-measurement CSV with columns
// fecha/date, grasa/body_fat_pct, peso/weight_kg.
func (imp *Importer) ImportMeasurements(ctx context.Context, path string) error {
	return imp.importFile(path, func(row map[string]string, line int) error {
		date, err := parseSheetDate(row["fecha"], row["date"])
		if err != nil {
			return err
		}
		weight := parseFloatCell(firstOf(row, "peso", "weight_kg"))
		if weight <= 0 || weight > 300 {
			return fmt.Errorf("bad weight %q", firstOf(row, "peso", "weight_kg"))
		}
		fat := parseFloatCell(firstOf(row, "grasa", "body_fat_pct"))
		if fat < 0 || fat > 100 {
			return fmt.Errorf("bad body fat %q", firstOf(row, "grasa", "body_fat_pct"))
		}

		m := models.BodyMeasurement{ID: uuid.New(), Date: date, BodyFatPct: fat, WeightKg: weight}

		if imp.dryRun {
			imp.stats.MeasurementsImported++
			return nil
		}
		if err := imp.store.AppendMeasurement(ctx, m); err != nil {
			return &storeFailure{fmt.Errorf("appending measurement: %w", err)}
		}
		imp.stats.MeasurementsImported++
		return nil
	})
}

// ImportCalories imports a calorie CSV with columns fecha/date and
// calorias/kcal.
func (imp *Importer) ImportCalories(ctx context.Context, path string) error {
	return imp.importFile(path, func(row map[string]string, line int) error {
		date, err := parseSheetDate(row["fecha"], row["date"])
		if err != nil {
			return err
		}
		kcal := parseFloatCell(firstOf(row, "calorias", "kcal"))
		if kcal <= 0 {
			return fmt.Errorf("bad kcal %q", firstOf(row, "calorias", "kcal"))
		}

		e := models.CalorieEntry{ID: uuid.New(), Date: date, Kcal: kcal}

		if imp.dryRun {
			imp.stats.CaloriesImported++
			return nil
		}
		if err := imp.store.AppendCalorieEntry(ctx, e); err != nil {
			return &storeFailure{fmt.Errorf("appending calorie entry: %w", err)}
		}
		imp.stats.CaloriesImported++
		return nil
	})
}

// importFile streams a CSV file row by row through handle. Malformed rows
// are logged and counted, not fatal; store failures abort the import.
func (imp *Importer) importFile(path string, handle func(row map[string]string, line int) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header of %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			imp.log.Warn("malformed csv row", "file", path, "line", line, "error", err)
			imp.stats.RowsErrored++
			continue
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = strings.TrimSpace(record[i])
			}
		}
		if isEmptyRow(row) {
			imp.stats.RowsSkipped++
			continue
		}

		if err := handle(row, line); err != nil {
			var sf *storeFailure
			if errors.As(err, &sf) {
				return fmt.Errorf("%s line %d: %w", path, line, sf.err)
			}
			imp.log.Warn("skipping row", "file", path, "line", line, "error", err)
			imp.stats.RowsErrored++
		}
	}

	return nil
}

func isEmptyRow(row map[string]string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

// storeFailure marks an append error as fatal: parse problems skip a row,
// store problems abort the import.
type storeFailure struct{ err error }

func (e *storeFailure) Error() string { return e.err.Error() }
func (e *storeFailure) Unwrap() error { return e.err }

func firstOf(row map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := row[k]; v != "" {
			return v
		}
	}
	return ""
}

var sheetDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

func parseSheetDate(cells ...string) (time.Time, error) {
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		for _, layout := range sheetDateLayouts {
			if t, err := time.Parse(layout, cell); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unparseable date %q", cell)
	}
	return time.Time{}, fmt.Errorf("missing date")
}

func parseFloatCell(s string) float64 {
	if s == "" {
		return 0
	}
	// The sheet locale writes decimal commas.
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseIntCell(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
