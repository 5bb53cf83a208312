package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/claude/liftsheet/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLite is the local single-file backend and the test fixture. Dates are
// stored as RFC 3339 text so round-trips keep their zone offset.
type SQLite struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS logged_sets (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	id           TEXT NOT NULL,
	date         TEXT NOT NULL,
	muscle_group TEXT NOT NULL,
	exercise     TEXT NOT NULL,
	set_number   INTEGER NOT NULL,
	mass_kg      REAL NOT NULL,
	mass_lb      REAL NOT NULL,
	reps         INTEGER NOT NULL,
	location     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS body_measurements (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	id           TEXT NOT NULL,
	date         TEXT NOT NULL,
	body_fat_pct REAL NOT NULL,
	weight_kg    REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS calorie_entries (
	seq  INTEGER PRIMARY KEY AUTOINCREMENT,
	id   TEXT NOT NULL,
	date TEXT NOT NULL,
	kcal REAL NOT NULL
);`

// OpenSQLite opens (or creates) the SQLite store at path and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) AppendSet(ctx context.Context, set models.LoggedSet) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO logged_sets (id, date, muscle_group, exercise, set_number, mass_kg, mass_lb, reps, location)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		set.ID.String(), set.Date.Format(time.RFC3339), set.MuscleGroup, set.Exercise,
		set.SetNumber, set.MassKg, set.MassLb, set.Reps, set.Location)
	if err != nil {
		return fmt.Errorf("appending set: %w", err)
	}
	return nil
}

func (s *SQLite) ReadAllSets(ctx context.Context) ([]models.LoggedSet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, muscle_group, exercise, set_number, mass_kg, mass_lb, reps, location
		 FROM logged_sets ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	var result []models.LoggedSet
	for rows.Next() {
		var set models.LoggedSet
		var id, date string
		if err := rows.Scan(&id, &date, &set.MuscleGroup, &set.Exercise,
			&set.SetNumber, &set.MassKg, &set.MassLb, &set.Reps, &set.Location); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		if set.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing set id %q: %w", id, err)
		}
		if set.Date, err = time.Parse(time.RFC3339, date); err != nil {
			return nil, fmt.Errorf("parsing set date %q: %w", date, err)
		}
		result = append(result, set)
	}
	return result, rows.Err()
}

func (s *SQLite) DeleteLastSet(ctx context.Context) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM logged_sets WHERE seq = (SELECT MAX(seq) FROM logged_sets)`)
	if err != nil {
		return fmt.Errorf("deleting last set: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting last set: %w", err)
	}
	if n == 0 {
		return ErrEmptyLog
	}
	return nil
}

func (s *SQLite) AppendMeasurement(ctx context.Context, m models.BodyMeasurement) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO body_measurements (id, date, body_fat_pct, weight_kg) VALUES (?,?,?,?)`,
		m.ID.String(), m.Date.Format(time.RFC3339), m.BodyFatPct, m.WeightKg)
	if err != nil {
		return fmt.Errorf("appending measurement: %w", err)
	}
	return nil
}

func (s *SQLite) ReadAllMeasurements(ctx context.Context) ([]models.BodyMeasurement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, body_fat_pct, weight_kg FROM body_measurements ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying measurements: %w", err)
	}
	defer rows.Close()

	var result []models.BodyMeasurement
	for rows.Next() {
		var m models.BodyMeasurement
		var id, date string
		if err := rows.Scan(&id, &date, &m.BodyFatPct, &m.WeightKg); err != nil {
			return nil, fmt.Errorf("scanning measurement: %w", err)
		}
		if m.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing measurement id %q: %w", id, err)
		}
		if m.Date, err = time.Parse(time.RFC3339, date); err != nil {
			return nil, fmt.Errorf("parsing measurement date %q: %w", date, err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (s *SQLite) AppendCalorieEntry(ctx context.Context, e models.CalorieEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calorie_entries (id, date, kcal) VALUES (?,?,?)`,
		e.ID.String(), e.Date.Format(time.RFC3339), e.Kcal)
	if err != nil {
		return fmt.Errorf("appending calorie entry: %w", err)
	}
	return nil
}

func (s *SQLite) ReadAllCalorieEntries(ctx context.Context) ([]models.CalorieEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, kcal FROM calorie_entries ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying calorie entries: %w", err)
	}
	defer rows.Close()

	var result []models.CalorieEntry
	for rows.Next() {
		var e models.CalorieEntry
		var id, date string
		if err := rows.Scan(&id, &date, &e.Kcal); err != nil {
			return nil, fmt.Errorf("scanning calorie entry: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing calorie entry id %q: %w", id, err)
		}
		if e.Date, err = time.Parse(time.RFC3339, date); err != nil {
			return nil, fmt.Errorf("parsing calorie entry date %q: %w", date, err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
