package storage

import (
	"context"
	"fmt"

	"github.com/claude/liftsheet/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the hosted backend, backed by a pgx connection pool.
// Insertion order is the bigserial seq column.
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres creates a Postgres store with a connection pool.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Postgres{Pool: pool}, nil
}

// Close closes the connection pool.
func (db *Postgres) Close() error {
	db.Pool.Close()
	return nil
}

func (db *Postgres) AppendSet(ctx context.Context, s models.LoggedSet) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO logged_sets (id, date, muscle_group, exercise, set_number, mass_kg, mass_lb, reps, location)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		s.ID, s.Date, s.MuscleGroup, s.Exercise, s.SetNumber, s.MassKg, s.MassLb, s.Reps, s.Location)
	if err != nil {
		return fmt.Errorf("appending set: %w", err)
	}
	return nil
}

func (db *Postgres) ReadAllSets(ctx context.Context) ([]models.LoggedSet, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, date, muscle_group, exercise, set_number, mass_kg, mass_lb, reps, location
		 FROM logged_sets
		 ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	var result []models.LoggedSet
	for rows.Next() {
		var s models.LoggedSet
		if err := rows.Scan(&s.ID, &s.Date, &s.MuscleGroup, &s.Exercise,
			&s.SetNumber, &s.MassKg, &s.MassLb, &s.Reps, &s.Location); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (db *Postgres) DeleteLastSet(ctx context.Context) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM logged_sets WHERE seq = (SELECT MAX(seq) FROM logged_sets)`)
	if err != nil {
		return fmt.Errorf("deleting last set: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEmptyLog
	}
	return nil
}

func (db *Postgres) AppendMeasurement(ctx context.Context, m models.BodyMeasurement) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO body_measurements (id, date, body_fat_pct, weight_kg) VALUES ($1,$2,$3,$4)`,
		m.ID, m.Date, m.BodyFatPct, m.WeightKg)
	if err != nil {
		return fmt.Errorf("appending measurement: %w", err)
	}
	return nil
}

func (db *Postgres) ReadAllMeasurements(ctx context.Context) ([]models.BodyMeasurement, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, date, body_fat_pct, weight_kg FROM body_measurements ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying measurements: %w", err)
	}
	defer rows.Close()

	var result []models.BodyMeasurement
	for rows.Next() {
		var m models.BodyMeasurement
		if err := rows.Scan(&m.ID, &m.Date, &m.BodyFatPct, &m.WeightKg); err != nil {
			return nil, fmt.Errorf("scanning measurement: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (db *Postgres) AppendCalorieEntry(ctx context.Context, e models.CalorieEntry) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO calorie_entries (id, date, kcal) VALUES ($1,$2,$3)`,
		e.ID, e.Date, e.Kcal)
	if err != nil {
		return fmt.Errorf("appending calorie entry: %w", err)
	}
	return nil
}

func (db *Postgres) ReadAllCalorieEntries(ctx context.Context) ([]models.CalorieEntry, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, date, kcal FROM calorie_entries ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying calorie entries: %w", err)
	}
	defer rows.Close()

	var result []models.CalorieEntry
	for rows.Next() {
		var e models.CalorieEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.Kcal); err != nil {
			return nil, fmt.Errorf("scanning calorie entry: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
