package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/claude/liftsheet/internal/models"
	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSet(day string, exercise string, massKg float64) models.LoggedSet {
	d, _ := time.Parse("2006-01-02", day)
	return models.LoggedSet{
		ID:          uuid.New(),
		Date:        d,
		MuscleGroup: "leg",
		Exercise:    exercise,
		SetNumber:   1,
		MassKg:      massKg,
		MassLb:      models.KgToLb(massKg),
		Reps:        5,
		Location:    "CIDE",
	}
}

// TestSetRoundTrip verifies appended sets come back in insertion order
// with all fields intact.
func TestSetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sets := []models.LoggedSet{
		testSet("2024-01-08", "Squat", 100),
		testSet("2024-01-01", "Squat", 95), // backfilled older date, still second in order
		testSet("2024-01-08", "Hip Thrust", 120),
	}
	for _, set := range sets {
		if err := s.AppendSet(ctx, set); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := s.ReadAllSets(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i := range sets {
		if got[i].ID != sets[i].ID {
			t.Errorf("row %d: id = %v, want %v (insertion order broken)", i, got[i].ID, sets[i].ID)
		}
		if !got[i].Date.Equal(sets[i].Date) {
			t.Errorf("row %d: date = %v, want %v", i, got[i].Date, sets[i].Date)
		}
		if got[i].MassKg != sets[i].MassKg || got[i].MassLb != sets[i].MassLb {
			t.Errorf("row %d: mass = %v/%v, want %v/%v",
				i, got[i].MassKg, got[i].MassLb, sets[i].MassKg, sets[i].MassLb)
		}
	}
}

// TestDeleteLastSet verifies only the most recently appended row goes away
// and deleting from an empty log fails with ErrEmptyLog.
func TestDeleteLastSet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := testSet("2024-01-01", "Squat", 100)
	second := testSet("2024-01-01", "Squat", 105)
	if err := s.AppendSet(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendSet(ctx, second); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteLastSet(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := s.ReadAllSets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != first.ID {
		t.Fatalf("after delete: %+v, want only the first row", got)
	}

	if err := s.DeleteLastSet(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteLastSet(ctx); !errors.Is(err, ErrEmptyLog) {
		t.Errorf("delete on empty log: err = %v, want ErrEmptyLog", err)
	}
}

func TestMeasurementRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	loc := time.FixedZone("CST", -6*3600)
	m := models.BodyMeasurement{
		ID:         uuid.New(),
		Date:       time.Date(2024, 1, 5, 7, 30, 0, 0, loc),
		BodyFatPct: 18.5,
		WeightKg:   79.3,
	}
	if err := s.AppendMeasurement(ctx, m); err != nil {
		t.Fatal(err)
	}

	got, err := s.ReadAllMeasurements(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if !got[0].Date.Equal(m.Date) {
		t.Errorf("date = %v, want %v (zone offset lost?)", got[0].Date, m.Date)
	}
	if got[0].BodyFatPct != 18.5 || got[0].WeightKg != 79.3 {
		t.Errorf("values = %v/%v, want 18.5/79.3", got[0].BodyFatPct, got[0].WeightKg)
	}
}

func TestCalorieRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, kcal := range []float64{650, 820} {
		e := models.CalorieEntry{ID: uuid.New(), Date: time.Now().UTC().Truncate(time.Second), Kcal: kcal}
		if err := s.AppendCalorieEntry(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ReadAllCalorieEntries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Kcal != 650 || got[1].Kcal != 820 {
		t.Fatalf("got %+v, want 650 then 820", got)
	}
}
