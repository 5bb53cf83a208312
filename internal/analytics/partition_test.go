package analytics

import (
	"testing"
	"time"

	"github.com/claude/liftsheet/internal/models"
)

func set(day, group, exercise string, massKg float64, reps int, location string) models.LoggedSet {
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return models.LoggedSet{
		Date:        d,
		MuscleGroup: group,
		Exercise:    exercise,
		MassKg:      massKg,
		MassLb:      models.KgToLb(massKg),
		Reps:        reps,
		Location:    location,
	}
}

// TestAssignSetIndexes verifies indexes are dense 1..n per (day, exercise)
// in store order, independent of any user-entered set number.
func TestAssignSetIndexes(t *testing.T) {
	rows := []models.LoggedSet{
		set("2024-01-01", "leg", "Squat", 100, 5, "CIDE"),
		set("2024-01-01", "leg", "Squat", 105, 5, "CIDE"),
		set("2024-01-01", "leg", "Leg Extension", 40, 12, "CIDE"),
		set("2024-01-01", "leg", "Squat", 110, 3, "CIDE"),
		set("2024-01-02", "leg", "Squat", 100, 5, "CIDE"),
	}

	indexed := AssignSetIndexes(rows)

	want := []int{1, 2, 1, 3, 1}
	for i, ix := range indexed {
		if ix.SetIndex != want[i] {
			t.Errorf("row %d: set index = %d, want %d", i, ix.SetIndex, want[i])
		}
	}
}

// TestAssignSetIndexesIdempotent verifies re-running assignment yields the
// same ranks in the same order.
func TestAssignSetIndexesIdempotent(t *testing.T) {
	rows := []models.LoggedSet{
		set("2024-01-01", "push", "Bench Press", 80, 8, "CIDE"),
		set("2024-01-01", "push", "Bench Press", 85, 6, "CIDE"),
		set("2024-01-01", "push", "Dips", 20, 10, "CIDE"),
	}

	first := AssignSetIndexes(rows)
	second := AssignSetIndexes(rows)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].SetIndex != second[i].SetIndex {
			t.Errorf("row %d: %d vs %d", i, first[i].SetIndex, second[i].SetIndex)
		}
	}
}

func TestLatestAndPriorDay(t *testing.T) {
	rows := []models.LoggedSet{
		set("2024-01-01", "leg", "Squat", 100, 5, "CIDE"),
		set("2024-01-08", "leg", "Squat", 105, 5, "CIDE"),
		set("2024-01-08", "leg", "Squat", 110, 3, "CIDE"),
		set("2024-01-15", "leg", "Squat", 102, 5, "CIDE"),
	}

	latest := latestDay(rows)
	if latest != "2024-01-15" {
		t.Errorf("latestDay = %q, want 2024-01-15", latest)
	}
	if prior := priorDay(rows, latest); prior != "2024-01-08" {
		t.Errorf("priorDay = %q, want 2024-01-08", prior)
	}
	if prior := priorDay(rows, "2024-01-01"); prior != "" {
		t.Errorf("priorDay before first session = %q, want empty", prior)
	}
}

func TestOnDayPreservesOrder(t *testing.T) {
	rows := []models.LoggedSet{
		set("2024-01-01", "leg", "Squat", 100, 5, "CIDE"),
		set("2024-01-02", "leg", "Squat", 90, 8, "CIDE"),
		set("2024-01-01", "leg", "Hip Thrust", 120, 10, "CIDE"),
	}

	day := onDay(rows, "2024-01-01")
	if len(day) != 2 {
		t.Fatalf("len = %d, want 2", len(day))
	}
	if day[0].Exercise != "Squat" || day[1].Exercise != "Hip Thrust" {
		t.Errorf("order not preserved: %q, %q", day[0].Exercise, day[1].Exercise)
	}
}
