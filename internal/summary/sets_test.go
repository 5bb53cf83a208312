package summary

import (
	"strings"
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

func TestDaySummaryMarksTopSet(t *testing.T) {
	rows := []models.LoggedSet{
		set("2024-01-01", "leg", "Squat", 100, 5, "CIDE"),
		set("2024-01-08", "leg", "Squat", 100, 5, "CIDE"),
		set("2024-01-08", "leg", "Squat", 110, 3, "CIDE"),
		set("2024-01-08", "leg", "Hip Thrust", 120, 10, "CIDE"),
	}

	got := DaySummary(rows)

	if !strings.Contains(got, "Session 2024-01-08:") {
		t.Errorf("summary missing session header:\n%s", got)
	}
	if strings.Contains(got, "100 kg, 220.5 lb, 5 reps") == false {
		t.Errorf("summary missing squat set 1:\n%s", got)
	}
	if !strings.Contains(got, "* Set 2: 110 kg") {
		t.Errorf("top squat set not marked:\n%s", got)
	}
	if !strings.Contains(got, "* Set 1: 120 kg") {
		t.Errorf("single hip thrust set should carry the marker:\n%s", got)
	}
	if strings.Contains(got, "2024-01-01") {
		t.Errorf("older session leaked into day summary:\n%s", got)
	}
}

func TestDaySummaryEmpty(t *testing.T) {
	if got := DaySummary(nil); !strings.Contains(got, "No sets") {
		t.Errorf("empty log summary = %q", got)
	}
}

func TestRecentDaysByGroup(t *testing.T) {
	rows := []models.LoggedSet{
		set("2024-01-01", "leg", "Squat", 100, 5, "CIDE"),
		set("2024-01-08", "leg", "Squat", 105, 5, "CIDE"),
		set("2024-01-15", "leg", "Squat", 110, 5, "CIDE"),
		set("2024-01-16", "push", "Bench Press", 80, 8, "CIDE"),
	}

	got := RecentDaysByGroup(rows, "leg", 2)

	if strings.Contains(got, "2024-01-01") {
		t.Errorf("only last two days expected:\n%s", got)
	}
	if !strings.Contains(got, "Day 2024-01-08:") || !strings.Contains(got, "Day 2024-01-15:") {
		t.Errorf("expected last two leg days:\n%s", got)
	}
	if strings.Contains(got, "Bench Press") {
		t.Errorf("other group leaked in:\n%s", got)
	}
	if strings.Contains(got, "*") {
		t.Errorf("recent-days summary should not mark top sets:\n%s", got)
	}
}

func TestRecentDaysByGroupNoData(t *testing.T) {
	got := RecentDaysByGroup(nil, "pull", 2)
	if !strings.Contains(got, "No sets logged for group") {
		t.Errorf("got %q", got)
	}
}

func TestProgressSeries(t *testing.T) {
	rows := []models.LoggedSet{
		set("2024-01-01", "leg", "Squat", 100, 5, "CIDE"),
		set("2024-01-01", "leg", "Squat", 110, 3, "CIDE"),
		set("2024-01-08", "leg", "Squat", 105, 5, "CIDE"),
		set("2024-01-08", "leg", "Hip Thrust", 120, 10, "CIDE"),
		set("2024-01-08", "leg", "Squat", 107, 5, "SmartFit"),
		set("2024-01-08", "push", "Bench Press", 80, 8, "CIDE"),
	}

	series := ProgressSeries(rows, "leg", "CIDE", time.Time{}, time.Time{})

	if len(series) != 2 {
		t.Fatalf("series count = %d, want 2", len(series))
	}
	squat := series[0]
	if squat.Exercise != "Squat" {
		t.Fatalf("first series = %q, want Squat", squat.Exercise)
	}
	if len(squat.Points) != 2 {
		t.Fatalf("squat points = %d, want 2", len(squat.Points))
	}
	// Heaviest set of the day wins, with its own reps.
	if squat.Points[0].MassKg != 110 || squat.Points[0].Reps != 3 {
		t.Errorf("day 1 best = %v kg x %d, want 110x3", squat.Points[0].MassKg, squat.Points[0].Reps)
	}
	// The SmartFit set is filtered out by location.
	if squat.Points[1].MassKg != 105 {
		t.Errorf("day 2 best = %v kg, want 105", squat.Points[1].MassKg)
	}
}

func TestProgressSeriesDateRange(t *testing.T) {
	rows := []models.LoggedSet{
		set("2024-01-01", "leg", "Squat", 100, 5, "CIDE"),
		set("2024-02-01", "leg", "Squat", 105, 5, "CIDE"),
	}

	start, _ := time.Parse("2006-01-02", "2024-01-15")
	series := ProgressSeries(rows, "leg", "", start, time.Time{})

	if len(series) != 1 || len(series[0].Points) != 1 {
		t.Fatalf("unexpected shape: %+v", series)
	}
	if series[0].Points[0].Date != "2024-02-01" {
		t.Errorf("point date = %q, want 2024-02-01", series[0].Points[0].Date)
	}
}
