// Package summary derives the dashboard's textual summaries and chart
// series from the raw logs. Everything here is a pure function of the
// full row history, recomputed per request.
package summary

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/claude/liftsheet/internal/analytics"
	"github.com/claude/liftsheet/internal/models"
)

const dayLayout = "2006-01-02"

// DaySummary renders the most recent day's sets grouped by exercise, with
// an asterisk marking each exercise's top (last) set. This is the text the
// original app showed right after registering a set.
func DaySummary(rows []models.LoggedSet) string {
	if len(rows) == 0 {
		return "No sets logged yet."
	}

	latest := ""
	for _, r := range rows {
		if d := r.Date.Format(dayLayout); d > latest {
			latest = d
		}
	}

	var day []models.LoggedSet
	for _, r := range rows {
		if r.Date.Format(dayLayout) == latest {
			day = append(day, r)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Session %s:\n", latest)
	writeExerciseLines(&b, day, true)
	return b.String()
}

// RecentDaysByGroup renders the last n distinct days logged for one muscle
// group, oldest first, without top-set markers.
func RecentDaysByGroup(rows []models.LoggedSet, group string, n int) string {
	var pool []models.LoggedSet
	for _, r := range rows {
		if r.MuscleGroup == group {
			pool = append(pool, r)
		}
	}
	if len(pool) == 0 {
		return fmt.Sprintf("No sets logged for group %q.", group)
	}

	days := distinctDays(pool)
	if len(days) > n {
		days = days[len(days)-n:]
	}

	var b strings.Builder
	for _, day := range days {
		fmt.Fprintf(&b, "Day %s:\n", day)
		var sub []models.LoggedSet
		for _, r := range pool {
			if r.Date.Format(dayLayout) == day {
				sub = append(sub, r)
			}
		}
		writeExerciseLines(&b, sub, false)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// writeExerciseLines appends per-exercise set lines for one day's rows.
// Set indexes are re-derived from row order, same as the comparator does.
func writeExerciseLines(b *strings.Builder, day []models.LoggedSet, markTop bool) {
	indexed := analytics.AssignSetIndexes(day)

	lastIndex := make(map[string]int)
	for _, s := range indexed {
		if s.SetIndex > lastIndex[s.Exercise] {
			lastIndex[s.Exercise] = s.SetIndex
		}
	}

	var order []string
	seen := make(map[string]bool)
	for _, s := range indexed {
		if !seen[s.Exercise] {
			seen[s.Exercise] = true
			order = append(order, s.Exercise)
		}
	}

	for _, exercise := range order {
		fmt.Fprintf(b, "Exercise: %s\n", exercise)
		for _, s := range indexed {
			if s.Exercise != exercise {
				continue
			}
			line := fmt.Sprintf("Set %d: %g kg, %g lb, %d reps", s.SetIndex, s.MassKg, s.MassLb, s.Reps)
			if markTop && s.SetIndex == lastIndex[exercise] {
				line = "* " + line
			}
			b.WriteString(line + "\n")
		}
	}
}

func distinctDays(rows []models.LoggedSet) []string {
	var days []string
	seen := make(map[string]bool)
	for _, r := range rows {
		d := r.Date.Format(dayLayout)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	// Dates can arrive out of order when the user backfills; ISO date
	// strings sort chronologically.
	sort.Strings(days)
	return days
}

// SeriesPoint is one day's best set for an exercise.
type SeriesPoint struct {
	Date   string  `json:"date"`
	MassKg float64 `json:"mass_kg"`
	Reps   int     `json:"reps"`
}

// ExerciseSeries is the per-exercise progress line a chart renders.
type ExerciseSeries struct {
	Exercise string        `json:"exercise"`
	Points   []SeriesPoint `json:"points"`
}

// ProgressSeries computes, per exercise, the heaviest set of each day for
// rows matching the group, optional location, and date range.
func ProgressSeries(rows []models.LoggedSet, group, location string, start, end time.Time) []ExerciseSeries {
	var pool []models.LoggedSet
	for _, r := range rows {
		if r.MuscleGroup != group {
			continue
		}
		if location != "" && r.Location != location {
			continue
		}
		if !start.IsZero() && r.Date.Before(start) {
			continue
		}
		if !end.IsZero() && !r.Date.Before(end) {
			continue
		}
		pool = append(pool, r)
	}

	type dayKey struct {
		exercise string
		day      string
	}
	best := make(map[dayKey]SeriesPoint)
	var exOrder []string
	seenEx := make(map[string]bool)

	for _, r := range pool {
		if !seenEx[r.Exercise] {
			seenEx[r.Exercise] = true
			exOrder = append(exOrder, r.Exercise)
		}
		k := dayKey{r.Exercise, r.Date.Format(dayLayout)}
		if p, ok := best[k]; !ok || r.MassKg > p.MassKg {
			best[k] = SeriesPoint{Date: k.day, MassKg: r.MassKg, Reps: r.Reps}
		}
	}

	var out []ExerciseSeries
	for _, exercise := range exOrder {
		var days []string
		for k := range best {
			if k.exercise == exercise {
				days = append(days, k.day)
			}
		}
		sort.Strings(days)
		series := ExerciseSeries{Exercise: exercise}
		for _, d := range days {
			series.Points = append(series.Points, best[dayKey{exercise, d}])
		}
		out = append(out, series)
	}
	return out
}
