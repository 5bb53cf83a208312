package summary

import (
	"sort"

	"github.com/claude/liftsheet/internal/models"
)

// WeeklyPoint is one ISO week's averaged body composition. WeightChangeKg
// is nil for the first week, where there is nothing to diff against.
type WeeklyPoint struct {
	Week           string   `json:"week"` // Monday of the week, YYYY-MM-DD
	AvgWeightKg    float64  `json:"avg_weight_kg"`
	AvgBodyFatPct  float64  `json:"avg_body_fat_pct"`
	WeightChangeKg *float64 `json:"weight_change_kg,omitempty"`
}

// WeeklyBodyTrend groups measurements by ISO week and averages weight and
// body fat, attaching the week-over-week weight change.
func WeeklyBodyTrend(ms []models.BodyMeasurement) []WeeklyPoint {
	type acc struct {
		weight, fat float64
		n           int
	}
	weeks := make(map[string]*acc)
	for _, m := range ms {
		// Key by the Monday of the measurement's week.
		wd := (int(m.Date.Weekday()) + 6) % 7
		monday := m.Date.AddDate(0, 0, -wd).Format(dayLayout)
		a, ok := weeks[monday]
		if !ok {
			a = &acc{}
			weeks[monday] = a
		}
		a.weight += m.WeightKg
		a.fat += m.BodyFatPct
		a.n++
	}

	keys := make([]string, 0, len(weeks))
	for k := range weeks {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]WeeklyPoint, 0, len(keys))
	for i, k := range keys {
		a := weeks[k]
		p := WeeklyPoint{
			Week:          k,
			AvgWeightKg:   a.weight / float64(a.n),
			AvgBodyFatPct: a.fat / float64(a.n),
		}
		if i > 0 {
			change := p.AvgWeightKg - out[i-1].AvgWeightKg
			p.WeightChangeKg = &change
		}
		out = append(out, p)
	}
	return out
}

// DailyCalories holds one day's summed intake.
type DailyCalories struct {
	Date      string  `json:"date"`
	TotalKcal float64 `json:"total_kcal"`
}

// LatestDayCalories sums the entries of the most recent logged day.
func LatestDayCalories(entries []models.CalorieEntry) DailyCalories {
	latest := ""
	for _, e := range entries {
		if d := e.Date.Format(dayLayout); d > latest {
			latest = d
		}
	}
	total := 0.0
	for _, e := range entries {
		if e.Date.Format(dayLayout) == latest {
			total += e.Kcal
		}
	}
	return DailyCalories{Date: latest, TotalKcal: total}
}
