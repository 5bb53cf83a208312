package models

import (
	"time"

	"github.com/google/uuid"
)

// LoggedSet is one recorded set of work, one row in the set log.
//
// SetNumber is whatever the user typed into the form and is kept for display
// parity with the spreadsheet. The analytics layer never trusts it: positional
// set indexes are re-derived from store order at query time.
type LoggedSet struct {
	ID          uuid.UUID `json:"id"`
	Date        time.Time `json:"date"`
	MuscleGroup string    `json:"muscle_group"`
	Exercise    string    `json:"exercise"`
	SetNumber   int       `json:"set_number"`
	MassKg      float64   `json:"mass_kg"`
	MassLb      float64   `json:"mass_lb"`
	Reps        int       `json:"reps"`
	Location    string    `json:"location"`
}

// BodyMeasurement is one body-composition reading.
type BodyMeasurement struct {
	ID         uuid.UUID `json:"id"`
	Date       time.Time `json:"date"`
	BodyFatPct float64   `json:"body_fat_pct"`
	WeightKg   float64   `json:"weight_kg"`
}

// CalorieEntry is one logged intake amount. Multiple entries per day are
// expected; daily totals are computed on read.
type CalorieEntry struct {
	ID   uuid.UUID `json:"id"`
	Date time.Time `json:"date"`
	Kcal float64   `json:"kcal"`
}
