package models

import "math"

// PoundsPerKg is the conversion factor the original spreadsheet used.
const PoundsPerKg = 2.20462

// KgToLb converts kilograms to pounds, rounded to one decimal.
func KgToLb(kg float64) float64 {
	return round1(kg * PoundsPerKg)
}

// LbToKg converts pounds to kilograms, rounded to one decimal.
func LbToKg(lb float64) float64 {
	return round1(lb / PoundsPerKg)
}

// ResolveMass fills in whichever of kg/lb is missing. Exactly one side is
// authoritative per entry: when both are supplied, kg wins and lb is
// recomputed so the pair stays mutually consistent.
func ResolveMass(kg, lb float64) (float64, float64) {
	switch {
	case kg > 0:
		return kg, KgToLb(kg)
	case lb > 0:
		return LbToKg(lb), lb
	default:
		return 0, 0
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
