package analytics

// NormalizedLoad projects a (mass, reps) pair onto an equivalent mass at
// 8 repetitions, so sets with different rep schemes land on one strength
// axis. Zero reps yields 0, a "no contribution" sentinel rather than a
// measured value.
func NormalizedLoad(massKg float64, reps int) float64 {
	if reps <= 0 {
		return 0
	}
	return massKg / float64(reps) * 8
}

// PercentDelta returns the percentage change from prior to today.
// A non-positive prior yields 0: the rendered figure the original app
// always showed when there was no baseline. Callers that need to tell
// "no baseline" from "no change" must look at the totals, not the delta.
func PercentDelta(today, prior float64) float64 {
	if prior <= 0 {
		return 0
	}
	return (today - prior) / prior * 100
}
