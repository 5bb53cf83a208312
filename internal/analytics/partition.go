package analytics

import (
	"errors"

	"github.com/claude/liftsheet/internal/models"
)

// ErrInsufficientHistory signals that the comparison pool holds fewer than
// two distinct session days, so there is nothing to compare against.
var ErrInsufficientHistory = errors.New("insufficient history: need at least two sessions")

// A session is all rows sharing one calendar day. Days are keyed by their
// ISO date string so that lexical order equals chronological order.
const dayLayout = "2006-01-02"

func dayKey(s models.LoggedSet) string {
	return s.Date.Format(dayLayout)
}

// IndexedSet is a logged set annotated with its positional index within
// (day, exercise). The index is re-derived from store order every time;
// the user-entered set number is never trusted for pairing.
type IndexedSet struct {
	models.LoggedSet
	SetIndex int
}

// AssignSetIndexes ranks rows 1..n per (day, exercise) in store order.
// Idempotent: the same input slice always produces the same indexes.
func AssignSetIndexes(rows []models.LoggedSet) []IndexedSet {
	counts := make(map[[2]string]int)
	out := make([]IndexedSet, 0, len(rows))
	for _, r := range rows {
		key := [2]string{dayKey(r), r.Exercise}
		counts[key]++
		out = append(out, IndexedSet{LoggedSet: r, SetIndex: counts[key]})
	}
	return out
}

// latestDay returns the maximum day key among rows, "" when rows is empty.
func latestDay(rows []models.LoggedSet) string {
	max := ""
	for _, r := range rows {
		if d := dayKey(r); d > max {
			max = d
		}
	}
	return max
}

// priorDay returns the maximum day key strictly before latest, "" when no
// earlier day exists.
func priorDay(rows []models.LoggedSet, latest string) string {
	max := ""
	for _, r := range rows {
		if d := dayKey(r); d < latest && d > max {
			max = d
		}
	}
	return max
}

// onDay filters rows to one day, preserving store order.
func onDay(rows []models.LoggedSet, day string) []models.LoggedSet {
	var out []models.LoggedSet
	for _, r := range rows {
		if dayKey(r) == day {
			out = append(out, r)
		}
	}
	return out
}
