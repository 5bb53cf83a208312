package analytics

import (
	"fmt"

	"github.com/claude/liftsheet/internal/models"
)

// Mode selects the comparison pool. The three modes share one code path;
// they differ only in how the pool and the prior session are chosen.
type Mode string

const (
	// ModeGroup pools all rows sharing the muscle group of the last
	// appended row; the prior session is the most recent earlier day in
	// that pool.
	ModeGroup Mode = "group"
	// ModeGroupLocation narrows ModeGroup's pool to rows that also share
	// the last appended row's location.
	ModeGroupLocation Mode = "group-location"
	// ModeExerciseHistory compares each exercise performed on the most
	// recent day against that exercise's own most recent earlier
	// occurrence, which may fall on a different day per exercise.
	ModeExerciseHistory Mode = "exercise"
)

// ParseMode maps a query-string value onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeGroup, ModeGroupLocation, ModeExerciseHistory:
		return Mode(s), nil
	case "":
		return ModeGroup, nil
	}
	return "", fmt.Errorf("unknown comparison mode %q", s)
}

type Status string

const (
	StatusOK                  Status = "ok"
	StatusInsufficientHistory Status = "insufficient_history"
)

// SetSide is one side of a paired set.
type SetSide struct {
	MassKg       float64 `json:"mass_kg"`
	Reps         int     `json:"reps"`
	NormalizedKg float64 `json:"normalized_kg"`
}

// SetComparison pairs a today-set with its positional counterpart from the
// prior session. Prior is nil when no counterpart exists; aggregates then
// treat the prior side as a zero baseline, which inflates the percentage
// gain for new sets. That skew is inherited behavior, kept on purpose.
type SetComparison struct {
	Exercise string   `json:"exercise"`
	SetIndex int      `json:"set_index"`
	Today    SetSide  `json:"today"`
	Prior    *SetSide `json:"prior,omitempty"`
}

// Totals aggregates one side of a comparison.
type Totals struct {
	MassKg           float64 `json:"mass_kg"`
	Reps             int     `json:"reps"`
	NormalizedKg     float64 `json:"normalized_kg"`
	Sets             int     `json:"sets"`
	MassPerSet       float64 `json:"mass_per_set"`
	NormalizedPerSet float64 `json:"normalized_per_set"`
}

func (t *Totals) add(s SetSide) {
	t.MassKg += s.MassKg
	t.Reps += s.Reps
	t.NormalizedKg += s.NormalizedKg
	t.Sets++
}

func (t *Totals) finalize() {
	if t.Sets > 0 {
		t.MassPerSet = t.MassKg / float64(t.Sets)
		t.NormalizedPerSet = t.NormalizedKg / float64(t.Sets)
	}
}

// Deltas holds the percentage changes the dashboard renders.
type Deltas struct {
	MassPct             float64 `json:"mass_pct"`
	RepsPct             float64 `json:"reps_pct"`
	NormalizedPerSetPct float64 `json:"normalized_per_set_pct"`
}

func deltasBetween(today, prior Totals) Deltas {
	return Deltas{
		MassPct:             PercentDelta(today.MassKg, prior.MassKg),
		RepsPct:             PercentDelta(float64(today.Reps), float64(prior.Reps)),
		NormalizedPerSetPct: PercentDelta(today.NormalizedPerSet, prior.NormalizedPerSet),
	}
}

// GroupComparison is the per-muscle-group breakdown. It carries one entry
// in the group-scoped modes and becomes informative in exercise-history
// mode, where the day can span several groups.
type GroupComparison struct {
	MuscleGroup string `json:"muscle_group"`
	Today       Totals `json:"today"`
	Prior       Totals `json:"prior"`
	Deltas      Deltas `json:"deltas"`
}

// ExerciseComparison is the per-exercise breakdown, including the paired
// sets. PriorDate is only set in exercise-history mode, where each
// exercise finds its own prior day; it is empty when the exercise has
// never been performed before.
type ExerciseComparison struct {
	Exercise  string          `json:"exercise"`
	PriorDate string          `json:"prior_date,omitempty"`
	Today     Totals          `json:"today"`
	Prior     Totals          `json:"prior"`
	Deltas    Deltas          `json:"deltas"`
	Sets      []SetComparison `json:"sets"`
}

// Report is the comparator's full output. Today/Prior totals stay
// structured so callers can distinguish "no prior data" (prior side has
// zero sets) from a measured zero; only rendered percentage strings
// collapse that distinction.
type Report struct {
	Status      Status               `json:"status"`
	Message     string               `json:"message,omitempty"`
	Mode        Mode                 `json:"mode"`
	MuscleGroup string               `json:"muscle_group,omitempty"`
	Location    string               `json:"location,omitempty"`
	TodayDate   string               `json:"today_date,omitempty"`
	PriorDate   string               `json:"prior_date,omitempty"`
	Today       Totals               `json:"today_totals"`
	Prior       Totals               `json:"prior_totals"`
	Deltas      Deltas               `json:"deltas"`
	ByGroup     []GroupComparison    `json:"by_group,omitempty"`
	ByExercise  []ExerciseComparison `json:"by_exercise,omitempty"`
}

// InsufficientHistoryReport is the degenerate result handlers return when
// Compare fails with ErrInsufficientHistory: human-readable, no numbers.
func InsufficientHistoryReport(mode Mode) *Report {
	return &Report{
		Status:  StatusInsufficientHistory,
		Message: "not enough logged sessions to compare; log at least two days",
		Mode:    mode,
	}
}

// Compare recomputes a comparison report from the full ordered row history.
// Pure: no state survives between calls. Returns ErrInsufficientHistory
// when the mode's pool spans fewer than two distinct days.
func Compare(rows []models.LoggedSet, mode Mode) (*Report, error) {
	if len(rows) == 0 {
		return nil, ErrInsufficientHistory
	}
	switch mode {
	case ModeGroup, ModeGroupLocation:
		return compareScoped(rows, mode)
	case ModeExerciseHistory:
		return compareExerciseHistory(rows)
	}
	return nil, fmt.Errorf("unknown comparison mode %q", mode)
}

// compareScoped handles the group and group+location modes. The pool is
// anchored on the last appended row: the session being closed out is
// always the one the user just logged, regardless of any view filter.
func compareScoped(rows []models.LoggedSet, mode Mode) (*Report, error) {
	anchor := rows[len(rows)-1]

	var pool []models.LoggedSet
	for _, r := range rows {
		if r.MuscleGroup != anchor.MuscleGroup {
			continue
		}
		if mode == ModeGroupLocation && r.Location != anchor.Location {
			continue
		}
		pool = append(pool, r)
	}

	today := latestDay(pool)
	prior := priorDay(pool, today)
	if prior == "" {
		return nil, ErrInsufficientHistory
	}

	todaySets := AssignSetIndexes(onDay(pool, today))
	priorSets := AssignSetIndexes(onDay(pool, prior))

	pairs := pairSets(todaySets, priorSets)

	report := buildReport(pairs, todaySets)
	report.Mode = mode
	report.MuscleGroup = anchor.MuscleGroup
	if mode == ModeGroupLocation {
		report.Location = anchor.Location
	}
	report.TodayDate = today
	report.PriorDate = prior
	return report, nil
}

// compareExerciseHistory handles per-exercise prior lookup. Today is the
// global maximum day; each exercise performed today independently finds
// its most recent earlier occurrence.
func compareExerciseHistory(rows []models.LoggedSet) (*Report, error) {
	today := latestDay(rows)
	if priorDay(rows, today) == "" {
		return nil, ErrInsufficientHistory
	}

	todaySets := AssignSetIndexes(onDay(rows, today))

	// Rows per exercise across all history, store order preserved.
	byExercise := make(map[string][]models.LoggedSet)
	for _, r := range rows {
		byExercise[r.Exercise] = append(byExercise[r.Exercise], r)
	}

	var pairs []SetComparison
	priorDates := make(map[string]string)
	for _, ts := range todaySets {
		pd, ok := priorDates[ts.Exercise]
		if !ok {
			pd = priorDay(byExercise[ts.Exercise], today)
			priorDates[ts.Exercise] = pd
		}

		pair := SetComparison{
			Exercise: ts.Exercise,
			SetIndex: ts.SetIndex,
			Today:    sideOf(ts),
		}
		if pd != "" {
			for _, ps := range AssignSetIndexes(onDay(byExercise[ts.Exercise], pd)) {
				if ps.SetIndex == ts.SetIndex {
					side := sideOf(ps)
					pair.Prior = &side
					break
				}
			}
		}
		pairs = append(pairs, pair)
	}

	report := buildReport(pairs, todaySets)
	report.Mode = ModeExerciseHistory
	report.TodayDate = today
	for i := range report.ByExercise {
		report.ByExercise[i].PriorDate = priorDates[report.ByExercise[i].Exercise]
	}
	return report, nil
}

func sideOf(s IndexedSet) SetSide {
	return SetSide{
		MassKg:       s.MassKg,
		Reps:         s.Reps,
		NormalizedKg: NormalizedLoad(s.MassKg, s.Reps),
	}
}

// pairSets left-joins today's (exercise, set_index) rows against prior's.
// Every today-set appears exactly once; prior-only sets are dropped.
func pairSets(todaySets, priorSets []IndexedSet) []SetComparison {
	type key struct {
		exercise string
		index    int
	}
	priorByKey := make(map[key]IndexedSet, len(priorSets))
	for _, ps := range priorSets {
		priorByKey[key{ps.Exercise, ps.SetIndex}] = ps
	}

	pairs := make([]SetComparison, 0, len(todaySets))
	for _, ts := range todaySets {
		pair := SetComparison{
			Exercise: ts.Exercise,
			SetIndex: ts.SetIndex,
			Today:    sideOf(ts),
		}
		if ps, ok := priorByKey[key{ts.Exercise, ts.SetIndex}]; ok {
			side := sideOf(ps)
			pair.Prior = &side
		}
		pairs = append(pairs, pair)
	}
	return pairs
}

// buildReport aggregates pairs overall, per exercise, and per muscle group.
// todaySets runs parallel to pairs and supplies the group labels.
func buildReport(pairs []SetComparison, todaySets []IndexedSet) *Report {
	report := &Report{Status: StatusOK}

	exerciseIdx := make(map[string]int)
	groupIdx := make(map[string]int)

	var todayTotal, priorTotal Totals
	exToday := make(map[string]*Totals)
	exPrior := make(map[string]*Totals)
	grpToday := make(map[string]*Totals)
	grpPrior := make(map[string]*Totals)

	for i, pair := range pairs {
		group := todaySets[i].MuscleGroup

		if _, ok := exerciseIdx[pair.Exercise]; !ok {
			exerciseIdx[pair.Exercise] = len(report.ByExercise)
			report.ByExercise = append(report.ByExercise, ExerciseComparison{Exercise: pair.Exercise})
			exToday[pair.Exercise] = &Totals{}
			exPrior[pair.Exercise] = &Totals{}
		}
		if _, ok := groupIdx[group]; !ok {
			groupIdx[group] = len(report.ByGroup)
			report.ByGroup = append(report.ByGroup, GroupComparison{MuscleGroup: group})
			grpToday[group] = &Totals{}
			grpPrior[group] = &Totals{}
		}

		todayTotal.add(pair.Today)
		exToday[pair.Exercise].add(pair.Today)
		grpToday[group].add(pair.Today)
		if pair.Prior != nil {
			priorTotal.add(*pair.Prior)
			exPrior[pair.Exercise].add(*pair.Prior)
			grpPrior[group].add(*pair.Prior)
		}

		ei := exerciseIdx[pair.Exercise]
		report.ByExercise[ei].Sets = append(report.ByExercise[ei].Sets, pair)
	}

	todayTotal.finalize()
	priorTotal.finalize()
	report.Today = todayTotal
	report.Prior = priorTotal
	report.Deltas = deltasBetween(todayTotal, priorTotal)

	for ex, i := range exerciseIdx {
		t, p := exToday[ex], exPrior[ex]
		t.finalize()
		p.finalize()
		report.ByExercise[i].Today = *t
		report.ByExercise[i].Prior = *p
		report.ByExercise[i].Deltas = deltasBetween(*t, *p)
	}
	for g, i := range groupIdx {
		t, p := grpToday[g], grpPrior[g]
		t.finalize()
		p.finalize()
		report.ByGroup[i].Today = *t
		report.ByGroup[i].Prior = *p
		report.ByGroup[i].Deltas = deltasBetween(*t, *p)
	}

	return report
}
