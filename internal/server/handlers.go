package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/claude/liftsheet/internal/analytics"
	"github.com/claude/liftsheet/internal/models"
	"github.com/claude/liftsheet/internal/storage"
	"github.com/claude/liftsheet/internal/summary"
	"github.com/google/uuid"
)

// logSetRequest is the POST /api/v1/sets payload. Exactly one of mass_kg
// and mass_lb needs to be positive; the other is derived. Date is optional
// and defaults to now in the server's configured zone.
type logSetRequest struct {
	Date        string  `json:"date,omitempty"`
	MuscleGroup string  `json:"muscle_group"`
	Exercise    string  `json:"exercise"`
	SetNumber   int     `json:"set_number"`
	MassKg      float64 `json:"mass_kg"`
	MassLb      float64 `json:"mass_lb"`
	Reps        int     `json:"reps"`
	Location    string  `json:"location"`
}

func (s *Server) handleLogSet(w http.ResponseWriter, r *http.Request) {
	var req logSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	set, err := s.buildSet(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.store.AppendSet(r.Context(), set); err != nil {
		s.storeError(w, "appending set", err)
		return
	}

	// Echo the day summary back, same as the original form did on submit.
	rows, err := s.store.ReadAllSets(r.Context())
	if err != nil {
		s.storeError(w, "reading sets", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"set":     set,
		"summary": summary.DaySummary(rows),
	})
}

func (s *Server) buildSet(req logSetRequest) (models.LoggedSet, error) {
	if req.Exercise == "" {
		return models.LoggedSet{}, fmt.Errorf("exercise is required")
	}
	if !s.catalog.HasGroup(req.MuscleGroup) {
		return models.LoggedSet{}, fmt.Errorf("unknown muscle group %q", req.MuscleGroup)
	}
	if req.Location != "" && !s.catalog.HasLocation(req.Location) {
		return models.LoggedSet{}, fmt.Errorf("unknown location %q", req.Location)
	}
	if req.Reps <= 0 {
		return models.LoggedSet{}, fmt.Errorf("reps must be positive")
	}

	kg, lb := models.ResolveMass(req.MassKg, req.MassLb)
	if kg <= 0 {
		return models.LoggedSet{}, fmt.Errorf("one of mass_kg or mass_lb must be positive")
	}

	date := time.Now().In(s.loc)
	if req.Date != "" {
		var err error
		if date, err = parseFlexTime(req.Date); err != nil {
			return models.LoggedSet{}, fmt.Errorf("invalid date %q", req.Date)
		}
	}

	return models.LoggedSet{
		ID:          uuid.New(),
		Date:        date,
		MuscleGroup: req.MuscleGroup,
		Exercise:    req.Exercise,
		SetNumber:   req.SetNumber,
		MassKg:      kg,
		MassLb:      lb,
		Reps:        req.Reps,
		Location:    req.Location,
	}, nil
}

func (s *Server) handleUndoLastSet(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteLastSet(r.Context())
	if errors.Is(err, storage.ErrEmptyLog) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no sets to delete"})
		return
	}
	if err != nil {
		s.storeError(w, "deleting last set", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleListSets(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.ReadAllSets(r.Context())
	if err != nil {
		s.storeError(w, "reading sets", err)
		return
	}
	if rows == nil {
		rows = []models.LoggedSet{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	mode, err := analytics.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := s.store.ReadAllSets(r.Context())
	if err != nil {
		s.storeError(w, "reading sets", err)
		return
	}

	report, err := analytics.Compare(rows, mode)
	if errors.Is(err, analytics.ErrInsufficientHistory) {
		writeJSON(w, http.StatusOK, analytics.InsufficientHistoryReport(mode))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDaySummary(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.ReadAllSets(r.Context())
	if err != nil {
		s.storeError(w, "reading sets", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": summary.DaySummary(rows)})
}

func (s *Server) handleRecentSummary(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get("group")
	if group == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "group parameter required"})
		return
	}

	rows, err := s.store.ReadAllSets(r.Context())
	if err != nil {
		s.storeError(w, "reading sets", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": summary.RecentDaysByGroup(rows, group, 2)})
}

type logMeasurementRequest struct {
	Date       string  `json:"date,omitempty"`
	BodyFatPct float64 `json:"body_fat_pct"`
	WeightKg   float64 `json:"weight_kg"`
}

func (s *Server) handleLogMeasurement(w http.ResponseWriter, r *http.Request) {
	var req logMeasurementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.WeightKg <= 0 || req.WeightKg > 300 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight_kg must be in (0, 300]"})
		return
	}
	if req.BodyFatPct < 0 || req.BodyFatPct > 100 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body_fat_pct must be in [0, 100]"})
		return
	}

	date := time.Now().In(s.loc)
	if req.Date != "" {
		var err error
		if date, err = parseFlexTime(req.Date); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date"})
			return
		}
	}

	m := models.BodyMeasurement{
		ID:         uuid.New(),
		Date:       date,
		BodyFatPct: req.BodyFatPct,
		WeightKg:   req.WeightKg,
	}
	if err := s.store.AppendMeasurement(r.Context(), m); err != nil {
		s.storeError(w, "appending measurement", err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleListMeasurements(w http.ResponseWriter, r *http.Request) {
	ms, err := s.store.ReadAllMeasurements(r.Context())
	if err != nil {
		s.storeError(w, "reading measurements", err)
		return
	}
	if ms == nil {
		ms = []models.BodyMeasurement{}
	}
	writeJSON(w, http.StatusOK, ms)
}

func (s *Server) handleWeeklyTrend(w http.ResponseWriter, r *http.Request) {
	ms, err := s.store.ReadAllMeasurements(r.Context())
	if err != nil {
		s.storeError(w, "reading measurements", err)
		return
	}
	points := summary.WeeklyBodyTrend(ms)
	if points == nil {
		points = []summary.WeeklyPoint{}
	}
	writeJSON(w, http.StatusOK, points)
}

type logCaloriesRequest struct {
	Date string  `json:"date,omitempty"`
	Kcal float64 `json:"kcal"`
}

func (s *Server) handleLogCalories(w http.ResponseWriter, r *http.Request) {
	var req logCaloriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Kcal <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "kcal must be positive"})
		return
	}

	date := time.Now().In(s.loc)
	if req.Date != "" {
		var err error
		if date, err = parseFlexTime(req.Date); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date"})
			return
		}
	}

	e := models.CalorieEntry{ID: uuid.New(), Date: date, Kcal: req.Kcal}
	if err := s.store.AppendCalorieEntry(r.Context(), e); err != nil {
		s.storeError(w, "appending calorie entry", err)
		return
	}

	// Respond with the running daily total, matching the original app.
	entries, err := s.store.ReadAllCalorieEntries(r.Context())
	if err != nil {
		s.storeError(w, "reading calorie entries", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"entry": e,
		"today": summary.LatestDayCalories(entries),
	})
}

func (s *Server) handleListCalories(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.ReadAllCalorieEntries(r.Context())
	if err != nil {
		s.storeError(w, "reading calorie entries", err)
		return
	}
	if entries == nil {
		entries = []models.CalorieEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleTodayCalories(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.ReadAllCalorieEntries(r.Context())
	if err != nil {
		s.storeError(w, "reading calorie entries", err)
		return
	}
	writeJSON(w, http.StatusOK, summary.LatestDayCalories(entries))
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	group := q.Get("group")
	if group == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "group parameter required"})
		return
	}
	location := q.Get("location")

	var start, end time.Time
	if season := q.Get("season"); season != "" {
		var ok bool
		start, end, ok = s.catalog.SeasonRange(season, time.Now().In(s.loc))
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("unknown season %q", season)})
			return
		}
	} else {
		var err error
		if start, end, err = parseDateRange(q.Get("start"), q.Get("end")); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}

	rows, err := s.store.ReadAllSets(r.Context())
	if err != nil {
		s.storeError(w, "reading sets", err)
		return
	}
	series := summary.ProgressSeries(rows, group, location, start, end)
	if series == nil {
		series = []summary.ExerciseSeries{}
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog)
}

// storeError reports a backing-store failure. These are surfaced as-is,
// never retried.
func (s *Server) storeError(w http.ResponseWriter, op string, err error) {
	s.log.Error("store error", "op", op, "error", err)
	writeJSON(w, http.StatusBadGateway, map[string]string{"error": "data store unavailable: " + err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseFlexTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

// parseDateRange parses optional start/end query params. Both empty means
// an unbounded range. A date-only end is pushed to end of day.
func parseDateRange(startStr, endStr string) (start, end time.Time, err error) {
	if startStr != "" {
		if start, err = parseFlexTime(startStr); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start %q", startStr)
		}
	}
	if endStr != "" {
		if end, err = parseFlexTime(endStr); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end %q", endStr)
		}
		if len(endStr) == len("2006-01-02") {
			end = end.Add(24 * time.Hour)
		}
	}
	return start, end, nil
}
