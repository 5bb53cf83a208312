package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/liftsheet/internal/analytics"
	"github.com/claude/liftsheet/internal/models"
	"github.com/claude/liftsheet/internal/storage"
	"github.com/claude/liftsheet/internal/summary"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// entryDate resolves an optional date argument, defaulting to now in the
// configured zone.
func (h *handlers) entryDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Now().In(h.loc), nil
	}
	return parseFlexTime(dateStr)
}

// --- Tool definitions ---

var toolLogSet = mcp.NewTool("log_set",
	mcp.WithDescription("Log one strength training set. Give mass in kilos or pounds; the other unit is derived. Returns the updated session summary."),
	mcp.WithString("muscle_group", mcp.Required(), mcp.Description("Muscle group key (e.g. push, pull, leg, abs, upper, arms)")),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (e.g. 'Bench Press')")),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Repetitions performed")),
	mcp.WithNumber("mass_kg", mcp.Description("Mass in kilograms. Takes precedence when both units are given.")),
	mcp.WithNumber("mass_lb", mcp.Description("Mass in pounds")),
	mcp.WithNumber("set_number", mcp.Description("Set number within the exercise, for display only")),
	mcp.WithString("location", mcp.Description("Gym location key")),
	mcp.WithString("date", mcp.Description("Session date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolUndoLastSet = mcp.NewTool("undo_last_set",
	mcp.WithDescription("Delete the most recently logged set. Fails when the log is empty."),
)

var toolGetSessionComparison = mcp.NewTool("get_session_comparison",
	mcp.WithDescription("Compare the latest training session against the prior one. Modes: 'group' pools by the last set's muscle group, 'group-location' additionally matches the gym, 'exercise' compares each exercise against its own last occurrence."),
	mcp.WithString("mode", mcp.Description("Comparison mode. Defaults to 'group'."), mcp.Enum("group", "group-location", "exercise")),
)

var toolGetDaySummary = mcp.NewTool("get_day_summary",
	mcp.WithDescription("Text summary of the most recent training session, with the heaviest set of each exercise marked."),
)

var toolGetRecentSessions = mcp.NewTool("get_recent_sessions",
	mcp.WithDescription("Summaries of the most recent sessions for one muscle group."),
	mcp.WithString("muscle_group", mcp.Required(), mcp.Description("Muscle group key")),
	mcp.WithNumber("days", mcp.Description("Number of recent session days to include. Defaults to 2.")),
)

var toolGetProgress = mcp.NewTool("get_progress",
	mcp.WithDescription("Per-exercise progression series (top set mass in kilos per day) for one muscle group, optionally filtered by location and bounded by a season or an explicit date range."),
	mcp.WithString("muscle_group", mcp.Required(), mcp.Description("Muscle group key")),
	mcp.WithString("location", mcp.Description("Gym location key")),
	mcp.WithString("season", mcp.Description("Named season from the catalog; overrides start/end")),
	mcp.WithString("start", mcp.Description("Range start (ISO 8601 or YYYY-MM-DD)")),
	mcp.WithString("end", mcp.Description("Range end (ISO 8601 or YYYY-MM-DD)")),
)

var toolLogBodyMeasurement = mcp.NewTool("log_body_measurement",
	mcp.WithDescription("Log body weight and body fat percentage."),
	mcp.WithNumber("weight_kg", mcp.Required(), mcp.Description("Body weight in kilograms, in (0, 300]")),
	mcp.WithNumber("body_fat_pct", mcp.Description("Body fat percentage, in [0, 100]")),
	mcp.WithString("date", mcp.Description("Measurement date. Defaults to now.")),
)

var toolGetWeeklyTrend = mcp.NewTool("get_weekly_trend",
	mcp.WithDescription("Weekly body measurement averages with week-over-week weight change."),
)

var toolLogCalories = mcp.NewTool("log_calories",
	mcp.WithDescription("Log a calorie intake entry. Returns the running total for that day."),
	mcp.WithNumber("kcal", mcp.Required(), mcp.Description("Calories consumed")),
	mcp.WithString("date", mcp.Description("Entry date. Defaults to now.")),
)

var toolGetDailyCalories = mcp.NewTool("get_daily_calories",
	mcp.WithDescription("Summed calorie intake for the most recent logged day."),
)

// --- Tool handlers ---

func (h *handlers) logSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, err := req.RequireString("muscle_group")
	if err != nil {
		return mcp.NewToolResultError("muscle_group parameter is required"), nil
	}
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	reps, err := req.RequireFloat("reps")
	if err != nil || reps <= 0 {
		return mcp.NewToolResultError("reps must be a positive number"), nil
	}

	if !h.catalog.HasGroup(group) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown muscle group %q", group)), nil
	}
	location := req.GetString("location", "")
	if location != "" && !h.catalog.HasLocation(location) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown location %q", location)), nil
	}

	kg, lb := models.ResolveMass(req.GetFloat("mass_kg", 0), req.GetFloat("mass_lb", 0))
	if kg <= 0 {
		return mcp.NewToolResultError("one of mass_kg or mass_lb must be positive"), nil
	}

	date, err := h.entryDate(req.GetString("date", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	set := models.LoggedSet{
		ID:          uuid.New(),
		Date:        date,
		MuscleGroup: group,
		Exercise:    exercise,
		SetNumber:   int(req.GetFloat("set_number", 0)),
		MassKg:      kg,
		MassLb:      lb,
		Reps:        int(reps),
		Location:    location,
	}
	if err := h.ds.AppendSet(ctx, set); err != nil {
		h.log.Error("mcp log_set", "error", err)
		return mcp.NewToolResultError("append failed: " + err.Error()), nil
	}

	rows, err := h.ds.ReadAllSets(ctx)
	if err != nil {
		h.log.Error("mcp log_set summary", "error", err)
		return mcp.NewToolResultError("read back failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"set":     set,
		"summary": summary.DaySummary(rows),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) undoLastSet(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	err := h.ds.DeleteLastSet(ctx)
	if errors.Is(err, storage.ErrEmptyLog) {
		return mcp.NewToolResultError("no sets to delete"), nil
	}
	if err != nil {
		h.log.Error("mcp undo_last_set", "error", err)
		return mcp.NewToolResultError("delete failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText("last set deleted"), nil
}

func (h *handlers) getSessionComparison(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode, err := analytics.ParseMode(req.GetString("mode", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rows, err := h.ds.ReadAllSets(ctx)
	if err != nil {
		h.log.Error("mcp get_session_comparison", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	report, err := analytics.Compare(rows, mode)
	if errors.Is(err, analytics.ErrInsufficientHistory) {
		report = analytics.InsufficientHistoryReport(mode)
	} else if err != nil {
		return mcp.NewToolResultError("comparison failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(report)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDaySummary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := h.ds.ReadAllSets(ctx)
	if err != nil {
		h.log.Error("mcp get_day_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText(summary.DaySummary(rows)), nil
}

func (h *handlers) getRecentSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, err := req.RequireString("muscle_group")
	if err != nil {
		return mcp.NewToolResultError("muscle_group parameter is required"), nil
	}
	days := int(req.GetFloat("days", 2))
	if days <= 0 {
		days = 2
	}

	rows, err := h.ds.ReadAllSets(ctx)
	if err != nil {
		h.log.Error("mcp get_recent_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText(summary.RecentDaysByGroup(rows, group, days)), nil
}

func (h *handlers) getProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, err := req.RequireString("muscle_group")
	if err != nil {
		return mcp.NewToolResultError("muscle_group parameter is required"), nil
	}
	location := req.GetString("location", "")

	var start, end time.Time
	if season := req.GetString("season", ""); season != "" {
		var ok bool
		start, end, ok = h.catalog.SeasonRange(season, time.Now().In(h.loc))
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown season %q", season)), nil
		}
	} else {
		if s := req.GetString("start", ""); s != "" {
			if start, err = parseFlexTime(s); err != nil {
				return mcp.NewToolResultError("invalid start date: " + err.Error()), nil
			}
		}
		if e := req.GetString("end", ""); e != "" {
			if end, err = parseFlexTime(e); err != nil {
				return mcp.NewToolResultError("invalid end date: " + err.Error()), nil
			}
		}
	}

	rows, err := h.ds.ReadAllSets(ctx)
	if err != nil {
		h.log.Error("mcp get_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summary.ProgressSeries(rows, group, location, start, end))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) logBodyMeasurement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, err := req.RequireFloat("weight_kg")
	if err != nil {
		return mcp.NewToolResultError("weight_kg parameter is required"), nil
	}
	if weight <= 0 || weight > 300 {
		return mcp.NewToolResultError("weight_kg must be in (0, 300]"), nil
	}
	fat := req.GetFloat("body_fat_pct", 0)
	if fat < 0 || fat > 100 {
		return mcp.NewToolResultError("body_fat_pct must be in [0, 100]"), nil
	}

	date, err := h.entryDate(req.GetString("date", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	m := models.BodyMeasurement{ID: uuid.New(), Date: date, BodyFatPct: fat, WeightKg: weight}
	if err := h.ds.AppendMeasurement(ctx, m); err != nil {
		h.log.Error("mcp log_body_measurement", "error", err)
		return mcp.NewToolResultError("append failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(m)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWeeklyTrend(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ms, err := h.ds.ReadAllMeasurements(ctx)
	if err != nil {
		h.log.Error("mcp get_weekly_trend", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summary.WeeklyBodyTrend(ms))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) logCalories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kcal, err := req.RequireFloat("kcal")
	if err != nil || kcal <= 0 {
		return mcp.NewToolResultError("kcal must be a positive number"), nil
	}

	date, err := h.entryDate(req.GetString("date", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	e := models.CalorieEntry{ID: uuid.New(), Date: date, Kcal: kcal}
	if err := h.ds.AppendCalorieEntry(ctx, e); err != nil {
		h.log.Error("mcp log_calories", "error", err)
		return mcp.NewToolResultError("append failed: " + err.Error()), nil
	}

	entries, err := h.ds.ReadAllCalorieEntries(ctx)
	if err != nil {
		h.log.Error("mcp log_calories total", "error", err)
		return mcp.NewToolResultError("read back failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"entry": e,
		"today": summary.LatestDayCalories(entries),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDailyCalories(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := h.ds.ReadAllCalorieEntries(ctx)
	if err != nil {
		h.log.Error("mcp get_daily_calories", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summary.LatestDayCalories(entries))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
