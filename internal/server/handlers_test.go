package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/claude/liftsheet/internal/analytics"
	"github.com/claude/liftsheet/internal/config"
	"github.com/claude/liftsheet/internal/models"
	"github.com/claude/liftsheet/internal/storage"
	"github.com/google/uuid"
)

const testAPIKey = "test-key"

func newTestServer(t *testing.T) (*Server, storage.Store) {
	t.Helper()
	store, err := storage.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, config.DefaultCatalog(), time.UTC, testAPIKey, log), store
}

func seedSet(t *testing.T, store storage.Store, day, group, exercise string, massKg float64, reps int) {
	t.Helper()
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		t.Fatal(err)
	}
	err = store.AppendSet(context.Background(), models.LoggedSet{
		ID:          uuid.New(),
		Date:        d,
		MuscleGroup: group,
		Exercise:    exercise,
		SetNumber:   1,
		MassKg:      massKg,
		MassLb:      models.KgToLb(massKg),
		Reps:        reps,
		Location:    "CIDE",
	})
	if err != nil {
		t.Fatal(err)
	}
}

// TestLogSet verifies the happy path: pounds derived from kilos, the set
// persisted, and a day summary echoed back.
func TestLogSet(t *testing.T) {
	srv, store := newTestServer(t)

	body := `{"muscle_group":"leg","exercise":"Squat","set_number":1,"mass_kg":100,"reps":5,"location":"CIDE"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sets", strings.NewReader(body))
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Set     models.LoggedSet `json:"set"`
		Summary string           `json:"summary"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Set.MassLb != 220.5 {
		t.Errorf("mass_lb = %v, want 220.5", resp.Set.MassLb)
	}
	if !strings.Contains(resp.Summary, "Squat") {
		t.Errorf("summary missing exercise:\n%s", resp.Summary)
	}

	rows, err := store.ReadAllSets(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("stored rows = %d, want 1", len(rows))
	}
}

func TestLogSetUnknownGroup(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"muscle_group":"forearms","exercise":"Wrist Curl","mass_kg":20,"reps":12}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sets", strings.NewReader(body))
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLogSetRequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sets", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestComparisonWeekOverWeek runs the end-to-end +5% scenario through the
// HTTP surface.
func TestComparisonWeekOverWeek(t *testing.T) {
	srv, store := newTestServer(t)
	seedSet(t, store, "2024-01-01", "leg", "Squat", 100, 5)
	seedSet(t, store, "2024-01-08", "leg", "Squat", 105, 5)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/comparison?mode=group", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var report analytics.Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Status != analytics.StatusOK {
		t.Fatalf("status = %q, want ok", report.Status)
	}
	if report.Today.MassKg != 105 || report.Prior.MassKg != 100 {
		t.Errorf("totals = %v/%v, want 105/100", report.Today.MassKg, report.Prior.MassKg)
	}
	if report.Deltas.MassPct != 5 {
		t.Errorf("mass delta = %v, want 5", report.Deltas.MassPct)
	}
}

// TestComparisonInsufficientHistory verifies a single session yields the
// informational report, not an error status.
func TestComparisonInsufficientHistory(t *testing.T) {
	srv, store := newTestServer(t)
	seedSet(t, store, "2024-01-01", "leg", "Squat", 100, 8)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/comparison", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var report analytics.Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Status != analytics.StatusInsufficientHistory {
		t.Errorf("status = %q, want insufficient_history", report.Status)
	}
	if report.Message == "" {
		t.Error("expected a human-readable message")
	}
}

func TestComparisonBadMode(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/comparison?mode=bogus", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestUndoLastSet verifies delete-last semantics over HTTP, including the
// conflict on an empty log.
func TestUndoLastSet(t *testing.T) {
	srv, store := newTestServer(t)
	seedSet(t, store, "2024-01-01", "leg", "Squat", 100, 5)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/sets/last", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/sets/last", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status on empty log = %d, want 409", rec.Code)
	}
}

func TestLogCaloriesReturnsDailyTotal(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, body := range []string{
		`{"date":"2024-01-02","kcal":600}`,
		`{"date":"2024-01-02","kcal":750}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/calories", strings.NewReader(body))
		req.Header.Set("X-API-Key", testAPIKey)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Today struct {
				TotalKcal float64 `json:"total_kcal"`
			} `json:"today"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if body == `{"date":"2024-01-02","kcal":750}` && resp.Today.TotalKcal != 1350 {
			t.Errorf("running total = %v, want 1350", resp.Today.TotalKcal)
		}
	}
}

func TestProgressRequiresGroup(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/progress", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCatalog(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Bench Press") {
		t.Error("catalog response missing expected exercise")
	}
}
