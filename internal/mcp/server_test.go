package mcp

import (
	"testing"
	"time"
)

// TestParseFlexTime verifies both accepted date layouts and the error path.
func TestParseFlexTime(t *testing.T) {
	got, err := parseFlexTime("2024-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2024 || got.Month() != 1 || got.Day() != 15 {
		t.Errorf("got %v, want 2024-01-15", got)
	}

	got, err = parseFlexTime("2024-06-15T10:30:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 10 || got.Minute() != 30 {
		t.Errorf("got %v, want 10:30", got)
	}

	if _, err = parseFlexTime("not-a-date"); err == nil {
		t.Error("expected error for invalid date")
	}
}

// TestEntryDateDefault verifies an empty date argument resolves to now in the
// configured zone.
func TestEntryDateDefault(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)
	h := &handlers{loc: loc}

	got, err := h.entryDate("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Location() != loc {
		t.Errorf("location = %v, want %v", got.Location(), loc)
	}
	if time.Since(got) > time.Minute {
		t.Errorf("default date %v not near now", got)
	}

	got, err = h.entryDate("2024-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Day() != 1 || got.Month() != 3 {
		t.Errorf("got %v, want 2024-03-01", got)
	}
}
