package sheets

import (
	"testing"
	"time"
)

// TestParseCellTime verifies both cell layouts parse: full timestamps from
// the app's own writes and bare dates from hand-edited rows.
func TestParseCellTime(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2024-01-08 18:30:00", time.Date(2024, 1, 8, 18, 30, 0, 0, time.UTC), false},
		{"2024-01-08", time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), false},
		{"08/01/2024", time.Time{}, true},
		{"", time.Time{}, true},
	}
	for _, tt := range tests {
		got, err := parseCellTime(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseCellTime(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseCellTime(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseCellTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCellFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"native float", 102.5, 102.5},
		{"formatted string", "102.5", 102.5},
		{"integer string", "8", 8},
		{"junk", "n/a", 0},
		{"nil-ish", struct{}{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cellFloat(tt.in); got != tt.want {
				t.Errorf("cellFloat(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
