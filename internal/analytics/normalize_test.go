package analytics

import (
	"math"
	"testing"
)

func TestNormalizedLoad(t *testing.T) {
	tests := []struct {
		name   string
		massKg float64
		reps   int
		want   float64
	}{
		{"eight reps is identity", 100, 8, 100},
		{"five reps scales up", 100, 5, 160},
		{"ten reps scales down", 100, 10, 80},
		{"single rep", 140, 1, 1120},
		{"zero reps guards division", 100, 0, 0},
		{"negative reps guards division", 100, -3, 0},
		{"zero mass", 0, 8, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizedLoad(tt.massKg, tt.reps); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("NormalizedLoad(%v, %d) = %v, want %v", tt.massKg, tt.reps, got, tt.want)
			}
		})
	}
}

func TestPercentDelta(t *testing.T) {
	tests := []struct {
		name         string
		today, prior float64
		want         float64
	}{
		{"gain", 105, 100, 5},
		{"loss", 90, 100, -10},
		{"no change", 100, 100, 0},
		{"zero prior yields zero", 50, 0, 0},
		{"negative prior yields zero", 50, -10, 0},
		{"today zero", 0, 80, -100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PercentDelta(tt.today, tt.prior); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PercentDelta(%v, %v) = %v, want %v", tt.today, tt.prior, got, tt.want)
			}
		})
	}
}
