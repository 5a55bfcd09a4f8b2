package predict

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDeriveImpact_Formulas(t *testing.T) {
	impact := DeriveImpact(200)

	// 200 g/km over 15,000 km/year is 3,000,000 g = 3000 kg.
	if !almostEqual(impact.YearlyKG, 3000) {
		t.Errorf("Expected yearly 3000 kg, got %v", impact.YearlyKG)
	}
	if !almostEqual(impact.YearlyTons, 3) {
		t.Errorf("Expected 3 tons, got %v", impact.YearlyTons)
	}
	if !almostEqual(impact.MonthlyKG, 250) {
		t.Errorf("Expected monthly 250 kg, got %v", impact.MonthlyKG)
	}
	if !almostEqual(impact.DailyKG, 3000.0/365) {
		t.Errorf("Expected daily %v kg, got %v", 3000.0/365, impact.DailyKG)
	}
	if !almostEqual(impact.TreesToOffset, 3000.0/21) {
		t.Errorf("Expected %v trees, got %v", 3000.0/21, impact.TreesToOffset)
	}
}

func TestDeriveImpact_Baseline(t *testing.T) {
	testCases := []struct {
		name        string
		emissions   float64
		wantDiff    float64
		wantPercent float64
		wantAbove   bool
	}{
		{"below average", 200, -50, -20, false},
		{"above average", 300, 50, 20, true},
		{"exactly average", 250, 0, 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			impact := DeriveImpact(tc.emissions)
			if !almostEqual(impact.DifferenceGPerKM, tc.wantDiff) {
				t.Errorf("Expected difference %v, got %v", tc.wantDiff, impact.DifferenceGPerKM)
			}
			if !almostEqual(impact.PercentVsAverage, tc.wantPercent) {
				t.Errorf("Expected percent %v, got %v", tc.wantPercent, impact.PercentVsAverage)
			}
			if impact.AboveAverage != tc.wantAbove {
				t.Errorf("Expected above-average %v, got %v", tc.wantAbove, impact.AboveAverage)
			}
			if impact.BaselineGPerKM != BaselineGPerKM {
				t.Errorf("Expected baseline %v, got %v", BaselineGPerKM, impact.BaselineGPerKM)
			}
		})
	}
}
