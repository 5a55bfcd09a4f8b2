package predict

// Fixed constants for the derived environmental-impact metrics.
const (
	// AnnualDistanceKM is the assumed yearly driving distance.
	AnnualDistanceKM = 15000.0
	// TreeAbsorptionKGPerYear is the CO2 one tree absorbs in a year.
	TreeAbsorptionKGPerYear = 21.0
	// BaselineGPerKM is the average-vehicle emissions baseline.
	BaselineGPerKM = 250.0
)

// Impact holds the metrics derived from a single emissions prediction. All of
// it is pure unit arithmetic over the fixed constants above.
type Impact struct {
	YearlyKG         float64 `json:"yearly_kg"`
	YearlyTons       float64 `json:"yearly_tons"`
	MonthlyKG        float64 `json:"monthly_kg"`
	DailyKG          float64 `json:"daily_kg"`
	TreesToOffset    float64 `json:"trees_to_offset"`
	BaselineGPerKM   float64 `json:"baseline_g_per_km"`
	DifferenceGPerKM float64 `json:"difference_g_per_km"`
	PercentVsAverage float64 `json:"percent_vs_average"`
	AboveAverage     bool    `json:"above_average"`
}

// DeriveImpact computes the impact metrics for a predicted emissions value in
// g/km.
func DeriveImpact(emissionsGPerKM float64) Impact {
	yearlyKG := emissionsGPerKM * AnnualDistanceKM / 1000
	diff := emissionsGPerKM - BaselineGPerKM

	return Impact{
		YearlyKG:         yearlyKG,
		YearlyTons:       yearlyKG / 1000,
		MonthlyKG:        yearlyKG / 12,
		DailyKG:          yearlyKG / 365,
		TreesToOffset:    yearlyKG / TreeAbsorptionKGPerYear,
		BaselineGPerKM:   BaselineGPerKM,
		DifferenceGPerKM: diff,
		PercentVsAverage: diff / BaselineGPerKM * 100,
		AboveAverage:     diff > 0,
	}
}
