package risk

import "math"

// ConvertToFiveYear rescales a 10-year risk percentage to its 5-year
// equivalent assuming a constant annual hazard: 1 - (1-p)^0.5.
//
// The input must be within [0, 100]: below 0 the result is negative and
// above 100 it is NaN. Callers check with validation.ValidateTenYearRisk
// first.
func ConvertToFiveYear(tenYearRiskPercent float64) float64 {
	p := tenYearRiskPercent / 100
	return RoundPercent((1 - math.Pow(1-p, 0.5)) * 100)
}
