package risk

import "math"

// Linear predictor coefficients.
const (
	coefAge              = 0.064
	coefMale             = 0.34
	coefSystolicBP       = 0.02
	coefTotalCholesterol = 0.25
	coefHDLCholesterol   = -0.25
	coefSmoker           = 0.44
	coefDiabetic         = 0.51
	coefEGFRPer10        = -0.2
	coefLogCRP           = 0.25
	coefVascularBed      = 0.4
)

const (
	// baselineSurvival is the 10-year event-free survival at the reference
	// linear predictor.
	baselineSurvival = 0.900
	// lpCentre is the reference linear predictor the score is centred on.
	lpCentre = 5.8
)

// LinearPredictor returns the weighted sum of risk factors for p.
// It is NaN when p.CRP <= -1.
func LinearPredictor(p PatientProfile) float64 {
	lp := 0.0
	for _, c := range Contributions(p) {
		lp += c.Term
	}
	return lp
}

// EstimateTenYearRisk returns the 10-year CVD risk of p as a percentage
// rounded to one decimal place.
//
// The result lies in [0, 100] for every finite linear predictor since
// baselineSurvival^(e^x) is always in (0, 1); no clamping is applied.
func EstimateTenYearRisk(p PatientProfile) float64 {
	return RoundPercent(tenYearProbability(LinearPredictor(p)) * 100)
}

func tenYearProbability(lp float64) float64 {
	return 1 - math.Pow(baselineSurvival, math.Exp(lp-lpCentre))
}

// RoundPercent rounds a percentage to one decimal place. Applying it to an
// already rounded value returns the value unchanged.
func RoundPercent(v float64) float64 {
	return math.Round(v*10) / 10
}
