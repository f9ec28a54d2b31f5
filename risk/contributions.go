package risk

import "math"

// Factor names used in Contribution.Factor.
const (
	FactorAge              = "age"
	FactorSex              = "sex"
	FactorSystolicBP       = "systolicBP"
	FactorTotalCholesterol = "totalCholesterol"
	FactorHDLCholesterol   = "hdlCholesterol"
	FactorSmoker           = "smoker"
	FactorDiabetic         = "diabetic"
	FactorEGFR             = "egfr"
	FactorCRP              = "crp"
	FactorVascularBeds     = "vascularBedCount"
)

// Contribution is one slice of the linear predictor: the encoded factor
// value, its coefficient and their product.
type Contribution struct {
	Factor      string  `json:"factor"`
	Value       float64 `json:"value"`
	Coefficient float64 `json:"coefficient"`
	Term        float64 `json:"term"`
}

func contribution(factor string, value, coefficient float64) Contribution {
	return Contribution{
		Factor:      factor,
		Value:       value,
		Coefficient: coefficient,
		Term:        value * coefficient,
	}
}

// Contributions breaks the linear predictor of p down by factor, in a fixed
// order. The terms sum to LinearPredictor(p).
//
// Values are the encoded inputs: flags are 0/1, eGFR is per 10 units and
// CRP is ln(crp+1).
func Contributions(p PatientProfile) []Contribution {
	return []Contribution{
		contribution(FactorAge, float64(p.Age), coefAge),
		contribution(FactorSex, p.sexFlag(), coefMale),
		contribution(FactorSystolicBP, p.SystolicBP, coefSystolicBP),
		contribution(FactorTotalCholesterol, p.TotalCholesterol, coefTotalCholesterol),
		contribution(FactorHDLCholesterol, p.HDLCholesterol, coefHDLCholesterol),
		contribution(FactorSmoker, boolFlag(p.Smoker), coefSmoker),
		contribution(FactorDiabetic, boolFlag(p.Diabetic), coefDiabetic),
		contribution(FactorEGFR, p.EGFR/10, coefEGFRPer10),
		contribution(FactorCRP, math.Log(p.CRP+1), coefLogCRP),
		contribution(FactorVascularBeds, float64(p.VascularBedCount), coefVascularBed),
	}
}

// RiskResult is the derived output of one estimation.
type RiskResult struct {
	TenYearRiskPercent  float64        `json:"tenYearRiskPercent"`
	FiveYearRiskPercent float64        `json:"fiveYearRiskPercent"`
	LinearPredictor     float64        `json:"linearPredictor"`
	Contributions       []Contribution `json:"contributions"`
}

// Assess runs the estimator and the horizon conversion for p.
func Assess(p PatientProfile) RiskResult {
	contributions := Contributions(p)
	lp := 0.0
	for _, c := range contributions {
		lp += c.Term
	}

	tenYear := RoundPercent(tenYearProbability(lp) * 100)
	return RiskResult{
		TenYearRiskPercent:  tenYear,
		FiveYearRiskPercent: ConvertToFiveYear(tenYear),
		LinearPredictor:     lp,
		Contributions:       contributions,
	}
}
