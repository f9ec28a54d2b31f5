package risk

import (
	"math"
	"testing"
)

func TestContributionsSumToLinearPredictor(t *testing.T) {
	p := referenceProfile()
	p.Smoker = true
	p.VascularBedCount = 2

	sum := 0.0
	for _, c := range Contributions(p) {
		if c.Term != c.Value*c.Coefficient {
			t.Errorf("%s: term %v != value*coefficient %v", c.Factor, c.Term, c.Value*c.Coefficient)
		}
		sum += c.Term
	}

	if lp := LinearPredictor(p); math.Abs(sum-lp) > 1e-12 {
		t.Errorf("sum of contributions = %v, LinearPredictor = %v", sum, lp)
	}
}

func TestContributionsEncoding(t *testing.T) {
	p := referenceProfile()
	byFactor := make(map[string]Contribution)
	for _, c := range Contributions(p) {
		byFactor[c.Factor] = c
	}

	if len(byFactor) != 10 {
		t.Fatalf("expected 10 distinct factors, got %d", len(byFactor))
	}
	if got := byFactor[FactorSex].Value; got != 1 {
		t.Errorf("male sex encoded as %v, want 1", got)
	}
	if got := byFactor[FactorEGFR].Value; got != 9 {
		t.Errorf("egfr 90 encoded as %v, want 9", got)
	}
	if got := byFactor[FactorCRP].Value; math.Abs(got-math.Log(3.5)) > 1e-12 {
		t.Errorf("crp 2.5 encoded as %v, want ln(3.5)", got)
	}
	if got := byFactor[FactorHDLCholesterol].Term; got >= 0 {
		t.Errorf("hdl term = %v, want negative", got)
	}
}

func TestAssess(t *testing.T) {
	result := Assess(referenceProfile())

	if result.TenYearRiskPercent != 15.5 {
		t.Errorf("TenYearRiskPercent = %v, want 15.5", result.TenYearRiskPercent)
	}
	if result.FiveYearRiskPercent != 8.1 {
		t.Errorf("FiveYearRiskPercent = %v, want 8.1", result.FiveYearRiskPercent)
	}
	if result.TenYearRiskPercent != EstimateTenYearRisk(referenceProfile()) {
		t.Error("Assess and EstimateTenYearRisk disagree")
	}
	if len(result.Contributions) != 10 {
		t.Errorf("len(Contributions) = %d, want 10", len(result.Contributions))
	}
}
