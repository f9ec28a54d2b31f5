package therapy

import (
	"fmt"
	"math"
)

// Eligibility thresholds.
const (
	AddOnLDLThreshold    = 1.8  // mmol/L, PCSK9i and inclisiran require anticipated LDL-C above this
	IcosapentTGThreshold = 1.7  // mmol/L, icosapent ethyl requires triglycerides above this
	GLP1BMIThreshold     = 30.0 // kg/m², GLP-1 RA requires BMI at or above this
)

// BMI returns body-mass index in kg/m² for a weight in kilograms and a
// height in centimetres.
func BMI(weightKg, heightCm float64) float64 {
	m := heightCm / 100
	return weightKg / (m * m)
}

// EligibilityContext is what the eligibility rules look at.
// BMI is ignored unless BMIKnown is set.
type EligibilityContext struct {
	AnticipatedLDL float64
	Triglycerides  float64
	Smoker         bool
	BMI            float64
	BMIKnown       bool
}

// Rule is the outcome of one eligibility rule.
type Rule struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason"`
}

// Eligibility lists which optional therapies may be selected.
type Eligibility struct {
	PCSK9            Rule `json:"pcsk9"`
	Inclisiran       Rule `json:"inclisiran"`
	IcosapentEthyl   Rule `json:"icosapentEthyl"`
	SmokingCessation Rule `json:"smokingCessation"`
	GLP1             Rule `json:"glp1"`
}

// EvaluateEligibility applies the therapy gating rules to ctx.
func EvaluateEligibility(ctx EligibilityContext) Eligibility {
	var e Eligibility

	if ctx.AnticipatedLDL > AddOnLDLThreshold {
		reason := fmt.Sprintf("anticipated LDL-C %.2f mmol/L above %.1f", ctx.AnticipatedLDL, AddOnLDLThreshold)
		e.PCSK9 = Rule{Eligible: true, Reason: reason}
		e.Inclisiran = Rule{Eligible: true, Reason: reason}
	} else {
		reason := fmt.Sprintf("PCSK9i/Inclisiran only if LDL-C > %.1f mmol/L", AddOnLDLThreshold)
		e.PCSK9 = Rule{Reason: reason}
		e.Inclisiran = Rule{Reason: reason}
	}

	if ctx.Triglycerides > IcosapentTGThreshold {
		e.IcosapentEthyl = Rule{Eligible: true, Reason: fmt.Sprintf("triglycerides %.1f mmol/L above %.1f", ctx.Triglycerides, IcosapentTGThreshold)}
	} else {
		e.IcosapentEthyl = Rule{Reason: fmt.Sprintf("Icosapent ethyl only if TG > %.1f mmol/L", IcosapentTGThreshold)}
	}

	if ctx.Smoker {
		e.SmokingCessation = Rule{Eligible: true, Reason: "current smoker"}
	} else {
		e.SmokingCessation = Rule{Reason: "not a current smoker"}
	}

	switch {
	case !ctx.BMIKnown || math.IsNaN(ctx.BMI):
		e.GLP1 = Rule{Reason: "BMI unavailable"}
	case ctx.BMI >= GLP1BMIThreshold:
		e.GLP1 = Rule{Eligible: true, Reason: fmt.Sprintf("BMI %.1f kg/m² at or above %.0f", ctx.BMI, GLP1BMIThreshold)}
	default:
		e.GLP1 = Rule{Reason: fmt.Sprintf("GLP-1 RA only if BMI >= %.0f kg/m²", GLP1BMIThreshold)}
	}

	return e
}

// Violations returns the identifiers of options ticked in s that e does not
// allow, in a fixed order.
func (e Eligibility) Violations(s TherapySelection) []string {
	var out []string
	check := func(selected bool, rule Rule, id string) {
		if selected && !rule.Eligible {
			out = append(out, id)
		}
	}
	check(s.PCSK9, e.PCSK9, PCSK9)
	check(s.Inclisiran, e.Inclisiran, Inclisiran)
	check(s.IcosapentEthyl, e.IcosapentEthyl, "icosapentEthyl")
	check(s.SmokingCessation, e.SmokingCessation, "smokingCessation")
	check(s.GLP1, e.GLP1, "glp1")
	return out
}
