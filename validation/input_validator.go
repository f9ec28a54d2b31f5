// Package validation provides input validation for the CVD risk API.
// The risk and therapy packages assume pre-validated inputs; every value
// crossing the HTTP or CLI boundary passes through here first.
package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/giygas/cvdrisk-api/interfaces"
	"github.com/giygas/cvdrisk-api/logging"
	"github.com/giygas/cvdrisk-api/risk"
	"github.com/giygas/cvdrisk-api/therapy"
)

// Range is an inclusive numeric domain.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Accepted input domains.
var (
	AgeRange              = Range{30, 90}
	SystolicBPRange       = Range{80, 240}
	TotalCholesterolRange = Range{2.0, 10.0}
	HDLCholesterolRange   = Range{0.5, 3.0}
	LDLBaselineRange      = Range{0.5, 6.0}
	CRPRange              = Range{0.1, 20.0}
	EGFRRange             = Range{15, 120}
	VascularBedRange      = Range{0, 3}
	TriglyceridesRange    = Range{0.5, 5.0}
	HbA1cRange            = Range{4.5, 15.0}
	WeightRange           = Range{40, 200}
	HeightRange           = Range{140, 210}
	TenYearRiskRange      = Range{0, 100}
)

// Pre-compiled regex patterns for performance optimization
var (
	// Therapy names: letters (with accents), digits, spaces and light punctuation
	nameRegex = regexp.MustCompile(`^[\p{L}0-9\s\-\.\(\)/]+$`)

	// Substring checks are cheaper than regex for these
	dangerousPatterns = []string{
		"<script", "javascript:", "onerror=", "eval(",
		"' or ", "\" or ", "union select", "drop table", "--", "/*",
		"$(", "${", "`", "../", "..\\",
	}
)

const maxNameLength = 64

// Compile-time check to ensure InputValidator implements the interface
var _ interfaces.InputValidator = (*InputValidator)(nil)

// InputValidator implements the interfaces.InputValidator interface
type InputValidator struct{}

// NewInputValidator creates a new input validator
func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

func checkRange(field string, v float64, r Range) *FieldError {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &FieldError{Field: field, Value: fmt.Sprint(v), Reason: "must be a finite number"}
	}
	if v < r.Min || v > r.Max {
		return &FieldError{Field: field, Value: v, Reason: fmt.Sprintf("must be between %g and %g", r.Min, r.Max)}
	}
	return nil
}

// ValidateProfile checks every field of p and reports all failures at once.
func (v *InputValidator) ValidateProfile(p risk.PatientProfile) error {
	var errs Errors

	errs.add(checkRange("age", float64(p.Age), AgeRange))
	if p.Sex != risk.Male && p.Sex != risk.Female {
		errs.add(&FieldError{Field: "sex", Value: string(p.Sex), Reason: "must be male or female"})
	}
	errs.add(checkRange("systolicBP", p.SystolicBP, SystolicBPRange))
	errs.add(checkRange("totalCholesterol", p.TotalCholesterol, TotalCholesterolRange))
	errs.add(checkRange("hdlCholesterol", p.HDLCholesterol, HDLCholesterolRange))
	errs.add(checkRange("ldlBaseline", p.LDLBaseline, LDLBaselineRange))
	errs.add(checkRange("egfr", p.EGFR, EGFRRange))
	// CRPRange starts at 0.1, which keeps ln(crp+1) defined.
	errs.add(checkRange("crp", p.CRP, CRPRange))
	errs.add(checkRange("vascularBedCount", float64(p.VascularBedCount), VascularBedRange))

	if len(errs) > 0 {
		logging.Debug("Profile rejected", "fields", len(errs))
	}
	return errs.orNil()
}

// ValidateTenYearRisk rejects percentages the horizon conversion is not
// defined for.
func (v *InputValidator) ValidateTenYearRisk(tenYearRiskPercent float64) error {
	r := TenYearRiskRange
	if math.IsNaN(tenYearRiskPercent) || tenYearRiskPercent < r.Min || tenYearRiskPercent > r.Max {
		return fmt.Errorf("%w: ten-year risk %v%% is not a probability in [0,100]", ErrUndefinedResult, tenYearRiskPercent)
	}
	return nil
}

// ValidateBaselineLDL checks a baseline LDL-C value.
func (v *InputValidator) ValidateBaselineLDL(ldl float64) error {
	if fe := checkRange("baselineLDL", ldl, LDLBaselineRange); fe != nil {
		return fe
	}
	return nil
}

// ValidateInput validates a free-text therapy name
func (v *InputValidator) ValidateInput(input string) error {
	if len(input) > maxNameLength {
		return &FieldError{Field: "name", Value: input, Reason: fmt.Sprintf("must be at most %d characters", maxNameLength)}
	}

	lower := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			logging.Warn("Suspicious input rejected", "pattern", pattern)
			return &FieldError{Field: "name", Value: input, Reason: "contains disallowed characters"}
		}
	}

	if !nameRegex.MatchString(input) {
		return &FieldError{Field: "name", Value: input, Reason: "contains disallowed characters"}
	}
	return nil
}

// ResolveSelection checks s against catalog and returns a copy whose statin
// is the canonical catalog id. An empty statin means none. A zero
// triglyceride value means not measured.
func (v *InputValidator) ResolveSelection(s therapy.TherapySelection, catalog *therapy.Catalog) (therapy.TherapySelection, error) {
	var errs Errors

	if s.Statin == "" {
		s.Statin = therapy.StatinNone
	} else if err := v.ValidateInput(string(s.Statin)); err != nil {
		var fe *FieldError
		if errors.As(err, &fe) {
			fe.Field = "statin"
			errs.add(fe)
		}
	} else if entry, ok := catalog.Statin(string(s.Statin)); ok {
		s.Statin = entry.ID
	} else {
		errs.add(&FieldError{Field: "statin", Value: string(s.Statin), Reason: "not in the therapy catalog"})
	}

	if s.Triglycerides != 0 {
		errs.add(checkRange("triglycerides", s.Triglycerides, TriglyceridesRange))
	}

	if err := errs.orNil(); err != nil {
		return therapy.TherapySelection{}, err
	}
	return s, nil
}

// ValidateEligibility rejects options ticked in s that e does not allow.
func (v *InputValidator) ValidateEligibility(s therapy.TherapySelection, e therapy.Eligibility) error {
	rules := map[string]therapy.Rule{
		therapy.PCSK9:      e.PCSK9,
		therapy.Inclisiran: e.Inclisiran,
		"icosapentEthyl":   e.IcosapentEthyl,
		"smokingCessation": e.SmokingCessation,
		"glp1":             e.GLP1,
	}

	var errs Errors
	for _, id := range e.Violations(s) {
		errs.add(&FieldError{Field: id, Value: true, Reason: "not selectable: " + rules[id].Reason})
	}
	return errs.orNil()
}

// ValidateBodyMeasurements checks the optional anthropometric inputs. Zero
// means not supplied; weight and height go together.
func (v *InputValidator) ValidateBodyMeasurements(weightKg, heightCm, hba1c float64) error {
	var errs Errors

	switch {
	case weightKg == 0 && heightCm == 0:
	case weightKg == 0:
		errs.add(&FieldError{Field: "weightKg", Value: weightKg, Reason: "required when heightCm is given"})
	case heightCm == 0:
		errs.add(&FieldError{Field: "heightCm", Value: heightCm, Reason: "required when weightKg is given"})
	default:
		errs.add(checkRange("weightKg", weightKg, WeightRange))
		errs.add(checkRange("heightCm", heightCm, HeightRange))
	}

	if hba1c != 0 {
		errs.add(checkRange("hba1c", hba1c, HbA1cRange))
	}

	return errs.orNil()
}
