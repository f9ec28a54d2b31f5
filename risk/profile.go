// Package risk implements the SMART-style cardiovascular risk score: a
// log-linear predictor over clinical risk factors turned into a 10-year
// event probability, and the constant-hazard conversion to a 5-year horizon.
//
// Every function in this package is pure. Inputs are expected to be
// validated by the caller (see the validation package); nothing here checks
// ranges.
package risk

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Sex is the patient's biological sex as used by the score.
type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

// DefaultSystolicBP is the stand-in systolic blood pressure (mmHg) offered to
// callers that have no measurement yet. The estimator never substitutes it on
// its own; presentation layers must pass it explicitly.
const DefaultSystolicBP = 130.0

// ParseSex accepts "male"/"female" (any case, surrounding spaces ignored) and
// the single-letter forms "m"/"f".
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return Male, nil
	case "female", "f":
		return Female, nil
	}
	return "", fmt.Errorf("unknown sex %q", s)
}

// UnmarshalJSON accepts the same spellings as ParseSex. Unknown values are
// kept verbatim so that validation can report them.
func (s *Sex) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if parsed, err := ParseSex(raw); err == nil {
		*s = parsed
		return nil
	}
	*s = Sex(raw)
	return nil
}

// PatientProfile holds the clinical inputs of one risk estimation.
type PatientProfile struct {
	Age              int     `json:"age"`
	Sex              Sex     `json:"sex"`
	SystolicBP       float64 `json:"systolicBP"`
	TotalCholesterol float64 `json:"totalCholesterol"` // mmol/L
	HDLCholesterol   float64 `json:"hdlCholesterol"`   // mmol/L
	LDLBaseline      float64 `json:"ldlBaseline"`      // mmol/L
	Smoker           bool    `json:"smoker"`
	Diabetic         bool    `json:"diabetic"`
	EGFR             float64 `json:"egfr"` // mL/min/1.73m²
	CRP              float64 `json:"crp"`  // hs-CRP, mg/L
	VascularBedCount int     `json:"vascularBedCount"`
}

func boolFlag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (p PatientProfile) sexFlag() float64 {
	return boolFlag(p.Sex == Male)
}
