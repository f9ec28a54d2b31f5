// Package therapy models lipid-lowering therapy selections and derives the
// anticipated LDL-cholesterol they lead to, together with the eligibility
// rules that gate optional therapies.
package therapy

// StatinID identifies a statin entry in a Catalog.
type StatinID string

const (
	StatinNone     StatinID = "none"
	Atorvastatin80 StatinID = "atorvastatin80"
	Rosuvastatin20 StatinID = "rosuvastatin20"
)

// Add-on identifiers.
const (
	Ezetimibe     = "ezetimibe"
	BempedoicAcid = "bempedoicAcid"
	PCSK9         = "pcsk9"
	Inclisiran    = "inclisiran"
)

// OrNone maps the empty identifier to StatinNone.
func (s StatinID) OrNone() StatinID {
	if s == "" {
		return StatinNone
	}
	return s
}

// TherapySelection captures the therapies ticked for one patient.
//
// Only Statin and Ezetimibe take part in the LDL adjustment. PCSK9,
// Inclisiran and BempedoicAcid are recorded without a reduction factor.
// Triglycerides gate icosapent ethyl eligibility and feed no formula. The
// lifestyle and other options are captured for eligibility checks only.
type TherapySelection struct {
	Statin        StatinID `json:"statin"`
	Ezetimibe     bool     `json:"ezetimibe"`
	BempedoicAcid bool     `json:"bempedoicAcid"`
	PCSK9         bool     `json:"pcsk9"`
	Inclisiran    bool     `json:"inclisiran"`
	Triglycerides float64  `json:"triglycerides"` // mmol/L, fasting

	SmokingCessation  bool `json:"smokingCessation"`
	GLP1              bool `json:"glp1"`
	MediterraneanDiet bool `json:"mediterraneanDiet"`
	PhysicalActivity  bool `json:"physicalActivity"`
	AlcoholModeration bool `json:"alcoholModeration"`
	StressReduction   bool `json:"stressReduction"`
	Antiplatelet      bool `json:"antiplatelet"`
	BPControl         bool `json:"bpControl"`
	SGLT2             bool `json:"sglt2"`
	IcosapentEthyl    bool `json:"icosapentEthyl"`
}
