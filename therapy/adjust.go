package therapy

import "math"

// LDLFloor is the lowest anticipated LDL-C (mmol/L) the adjustment reports.
const LDLFloor = 1.0

// AdjustedLipidProfile is the anticipated LDL-C after therapy.
type AdjustedLipidProfile struct {
	AnticipatedLDL float64 `json:"anticipatedLDL"`
	UnflooredLDL   float64 `json:"unflooredLDL"`
	FloorApplied   bool    `json:"floorApplied"`
}

var builtinCatalog = DefaultCatalog()

// AdjustLDL applies the built-in catalog's reduction factors to baselineLDL.
// See Catalog.AdjustLDL.
func AdjustLDL(baselineLDL float64, selection TherapySelection) float64 {
	return builtinCatalog.AdjustLDL(baselineLDL, selection)
}

// AdjustLDL returns the anticipated LDL-C for baselineLDL under selection:
// the statin's reduction, then ezetimibe's, floored at LDLFloor.
func (c *Catalog) AdjustLDL(baselineLDL float64, selection TherapySelection) float64 {
	return c.AdjustLipids(baselineLDL, selection).AnticipatedLDL
}

// AdjustLipids is AdjustLDL with the pre-floor value kept.
//
// A statin the catalog does not know contributes no reduction; callers
// resolve selections against the catalog beforehand. PCSK9 inhibitors,
// inclisiran and bempedoic acid are not folded in.
func (c *Catalog) AdjustLipids(baselineLDL float64, selection TherapySelection) AdjustedLipidProfile {
	adjusted := baselineLDL

	if statin, ok := c.Statin(string(selection.Statin.OrNone())); ok && statin.ID != StatinNone {
		adjusted *= 1 - statin.ReductionFactor
	}

	if selection.Ezetimibe {
		if ez, ok := c.AddOn(Ezetimibe); ok && ez.ReductionFactor != nil {
			adjusted *= 1 - *ez.ReductionFactor
		}
	}

	return AdjustedLipidProfile{
		AnticipatedLDL: math.Max(adjusted, LDLFloor),
		UnflooredLDL:   adjusted,
		FloorApplied:   adjusted < LDLFloor,
	}
}
