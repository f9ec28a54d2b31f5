package therapy

import (
	"math"
	"testing"
)

func TestAdjustLDLScenarios(t *testing.T) {
	tests := []struct {
		name      string
		baseline  float64
		selection TherapySelection
		want      float64
	}{
		{
			name:      "no therapy",
			baseline:  3.0,
			selection: TherapySelection{Statin: StatinNone},
			want:      3.0,
		},
		{
			name:      "empty statin means none",
			baseline:  3.0,
			selection: TherapySelection{},
			want:      3.0,
		},
		{
			name:      "atorvastatin 80 mg alone",
			baseline:  3.0,
			selection: TherapySelection{Statin: Atorvastatin80},
			want:      1.5,
		},
		{
			name:      "rosuvastatin 20 mg with ezetimibe",
			baseline:  3.0,
			selection: TherapySelection{Statin: Rosuvastatin20, Ezetimibe: true},
			want:      1.08,
		},
		{
			name:      "floor applied",
			baseline:  1.5,
			selection: TherapySelection{Statin: Atorvastatin80, Ezetimibe: true},
			want:      1.0,
		},
		{
			name:      "ezetimibe alone",
			baseline:  4.0,
			selection: TherapySelection{Ezetimibe: true},
			want:      3.2,
		},
		{
			name:      "display name resolves",
			baseline:  3.0,
			selection: TherapySelection{Statin: "Atorvastatin 80 mg"},
			want:      1.5,
		},
		{
			name:      "pcsk9 and inclisiran are not folded in",
			baseline:  3.0,
			selection: TherapySelection{Statin: Atorvastatin80, PCSK9: true, Inclisiran: true, BempedoicAcid: true},
			want:      1.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdjustLDL(tt.baseline, tt.selection)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AdjustLDL(%v, %+v) = %v, want %v", tt.baseline, tt.selection, got, tt.want)
			}
		})
	}
}

func TestAdjustLDLNeverBelowFloor(t *testing.T) {
	statins := []StatinID{StatinNone, Atorvastatin80, Rosuvastatin20}
	for _, statin := range statins {
		for _, ez := range []bool{false, true} {
			for baseline := 0.5; baseline <= 6.0; baseline += 0.1 {
				got := AdjustLDL(baseline, TherapySelection{Statin: statin, Ezetimibe: ez})
				if got < LDLFloor {
					t.Fatalf("AdjustLDL(%v, %s, ezetimibe=%v) = %v, below floor", baseline, statin, ez, got)
				}
			}
		}
	}
}

func TestAdjustLipids(t *testing.T) {
	c := DefaultCatalog()

	got := c.AdjustLipids(1.5, TherapySelection{Statin: Atorvastatin80, Ezetimibe: true})
	if !got.FloorApplied {
		t.Error("expected FloorApplied")
	}
	if math.Abs(got.UnflooredLDL-0.6) > 1e-9 {
		t.Errorf("UnflooredLDL = %v, want 0.6", got.UnflooredLDL)
	}
	if got.AnticipatedLDL != LDLFloor {
		t.Errorf("AnticipatedLDL = %v, want %v", got.AnticipatedLDL, LDLFloor)
	}

	got = c.AdjustLipids(3.0, TherapySelection{Statin: Atorvastatin80})
	if got.FloorApplied {
		t.Error("unexpected FloorApplied")
	}
	if got.AnticipatedLDL != got.UnflooredLDL {
		t.Errorf("AnticipatedLDL %v != UnflooredLDL %v without floor", got.AnticipatedLDL, got.UnflooredLDL)
	}
}

func TestAdjustLDLUnknownStatin(t *testing.T) {
	got := AdjustLDL(3.0, TherapySelection{Statin: "simvastatin40"})
	if got != 3.0 {
		t.Errorf("unknown statin should not reduce LDL, got %v", got)
	}
}
