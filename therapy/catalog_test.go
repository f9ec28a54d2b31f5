package therapy

import (
	"errors"
	"testing"
)

func TestDefaultCatalogLookup(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		name   string
		wantID StatinID
		factor float64
	}{
		{"atorvastatin80", Atorvastatin80, 0.50},
		{"Atorvastatin 80 mg", Atorvastatin80, 0.50},
		{"ROSUVASTATIN 20 MG", Rosuvastatin20, 0.55},
		{"rosuvastatin-20", Rosuvastatin20, 0.55},
		{"None", StatinNone, 0},
		{"", StatinNone, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := c.Statin(tt.name)
			if !ok {
				t.Fatalf("Statin(%q) not found", tt.name)
			}
			if entry.ID != tt.wantID {
				t.Errorf("Statin(%q).ID = %q, want %q", tt.name, entry.ID, tt.wantID)
			}
			if entry.ReductionFactor != tt.factor {
				t.Errorf("Statin(%q).ReductionFactor = %v, want %v", tt.name, entry.ReductionFactor, tt.factor)
			}
		})
	}

	if _, ok := c.Statin("simvastatin"); ok {
		t.Error("unexpected match for simvastatin")
	}

	ez, ok := c.AddOn("Ezetimibe 10 mg")
	if !ok || ez.ReductionFactor == nil || *ez.ReductionFactor != 0.20 {
		t.Errorf("ezetimibe lookup = %+v, %v", ez, ok)
	}
	pcsk9, ok := c.AddOn("PCSK9i")
	if !ok || pcsk9.ReductionFactor != nil {
		t.Errorf("pcsk9 lookup = %+v, %v; want entry without factor", pcsk9, ok)
	}
}

func TestNewCatalogValidation(t *testing.T) {
	none := StatinEntry{ID: StatinNone, Name: "None"}
	ezetimibe := AddOnEntry{ID: Ezetimibe, Name: "Ezetimibe 10 mg", ReductionFactor: factor(0.20)}

	tests := []struct {
		name    string
		statins []StatinEntry
		addOns  []AddOnEntry
		wantErr error
	}{
		{
			name:    "missing none",
			statins: []StatinEntry{{ID: Atorvastatin80, Name: "Atorvastatin 80 mg", ReductionFactor: 0.5}},
			wantErr: ErrMissingNoneStatin,
		},
		{
			name:    "factor of one",
			statins: []StatinEntry{none, {ID: "x", Name: "X", ReductionFactor: 1}},
			wantErr: ErrReductionFactor,
		},
		{
			name:    "negative add-on factor",
			statins: []StatinEntry{none},
			addOns:  []AddOnEntry{{ID: "y", Name: "Y", ReductionFactor: factor(-0.1)}},
			wantErr: ErrReductionFactor,
		},
		{
			name: "duplicate folded name",
			statins: []StatinEntry{
				none,
				{ID: "a", Name: "Atorva 80", ReductionFactor: 0.5},
				{ID: "b", Name: "atorva-80", ReductionFactor: 0.4},
			},
			wantErr: ErrDuplicateEntry,
		},
		{
			name:    "missing ezetimibe",
			statins: []StatinEntry{none},
			addOns:  []AddOnEntry{{ID: PCSK9, Name: "PCSK9 inhibitor"}},
			wantErr: ErrMissingEzetimibe,
		},
		{
			name:    "ezetimibe without factor",
			statins: []StatinEntry{none},
			addOns:  []AddOnEntry{{ID: Ezetimibe, Name: "Ezetimibe 10 mg"}},
			wantErr: ErrMissingEzetimibe,
		},
		{
			name:    "ezetimibe factor changed",
			statins: []StatinEntry{none},
			addOns:  []AddOnEntry{{ID: Ezetimibe, Name: "Ezetimibe 10 mg", ReductionFactor: factor(0.35)}},
			wantErr: ErrFixedFactor,
		},
		{
			name:    "atorvastatin factor changed",
			statins: []StatinEntry{none, {ID: Atorvastatin80, Name: "Atorvastatin 80 mg", ReductionFactor: 0.10}},
			addOns:  []AddOnEntry{ezetimibe},
			wantErr: ErrFixedFactor,
		},
		{
			name:    "rosuvastatin factor changed",
			statins: []StatinEntry{none, {ID: Rosuvastatin20, Name: "Rosuvastatin 20 mg", ReductionFactor: 0.60}},
			addOns:  []AddOnEntry{ezetimibe},
			wantErr: ErrFixedFactor,
		},
		{
			name:    "valid minimal",
			statins: []StatinEntry{none},
			addOns:  []AddOnEntry{ezetimibe},
		},
		{
			name: "extra statin with its own factor",
			statins: []StatinEntry{
				none,
				{ID: Atorvastatin80, Name: "Lipitor", ReductionFactor: 0.50},
				{ID: "pitavastatin4", Name: "Pitavastatin 4 mg", ReductionFactor: 0.40},
			},
			addOns: []AddOnEntry{ezetimibe},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.statins, tt.addOns)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewCatalog() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCatalogCopiesAreIndependent(t *testing.T) {
	c := DefaultCatalog()
	statins := c.Statins()
	statins[1].ReductionFactor = 0.9

	entry, _ := c.Statin(string(Atorvastatin80))
	if entry.ReductionFactor != 0.50 {
		t.Errorf("catalog mutated through Statins() copy: %v", entry.ReductionFactor)
	}
}

func TestFoldName(t *testing.T) {
	tests := map[string]string{
		"Rosuvastatin 20 mg": "rosuvastatin20mg",
		"rosuvastatin-20MG":  "rosuvastatin20mg",
		"Ézétimibe":          "ezetimibe",
		"  PCSK9 inhibitor ": "pcsk9inhibitor",
		"":                   "",
	}
	for in, want := range tests {
		if got := FoldName(in); got != want {
			t.Errorf("FoldName(%q) = %q, want %q", in, got, want)
		}
	}
}
