package therapy

import (
	"errors"
	"fmt"
)

// StatinEntry is one selectable statin and the fraction by which it lowers
// LDL-C.
type StatinEntry struct {
	ID              StatinID `json:"id"`
	Name            string   `json:"name"`
	ReductionFactor float64  `json:"reductionFactor"`
	Aliases         []string `json:"aliases,omitempty"`
}

// AddOnEntry is a non-statin therapy. ReductionFactor is nil when the
// therapy is recorded but not folded into the LDL estimate.
type AddOnEntry struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ReductionFactor *float64 `json:"reductionFactor"`
	Aliases         []string `json:"aliases,omitempty"`
}

// Catalog is an immutable set of therapies with name lookup.
type Catalog struct {
	statins []StatinEntry
	addOns  []AddOnEntry

	statinIndex map[string]int
	addOnIndex  map[string]int
}

var (
	ErrMissingNoneStatin = errors.New("catalog has no \"none\" statin entry")
	ErrDuplicateEntry    = errors.New("duplicate catalog entry")
	ErrReductionFactor   = errors.New("reduction factor outside [0,1)")
	ErrMissingEzetimibe  = errors.New("catalog has no ezetimibe entry with a reduction factor")
	ErrFixedFactor       = errors.New("reduction factor differs from the fixed value")
)

// fixedStatinFactors and EzetimibeFactor are part of the LDL model; a
// catalog may rename or alias these therapies but not change their factors.
var fixedStatinFactors = map[StatinID]float64{
	StatinNone:     0,
	Atorvastatin80: 0.50,
	Rosuvastatin20: 0.55,
}

// EzetimibeFactor is the fraction by which ezetimibe lowers LDL-C.
const EzetimibeFactor = 0.20

// NewCatalog validates the entries and indexes them by folded id, name and
// aliases. The catalog must hold a "none" statin and an ezetimibe entry, and
// the built-in therapies keep their fixed reduction factors.
func NewCatalog(statins []StatinEntry, addOns []AddOnEntry) (*Catalog, error) {
	c := &Catalog{
		statins:     append([]StatinEntry(nil), statins...),
		addOns:      append([]AddOnEntry(nil), addOns...),
		statinIndex: make(map[string]int),
		addOnIndex:  make(map[string]int),
	}

	hasNone := false
	for i, s := range c.statins {
		if s.ReductionFactor < 0 || s.ReductionFactor >= 1 {
			return nil, fmt.Errorf("statin %q: %w", s.ID, ErrReductionFactor)
		}
		if want, fixed := fixedStatinFactors[s.ID]; fixed && s.ReductionFactor != want {
			return nil, fmt.Errorf("statin %q: %w: got %v, want %v", s.ID, ErrFixedFactor, s.ReductionFactor, want)
		}
		if s.ID == StatinNone {
			hasNone = true
		}
		if err := indexNames(c.statinIndex, i, string(s.ID), s.Name, s.Aliases); err != nil {
			return nil, fmt.Errorf("statin %q: %w", s.ID, err)
		}
	}
	if !hasNone {
		return nil, ErrMissingNoneStatin
	}

	hasEzetimibe := false
	for i, a := range c.addOns {
		if a.ReductionFactor != nil && (*a.ReductionFactor < 0 || *a.ReductionFactor >= 1) {
			return nil, fmt.Errorf("add-on %q: %w", a.ID, ErrReductionFactor)
		}
		if a.ID == Ezetimibe {
			if a.ReductionFactor == nil {
				return nil, ErrMissingEzetimibe
			}
			if *a.ReductionFactor != EzetimibeFactor {
				return nil, fmt.Errorf("add-on %q: %w: got %v, want %v", a.ID, ErrFixedFactor, *a.ReductionFactor, EzetimibeFactor)
			}
			hasEzetimibe = true
		}
		if err := indexNames(c.addOnIndex, i, a.ID, a.Name, a.Aliases); err != nil {
			return nil, fmt.Errorf("add-on %q: %w", a.ID, err)
		}
	}
	if !hasEzetimibe {
		return nil, ErrMissingEzetimibe
	}

	return c, nil
}

func indexNames(index map[string]int, pos int, id, name string, aliases []string) error {
	keys := append([]string{id, name}, aliases...)
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		folded := FoldName(k)
		if folded == "" || seen[folded] {
			continue
		}
		seen[folded] = true
		if other, exists := index[folded]; exists && other != pos {
			return fmt.Errorf("%w: %q", ErrDuplicateEntry, k)
		}
		index[folded] = pos
	}
	return nil
}

// Statins returns a copy of the statin entries in catalog order.
func (c *Catalog) Statins() []StatinEntry {
	return append([]StatinEntry(nil), c.statins...)
}

// AddOns returns a copy of the add-on entries in catalog order.
func (c *Catalog) AddOns() []AddOnEntry {
	return append([]AddOnEntry(nil), c.addOns...)
}

// Statin looks a statin up by id, name or alias. The empty string resolves
// to the "none" entry.
func (c *Catalog) Statin(name string) (StatinEntry, bool) {
	if name == "" {
		name = string(StatinNone)
	}
	i, ok := c.statinIndex[FoldName(name)]
	if !ok {
		return StatinEntry{}, false
	}
	return c.statins[i], true
}

// AddOn looks an add-on up by id, name or alias.
func (c *Catalog) AddOn(name string) (AddOnEntry, bool) {
	i, ok := c.addOnIndex[FoldName(name)]
	if !ok {
		return AddOnEntry{}, false
	}
	return c.addOns[i], true
}

func factor(f float64) *float64 {
	return &f
}

// DefaultCatalog returns the built-in therapy catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		[]StatinEntry{
			{ID: StatinNone, Name: "None", ReductionFactor: 0},
			{ID: Atorvastatin80, Name: "Atorvastatin 80 mg", ReductionFactor: fixedStatinFactors[Atorvastatin80]},
			{ID: Rosuvastatin20, Name: "Rosuvastatin 20 mg", ReductionFactor: fixedStatinFactors[Rosuvastatin20]},
		},
		[]AddOnEntry{
			{ID: Ezetimibe, Name: "Ezetimibe 10 mg", ReductionFactor: factor(EzetimibeFactor)},
			{ID: BempedoicAcid, Name: "Bempedoic acid"},
			{ID: PCSK9, Name: "PCSK9 inhibitor", Aliases: []string{"PCSK9i"}},
			{ID: Inclisiran, Name: "Inclisiran (siRNA)"},
		},
	)
	if err != nil {
		panic(fmt.Sprintf("default therapy catalog is invalid: %v", err))
	}
	return c
}
