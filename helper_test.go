package allocation

import (
	"testing"

	"github.com/shopspring/decimal"
)

// id is a helper for tests to build a structural id, "" being an unspecified slot.
func id(slots ...string) StructuralID { return StructuralID(slots) }

// planned is a helper for tests to create a planned allocation; a negative size means no slice size.
func planned(size float64, slots ...string) PlannedAllocation {
	a := PlannedAllocation{Structure: id(slots...)}
	if size >= 0 {
		a.SliceSize = NewMeasure(size)
	}
	return a
}

// observed is a helper for tests to create an observed allocation; a negative value means no market value.
func observed(value float64, slots ...string) ObservedAllocation {
	a := ObservedAllocation{Structure: id(slots...)}
	if value >= 0 {
		a.MarketValue = NewMeasure(value)
	}
	return a
}

// assetClass is the two level hierarchy of most tests.
func assetClass(t *testing.T) *Hierarchy {
	t.Helper()
	h, err := NewHierarchy(LevelDef{Name: "Asset", Field: "ticker"}, LevelDef{Name: "Class", Field: "class"})
	if err != nil {
		t.Fatalf("NewHierarchy() unexpected error: %v", err)
	}
	return h
}

// threeLevels is Asset < Sector < Class.
func threeLevels(t *testing.T) *Hierarchy {
	t.Helper()
	h, err := NewHierarchy(
		LevelDef{Name: "Asset", Field: "ticker"},
		LevelDef{Name: "Sector", Field: "sector"},
		LevelDef{Name: "Class", Field: "class"},
	)
	if err != nil {
		t.Fatalf("NewHierarchy() unexpected error: %v", err)
	}
	return h
}

// decimals is a helper for tests to create a list of decimals.
func decimals(values ...float64) []decimal.Decimal {
	d := make([]decimal.Decimal, len(values))
	for i, v := range values {
		d[i] = decimal.NewFromFloat(v)
	}
	return d
}

// equalDecimals compares decimals by value, not representation.
func equalDecimals(a, b []decimal.Decimal) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
