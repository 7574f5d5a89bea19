package allocation

import (
	"time"

	"github.com/google/uuid"
)

// Allocation is a flat record located in a hierarchy by its structural id.
type Allocation interface {
	StructuralID() StructuralID
	Measure() Measure
}

// PlannedAllocation is a row of an allocation plan. SliceSize is the
// percentage of the parent slice this row targets.
type PlannedAllocation struct {
	Structure   StructuralID
	Asset       string // asset reference, empty on aggregator rows
	CashReserve bool
	SliceSize   Measure
}

func (a PlannedAllocation) StructuralID() StructuralID { return a.Structure }
func (a PlannedAllocation) Measure() Measure           { return a.SliceSize }

// Plan is a named allocation plan: the target split of a portfolio.
type Plan struct {
	ID      uuid.UUID
	Name    string
	Type    string
	Details []PlannedAllocation
}

// ObservedAllocation is a position of a portfolio snapshot valued at market.
type ObservedAllocation struct {
	Structure   StructuralID
	Asset       string
	CashReserve bool
	MarketValue Measure
}

func (a ObservedAllocation) StructuralID() StructuralID { return a.Structure }
func (a ObservedAllocation) Measure() Measure           { return a.MarketValue }

// Snapshot is the observed allocation of a portfolio on a given day.
type Snapshot struct {
	ID        uuid.UUID
	Name      string
	Currency  string
	On        time.Time
	Positions []ObservedAllocation
}
