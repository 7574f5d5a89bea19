package renderer

import "github.com/etnz/allocation"

// PlanList is the content of a store: plans and snapshots.
type PlanList struct {
	Plans     []PlanEntry
	Snapshots []SnapshotEntry
}

// PlanEntry summarizes a stored plan.
type PlanEntry struct {
	ID      string
	Name    string
	Type    string
	Details int
}

// SnapshotEntry summarizes a stored snapshot.
type SnapshotEntry struct {
	ID        string
	Name      string
	On        string
	Currency  string
	Positions int
}

// NewPlanList creates the list view of plans and snapshots, in the given order.
func NewPlanList(plans []*allocation.Plan, snapshots []*allocation.Snapshot) *PlanList {
	l := &PlanList{
		Plans:     make([]PlanEntry, 0, len(plans)),
		Snapshots: make([]SnapshotEntry, 0, len(snapshots)),
	}
	for _, p := range plans {
		l.Plans = append(l.Plans, PlanEntry{ID: p.ID.String(), Name: p.Name, Type: p.Type, Details: len(p.Details)})
	}
	for _, s := range snapshots {
		e := SnapshotEntry{ID: s.ID.String(), Name: s.Name, Currency: s.Currency, Positions: len(s.Positions), On: "-"}
		if !s.On.IsZero() {
			e.On = s.On.Format("2006-01-02")
		}
		l.Snapshots = append(l.Snapshots, e)
	}
	return l
}
