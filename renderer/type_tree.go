package renderer

import (
	"strings"

	"github.com/etnz/allocation"
	"github.com/shopspring/decimal"
)

// Tree is the outline of an allocation plan, one row per allocation in depth
// first order.
type Tree struct {
	Name   string
	Levels []string // level names, top first
	Rows   []TreeRow
}

// TreeRow is a single allocation of the outline.
type TreeRow struct {
	Depth int
	Level string
	Value string
	Asset string
	Cash  bool
	// Slice is the share of the parent slice, as written in the plan.
	Slice allocation.Measure
	// Share is the share of the whole portfolio, unknown when a slice on the
	// path to the top is missing.
	Share    decimal.Decimal
	HasShare bool
}

// Path returns the level names joined top to bottom.
func (t *Tree) Path() string { return strings.Join(t.Levels, " > ") }

func (r TreeRow) Indent() string { return strings.Repeat("· ", r.Depth) }

func (r TreeRow) SliceSize() string {
	if !r.Slice.IsSet() {
		return "-"
	}
	return allocation.P(r.Slice.Decimal()).String()
}

func (r TreeRow) EffectiveShare() string {
	if !r.HasShare {
		return "-"
	}
	return allocation.P(r.Share).String()
}

// NewTree creates the outline of p mapped as fp.
func NewTree(p *allocation.Plan, fp *allocation.FractalPlan[allocation.PlannedAllocation]) *Tree {
	t := &Tree{Name: p.Name}
	for l := range fp.Hierarchy().Levels() {
		t.Levels = append(t.Levels, l.Name())
	}

	// shares[d] is the share of the last row seen at depth d.
	type share struct {
		value decimal.Decimal
		ok    bool
	}
	var shares []share
	for depth, n := range fp.Walk() {
		parent := share{value: decimal.NewFromInt(100), ok: true}
		if depth > 0 {
			parent = shares[depth-1]
		}
		a := n.Allocation()
		row := TreeRow{
			Depth: depth,
			Level: n.Level().Name(),
			Value: n.Value(),
			Asset: a.Asset,
			Cash:  a.CashReserve,
			Slice: a.SliceSize,
		}
		cur := share{}
		if parent.ok && a.SliceSize.IsSet() {
			cur = share{value: allocation.P(a.SliceSize.Decimal()).Of(parent.value), ok: true}
		}
		row.Share, row.HasShare = cur.value, cur.ok
		shares = append(shares[:depth], cur)
		t.Rows = append(t.Rows, row)
	}
	return t
}
