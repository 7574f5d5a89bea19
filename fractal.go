package allocation

import (
	"fmt"
	"iter"

	"github.com/shopspring/decimal"
)

// NodeID is the position of a node in its FractalPlan.
type NodeID int

// noNode marks the absence of a parent.
const noNode NodeID = -1

// Node aggregates every record sharing a structural key. Sub-allocations are
// owned by the node; the super-allocation is a plain back reference.
type Node[A Allocation] struct {
	key        Key
	level      Level
	subLevel   Level
	hasSub     bool
	allocation A
	subs       []NodeID
	super      NodeID
}

func (n *Node[A]) Key() Key                        { return n.key }
func (n *Node[A]) Level() Level                    { return n.level }
func (n *Node[A]) Allocation() A                   { return n.allocation }
func (n *Node[A]) SubAllocations() []NodeID        { return n.subs }
func (n *Node[A]) SubLevel() (Level, bool)         { return n.subLevel, n.hasSub }
func (n *Node[A]) SuperAllocation() (NodeID, bool) { return n.super, n.super != noNode }

// Value is the node's own entry in its structural id, its label in charts.
func (n *Node[A]) Value() string {
	return n.allocation.StructuralID().At(n.level.index)
}

// FractalPlan is the aggregation tree of a flat list of allocations. It is
// read-only once built.
type FractalPlan[A Allocation] struct {
	hierarchy   *Hierarchy
	nodes       []Node[A]
	top         []NodeID
	aggregators map[Key]NodeID
}

// MapFractalHierarchy builds the aggregation tree of records in h.
//
// Records are bucketed by level, nodes are created top-down, then every node
// below the top is attached to the node its parent key designates. Sub
// allocations keep the input order. The first integrity violation aborts the
// construction.
func MapFractalHierarchy[A Allocation](records []A, h *Hierarchy) (*FractalPlan[A], error) {
	size := h.Size()

	// bucket records by level
	buckets := make([][]int, size)
	for i, r := range records {
		level, err := LevelIndexOf(r.StructuralID(), size)
		if err != nil {
			return nil, at(err, i)
		}
		buckets[level] = append(buckets[level], i)
	}

	p := &FractalPlan[A]{
		hierarchy:   h,
		nodes:       make([]Node[A], 0, len(records)),
		aggregators: make(map[Key]NodeID),
	}
	levelNodes := make([][]NodeID, size)
	seen := make(map[Key]int, len(records))

	// build nodes, top level first
	for index := size - 1; index >= 0; index-- {
		level := h.levels[index]
		sub, hasSub := h.Level(index - 1)
		for _, i := range buckets[index] {
			key := KeyOf(records[i].StructuralID())
			if _, dup := seen[key]; dup {
				return nil, &IntegrityError{Kind: DuplicateKey, Key: key, Record: i}
			}
			seen[key] = i

			id := NodeID(len(p.nodes))
			p.nodes = append(p.nodes, Node[A]{
				key:        key,
				level:      level,
				subLevel:   sub,
				hasSub:     hasSub,
				allocation: records[i],
				super:      noNode,
			})
			levelNodes[index] = append(levelNodes[index], id)
			if index > 0 {
				p.aggregators[key] = id
			}
		}
	}
	p.top = levelNodes[size-1]

	// connect every level below the top to its parent
	for index := size - 2; index >= 0; index-- {
		for _, id := range levelNodes[index] {
			n := &p.nodes[id]
			parentKey := ParentKey(n.allocation.StructuralID(), index)
			parent, ok := p.aggregators[parentKey]
			if !ok {
				return nil, &IntegrityError{Kind: MissingParent, Key: n.key, Parent: parentKey, Record: seen[n.key]}
			}
			p.nodes[parent].subs = append(p.nodes[parent].subs, id)
			n.super = parent
		}
	}
	return p, nil
}

// Hierarchy returns the hierarchy the plan was built for.
func (p *FractalPlan[A]) Hierarchy() *Hierarchy { return p.hierarchy }

// SubLevel is the level directly below the top, false for a single level hierarchy.
func (p *FractalPlan[A]) SubLevel() (Level, bool) { return p.hierarchy.Below(p.hierarchy.Top()) }

// TopAllocations returns the nodes at the top level, in input order.
func (p *FractalPlan[A]) TopAllocations() []NodeID { return p.top }

// Len returns the number of nodes.
func (p *FractalPlan[A]) Len() int { return len(p.nodes) }

// Node returns the node id. It panics if id does not belong to the plan.
func (p *FractalPlan[A]) Node(id NodeID) *Node[A] {
	if id < 0 || int(id) >= len(p.nodes) {
		panic(fmt.Sprintf("node %d out of range [0,%d)", id, len(p.nodes)))
	}
	return &p.nodes[id]
}

// Lookup finds a non-leaf node by key.
func (p *FractalPlan[A]) Lookup(k Key) (NodeID, bool) {
	id, ok := p.aggregators[k]
	return id, ok
}

// Walk iterates depth first over the tree, top allocations first, in child
// order. The depth of the top allocations is 0.
func (p *FractalPlan[A]) Walk() iter.Seq2[int, *Node[A]] {
	return func(yield func(int, *Node[A]) bool) {
		var visit func(depth int, ids []NodeID) bool
		visit = func(depth int, ids []NodeID) bool {
			for _, id := range ids {
				n := &p.nodes[id]
				if !yield(depth, n) || !visit(depth+1, n.subs) {
					return false
				}
			}
			return true
		}
		visit(0, p.top)
	}
}

// Total sums the aggregates of the direct sub-allocations of id.
func (p *FractalPlan[A]) Total(id NodeID) decimal.Decimal {
	total := decimal.Zero
	for _, sub := range p.Node(id).subs {
		total = total.Add(p.Aggregate(sub))
	}
	return total
}

// Aggregate is the measure of id, or the Total of its sub-allocations when
// the node carries no measure of its own (an aggregator row).
func (p *FractalPlan[A]) Aggregate(id NodeID) decimal.Decimal {
	if m := p.Node(id).allocation.Measure(); m.IsSet() {
		return m.Decimal()
	}
	return p.Total(id)
}

// Path returns the nodes from the top allocation down to id.
func (p *FractalPlan[A]) Path(id NodeID) []NodeID {
	var path []NodeID
	for cur := id; cur != noNode; cur = p.Node(cur).super {
		path = append([]NodeID{cur}, path...)
	}
	return path
}
