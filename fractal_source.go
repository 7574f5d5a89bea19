package allocation

// FractalDataSource is the drill-down state of a chart over a FractalPlan.
// The root dataset shows the top allocations; drilling into a node shows its
// sub-allocations and going back follows the super-allocation reference.
type FractalDataSource[A Allocation] struct {
	plan    *FractalPlan[A]
	current NodeID // noNode at the root
	cache   *ChartCache
}

// NewFractalDataSource starts at the root of plan.
func NewFractalDataSource[A Allocation](plan *FractalPlan[A]) *FractalDataSource[A] {
	s := &FractalDataSource[A]{plan: plan, current: noNode, cache: NewChartCache()}
	s.materialize()
	return s
}

func (s *FractalDataSource[A]) children() []NodeID {
	if s.current == noNode {
		return s.plan.top
	}
	return s.plan.Node(s.current).subs
}

func (s *FractalDataSource[A]) materialize() *Dataset {
	key, ids := s.NavigationKey(), s.children()
	label := s.plan.hierarchy.Top().name
	if s.current != noNode {
		sub, _ := s.plan.Node(s.current).SubLevel()
		label = sub.name
	}
	return s.cache.getOrBuild(key, func() *Dataset {
		segs := newSegments()
		for _, id := range ids {
			n := s.plan.Node(id)
			var k Key
			if len(n.subs) > 0 {
				k = n.key
			}
			segs.add(n.Value(), k, NewMeasure(s.plan.Aggregate(id)))
		}
		return segs.dataset(label)
	})
}

// Descend drills into the i-th sub-allocation of the current node. Leaves
// and unknown segments are no-ops.
func (s *FractalDataSource[A]) Descend(i int) (Key, bool) {
	ids := s.children()
	if i < 0 || i >= len(ids) {
		return "", false
	}
	n := s.plan.Node(ids[i])
	if n.level.index == 0 || len(n.subs) == 0 {
		return "", false
	}
	s.current = ids[i]
	s.materialize()
	return n.key, true
}

// Ascend moves to the super-allocation of the current node, a no-op at the
// root. Reaching the root returns the empty key.
func (s *FractalDataSource[A]) Ascend() (Key, bool) {
	if s.current == noNode {
		return "", false
	}
	s.current = s.plan.Node(s.current).super
	s.materialize()
	return s.NavigationKey(), true
}

func (s *FractalDataSource[A]) HasChartData(k Key) bool { return s.cache.Has(k) }

// ChartData returns the dataset cached for k, the root dataset when k is empty.
func (s *FractalDataSource[A]) ChartData(k Key) (*Dataset, bool) { return s.cache.Get(k) }

// NavigationKey is the key of the current node, empty at the root.
func (s *FractalDataSource[A]) NavigationKey() Key {
	if s.current == noNode {
		return ""
	}
	return s.plan.Node(s.current).key
}

// Current returns the node the chart is drilled into, false at the root.
func (s *FractalDataSource[A]) Current() (NodeID, bool) { return s.current, s.current != noNode }

// Describe returns "<level name>" or "<level name> for <value>".
func (s *FractalDataSource[A]) Describe() string {
	if s.current == noNode {
		return s.plan.hierarchy.Top().name
	}
	n := s.plan.Node(s.current)
	sub, _ := n.SubLevel()
	return sub.name + " for " + n.Value()
}
