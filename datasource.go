package allocation

import (
	"fmt"
	"strings"
)

// Filter restricts records to those whose field equals Value.
type Filter struct {
	Field string
	Value string
}

// MultiLevelDataSource is the drill-down state of a chart over flat records.
//
// The state is the current level and the stack of filters applied by the
// segments the user drilled into. Datasets are materialized on first visit by
// filtering every record against the whole stack and summing measures per
// distinct value of the current level's field.
type MultiLevelDataSource[A Allocation] struct {
	hierarchy *Hierarchy
	records   []A
	current   int
	filters   []Filter
	key       Key
	rootKey   Key
	cache     *ChartCache
}

// NewMultiLevelDataSource starts at the top level with no filter. Records
// must have well-formed structural ids.
func NewMultiLevelDataSource[A Allocation](records []A, h *Hierarchy) (*MultiLevelDataSource[A], error) {
	for i, r := range records {
		if _, err := LevelIndexOf(r.StructuralID(), h.Size()); err != nil {
			return nil, at(err, i)
		}
	}
	s := &MultiLevelDataSource[A]{
		hierarchy: h,
		records:   records,
		current:   h.Size() - 1,
		cache:     NewChartCache(),
	}
	s.key = s.navigationKey(nil, h.Top())
	s.rootKey = s.key
	s.materialize()
	return s, nil
}

// navigationKey serializes a state as F(field=value,...)A(field).
func (s *MultiLevelDataSource[A]) navigationKey(filters []Filter, level Level) Key {
	var b strings.Builder
	b.WriteString("F(")
	for i, f := range filters {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%s", f.Field, f.Value)
	}
	fmt.Fprintf(&b, ")A(%s)", level.field)
	return Key(b.String())
}

// materialize caches the dataset of the current state.
func (s *MultiLevelDataSource[A]) materialize() *Dataset {
	filters, level := s.filters, s.hierarchy.levels[s.current]
	return s.cache.getOrBuild(s.key, func() *Dataset { return s.build(filters, level) })
}

func (s *MultiLevelDataSource[A]) build(filters []Filter, level Level) *Dataset {
	below, drillable := s.hierarchy.Below(level)
	segs := newSegments()
	for _, r := range s.records {
		id := r.StructuralID()
		if !s.matches(id, filters) {
			continue
		}
		value := id.At(level.index)
		if value == "" {
			continue
		}
		var key Key
		if drillable {
			next := append(append(make([]Filter, 0, len(filters)+1), filters...), Filter{Field: level.field, Value: value})
			key = s.navigationKey(next, below)
		}
		segs.add(value, key, r.Measure())
	}
	return segs.dataset(level.name)
}

// matches applies every filter (AND).
func (s *MultiLevelDataSource[A]) matches(id StructuralID, filters []Filter) bool {
	for _, f := range filters {
		l, ok := s.hierarchy.LevelByField(f.Field)
		if !ok || id.At(l.index) != f.Value {
			return false
		}
	}
	return true
}

// Descend drills into segment i of the current dataset. It is a no-op at the
// leaf level or for an unknown segment.
func (s *MultiLevelDataSource[A]) Descend(i int) (Key, bool) {
	if s.current == 0 {
		return "", false
	}
	ds := s.materialize()
	if i < 0 || i >= ds.Len() {
		return "", false
	}
	level := s.hierarchy.levels[s.current]
	s.filters = append(s.filters, Filter{Field: level.field, Value: ds.Labels[i]})
	s.current--
	s.key = s.navigationKey(s.filters, s.hierarchy.levels[s.current])
	s.materialize()
	return s.key, true
}

// Ascend pops the last filter. It is a no-op at the top level.
func (s *MultiLevelDataSource[A]) Ascend() (Key, bool) {
	if s.current == s.hierarchy.Size()-1 {
		return "", false
	}
	s.filters = s.filters[:len(s.filters)-1]
	s.current++
	s.key = s.navigationKey(s.filters, s.hierarchy.levels[s.current])
	s.materialize()
	return s.key, true
}

func (s *MultiLevelDataSource[A]) HasChartData(k Key) bool { return s.cache.Has(k) }

// ChartData returns the dataset cached for k, the root dataset when k is empty.
func (s *MultiLevelDataSource[A]) ChartData(k Key) (*Dataset, bool) {
	if k == "" {
		k = s.rootKey
	}
	return s.cache.Get(k)
}

// NavigationKey returns the key of the current state.
func (s *MultiLevelDataSource[A]) NavigationKey() Key { return s.key }

// CurrentLevel returns the level the chart currently displays.
func (s *MultiLevelDataSource[A]) CurrentLevel() Level { return s.hierarchy.levels[s.current] }

// Filters returns a copy of the applied filters, outermost first.
func (s *MultiLevelDataSource[A]) Filters() []Filter {
	return append([]Filter(nil), s.filters...)
}

// Describe returns "<level name>" or "<level name> for <value>".
func (s *MultiLevelDataSource[A]) Describe() string {
	name := s.hierarchy.levels[s.current].name
	if len(s.filters) == 0 {
		return name
	}
	return name + " for " + s.filters[len(s.filters)-1].Value
}
