package allocation

import (
	"github.com/shopspring/decimal"
)

// Series is one labeled numeric series of a chart.
type Series struct {
	Label string
	Data  []decimal.Decimal
}

// Dataset is what a pie or doughnut chart draws. Keys is parallel to Labels:
// Keys[i] is the navigation key reached by drilling into segment i, empty
// when the segment cannot be drilled into.
type Dataset struct {
	Labels []string
	Series []Series
	Keys   []Key
}

// Len returns the number of segments.
func (d *Dataset) Len() int { return len(d.Labels) }

// Total sums the first series.
func (d *Dataset) Total() decimal.Decimal {
	total := decimal.Zero
	if len(d.Series) == 0 {
		return total
	}
	for _, v := range d.Series[0].Data {
		total = total.Add(v)
	}
	return total
}

// MarshalJSON writes the charting library's wire form:
//
//	{"labels":[...],"datasets":[{"data":[...],"label":"..."}],"keys":[...]}
func (d *Dataset) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	labels := d.Labels
	if labels == nil {
		labels = []string{}
	}
	w.Append("labels", labels)
	series := make([]*jsonObjectWriter, len(d.Series))
	for i, s := range d.Series {
		series[i] = new(jsonObjectWriter)
		series[i].Numbers("data", s.Data).Append("label", s.Label)
	}
	w.Append("datasets", series)
	keys := d.Keys
	if keys == nil {
		keys = []Key{}
	}
	w.Append("keys", keys)
	return w.MarshalJSON()
}

// ChartCache maps navigation keys to datasets. Entries are never evicted.
type ChartCache struct {
	entries map[Key]*Dataset
}

func NewChartCache() *ChartCache {
	return &ChartCache{entries: make(map[Key]*Dataset)}
}

func (c *ChartCache) Has(k Key) bool {
	_, ok := c.entries[k]
	return ok
}

func (c *ChartCache) Get(k Key) (*Dataset, bool) {
	d, ok := c.entries[k]
	return d, ok
}

func (c *ChartCache) Len() int { return len(c.entries) }

// getOrBuild returns the cached dataset for k, building it on first access.
func (c *ChartCache) getOrBuild(k Key, build func() *Dataset) *Dataset {
	if d, ok := c.entries[k]; ok {
		return d
	}
	d := build()
	c.entries[k] = d
	return d
}

// segments accumulates measures per label in first-seen order.
type segments struct {
	labels []string
	keys   []Key
	data   []decimal.Decimal
	index  map[string]int
}

func newSegments() *segments { return &segments{index: make(map[string]int)} }

func (s *segments) add(label string, key Key, m Measure) {
	i, ok := s.index[label]
	if !ok {
		i = len(s.labels)
		s.index[label] = i
		s.labels = append(s.labels, label)
		s.keys = append(s.keys, key)
		s.data = append(s.data, decimal.Zero)
	}
	s.data[i] = s.data[i].Add(m.Decimal())
}

func (s *segments) dataset(label string) *Dataset {
	return &Dataset{
		Labels: s.labels,
		Series: []Series{{Label: label, Data: s.data}},
		Keys:   s.keys,
	}
}
