package renderer

import (
	"github.com/etnz/allocation"
	"github.com/shopspring/decimal"
)

// Chart is the dataset a chart displays, with values formatted.
type Chart struct {
	Label    string
	Key      string
	Total    string
	Segments []ChartSegment
}

// ChartSegment is a single slice of the chart. Drillable segments can be
// clicked to reveal the level below.
type ChartSegment struct {
	Index     int
	Label     string
	Value     string
	Share     string
	Drillable bool
}

// NewChart creates the view of ds, displayed with label at navigation key.
// Values are formatted as money when currency is set.
func NewChart(ds *allocation.Dataset, label string, key allocation.Key, currency string) *Chart {
	format := func(d decimal.Decimal) string {
		if currency == "" {
			return d.String()
		}
		return allocation.M(d, currency).String()
	}
	total := ds.Total()
	c := &Chart{
		Label:    label,
		Key:      key.String(),
		Total:    format(total),
		Segments: make([]ChartSegment, 0, ds.Len()),
	}
	var data []decimal.Decimal
	if len(ds.Series) > 0 {
		data = ds.Series[0].Data
	}
	for i, l := range ds.Labels {
		seg := ChartSegment{Index: i, Label: l, Value: "-", Share: "-"}
		if i < len(data) {
			seg.Value = format(data[i])
			if !total.IsZero() {
				seg.Share = allocation.P(data[i].Div(total).Shift(2)).String()
			}
		}
		if i < len(ds.Keys) {
			seg.Drillable = ds.Keys[i] != ""
		}
		c.Segments = append(c.Segments, seg)
	}
	return c
}
