package allocation

import "sync"

// DrillDown is the navigation contract a chart controller relies on.
type DrillDown interface {
	// Descend drills into segment i, false when there is nothing to drill into.
	Descend(i int) (Key, bool)
	// Ascend goes back one level, false at the top.
	Ascend() (Key, bool)
	HasChartData(k Key) bool
	// ChartData returns the dataset for k, the root dataset for the empty key.
	ChartData(k Key) (*Dataset, bool)
	NavigationKey() Key
	// Describe is the label displayed next to the chart.
	Describe() string
}

var (
	_ DrillDown = (*MultiLevelDataSource[ObservedAllocation])(nil)
	_ DrillDown = (*FractalDataSource[PlannedAllocation])(nil)
)

// Chart is the drawing collaborator of a Controller.
type Chart interface {
	Redraw(d *Dataset)
	SetLevelLabel(label string)
}

// ClickEvent is a click on a chart, either on segment Index or on empty space.
type ClickEvent struct {
	Index     int
	OnSegment bool
}

func SegmentClick(i int) ClickEvent { return ClickEvent{Index: i, OnSegment: true} }
func BackgroundClick() ClickEvent   { return ClickEvent{} }

// Controller turns chart clicks into navigation and redraws. Clicks are
// applied one at a time, in arrival order.
type Controller struct {
	mu     sync.Mutex
	source DrillDown
	chart  Chart
	active *Dataset
	label  string
	key    Key
}

// View is what a chart displays at a point in time.
type View struct {
	Dataset *Dataset
	Label   string
	Key     Key
}

// NewController draws the root dataset of source on chart. chart may be nil.
func NewController(source DrillDown, chart Chart) *Controller {
	c := &Controller{source: source, chart: chart}
	c.active, _ = source.ChartData("")
	c.label = source.Describe()
	c.key = source.NavigationKey()
	c.draw()
	return c
}

func (c *Controller) draw() {
	if c.chart == nil {
		return
	}
	c.chart.Redraw(c.active)
	c.chart.SetLevelLabel(c.label)
}

// Click dispatches ev and reports whether the chart changed, with the view
// displayed once ev is applied. Boundary clicks are ignored.
func (c *Controller) Click(ev ClickEvent) (View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		key Key
		ok  bool
	)
	if ev.OnSegment {
		key, ok = c.source.Descend(ev.Index)
	} else {
		key, ok = c.source.Ascend()
	}
	if !ok {
		return c.view(), false
	}
	ds, ok := c.source.ChartData(key)
	if !ok {
		return c.view(), false
	}
	c.active, c.label, c.key = ds, c.source.Describe(), c.source.NavigationKey()
	c.draw()
	return c.view(), true
}

// View returns the displayed dataset with its label and navigation key.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

func (c *Controller) view() View { return View{Dataset: c.active, Label: c.label, Key: c.key} }
