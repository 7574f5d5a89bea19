package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/allocation"
	"github.com/etnz/allocation/renderer"
	"github.com/google/subcommands"
)

// chartCmd holds the flags for the 'chart' subcommand.
type chartCmd struct {
	hierarchy string
	plan      string
	snapshot  string
	clicks    string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "replay clicks on a drill-down chart" }
func (*chartCmd) Usage() string {
	return `alloc chart -hierarchy <file> (-plan <file> | -snapshot <file>) [-clicks <list>]

  Displays the top level chart of a plan or a snapshot, then replays the
  comma separated clicks: a number clicks that segment, "up" clicks on
  empty space. Every redraw is printed.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.hierarchy, "hierarchy", "", "hierarchy file (JSON array of levels, leaf first)")
	f.StringVar(&c.plan, "plan", "", "allocation plan file, charted by sub-allocation")
	f.StringVar(&c.snapshot, "snapshot", "", "portfolio snapshot file, charted by filtering positions")
	f.StringVar(&c.clicks, "clicks", "", `comma separated clicks, e.g. "0,1,up"`)
}

// printedChart prints every redraw of a controller.
type printedChart struct {
	source   allocation.DrillDown
	currency string
	dataset  *allocation.Dataset
}

func (p *printedChart) Redraw(d *allocation.Dataset) { p.dataset = d }

func (p *printedChart) SetLevelLabel(label string) {
	printMarkdown(renderer.RenderChart(renderer.NewChart(p.dataset, label, p.source.NavigationKey(), p.currency)))
}

// parseClicks parses the -clicks flag.
func parseClicks(s string) ([]allocation.ClickEvent, error) {
	var clicks []allocation.ClickEvent
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		switch field {
		case "":
			continue
		case "up", "back":
			clicks = append(clicks, allocation.BackgroundClick())
		default:
			i, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("invalid click %q: want a segment index or \"up\"", field)
			}
			clicks = append(clicks, allocation.SegmentClick(i))
		}
	}
	return clicks, nil
}

func (c *chartCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if (c.plan == "") == (c.snapshot == "") {
		fmt.Fprintln(os.Stderr, "Error: exactly one of -plan and -snapshot is required")
		return subcommands.ExitUsageError
	}
	clicks, err := parseClicks(c.clicks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	h, err := DecodeHierarchy(c.hierarchy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading hierarchy: %v\n", err)
		return subcommands.ExitFailure
	}

	out := &printedChart{}
	if c.plan != "" {
		p, err := DecodePlan(c.plan)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading plan: %v\n", err)
			return subcommands.ExitFailure
		}
		fp, err := allocation.MapFractalHierarchy(p.Details, h)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error mapping plan %q: %v\n", p.Name, err)
			return subcommands.ExitFailure
		}
		out.source = allocation.NewFractalDataSource(fp)
	} else {
		s, err := DecodeSnapshot(c.snapshot)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading snapshot: %v\n", err)
			return subcommands.ExitFailure
		}
		out.source, err = allocation.NewMultiLevelDataSource(s.Positions, h)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading snapshot %q: %v\n", s.Name, err)
			return subcommands.ExitFailure
		}
		out.currency = s.Currency
	}

	ctrl := allocation.NewController(out.source, out)
	for i, click := range clicks {
		if _, ok := ctrl.Click(click); !ok {
			fmt.Fprintf(stdout, "click #%d ignored\n\n", i)
		}
	}
	return subcommands.ExitSuccess
}
