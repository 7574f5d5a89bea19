package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/allocation"
	"github.com/etnz/allocation/renderer"
	"github.com/google/subcommands"
)

// validateCmd holds the flags for the 'validate' subcommand.
type validateCmd struct {
	hierarchy string
	plan      string
	snapshot  string
}

func (*validateCmd) Name() string     { return "validate" }
func (*validateCmd) Synopsis() string { return "report every integrity problem of a plan or a snapshot" }
func (*validateCmd) Usage() string {
	return `alloc validate -hierarchy <file> (-plan <file> | -snapshot <file>)

  Checks structural ids and measures, and reports all the problems found.
  Plan details must also have unique keys and an aggregator row for every
  parent; snapshot positions are flat and need neither. The exit status is 1
  when there is any problem.
`
}

func (c *validateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.hierarchy, "hierarchy", "", "hierarchy file (JSON array of levels, leaf first)")
	f.StringVar(&c.plan, "plan", "", "allocation plan file")
	f.StringVar(&c.snapshot, "snapshot", "", "portfolio snapshot file")
}

func (c *validateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if (c.plan == "") == (c.snapshot == "") {
		fmt.Fprintln(os.Stderr, "Error: exactly one of -plan and -snapshot is required")
		return subcommands.ExitUsageError
	}
	h, err := DecodeHierarchy(c.hierarchy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading hierarchy: %v\n", err)
		return subcommands.ExitFailure
	}

	var report *renderer.Validation
	if c.plan != "" {
		p, err := DecodePlan(c.plan)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading plan: %v\n", err)
			return subcommands.ExitFailure
		}
		report = renderer.NewValidation(p.Name, allocation.Validate(p.Details, h))
	} else {
		s, err := DecodeSnapshot(c.snapshot)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading snapshot: %v\n", err)
			return subcommands.ExitFailure
		}
		report = renderer.NewValidation(s.Name, allocation.ValidatePositions(s.Positions, h))
	}

	printMarkdown(renderer.RenderValidation(report))
	if len(report.Problems) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
