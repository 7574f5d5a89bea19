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

// treeCmd holds the flags for the 'tree' subcommand.
type treeCmd struct {
	hierarchy string
	plan      string
}

func (*treeCmd) Name() string     { return "tree" }
func (*treeCmd) Synopsis() string { return "display the allocation tree of a plan" }
func (*treeCmd) Usage() string {
	return `alloc tree -hierarchy <file> -plan <file>

  Maps the plan onto the hierarchy and displays every allocation with its
  slice of the parent and its share of the whole portfolio.
`
}

func (c *treeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.hierarchy, "hierarchy", "", "hierarchy file (JSON array of levels, leaf first)")
	f.StringVar(&c.plan, "plan", "", "allocation plan file")
}

func (c *treeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.plan == "" {
		fmt.Fprintln(os.Stderr, "Error: a plan file is required (-plan)")
		return subcommands.ExitUsageError
	}
	h, err := DecodeHierarchy(c.hierarchy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading hierarchy: %v\n", err)
		return subcommands.ExitFailure
	}
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
	printMarkdown(renderer.RenderTree(renderer.NewTree(p, fp)))
	return subcommands.ExitSuccess
}
