package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/allocation"
	"github.com/google/subcommands"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	name      string
	hierarchy string
	plan      string
	snapshot  string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "store a hierarchy, a plan or a snapshot in the database" }
func (*importCmd) Usage() string {
	return `alloc [-db <file>] import -hierarchy <file> [-name <name>] [-plan <file>] [-snapshot <file>]

  Stores the hierarchy under a name, then the plan and the snapshot laid out
  on it. Plans and snapshots are validated first and rejected when invalid.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "default", "name of the hierarchy in the database")
	f.StringVar(&c.hierarchy, "hierarchy", "", "hierarchy file (JSON array of levels, leaf first)")
	f.StringVar(&c.plan, "plan", "", "allocation plan file")
	f.StringVar(&c.snapshot, "snapshot", "", "portfolio snapshot file")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	log := newLogger(cfg).With().Str("command", "import").Logger()

	h, err := DecodeHierarchy(c.hierarchy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading hierarchy: %v\n", err)
		return subcommands.ExitFailure
	}

	var (
		plan *allocation.Plan
		snap *allocation.Snapshot
	)
	if c.plan != "" {
		if plan, err = DecodePlan(c.plan); err == nil {
			err = allocation.ValidatePlan(plan, h)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading plan: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if c.snapshot != "" {
		if snap, err = DecodeSnapshot(c.snapshot); err == nil {
			err = allocation.ValidateSnapshot(snap, h)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading snapshot: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	db, err := OpenStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	if err := db.SaveHierarchy(ctx, c.name, h); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	log.Debug().Str("hierarchy", c.name).Int("levels", h.Size()).Msg("hierarchy stored")

	if plan != nil {
		if err := db.SavePlan(ctx, c.name, plan); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		log.Debug().Str("plan", plan.Name).Int("details", len(plan.Details)).Msg("plan stored")
		fmt.Fprintf(stdout, "plan %q stored as %s\n", plan.Name, plan.ID)
	}
	if snap != nil {
		if err := db.SaveSnapshot(ctx, c.name, snap); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		log.Debug().Str("snapshot", snap.Name).Int("positions", len(snap.Positions)).Msg("snapshot stored")
		fmt.Fprintf(stdout, "snapshot %q stored as %s\n", snap.Name, snap.ID)
	}
	return subcommands.ExitSuccess
}
