package cmd

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"
)

// run executes cmd with args and returns its exit status and output.
func run(t *testing.T, cmd subcommands.Command, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("failed to parse %v: %v", args, err)
	}

	var out bytes.Buffer
	old := stdout
	stdout = &out
	defer func() { stdout = old }()

	status := cmd.Execute(context.Background(), f)
	return status, out.String()
}

// useDB points the -db flag to a fresh database for the duration of the test.
func useDB(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alloc.db")
	old := dbPath
	dbPath = &path
	t.Cleanup(func() { dbPath = old })
	t.Chdir(t.TempDir()) // no .env file
}

func TestTree(t *testing.T) {
	status, out := run(t, &treeCmd{}, "-hierarchy", "testdata/hierarchy.json", "-plan", "testdata/plan.json")
	if status != subcommands.ExitSuccess {
		t.Fatalf("tree returned %v", status)
	}
	for _, want := range []string{"# Balanced", "| · VTI | 50.00% | 30.00% |", "| Cash (cash) | 10.00% | 10.00% |"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree output misses %q:\n%s", want, out)
		}
	}

	if status, _ := run(t, &treeCmd{}, "-hierarchy", "testdata/hierarchy.json", "-plan", "testdata/broken_plan.json"); status != subcommands.ExitFailure {
		t.Errorf("tree of a broken plan returned %v, want failure", status)
	}
	if status, _ := run(t, &treeCmd{}, "-hierarchy", "testdata/hierarchy.json"); status != subcommands.ExitUsageError {
		t.Errorf("tree without plan returned %v, want usage error", status)
	}
}

func TestParseClicks(t *testing.T) {
	clicks, err := parseClicks("0, up,2,,back")
	if err != nil {
		t.Fatalf("parseClicks() unexpected error: %v", err)
	}
	if len(clicks) != 4 {
		t.Fatalf("parseClicks() got %d clicks, want 4", len(clicks))
	}
	if !clicks[0].OnSegment || clicks[0].Index != 0 || clicks[1].OnSegment || clicks[2].Index != 2 || clicks[3].OnSegment {
		t.Errorf("parseClicks() = %+v", clicks)
	}
	if _, err := parseClicks("0,left"); err == nil {
		t.Errorf("parseClicks(0,left) expected an error")
	}
}

func TestChart(t *testing.T) {
	status, out := run(t, &chartCmd{}, "-hierarchy", "testdata/hierarchy.json", "-snapshot", "testdata/snapshot.json", "-clicks", "0,0,up")
	if status != subcommands.ExitSuccess {
		t.Fatalf("chart returned %v", status)
	}
	// root, Tech, ignored leaf click, back to root
	if got := strings.Count(out, "## Class"); got != 2 {
		t.Errorf("root chart printed %d times, want 2:\n%s", got, out)
	}
	for _, want := range []string{"## Asset for Tech", "click #1 ignored", "| 0 | Tech (+) | 150.5 | 75.25% |"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart output misses %q:\n%s", want, out)
		}
	}

	status, out = run(t, &chartCmd{}, "-hierarchy", "testdata/hierarchy.json", "-plan", "testdata/plan.json", "-clicks", "0")
	if status != subcommands.ExitSuccess {
		t.Fatalf("chart returned %v", status)
	}
	if !strings.Contains(out, "## Asset for Equity") || !strings.Contains(out, "Navigation key: `Equity`") {
		t.Errorf("plan chart did not drill into Equity:\n%s", out)
	}

	if status, _ := run(t, &chartCmd{}, "-hierarchy", "testdata/hierarchy.json", "-plan", "testdata/plan.json", "-snapshot", "testdata/snapshot.json"); status != subcommands.ExitUsageError {
		t.Errorf("chart with both sources returned %v, want usage error", status)
	}
}

func TestValidate(t *testing.T) {
	status, out := run(t, &validateCmd{}, "-hierarchy", "testdata/hierarchy.json", "-plan", "testdata/broken_plan.json")
	if status != subcommands.ExitFailure {
		t.Errorf("validate of a broken plan returned %v, want failure", status)
	}
	if !strings.Contains(out, "2 problem(s) found") {
		t.Errorf("validate output:\n%s", out)
	}

	status, out = run(t, &validateCmd{}, "-hierarchy", "testdata/hierarchy.json", "-snapshot", "testdata/snapshot.json")
	if status != subcommands.ExitSuccess || !strings.Contains(out, "No problem found.") {
		t.Errorf("validate of a valid snapshot returned %v:\n%s", status, out)
	}
}

func TestImportAndList(t *testing.T) {
	abs := func(name string) string {
		p, err := filepath.Abs(filepath.Join("testdata", name))
		if err != nil {
			t.Fatal(err)
		}
		return p
	}
	// paths are resolved before useDB changes the working directory
	hierarchy, plan, snapshot, broken := abs("hierarchy.json"), abs("plan.json"), abs("snapshot.json"), abs("broken_plan.json")
	useDB(t)

	status, out := run(t, &importCmd{}, "-hierarchy", hierarchy, "-plan", plan, "-snapshot", snapshot)
	if status != subcommands.ExitSuccess {
		t.Fatalf("import returned %v", status)
	}
	if !strings.Contains(out, `plan "Balanced" stored as 7d444840-9dc0-11d1-b245-5ffdce74fad2`) || !strings.Contains(out, `snapshot "broker" stored as`) {
		t.Errorf("import output:\n%s", out)
	}

	if status, _ := run(t, &importCmd{}, "-hierarchy", hierarchy, "-plan", broken); status != subcommands.ExitFailure {
		t.Errorf("import of a broken plan returned %v, want failure", status)
	}

	status, out = run(t, &plansCmd{})
	if status != subcommands.ExitSuccess {
		t.Fatalf("plans returned %v", status)
	}
	for _, want := range []string{"| 7d444840-9dc0-11d1-b245-5ffdce74fad2 | Balanced | TARGET | 6 |", "| broker | 2025-08-15 |"} {
		if !strings.Contains(out, want) {
			t.Errorf("plans output misses %q:\n%s", want, out)
		}
	}
}
