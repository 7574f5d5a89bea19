// Package cmd implements the CLI application to inspect allocation plans and
// portfolio snapshots.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/allocation"
	"github.com/etnz/allocation/internal/config"
	"github.com/etnz/allocation/internal/logger"
	"github.com/etnz/allocation/internal/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&treeCmd{}, "plans")
	c.Register(&chartCmd{}, "plans")
	c.Register(&validateCmd{}, "plans")

	c.Register(&importCmd{}, "store")
	c.Register(&plansCmd{}, "store")
	c.Register(&serveCmd{}, "store")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dbPath = flag.String("db", "", "Path to the SQLite database (defaults to $ALLOC_DB, then alloc.db)")

// stdout receives the reports, tests replace it.
var stdout io.Writer = os.Stdout

// loadConfig reads the environment configuration, the -db flag taking precedence.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}
	return cfg, nil
}

// newLogger creates the logger of a command, writing to stderr.
func newLogger(cfg *config.Config) zerolog.Logger {
	return logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
}

// OpenStore is the central function to open the allocation database.
func OpenStore(ctx context.Context) (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, cfg.DatabasePath)
}

// decodeFile opens path and decodes it.
func decodeFile[T any](path string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	v, err := decode(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// DecodeHierarchy reads the hierarchy file named by a -hierarchy flag.
func DecodeHierarchy(path string) (*allocation.Hierarchy, error) {
	if path == "" {
		return nil, fmt.Errorf("a hierarchy file is required (-hierarchy)")
	}
	return decodeFile(path, allocation.DecodeHierarchy)
}

// DecodePlan reads a plan file.
func DecodePlan(path string) (*allocation.Plan, error) {
	return decodeFile(path, allocation.DecodePlan)
}

// DecodeSnapshot reads a snapshot file.
func DecodeSnapshot(path string) (*allocation.Snapshot, error) {
	return decodeFile(path, allocation.DecodeSnapshot)
}
