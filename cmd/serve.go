package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/allocation/internal/logger"
	"github.com/etnz/allocation/internal/server"
	"github.com/etnz/allocation/internal/store"
	"github.com/google/subcommands"
)

// serveCmd holds the flags for the 'serve' subcommand.
type serveCmd struct {
	port int
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the stored plans as drill-down charts" }
func (*serveCmd) Usage() string {
	return `alloc [-db <file>] serve [-port <port>]

  Starts the HTTP server. Settings come from the environment (ALLOC_PORT,
  ALLOC_DB, ALLOC_LOG_LEVEL, ALLOC_LOG_PRETTY, ALLOC_SESSION_LIMIT) or a
  .env file.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.port, "port", 0, "port to listen on, overrides ALLOC_PORT")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.port != 0 {
		cfg.Port = c.port
	}
	log := newLogger(cfg)
	logger.SetGlobalLogger(log)

	db, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open database")
		return subcommands.ExitFailure
	}
	defer db.Close()

	srv := server.New(server.Config{
		Addr:         cfg.Addr(),
		Log:          log,
		Store:        db,
		SessionLimit: cfg.CacheLimit,
	})

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server failed")
			return subcommands.ExitFailure
		}
	case <-quit:
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
