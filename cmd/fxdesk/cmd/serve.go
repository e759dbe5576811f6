package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rustyeddy/fxdesk/config"
	"github.com/rustyeddy/fxdesk/desk"
	"github.com/rustyeddy/fxdesk/internal/logger"
	"github.com/rustyeddy/fxdesk/journal"
	"github.com/rustyeddy/fxdesk/server"
	"github.com/rustyeddy/fxdesk/sim"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Tick the desk and serve it over HTTP",
	Long: `Start the desk, tick it at the configured interval and serve snapshots.

Routes:
  GET /health
  GET /api/v1/desk/{spot|option}
  GET /api/v1/desk/{class}/summary
  GET /api/v1/desk/{class}/leaderboard?limit=N
  GET /api/v1/desk/{class}/strategies/{id}
  GET /api/v1/desk/{class}/logs?strategy=ID
  GET /ws   (every tick as JSON)

Example:
  fxdesk serve --config fxdesk.yaml --addr :9090`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := j.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("close journal")
		}
	}()

	svc, err := newService(cfg, j)
	if err != nil {
		return err
	}
	srv := server.New(svc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deskErr := make(chan error, 1)
	go func() { deskErr <- svc.Run(ctx) }()

	serveErr := srv.ListenAndServe(ctx, cfg.Server.Addr)
	stop()
	if err := <-deskErr; err != nil {
		logger.Logger.Error().Err(err).Msg("desk shutdown")
	}
	return serveErr
}

// newService builds a desk from cfg and wraps it in a service that records
// to j.
func newService(cfg *config.Config, j journal.Journal) (*desk.Service, error) {
	opts, err := cfg.DeskOptions()
	if err != nil {
		return nil, err
	}
	d, err := sim.NewDesk(opts...)
	if err != nil {
		return nil, fmt.Errorf("build desk: %w", err)
	}
	interval, err := cfg.Simulation.ParseInterval()
	if err != nil {
		return nil, fmt.Errorf("simulation.interval: %w", err)
	}
	return desk.New(d,
		desk.WithInterval(interval),
		desk.WithJournal(j, cfg.Journal.SampleEvery),
		desk.WithLogger(logger.Logger),
	)
}
