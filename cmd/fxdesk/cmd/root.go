package cmd

import (
	"fmt"

	"github.com/rustyeddy/fxdesk/config"
	"github.com/rustyeddy/fxdesk/internal/logger"
	"github.com/rustyeddy/fxdesk/journal"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fxdesk",
	Short: "A synthetic FX trading-desk simulator",
	Long: `fxdesk fabricates the live state of a systematic FX desk: strategy P&L,
option Greeks, open positions and decision-cycle logs, for a spot desk and an
option desk, advancing both on every tick.

It provides tools for:
  - Serving desk snapshots over HTTP and streaming ticks over a websocket
  - Running a fixed number of ticks and printing the result
  - Journaling decision cycles and equity samples to CSV or SQLite
  - Generating and validating configuration files

Nothing it produces is real market data.`,
	SilenceUsage: true,
}

var cfgFile string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON); defaults plus FXDESK_* env when empty")
}

// loadConfig loads the config named by --config and initializes logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Console)
	return cfg, nil
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	j, err := journal.Open(cfg.Journal.Type, cfg.Journal.CyclesFile, cfg.Journal.EquityFile, cfg.Journal.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return j, nil
}
