package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rustyeddy/fxdesk/internal/logger"
	"github.com/rustyeddy/fxdesk/market"
	"github.com/rustyeddy/fxdesk/sim"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a fixed number of ticks and print the desk",
	Long: `Tick the desk back to back, without waiting for the interval, and print
a summary of both asset classes. With --json the final tick is printed as JSON.

Example:
  fxdesk run --ticks 100 --config fxdesk.yaml`,
	RunE: runRun,
}

var (
	runTicks int
	runJSON  bool
	runTop   int
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVarP(&runTicks, "ticks", "n", 20, "number of ticks to run")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the final tick as JSON")
	runCmd.Flags().IntVar(&runTop, "top", 3, "leaderboard rows to print per class")
}

func runRun(cmd *cobra.Command, args []string) error {
	if runTicks < 0 {
		return fmt.Errorf("--ticks must not be negative")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
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

	res := svc.Snapshot()
	for range runTicks {
		res = svc.Tick()
	}

	if runJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Printf("Ran %d ticks (seq %d)\n", runTicks, res.Seq)
	for _, class := range market.AssetClasses {
		st, _ := res.State(class)
		printState(st, runTop)
	}
	if cfg.Journal.Type != "none" {
		fmt.Printf("\n✓ Journal written (%s)\n", cfg.Journal.Type)
	}
	return nil
}

func printState(st sim.MarketState, top int) {
	sum := sim.Summarize(st)
	fmt.Printf("\n== %s ==\n", st.AssetClass)
	fmt.Printf("  Top performer: %s\n", sum.TopPerformer)
	fmt.Printf("  Active strategies: %d\n", sum.ActiveStrategies)
	fmt.Printf("  Total P/L: $%.2f (daily $%.2f)\n", sum.TotalPnl, sum.DailyPnl)
	fmt.Printf("  Open positions: %d (unrealized $%.2f)\n", sum.OpenPositions, sum.UnrealizedPnl)

	unit := "$"
	if st.AssetClass == market.Spot {
		unit = "pips "
	}
	for _, s := range sim.Leaderboard(st, top) {
		fmt.Printf("  %d. %-32s %s%.1f\n", s.Rank, s.Name, unit, s.Score)
	}

	if len(st.Logs) > 0 {
		l := st.Logs[0]
		fmt.Printf("  Latest cycle #%d %s (%s)", l.ID, l.StrategyID, l.Timestamp)
		for _, d := range l.Decisions {
			fmt.Printf(" %s %s", d.Action, d.Ticker)
		}
		fmt.Println()
	}
}
