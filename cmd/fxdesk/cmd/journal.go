package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/fxdesk/journal"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query decision-cycle journal data",
	Long: `Query and display decision cycles recorded in the SQLite journal.

Subcommands:
  cycle  - Get details of a specific cycle by entry ID
  today  - List cycles recorded today
  day    - List cycles recorded on a specific day

Examples:
  fxdesk journal cycle 01HS8ABCDEFGHJKMNPQRSTVWXY
  fxdesk journal today
  fxdesk journal day 2024-01-15 --strategy carry`,
}

var journalCycleCmd = &cobra.Command{
	Use:   "cycle <entry-id>",
	Short: "Get details of a specific cycle",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalCycle,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List cycles recorded today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List cycles recorded on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var (
	journalDBPath   string
	journalStrategy string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalCycleCmd)
	journalCmd.AddCommand(journalTodayCmd)
	journalCmd.AddCommand(journalDayCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./fxdesk.sqlite", "path to SQLite journal DB")
	journalCmd.PersistentFlags().StringVarP(&journalStrategy, "strategy", "s", "", "only cycles of this strategy")
}

func runJournalCycle(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	rec, err := j.GetCycle(args[0])
	if err != nil {
		return fmt.Errorf("get cycle: %w", err)
	}

	fmt.Println(journal.FormatCycleOrg(rec))
	return nil
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	return listJournalDay(time.Now().In(time.Local).Format("2006-01-02"))
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	return listJournalDay(args[0])
}

func listJournalDay(day string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	start, end, err := dayBounds(time.Local, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	recs, err := j.ListCyclesBetween(start, end)
	if err != nil {
		return fmt.Errorf("query cycles: %w", err)
	}

	fmt.Println(journal.FormatCyclesOrg(filterCycles(recs, journalStrategy)))
	return nil
}

func filterCycles(recs []journal.CycleRecord, strategyID string) []journal.CycleRecord {
	if strategyID == "" {
		return recs
	}
	out := recs[:0:0]
	for _, r := range recs {
		if r.StrategyID == strategyID {
			out = append(out, r)
		}
	}
	return out
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
