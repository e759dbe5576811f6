package journal

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

var (
	cycleHeader  = []string{"entry_id", "asset_class", "cycle_id", "time", "strategy_id", "status", "prompt", "reasoning", "decisions"}
	equityHeader = []string{"time", "seq", "asset_class", "strategy_id", "total_pnl", "daily_pnl", "equity"}
)

type CSV struct {
	cycles *csv.Writer
	equity *csv.Writer
	cf, ef *os.File
}

// NewCSV truncates both files and writes their headers.
func NewCSV(cyclesPath, equityPath string) (*CSV, error) {
	cf, err := os.Create(cyclesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		_ = cf.Close()
		return nil, err
	}

	j := &CSV{csv.NewWriter(cf), csv.NewWriter(ef), cf, ef}
	if err := j.write(j.cycles, cycleHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	if err := j.write(j.equity, equityHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSV) RecordCycle(c CycleRecord) error {
	decisions, err := json.Marshal(c.Decisions)
	if err != nil {
		return fmt.Errorf("marshal decisions: %w", err)
	}
	return j.write(j.cycles, []string{
		c.EntryID,
		string(c.AssetClass),
		strconv.FormatInt(c.CycleID, 10),
		c.Time.UTC().Format(time.RFC3339),
		c.StrategyID,
		c.Status,
		c.Prompt,
		c.Reasoning,
		string(decisions),
	})
}

func (j *CSV) RecordEquity(e EquitySample) error {
	return j.write(j.equity, []string{
		e.Time.UTC().Format(time.RFC3339),
		strconv.FormatUint(e.Seq, 10),
		string(e.AssetClass),
		e.StrategyID,
		f(e.TotalPnl),
		f(e.DailyPnl),
		f(e.Equity),
	})
}

// write appends row and flushes it to disk.
func (j *CSV) write(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSV) Close() error {
	j.cycles.Flush()
	if err := j.cycles.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.cf.Close(); err != nil {
		return err
	}
	if err := j.ef.Close(); err != nil {
		return err
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
