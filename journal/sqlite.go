package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordCycle(c CycleRecord) error {
	decisions, err := json.Marshal(c.Decisions)
	if err != nil {
		return fmt.Errorf("marshal decisions: %w", err)
	}
	_, err = j.db.Exec(`
		INSERT INTO cycles
		(entry_id, asset_class, cycle_id, time, strategy_id, status, prompt, reasoning, decisions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.EntryID, string(c.AssetClass), c.CycleID, c.Time.UTC(),
		c.StrategyID, c.Status, c.Prompt, c.Reasoning, string(decisions),
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySample) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, seq, asset_class, strategy_id, total_pnl, daily_pnl, equity)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Time.UTC(), int64(e.Seq), string(e.AssetClass), e.StrategyID,
		e.TotalPnl, e.DailyPnl, e.Equity,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
