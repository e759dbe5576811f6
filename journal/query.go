package journal

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/fxdesk/market"
)

const cycleColumns = `entry_id, asset_class, cycle_id, time, strategy_id, status, prompt, reasoning, decisions`

type scanner interface {
	Scan(dest ...any) error
}

func scanCycle(row scanner) (CycleRecord, error) {
	var (
		rec       CycleRecord
		class     string
		decisions string
	)
	err := row.Scan(
		&rec.EntryID,
		&class,
		&rec.CycleID,
		&rec.Time,
		&rec.StrategyID,
		&rec.Status,
		&rec.Prompt,
		&rec.Reasoning,
		&decisions,
	)
	if err != nil {
		return CycleRecord{}, err
	}
	rec.AssetClass = market.AssetClass(class)
	if err := json.Unmarshal([]byte(decisions), &rec.Decisions); err != nil {
		return CycleRecord{}, fmt.Errorf("decode decisions of %s: %w", rec.EntryID, err)
	}
	return rec, nil
}

// GetCycle returns a single cycle record by entry ID.
func (j *SQLite) GetCycle(entryID string) (CycleRecord, error) {
	row := j.db.QueryRow(`SELECT `+cycleColumns+` FROM cycles WHERE entry_id = ?`, entryID)

	rec, err := scanCycle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CycleRecord{}, fmt.Errorf("cycle %q: %w", entryID, ErrNotFound)
		}
		return CycleRecord{}, err
	}
	return rec, nil
}

// ListCyclesBetween returns cycles whose time is within [start, end),
// oldest first.
func (j *SQLite) ListCyclesBetween(start, end time.Time) ([]CycleRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+cycleColumns+`
		FROM cycles
		WHERE time >= ? AND time < ?
		ORDER BY time ASC, entry_id ASC`, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CycleRecord
	for rows.Next() {
		rec, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquityBetween returns equity samples within [start, end). An empty
// strategyID matches every strategy.
func (j *SQLite) ListEquityBetween(start, end time.Time, strategyID string) ([]EquitySample, error) {
	rows, err := j.db.Query(`
		SELECT time, seq, asset_class, strategy_id, total_pnl, daily_pnl, equity
		FROM equity
		WHERE time >= ? AND time < ? AND (? = '' OR strategy_id = ?)
		ORDER BY time ASC, seq ASC`, start.UTC(), end.UTC(), strategyID, strategyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySample
	for rows.Next() {
		var (
			rec   EquitySample
			seq   int64
			class string
		)
		if err := rows.Scan(
			&rec.Time,
			&seq,
			&class,
			&rec.StrategyID,
			&rec.TotalPnl,
			&rec.DailyPnl,
			&rec.Equity,
		); err != nil {
			return nil, err
		}
		rec.Seq = uint64(seq)
		rec.AssetClass = market.AssetClass(class)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
