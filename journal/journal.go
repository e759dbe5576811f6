// Package journal records decision cycles and strategy equity samples.
// It is an audit trail only; nothing is ever read back into the desk.
package journal

import (
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/fxdesk/market"
	"github.com/rustyeddy/fxdesk/pkg/id"
	"github.com/rustyeddy/fxdesk/sim"
)

var ErrNotFound = errors.New("journal entry not found")

// CycleRecord is one decision cycle as the journal stores it.
type CycleRecord struct {
	EntryID    string // ULID, unique across runs
	AssetClass market.AssetClass
	CycleID    int64 // the desk log id, only unique within a run
	Time       time.Time
	StrategyID string
	Status     string
	Prompt     string
	Reasoning  string
	Decisions  []sim.Decision
}

// NewCycleRecord converts a desk log into a journal record with a fresh
// entry id. An unparseable timestamp falls back to the entry id's time.
func NewCycleRecord(class market.AssetClass, log sim.CycleLog) CycleRecord {
	entryID := id.New()
	t, err := time.ParseInLocation(sim.LogTimeLayout, log.Timestamp, time.UTC)
	if err != nil {
		t, _ = id.Time(entryID)
	}
	return CycleRecord{
		EntryID:    entryID,
		AssetClass: class,
		CycleID:    log.ID,
		Time:       t.UTC(),
		StrategyID: log.StrategyID,
		Status:     log.Status,
		Prompt:     log.InputPrompt,
		Reasoning:  log.Reasoning,
		Decisions:  log.Decisions,
	}
}

// EquitySample is one strategy's P&L at one tick.
type EquitySample struct {
	Time       time.Time
	Seq        uint64
	AssetClass market.AssetClass
	StrategyID string
	TotalPnl   float64
	DailyPnl   float64
	Equity     float64 // last point of the equity curve
}

// NewEquitySample snapshots s at tick seq.
func NewEquitySample(t time.Time, seq uint64, s sim.Strategy) EquitySample {
	last, _ := s.EquityCurve.Last()
	return EquitySample{
		Time:       t.UTC(),
		Seq:        seq,
		AssetClass: s.AssetClass(),
		StrategyID: s.ID,
		TotalPnl:   s.TotalPnl,
		DailyPnl:   s.DailyPnl,
		Equity:     last.Value,
	}
}

type Journal interface {
	RecordCycle(CycleRecord) error
	RecordEquity(EquitySample) error
	Close() error
}

// Discard drops everything. It backs the "none" journal type.
type Discard struct{}

func (Discard) RecordCycle(CycleRecord) error   { return nil }
func (Discard) RecordEquity(EquitySample) error { return nil }
func (Discard) Close() error                    { return nil }

// Open builds the journal named by typ: "none", "csv" or "sqlite".
func Open(typ, cyclesPath, equityPath, dbPath string) (Journal, error) {
	switch typ {
	case "", "none":
		return Discard{}, nil
	case "csv":
		return NewCSV(cyclesPath, equityPath)
	case "sqlite":
		return NewSQLite(dbPath)
	}
	return nil, fmt.Errorf("unknown journal type %q", typ)
}
