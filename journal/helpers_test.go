package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/fxdesk/market"
	"github.com/rustyeddy/fxdesk/sim"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func testCycle(entryID, strategyID string, cycleID int64, at time.Time) CycleRecord {
	return CycleRecord{
		EntryID:    entryID,
		AssetClass: market.Spot,
		CycleID:    cycleID,
		Time:       at,
		StrategyID: strategyID,
		Status:     sim.CycleSuccess,
		Prompt:     "Analyze price action for EURUSD. Check macro calendar.",
		Reasoning:  "RSI diverging on H1 timeframe. \nSupport level tested twice.",
		Decisions: []sim.Decision{
			{Ticker: "EURUSD", Action: market.Buy, Reason: "Signal Threshold Met"},
		},
	}
}
