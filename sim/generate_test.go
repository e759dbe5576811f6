package sim

import (
	"strings"
	"testing"

	"github.com/rustyeddy/fxdesk/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStrategySpot(t *testing.T) {
	t.Parallel()

	spec := StrategySpec{ID: "carry", Name: "Carry Trade", Color: "#6366f1"}
	s := NewStrategy(spec, market.Spot, NewSource(7))

	assert.Equal(t, "carry", s.ID)
	assert.Equal(t, "Carry Trade", s.Name)
	assert.Equal(t, "#6366f1", s.Color)
	assert.Equal(t, Running, s.Status)
	assert.Equal(t, market.Spot, s.AssetClass())

	assert.GreaterOrEqual(t, s.TotalPnl, 10000.0)
	assert.Less(t, s.TotalPnl, 60000.0)
	assert.GreaterOrEqual(t, s.DailyPnl, -500.0)
	assert.Less(t, s.DailyPnl, 1500.0)
	assert.GreaterOrEqual(t, s.SharpeRatio, 1.2)
	assert.Less(t, s.SharpeRatio, 2.2)
	assert.GreaterOrEqual(t, s.WinRate, 50.0)
	assert.Less(t, s.WinRate, 65.0)
	assert.GreaterOrEqual(t, s.MaxDrawdown, 0.0)
	assert.Less(t, s.MaxDrawdown, 15.0)
	assert.Len(t, s.EquityCurve, 50)

	m, ok := s.Detail.(SpotMetrics)
	require.True(t, ok)
	assert.GreaterOrEqual(t, m.TotalPnlPips, 500.0)
	assert.Less(t, m.TotalPnlPips, 2500.0)
	assert.GreaterOrEqual(t, m.DailyPnlPips, -10.0)
	assert.Less(t, m.DailyPnlPips, 40.0)
}

func TestNewStrategyOption(t *testing.T) {
	t.Parallel()

	s := NewStrategy(StrategySpec{ID: "opt_vol", Name: "Volatility"}, market.Option, NewSource(7))

	m, ok := s.Detail.(OptionMetrics)
	require.True(t, ok)
	assert.Len(t, m.DeltaCurve, 50)
	assert.Len(t, m.GammaCurve, 50)
	assert.Len(t, m.VegaCurve, 50)
	for _, v := range curveValues(m.DeltaCurve) {
		assert.GreaterOrEqual(t, v, -50.0)
		assert.Less(t, v, 50.0)
	}
	for _, v := range curveValues(m.GammaCurve) {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestNewPosition(t *testing.T) {
	t.Parallel()

	src := NewSource(11)
	for i := 0; i < 200; i++ {
		spot := NewPosition(SpotProfile(), src)
		leg, ok := spot.Leg.(SpotLeg)
		require.True(t, ok)
		assert.Contains(t, market.Pairs, spot.Symbol)
		assert.Contains(t, []market.Side{market.Long, market.Short}, spot.Side)
		assert.GreaterOrEqual(t, spot.MarkPrice, 1.05)
		assert.Less(t, spot.MarkPrice, 1.06)
		assert.Equal(t, spot.MarkPrice, leg.EntryPrice)
		assert.Equal(t, 0.0, leg.UnrealizedPnlPips)
		assert.Equal(t, 0.0, spot.UnrealizedPnl)
		assert.GreaterOrEqual(t, spot.Quantity, 1)
		assert.LessOrEqual(t, spot.Quantity, 5)
		assert.Equal(t, 30, spot.Leverage)

		opt := NewPosition(OptionProfile(), src)
		oleg, ok := opt.Leg.(OptionLeg)
		require.True(t, ok)
		assert.Contains(t, market.Products, oleg.Product)
		assert.Equal(t, opt.MarkPrice, oleg.StrikePrice)
		assert.GreaterOrEqual(t, opt.Quantity, 1)
		assert.LessOrEqual(t, opt.Quantity, 10)
		assert.Equal(t, 1, opt.Leverage)
		assert.GreaterOrEqual(t, oleg.Delta, -25.0)
		assert.Less(t, oleg.Delta, 25.0)
		assert.GreaterOrEqual(t, oleg.Gamma, 0.0)
		assert.GreaterOrEqual(t, oleg.Vega, 0.0)
	}
}

func TestNewCycleLogSpot(t *testing.T) {
	t.Parallel()

	log := NewCycleLog("news_v1", 1000, market.Spot, constSource{v: 0.4}, fixedClock)

	assert.Equal(t, int64(1000), log.ID)
	assert.Equal(t, "news_v1", log.StrategyID)
	assert.Equal(t, CycleSuccess, log.Status)
	assert.Equal(t, "2024-01-02 09:30:00", log.Timestamp)
	assert.Equal(t, "Analyze price action for EURUSD. Check macro calendar.", log.InputPrompt)
	assert.Contains(t, log.Reasoning, "RSI diverging")
	require.Len(t, log.Decisions, 1)
	assert.Equal(t, Decision{Ticker: "EURUSD", Action: market.Hold, Reason: "Signal Threshold Met"}, log.Decisions[0])
}

func TestNewCycleLogOption(t *testing.T) {
	t.Parallel()

	log := NewCycleLog("opt_flow", 7, market.Option, constSource{v: 0.7, n: 1}, fixedClock)

	require.Len(t, log.Decisions, 1)
	assert.Equal(t, "USDJPY Put", log.Decisions[0].Ticker)
	assert.Equal(t, market.Sell, log.Decisions[0].Action)
	assert.True(t, strings.HasPrefix(log.InputPrompt, "Analyze implied volatility skew for USDJPY."))
	assert.Contains(t, log.InputPrompt, "Calculate Greeks for Put.")
	assert.Contains(t, log.Reasoning, "Gamma exposure")
}

func TestDrawActionDistribution(t *testing.T) {
	t.Parallel()

	src := NewSource(3)
	counts := map[market.Action]int{}
	const n = 4000
	for i := 0; i < n; i++ {
		counts[drawAction(src)]++
	}

	assert.InDelta(t, 0.50, float64(counts[market.Hold])/n, 0.04)
	assert.InDelta(t, 0.25, float64(counts[market.Buy])/n, 0.04)
	assert.InDelta(t, 0.25, float64(counts[market.Sell])/n, 0.04)
}
