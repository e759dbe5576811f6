package sim

import (
	"fmt"
	"math"

	"github.com/rustyeddy/fxdesk/market"
)

// StrategySpec is the static identity of a strategy.
type StrategySpec struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// DefaultSpotStrategies is the spot desk line-up.
func DefaultSpotStrategies() []StrategySpec {
	return []StrategySpec{
		{ID: "news_v1", Name: "News_v1", Color: "#10b981"},
		{ID: "news_v2", Name: "News_v2", Color: "#3b82f6"},
		{ID: "news_v3", Name: "News_v3", Color: "#8b5cf6"},
		{ID: "news_v4", Name: "News_v4", Color: "#ec4899"},
		{ID: "sched_news", Name: "Scheduled News", Color: "#f59e0b"},
		{ID: "carry", Name: "Carry Trade", Color: "#6366f1"},
		{ID: "tech", Name: "Technical Analysis", Color: "#14b8a6"},
	}
}

// DefaultOptionStrategies is the option desk line-up.
func DefaultOptionStrategies() []StrategySpec {
	return []StrategySpec{
		{ID: "opt_news_v1", Name: "News_v1", Color: "#10b981"},
		{ID: "opt_news_v2", Name: "News_v2", Color: "#3b82f6"},
		{ID: "opt_sched", Name: "Scheduled News", Color: "#f59e0b"},
		{ID: "opt_carry", Name: "Carry Trade", Color: "#6366f1"},
		{ID: "opt_flow", Name: "Flow", Color: "#ec4899"},
		{ID: "opt_vol", Name: "Volatility", Color: "#8b5cf6"},
	}
}

// DefaultStrategies returns the line-up for class.
func DefaultStrategies(class market.AssetClass) []StrategySpec {
	if class == market.Option {
		return DefaultOptionStrategies()
	}
	return DefaultSpotStrategies()
}

const seedCurvePoints = 50

// NewStrategy builds a strategy with randomized starting metrics and a
// 50-point history.
func NewStrategy(spec StrategySpec, class market.AssetClass, src Source) Strategy {
	s := Strategy{
		ID:          spec.ID,
		Name:        spec.Name,
		Color:       spec.Color,
		TotalPnl:    math.Floor(src.Float64()*50000) + 10000,
		DailyPnl:    math.Floor(src.Float64()*2000) - 500,
		SharpeRatio: 1.2 + src.Float64(),
		WinRate:     50 + src.Float64()*15,
		MaxDrawdown: src.Float64() * 15,
		Status:      Running,
		EquityCurve: seedCurve(seedCurvePoints, func(i int) float64 {
			return 1000 + float64(i)*10 + (src.Float64()*100 - 50)
		}),
	}

	switch class {
	case market.Option:
		s.Detail = OptionMetrics{
			DeltaCurve: seedCurve(seedCurvePoints, func(int) float64 { return centered(src) * 100 }),
			GammaCurve: seedCurve(seedCurvePoints, func(int) float64 { return src.Float64() * 50 }),
			VegaCurve:  seedCurve(seedCurvePoints, func(int) float64 { return src.Float64() * 200 }),
		}
	default:
		s.Detail = SpotMetrics{
			TotalPnlPips: math.Floor(src.Float64()*2000) + 500,
			DailyPnlPips: math.Floor(src.Float64()*50) - 10,
		}
	}
	return s
}

// NewPosition opens a fresh position on a random pair.
func NewPosition(p Profile, src Source) Position {
	pair := pick(src, market.Pairs)
	side := market.Short
	if src.Float64() < 0.5 {
		side = market.Long
	}
	price := p.PriceFloor + src.Float64()*p.PriceRange

	pos := Position{
		Symbol:    pair,
		Side:      side,
		MarkPrice: price,
		Quantity:  src.IntN(p.MaxQuantity) + 1,
		Leverage:  p.Leverage,
	}

	switch p.Class {
	case market.Option:
		pos.Leg = OptionLeg{
			Product:     pick(src, market.Products),
			StrikePrice: price,
			Delta:       centered(src) * 50,
			Gamma:       src.Float64() * 10,
			Vega:        src.Float64() * 50,
		}
	default:
		pos.Leg = SpotLeg{EntryPrice: price}
	}
	return pos
}

// LogTimeLayout is the UTC layout of CycleLog.Timestamp.
const LogTimeLayout = "2006-01-02 15:04:05"

const decisionReason = "Signal Threshold Met"

// NewCycleLog fabricates one decision cycle for strategyID.
func NewCycleLog(strategyID string, id int64, class market.AssetClass, src Source, now Clock) CycleLog {
	pair := pick(src, market.Pairs)

	log := CycleLog{
		ID:         id,
		Timestamp:  now().UTC().Format(LogTimeLayout),
		StrategyID: strategyID,
		Status:     CycleSuccess,
	}

	ticker := pair
	if class == market.Option {
		product := pick(src, market.Products)
		ticker = fmt.Sprintf("%s %s", pair, product)
		log.InputPrompt = fmt.Sprintf("Analyze implied volatility skew for %s. Calculate Greeks for %s.", pair, product)
		log.Reasoning = "IV percentile at 85%. \nGamma exposure risk high. \nDelta hedging required."
	} else {
		log.InputPrompt = fmt.Sprintf("Analyze price action for %s. Check macro calendar.", pair)
		log.Reasoning = "RSI diverging on H1 timeframe. \nSupport level tested twice."
	}

	log.Decisions = []Decision{{Ticker: ticker, Action: drawAction(src), Reason: decisionReason}}
	return log
}

// drawAction is HOLD half the time, otherwise BUY or SELL evenly.
func drawAction(src Source) market.Action {
	if src.Float64() < 0.5 {
		return market.Hold
	}
	if src.Float64() < 0.5 {
		return market.Buy
	}
	return market.Sell
}
