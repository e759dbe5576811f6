package sim

import (
	"encoding/json"

	"github.com/rustyeddy/fxdesk/market"
)

type Status string

const (
	Running Status = "RUNNING"
	Stopped Status = "STOPPED"
	Paused  Status = "PAUSED"
)

// Strategy is one simulated trading strategy. Fields common to both asset
// classes live here; the class-specific part lives in Detail.
type Strategy struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	TotalPnl    float64 `json:"totalPnlUsd"`
	DailyPnl    float64 `json:"dailyPnlUsd"`
	SharpeRatio float64 `json:"sharpeRatio"`
	WinRate     float64 `json:"winRate"`
	MaxDrawdown float64 `json:"maxDrawdown"` // percent
	Status      Status  `json:"status"`
	EquityCurve Curve   `json:"equityCurve"`

	Detail StrategyDetail `json:"detail"`
}

// StrategyDetail is either SpotMetrics or OptionMetrics.
type StrategyDetail interface {
	AssetClass() market.AssetClass
	advance(p Profile, src Source, clock Clock) StrategyDetail
}

// SpotMetrics carries the pip-denominated P&L of a spot strategy.
type SpotMetrics struct {
	TotalPnlPips float64 `json:"totalPnlPips"`
	DailyPnlPips float64 `json:"dailyPnlPips"`
}

func (SpotMetrics) AssetClass() market.AssetClass { return market.Spot }

// OptionMetrics carries the Greek exposure history of an option strategy.
type OptionMetrics struct {
	DeltaCurve Curve `json:"deltaCurve"`
	GammaCurve Curve `json:"gammaCurve"`
	VegaCurve  Curve `json:"vegaCurve"`
}

func (OptionMetrics) AssetClass() market.AssetClass { return market.Option }

func (s Strategy) AssetClass() market.AssetClass {
	if s.Detail == nil {
		return ""
	}
	return s.Detail.AssetClass()
}

func (s Strategy) MarshalJSON() ([]byte, error) {
	type plain Strategy
	return json.Marshal(struct {
		AssetClass market.AssetClass `json:"assetClass"`
		plain
	}{s.AssetClass(), plain(s)})
}

// Position is one open exposure.
type Position struct {
	Symbol        string      `json:"symbol"`
	Side          market.Side `json:"side"`
	MarkPrice     float64     `json:"markPrice"`
	Quantity      int         `json:"quantity"` // lots
	Leverage      int         `json:"leverage"`
	UnrealizedPnl float64     `json:"unrealizedPnlUsd"`

	Leg PositionLeg `json:"leg"`
}

// PositionLeg is either SpotLeg or OptionLeg.
type PositionLeg interface {
	AssetClass() market.AssetClass
	revalue(pos Position, p Profile, src Source) (PositionLeg, float64)
}

type SpotLeg struct {
	EntryPrice        float64 `json:"entryPrice"`
	UnrealizedPnlPips float64 `json:"unrealizedPnlPips"`
}

func (SpotLeg) AssetClass() market.AssetClass { return market.Spot }

type OptionLeg struct {
	Product     market.ProductType `json:"productType"`
	StrikePrice float64            `json:"strikePrice"`
	Delta       float64            `json:"delta"`
	Gamma       float64            `json:"gamma"`
	Vega        float64            `json:"vega"`
}

func (OptionLeg) AssetClass() market.AssetClass { return market.Option }

func (p Position) AssetClass() market.AssetClass {
	if p.Leg == nil {
		return ""
	}
	return p.Leg.AssetClass()
}

func (p Position) MarshalJSON() ([]byte, error) {
	type plain Position
	return json.Marshal(struct {
		AssetClass market.AssetClass `json:"assetClass"`
		plain
	}{p.AssetClass(), plain(p)})
}

const (
	CycleSuccess    = "Success"
	CycleFailed     = "Failed"
	CycleProcessing = "Processing"
)

// GlobalStrategyID tags logs that belong to the whole desk rather than one
// strategy. Strategy log filters always include them.
const GlobalStrategyID = "Global"

// CycleLog records one decision cycle. It is never modified after creation.
type CycleLog struct {
	ID          int64      `json:"id"`
	Timestamp   string     `json:"timestamp"`
	StrategyID  string     `json:"strategyId"`
	Status      string     `json:"status"`
	InputPrompt string     `json:"inputPrompt"`
	Reasoning   string     `json:"chainOfThought"`
	Decisions   []Decision `json:"decisions"`
}

type Decision struct {
	Ticker string        `json:"ticker"`
	Action market.Action `json:"action"`
	Reason string        `json:"reason"`
}

// MarketState is the full state of one asset class at one tick.
type MarketState struct {
	AssetClass market.AssetClass `json:"assetClass"`
	Strategies []Strategy        `json:"strategies"`
	Positions  []Position        `json:"positions"`
	Logs       []CycleLog        `json:"logs"` // newest first
}

// TickResult is what one call to Desk.Tick produces.
type TickResult struct {
	Seq         uint64      `json:"seq"`
	SpotState   MarketState `json:"spotState"`
	OptionState MarketState `json:"optionState"`
}

// State returns the half of the result for class.
func (r TickResult) State(class market.AssetClass) (MarketState, bool) {
	switch class {
	case market.Spot:
		return r.SpotState, true
	case market.Option:
		return r.OptionState, true
	}
	return MarketState{}, false
}
