package sim

import (
	"math"

	"github.com/rustyeddy/fxdesk/market"
)

// step derives the next state of one asset class from prev. prev is not
// modified and the result shares no writable storage with it.
func step(prev MarketState, p Profile, src Source, now Clock) MarketState {
	next := MarketState{AssetClass: prev.AssetClass}

	next.Positions = make([]Position, 0, p.MaxPositions)
	for _, pos := range prev.Positions {
		next.Positions = append(next.Positions, revalue(pos, p, src))
	}

	next.Logs = prev.Logs
	if src.Float64() < p.OpenProbability {
		for len(next.Positions) >= p.MaxPositions {
			next.Positions = next.Positions[1:]
		}
		next.Positions = append(next.Positions, NewPosition(p, src))

		if len(prev.Strategies) > 0 {
			owner := pick(src, prev.Strategies)
			log := NewCycleLog(owner.ID, nextLogID(prev.Logs), p.Class, src, now)
			next.Logs = prependLog(prev.Logs, log, p.MaxLogs)
		}
	}

	next.Strategies = make([]Strategy, len(prev.Strategies))
	for i, s := range prev.Strategies {
		next.Strategies[i] = advanceStrategy(s, p, src, now)
	}

	return next
}

func revalue(pos Position, p Profile, src Source) Position {
	pos.MarkPrice += centered(src) * p.PriceVolatility
	if pos.Leg != nil {
		pos.Leg, pos.UnrealizedPnl = pos.Leg.revalue(pos, p, src)
	}
	return pos
}

func (l SpotLeg) revalue(pos Position, _ Profile, _ Source) (PositionLeg, float64) {
	l.UnrealizedPnlPips = market.Pips(pos.Side, l.EntryPrice, pos.MarkPrice)
	return l, market.PipValue(l.UnrealizedPnlPips, pos.Quantity)
}

func (l OptionLeg) revalue(pos Position, p Profile, src Source) (PositionLeg, float64) {
	pnl := pos.UnrealizedPnl + centered(src)*p.PositionPnlWalk
	l.Delta = clamp(l.Delta+centered(src)*p.DeltaWalk, -p.DeltaLimit, p.DeltaLimit)
	l.Gamma = math.Max(0, l.Gamma+centered(src)*p.GammaWalk)
	l.Vega = math.Max(0, l.Vega+centered(src)*p.VegaWalk)
	return l, pnl
}

func advanceStrategy(s Strategy, p Profile, src Source, now Clock) Strategy {
	move := biased(src, p.PnlBias) * p.PnlScale
	s.TotalPnl += move
	s.DailyPnl += move
	s.EquityCurve = s.EquityCurve.advance(move, src.Float64() < p.AppendProbability, now(), p.MaxCurvePoints)
	if s.Detail != nil {
		s.Detail = s.Detail.advance(p, src, now)
	}
	return s
}

func (m SpotMetrics) advance(p Profile, src Source, _ Clock) StrategyDetail {
	move := biased(src, p.PipBias) * p.PipScale
	m.TotalPnlPips += move
	m.DailyPnlPips += move
	return m
}

func (m OptionMetrics) advance(p Profile, src Source, now Clock) StrategyDetail {
	m.DeltaCurve = advanceGreek(m.DeltaCurve, p.DeltaCurveScale, p, src, now)
	m.GammaCurve = advanceGreek(m.GammaCurve, p.GammaCurveScale, p, src, now)
	m.VegaCurve = advanceGreek(m.VegaCurve, p.VegaCurveScale, p, src, now)
	return m
}

func advanceGreek(c Curve, scale float64, p Profile, src Source, now Clock) Curve {
	move := centered(src) * scale
	return c.advance(move, src.Float64() < p.AppendProbability, now(), p.MaxCurvePoints)
}

// nextLogID is one past the newest id; logs are kept newest first.
func nextLogID(logs []CycleLog) int64 {
	var max int64
	for _, l := range logs {
		if l.ID > max {
			max = l.ID
		}
	}
	return max + 1
}

func prependLog(logs []CycleLog, log CycleLog, max int) []CycleLog {
	n := len(logs) + 1
	if n > max {
		n = max
	}
	out := make([]CycleLog, 0, n)
	out = append(out, log)
	return append(out, logs[:n-1]...)
}
