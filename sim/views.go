package sim

import (
	"sort"

	"github.com/rustyeddy/fxdesk/market"
)

// Standing is one row of the competition leaderboard.
type Standing struct {
	Rank       int     `json:"rank"`
	StrategyID string  `json:"strategyId"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Score      float64 `json:"score"`
	DailyPnl   float64 `json:"dailyPnlUsd"`
}

// Score ranks a strategy: total pips on the spot desk, total currency P&L on
// the option desk.
func Score(s Strategy) float64 {
	if m, ok := s.Detail.(SpotMetrics); ok {
		return m.TotalPnlPips
	}
	return s.TotalPnl
}

// Leaderboard ranks strategies by Score, best first. n <= 0 returns all.
func Leaderboard(st MarketState, n int) []Standing {
	ranked := make([]Strategy, len(st.Strategies))
	copy(ranked, st.Strategies)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Score(ranked[i]) > Score(ranked[j])
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}

	out := make([]Standing, len(ranked))
	for i, s := range ranked {
		out[i] = Standing{
			Rank:       i + 1,
			StrategyID: s.ID,
			Name:       s.Name,
			Color:      s.Color,
			Score:      Score(s),
			DailyPnl:   s.DailyPnl,
		}
	}
	return out
}

// FindStrategy returns the strategy with id.
func FindStrategy(st MarketState, id string) (Strategy, bool) {
	for _, s := range st.Strategies {
		if s.ID == id {
			return s, true
		}
	}
	return Strategy{}, false
}

// SelectStrategy is FindStrategy with the dashboard's fallback: an unknown
// id selects the first strategy. ok is false only when there are none.
func SelectStrategy(st MarketState, id string) (Strategy, bool) {
	if s, ok := FindStrategy(st, id); ok {
		return s, true
	}
	if len(st.Strategies) == 0 {
		return Strategy{}, false
	}
	return st.Strategies[0], true
}

// FilterLogs keeps the logs owned by strategyID plus desk-wide logs. An
// empty strategyID keeps everything. Order is preserved.
func FilterLogs(logs []CycleLog, strategyID string) []CycleLog {
	out := make([]CycleLog, 0, len(logs))
	for _, l := range logs {
		if strategyID == "" || l.StrategyID == strategyID || l.StrategyID == GlobalStrategyID {
			out = append(out, l)
		}
	}
	return out
}

// Summary is the header strip of the dashboard.
type Summary struct {
	AssetClass       market.AssetClass `json:"assetClass"`
	TopPerformer     string            `json:"topPerformer"`
	ActiveStrategies int               `json:"activeStrategies"`
	OpenPositions    int               `json:"openPositions"`
	TotalPnl         float64           `json:"totalPnlUsd"`
	DailyPnl         float64           `json:"dailyPnlUsd"`
	UnrealizedPnl    float64           `json:"unrealizedPnlUsd"`
	LatestLogID      int64             `json:"latestLogId"`
}

func Summarize(st MarketState) Summary {
	sum := Summary{
		AssetClass:    st.AssetClass,
		OpenPositions: len(st.Positions),
	}
	if top := Leaderboard(st, 1); len(top) == 1 {
		sum.TopPerformer = top[0].Name
	}
	for _, s := range st.Strategies {
		if s.Status == Running {
			sum.ActiveStrategies++
		}
		sum.TotalPnl += s.TotalPnl
		sum.DailyPnl += s.DailyPnl
	}
	for _, p := range st.Positions {
		sum.UnrealizedPnl += p.UnrealizedPnl
	}
	if len(st.Logs) > 0 {
		sum.LatestLogID = st.Logs[0].ID
	}
	return sum
}
