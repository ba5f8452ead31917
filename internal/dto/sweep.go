package dto

import "time"

// SweepPoint is the scored outcome of one grid value. WinRate, TotalReturn and
// MaxDrawdown are percentages as reported by BacktestAnalysis.
type SweepPoint struct {
	Index       int            `json:"index"`
	Value       float64        `json:"value"`
	Strategy    StrategyConfig `json:"strategy"`
	HasTrades   bool           `json:"has_trades"`
	TotalTrades int            `json:"total_trades"`
	TotalProfit float64        `json:"total_profit"`
	SharpeRatio float64        `json:"sharpe_ratio"`
	WinRate     float64        `json:"win_rate"`
	TotalReturn float64        `json:"total_return"`
	MaxDrawdown float64        `json:"max_drawdown"`
	Score       float64        `json:"score"`
}

type SweepResult struct {
	Dimension    SweepDimension `json:"dimension"`
	Points       []SweepPoint   `json:"points"`
	BestIndex    int            `json:"best_index"`
	BestValue    float64        `json:"best_value"`
	Best         StrategyConfig `json:"best"`
	Inconclusive bool           `json:"inconclusive"`
	Reason       string         `json:"reason,omitempty"`
}

type RegimeResult struct {
	Regime   VolatilityRegime `json:"regime"`
	Strategy StrategyConfig   `json:"strategy"`
	Result   BacktestSummary  `json:"result"`
}

type RegimeAnalysis struct {
	Window            int              `json:"window"`
	LowThreshold      float64          `json:"low_threshold"`
	HighThreshold     float64          `json:"high_threshold"`
	CurrentVolatility float64          `json:"current_volatility"`
	CurrentRegime     VolatilityRegime `json:"current_regime"`
	Regimes           []RegimeResult   `json:"regimes"`
}

type KeyImprovements struct {
	ProfitIncrease    float64 `json:"profit_increase"`
	SharpeImprovement float64 `json:"sharpe_improvement"`
	TradeEfficiency   float64 `json:"trade_efficiency"`
}

type OptimizationReport struct {
	RunID               string          `json:"run_id"`
	GeneratedAt         time.Time       `json:"generated_at"`
	Opportunity         string          `json:"opportunity"`
	OptimalThreshold    float64         `json:"optimal_profit_threshold"`
	OptimalPositionSize float64         `json:"optimal_position_size"`
	ThresholdSweep      SweepResult     `json:"threshold_analysis"`
	PositionSweep       SweepResult     `json:"position_size_analysis"`
	Adaptive            RegimeAnalysis  `json:"adaptive_strategy"`
	Current             BacktestSummary `json:"current_strategy"`
	Optimized           BacktestSummary `json:"optimized_strategy"`
	KeyImprovements     KeyImprovements `json:"key_improvements"`
}
