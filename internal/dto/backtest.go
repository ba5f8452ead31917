package dto

import (
	"time"

	"golang-p2p-risk/pkg/apperror"
)

type BacktestRequest struct {
	Snapshots   []MarketSnapshot `json:"-"`
	Strategy    StrategyConfig   `json:"strategy"`
	Opportunity string           `json:"opportunity" validate:"required"`
}

// BacktestResult is the output of one engine pass.
type BacktestResult struct {
	RunID          string            `json:"run_id,omitempty"`
	Opportunity    string            `json:"opportunity"`
	Strategy       StrategyConfig    `json:"strategy"`
	StartDate      time.Time         `json:"start_date"`
	EndDate        time.Time         `json:"end_date"`
	Snapshots      int               `json:"snapshots"`
	InitialCapital float64           `json:"initial_capital"`
	FinalCapital   float64           `json:"final_capital"`
	Trades         []Trade           `json:"trades"`
	EquityCurve    []float64         `json:"equity_curve"`
	NoTrades       bool              `json:"no_trades"`
	Reason         string            `json:"reason,omitempty"`
	Analysis       *BacktestAnalysis `json:"analysis,omitempty"`
}

// Err returns an *apperror.EmptyResultError when the run produced no trades.
func (r *BacktestResult) Err() error {
	if r == nil || !r.NoTrades {
		return nil
	}
	return &apperror.EmptyResultError{Op: "backtest", Reason: r.Reason}
}

// Clone returns a deep copy sharing no slices or pointers with r.
func (r *BacktestResult) Clone() *BacktestResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Trades = append([]Trade(nil), r.Trades...)
	out.EquityCurve = append([]float64(nil), r.EquityCurve...)
	if r.Analysis != nil {
		analysis := *r.Analysis
		analysis.HourlyPerformance = append([]HourlyPerformance(nil), r.Analysis.HourlyPerformance...)
		out.Analysis = &analysis
	}
	return &out
}

// Records exposes the trades in the shape risk analytics consume.
func (r *BacktestResult) Records() []TradeRecord {
	records := make([]TradeRecord, 0, len(r.Trades))
	for _, t := range r.Trades {
		records = append(records, t.Record())
	}
	return records
}

type HourlyPerformance struct {
	Hour       int     `json:"hour"`
	MeanProfit float64 `json:"mean_profit"`
	Count      int     `json:"count"`
}

// BacktestAnalysis summarises a run. WinRate, MaxDrawdown and TotalReturn are
// percentages.
type BacktestAnalysis struct {
	TotalTrades       int                 `json:"total_trades"`
	WinningTrades     int                 `json:"winning_trades"`
	LosingTrades      int                 `json:"losing_trades"`
	TotalProfit       float64             `json:"total_profit"`
	AvgProfitPerTrade float64             `json:"avg_profit_per_trade"`
	WinRate           float64             `json:"win_rate"`
	SharpeRatio       float64             `json:"sharpe_ratio"`
	MaxDrawdown       float64             `json:"max_drawdown"`
	FinalCapital      float64             `json:"final_capital"`
	TotalReturn       float64             `json:"total_return"`
	ProfitFactor      Ratio               `json:"profit_factor"`
	HourlyPerformance []HourlyPerformance `json:"hourly_performance"`
}

// BacktestSummary is a BacktestResult without its trade list.
type BacktestSummary struct {
	Strategy StrategyConfig    `json:"strategy"`
	NoTrades bool              `json:"no_trades"`
	Reason   string            `json:"reason,omitempty"`
	Analysis *BacktestAnalysis `json:"analysis,omitempty"`
}

func (r *BacktestResult) Summary() BacktestSummary {
	return BacktestSummary{
		Strategy: r.Strategy,
		NoTrades: r.NoTrades,
		Reason:   r.Reason,
		Analysis: r.Analysis,
	}
}
