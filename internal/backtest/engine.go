// Package backtest replays market snapshots under a strategy configuration.
package backtest

import (
	"math"
	"time"

	"golang-p2p-risk/config"
	"golang-p2p-risk/internal/analytics"
	"golang-p2p-risk/internal/calculator"
	"golang-p2p-risk/internal/dto"
	"golang-p2p-risk/internal/strategy"
	"golang-p2p-risk/pkg/apperror"
)

const opRun = "backtest.Run"

// Engine holds the run-independent inputs of a backtest. It keeps no state
// between runs, so one Engine can serve concurrent sweeps.
type Engine struct {
	fees           config.Fees
	initialCapital float64
	tradingDays    int
}

func NewEngine(fees config.Fees, initialCapital float64, tradingDays int) *Engine {
	return &Engine{
		fees:           fees,
		initialCapital: initialCapital,
		tradingDays:    tradingDays,
	}
}

// Run walks the snapshots once in order. A snapshot becomes a trade when its
// net profit reaches the configured threshold; the capital, and with it the
// position size cap, grows by every accepted profit.
//
// An empty series or a run where nothing qualifies is not an error: the
// result is flagged NoTrades with a reason. Out-of-order timestamps and
// snapshots without the opportunity's prices are rejected.
func (e *Engine) Run(snapshots []dto.MarketSnapshot, cfg dto.StrategyConfig, opp strategy.Opportunity) (*dto.BacktestResult, error) {
	if e.initialCapital <= 0 {
		return nil, apperror.InvalidInput(opRun, "initial capital must be positive, got %v", e.initialCapital)
	}
	if cfg.PositionSizePct <= 0 || cfg.MinTradeAmount <= 0 || cfg.MaxTradeAmount < cfg.MinTradeAmount {
		return nil, apperror.InvalidInput(opRun, "invalid strategy %s", cfg.Key())
	}

	result := &dto.BacktestResult{
		Opportunity:    string(opp.GetType()),
		Strategy:       cfg,
		Snapshots:      len(snapshots),
		InitialCapital: e.initialCapital,
		FinalCapital:   e.initialCapital,
		Trades:         []dto.Trade{},
		EquityCurve:    []float64{e.initialCapital},
	}
	if len(snapshots) == 0 {
		result.NoTrades = true
		result.Reason = dto.ReasonEmptySeries
		return result, nil
	}

	timestamps := make([]time.Time, len(snapshots))
	for i, s := range snapshots {
		timestamps[i] = s.Timestamp
	}
	if err := analytics.CheckChronological(opRun, timestamps); err != nil {
		return nil, err
	}
	result.StartDate = snapshots[0].Timestamp
	result.EndDate = snapshots[len(snapshots)-1].Timestamp

	fees := e.fees.Venue(opp.FeeVenue())
	capital := e.initialCapital
	positionSizeCap := capital * cfg.PositionSizePct

	for _, snapshot := range snapshots {
		quote, err := opp.Quote(snapshot)
		if err != nil {
			return nil, err
		}

		tradeValue := math.Min(math.Max(positionSizeCap, cfg.MinTradeAmount), cfg.MaxTradeAmount)
		quantity := tradeValue / quote.BuyPrice

		economics, err := calculator.ComputeTradeEconomics(quote.BuyPrice, quote.SellPrice, quantity, fees, e.fees.TaxRate)
		if err != nil {
			return nil, err
		}
		if !economics.IsProfitable || economics.NetProfit < cfg.MinProfitThreshold {
			continue
		}

		result.Trades = append(result.Trades, dto.Trade{
			Timestamp:  snapshot.Timestamp,
			BuyPrice:   quote.BuyPrice,
			SellPrice:  quote.SellPrice,
			Quantity:   quantity,
			Investment: tradeValue,
			NetProfit:  economics.NetProfit,
			ROI:        economics.ROI,
			Hour:       snapshot.Hour(),
		})

		capital += economics.NetProfit
		positionSizeCap = capital * cfg.PositionSizePct
		result.EquityCurve = append(result.EquityCurve, capital)
	}

	result.FinalCapital = capital
	if len(result.Trades) == 0 {
		result.NoTrades = true
		result.Reason = dto.ReasonNoQualifying
		return result, nil
	}

	result.Analysis = Analyze(result, e.tradingDays)
	return result, nil
}
