package backtest

import (
	"math"
	"sort"

	"golang-p2p-risk/internal/analytics"
	"golang-p2p-risk/internal/dto"
)

// Analyze computes the performance summary of a run with trades. It returns
// nil for a run without trades.
func Analyze(result *dto.BacktestResult, tradingDays int) *dto.BacktestAnalysis {
	if result == nil || len(result.Trades) == 0 {
		return nil
	}

	analysis := &dto.BacktestAnalysis{
		TotalTrades:  len(result.Trades),
		FinalCapital: result.FinalCapital,
	}

	profits := make([]float64, len(result.Trades))
	roi := make([]float64, len(result.Trades))
	var grossWin, grossLoss float64
	byHour := make(map[int][]float64)

	for i, trade := range result.Trades {
		profits[i] = trade.NetProfit
		roi[i] = trade.ROI / 100
		analysis.TotalProfit += trade.NetProfit

		if trade.NetProfit > 0 {
			analysis.WinningTrades++
			grossWin += trade.NetProfit
		} else {
			analysis.LosingTrades++
			grossLoss += trade.NetProfit
		}
		byHour[trade.Hour] = append(byHour[trade.Hour], trade.NetProfit)
	}

	analysis.AvgProfitPerTrade = analysis.TotalProfit / float64(analysis.TotalTrades)
	analysis.WinRate = float64(analysis.WinningTrades) / float64(analysis.TotalTrades) * 100

	mean, std := analytics.PopMeanStd(roi)
	if std > 0 {
		analysis.SharpeRatio = mean / std * math.Sqrt(float64(tradingDays))
	}

	analysis.MaxDrawdown = analytics.ProfitDrawdownPct(profits)
	if result.InitialCapital > 0 {
		analysis.TotalReturn = (result.FinalCapital - result.InitialCapital) / result.InitialCapital * 100
	}

	if grossLoss != 0 {
		analysis.ProfitFactor = dto.DefinedRatio(grossWin / math.Abs(grossLoss))
	} else {
		analysis.ProfitFactor = dto.UndefinedRatio(dto.ReasonNoLosses)
	}

	analysis.HourlyPerformance = hourlyPerformance(byHour)
	return analysis
}

func hourlyPerformance(byHour map[int][]float64) []dto.HourlyPerformance {
	out := make([]dto.HourlyPerformance, 0, len(byHour))
	for hour, profits := range byHour {
		out = append(out, dto.HourlyPerformance{
			Hour:       hour,
			MeanProfit: analytics.Mean(profits),
			Count:      len(profits),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Hour < out[j].Hour
	})
	return out
}
