package analytics

import (
	"math"

	"golang-p2p-risk/internal/dto"
)

// Annualize scales per-period returns by the trading-day count.
func Annualize(returns []float64, tradingDays int) []float64 {
	out := make([]float64, len(returns))
	for i, r := range returns {
		out[i] = r * float64(tradingDays)
	}
	return out
}

// SharpeRatio of an annualised series: (mean - riskFree) / std.
func SharpeRatio(annual []float64, riskFree float64) float64 {
	mean, std := PopMeanStd(annual)
	if std == 0 {
		return 0
	}
	return finiteOrZero((mean - riskFree) / std)
}

// SortinoRatio of an annualised series: mean over the deviation of the
// negative observations only.
func SortinoRatio(annual []float64) float64 {
	var negatives []float64
	for _, r := range annual {
		if r < 0 {
			negatives = append(negatives, r)
		}
	}
	if len(negatives) == 0 {
		return 0
	}
	_, downside := PopMeanStd(negatives)
	return safeDiv(Mean(annual), downside)
}

// CalmarRatio is annualMean / |maxDrawdown|.
func CalmarRatio(annualMean, maxDrawdown float64) float64 {
	return safeDiv(annualMean, math.Abs(maxDrawdown))
}

// OmegaRatio divides the sum of returns above zero by the absolute sum of the
// rest. Without losses the ratio is undefined.
func OmegaRatio(returns []float64) dto.Ratio {
	var gains, losses float64
	for _, r := range returns {
		if r > 0 {
			gains += r
		} else {
			losses += r
		}
	}
	losses = math.Abs(losses)
	if losses == 0 {
		return dto.UndefinedRatio(dto.ReasonNoLosses)
	}
	return dto.DefinedRatio(gains / losses)
}

// InformationRatio of per-period returns against the per-period risk free rate.
func InformationRatio(returns []float64, riskFree float64, tradingDays int) float64 {
	daily := riskFree / float64(tradingDays)
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - daily
	}
	mean, std := PopMeanStd(excess)
	return safeDiv(mean, std)
}

// TailRatio is |p95 / p5|.
func TailRatio(returns []float64) float64 {
	p := Percentiles(returns, 95, 5)
	return math.Abs(safeDiv(p[0], p[1]))
}

// MartinRatio is the mean return per unit of Ulcer index.
func MartinRatio(returns []float64, ulcer float64) float64 {
	if ulcer <= 0 {
		return 0
	}
	return finiteOrZero(Mean(returns) / ulcer)
}
