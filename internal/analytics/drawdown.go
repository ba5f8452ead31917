package analytics

import (
	"math"

	"golang-p2p-risk/internal/dto"
)

// EquityPath compounds returns into a cumulative product path starting from
// the first period (1+r0, (1+r0)(1+r1), ...).
func EquityPath(returns []float64) []float64 {
	path := make([]float64, len(returns))
	equity := 1.0
	for i, r := range returns {
		equity *= 1 + r
		path[i] = equity
	}
	return path
}

// Drawdowns returns (equity - runningMax)/runningMax for every period of the
// compounded path. Values are never positive.
func Drawdowns(returns []float64) []float64 {
	path := EquityPath(returns)
	dd := make([]float64, len(path))
	peak := math.Inf(-1)
	for i, v := range path {
		peak = math.Max(peak, v)
		if peak <= 0 {
			dd[i] = -1
			continue
		}
		dd[i] = math.Min(0, (v-peak)/peak)
	}
	return dd
}

// DrawdownStatistics summarises Drawdowns: the deepest value, the longest run
// of consecutive below-peak periods, the mean of negative drawdowns and the
// share of periods spent below a peak.
func DrawdownStatistics(returns []float64) dto.DrawdownStats {
	dd := Drawdowns(returns)
	if len(dd) == 0 {
		return dto.DrawdownStats{}
	}

	var stats dto.DrawdownStats
	var run, negatives int
	var negSum float64
	for _, d := range dd {
		stats.MaxDrawdown = math.Min(stats.MaxDrawdown, d)
		if d < 0 {
			run++
			negatives++
			negSum += d
			if run > stats.MaxDuration {
				stats.MaxDuration = run
			}
			continue
		}
		run = 0
	}
	if negatives > 0 {
		stats.AvgDrawdown = negSum / float64(negatives)
	}
	stats.Frequency = float64(negatives) / float64(len(dd))
	return stats
}

// UlcerIndex is the root mean square of drawdowns expressed in percent.
func UlcerIndex(returns []float64) float64 {
	dd := Drawdowns(returns)
	if len(dd) == 0 {
		return 0
	}
	var sumSq float64
	for _, d := range dd {
		pct := d * 100
		sumSq += pct * pct
	}
	return math.Sqrt(sumSq / float64(len(dd)))
}

// ProfitDrawdownPct is the deepest drawdown, in percent, of a cumulative
// profit curve (not compounded). Periods whose running peak is not positive
// count as no drawdown.
func ProfitDrawdownPct(profits []float64) float64 {
	var cum float64
	peak := math.Inf(-1)
	var maxDD float64
	for _, p := range profits {
		cum += p
		peak = math.Max(peak, cum)
		if peak <= 0 {
			continue
		}
		maxDD = math.Min(maxDD, (cum-peak)/peak*100)
	}
	return maxDD
}
